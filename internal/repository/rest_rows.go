package repository

import (
	"clinic-booking/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// decodeRows decodes every element of a PostgREST response on its own.
// Elements that do not decode, or that miss a field tagged required, are
// logged and skipped; the well-formed rest is returned. The result is never nil.
func decodeRows[T any](log *logrus.Logger, v *validator.CustomValidator, table string, raw []json.RawMessage) []T {
	rows := make([]T, 0, len(raw))
	for i, element := range raw {
		var row T
		if err := json.Unmarshal(element, &row); err != nil {
			log.WithField("table", table).Warnf("Skipping malformed row %d: %+v", i, err)
			continue
		}
		if err := v.Validate(&row); err != nil {
			log.WithField("table", table).Warnf("Skipping incomplete row %d: %+v", i, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// firstRow returns the first well-formed row, or nil.
func firstRow[T any](log *logrus.Logger, v *validator.CustomValidator, table string, raw []json.RawMessage) *T {
	rows := decodeRows[T](log, v, table, raw)
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

