package postgrest

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query builds PostgREST filter and modifier parameters such as
// ?select=*&user_id=eq.42&order=appointment_date.asc.
type Query struct {
	params map[string][]string
}

func NewQuery() *Query {
	return &Query{params: make(map[string][]string)}
}

func (q *Query) add(key, value string) *Query {
	q.params[key] = append(q.params[key], value)
	return q
}

func (q *Query) Select(columns string) *Query {
	return q.add("select", columns)
}

// Eq filters on column = value. The value is escaped when encoded.
func (q *Query) Eq(column, value string) *Query {
	return q.add(column, "eq."+value)
}

// Order appends a sort key.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	if existing, ok := q.params["order"]; ok && len(existing) > 0 {
		existing[0] += "," + column + "." + dir
		return q
	}
	return q.add("order", column+"."+dir)
}

func (q *Query) Limit(n int) *Query {
	return q.add("limit", strconv.Itoa(n))
}

// Encode renders the parameters in key order. Spaces become %20 rather than
// '+', which PostgREST would otherwise keep as a literal plus sign.
func (q *Query) Encode() string {
	if q == nil || len(q.params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q.params))
	for k := range q.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range q.params[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(escape(k))
			b.WriteByte('=')
			b.WriteString(escape(v))
		}
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
