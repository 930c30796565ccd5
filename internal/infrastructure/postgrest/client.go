// Package postgrest talks to a hosted Postgres exposed through a
// PostgREST-style API (table collections under /rest/v1).
package postgrest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinic-booking/config"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const restPrefix = "/rest/v1/"

// Client is safe for concurrent use. Every request carries the project API
// key both as apikey and as bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(cfg config.SupabaseConfig, log *logrus.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Get reads rows of table matching q.
func (c *Client) Get(ctx context.Context, table string, q *Query) ([]json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, table, q, nil, "")
}

// Insert creates one row and returns the stored representation, which
// includes server-generated columns such as id and created_at.
func (c *Client) Insert(ctx context.Context, table string, body interface{}) ([]json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, table, nil, body, "return=representation")
}

// Update patches every row matching q and returns the updated rows.
func (c *Client) Update(ctx context.Context, table string, q *Query, body interface{}) ([]json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, table, q, body, "return=representation")
}

// Delete removes every row matching q and returns the removed rows.
func (c *Client) Delete(ctx context.Context, table string, q *Query) ([]json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, table, q, nil, "return=representation")
}

func (c *Client) do(ctx context.Context, method, table string, q *Query, body interface{}, prefer string) ([]json.RawMessage, error) {
	endpoint := c.baseURL + restPrefix + table
	if q != nil {
		if encoded := q.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, table, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, table, err)
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"table":  table,
		"status": resp.StatusCode,
	}).Debug("postgrest request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(method, table, resp.StatusCode, raw)
	}

	return DecodeArray(raw)
}

// DecodeArray splits a JSON array body into its elements. An empty body
// (204 No Content) yields no rows.
func DecodeArray(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []json.RawMessage{}, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode response array: %w", err)
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows, nil
}
