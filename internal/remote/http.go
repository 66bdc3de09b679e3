package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/model"
)

const (
	DefaultTimeout        = 60 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultTLSTimeout     = 5 * time.Second
)

// Config identifies the remote store.
type Config struct {
	// Endpoint is the URL of the scripted web app.
	Endpoint string
	// SpreadsheetID names the store behind the endpoint.
	SpreadsheetID string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// HTTPTransport implements Transport over plain HTTP.
//
// Thread-safety: safe for concurrent use; it holds only configuration and
// an *http.Client.
type HTTPTransport struct {
	endpoint      string
	spreadsheetID string
	client        *http.Client
	logger        *slog.Logger
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default client (used by tests).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

// WithLogger sets the logger used for push diagnostics.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(t *HTTPTransport) {
		t.logger = l
	}
}

// NewHTTPTransport validates cfg and builds a transport.
// Returns ErrNotConfigured when the endpoint or spreadsheet id is empty.
func NewHTTPTransport(cfg Config, opts ...HTTPOption) (*HTTPTransport, error) {
	if cfg.Endpoint == "" || cfg.SpreadsheetID == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("remote endpoint: %w", err)
	}

	t := &HTTPTransport{
		endpoint:      cfg.Endpoint,
		spreadsheetID: cfg.SpreadsheetID,
		client:        defaultClient(cfg.Timeout),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func defaultClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := &net.Dialer{
		Timeout: defaultConnectTimeout,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultTLSTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// pushRequest is the body the endpoint expects for a table write.
type pushRequest struct {
	SpreadsheetID string     `json:"spreadsheetId"`
	SheetName     string     `json:"sheetName"`
	Values        [][]string `json:"values"`
}

// Push writes one table. The response is drained and discarded unread:
// the endpoint does not offer a readable confirmation, so neither the
// status nor the body is interpreted.
func (t *HTTPTransport) Push(ctx context.Context, table codec.Table) {
	body, err := json.Marshal(pushRequest{
		SpreadsheetID: t.spreadsheetID,
		SheetName:     table.Name,
		Values:        table.Values(),
	})
	if err != nil {
		t.logger.Warn("push not sent: encode failed", "sheet", table.Name, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		t.logger.Warn("push not sent: bad request", "sheet", table.Name, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("push may have failed; data is still saved locally",
			"sheet", table.Name,
			"rows", len(table.Rows),
			"error", err,
		)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	t.logger.Debug("push dispatched", "sheet", table.Name, "rows", len(table.Rows))
}

// fetchResponse mirrors the endpoint's read payload. Tables are kept raw
// and read row by row, so one unreadable row cannot fail the fetch.
// Missing tables are treated as empty collections.
type fetchResponse struct {
	Orders    json.RawMessage `json:"orders"`
	Customers json.RawMessage `json:"customers"`
	Expenses  json.RawMessage `json:"expenses"`
}

// FetchAll reads every table and decodes it. Malformed rows are dropped
// and logged; they never fail the fetch.
func (t *HTTPTransport) FetchAll(ctx context.Context) (model.Collections, error) {
	u, err := url.Parse(t.endpoint)
	if err != nil {
		return model.Collections{}, fmt.Errorf("fetch: %w", err)
	}
	q := u.Query()
	q.Set("action", "fetch")
	q.Set("spreadsheetId", t.spreadsheetID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Collections{}, fmt.Errorf("fetch: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return model.Collections{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.Collections{}, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var payload fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.Collections{}, fmt.Errorf("fetch: decode response: %w", err)
	}

	return t.decode(payload), nil
}

func (t *HTTPTransport) decode(p fetchResponse) model.Collections {
	orders := codec.SplitValues(model.CollectionOrders, t.tableValues(model.CollectionOrders, p.Orders))
	customers := codec.SplitValues(model.CollectionCustomers, t.tableValues(model.CollectionCustomers, p.Customers))
	expenses := codec.SplitValues(model.CollectionExpenses, t.tableValues(model.CollectionExpenses, p.Expenses))

	var out model.Collections
	var skipped []int

	out.Orders, skipped = codec.DecodeOrders(orders.Header, orders.Rows)
	t.logSkipped(orders.Name, skipped)
	out.Customers, skipped = codec.DecodeCustomers(customers.Header, customers.Rows)
	t.logSkipped(customers.Name, skipped)
	out.Expenses, skipped = codec.DecodeExpenses(expenses.Header, expenses.Rows)
	t.logSkipped(expenses.Name, skipped)

	t.logger.Debug("fetched remote tables",
		"orders", len(out.Orders),
		"customers", len(out.Customers),
		"expenses", len(out.Expenses),
	)
	return out
}

func (t *HTTPTransport) logSkipped(sheet string, skipped []int) {
	if len(skipped) == 0 {
		return
	}
	t.logger.Warn("skipped malformed rows", "sheet", sheet, "count", len(skipped), "rows", skipped)
}
