// Package client talks to the invoice API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"invoicebook/internal/invoice"
)

const DefaultBaseURL = "http://localhost:8080"

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL, DefaultBaseURL when empty.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches up to 200 invoices, newest first, filtered by q.
func (c *Client) List(ctx context.Context, q string) ([]invoice.Invoice, error) {
	path := "/invoices"
	if q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	var rows []invoice.Invoice
	if err := c.do(ctx, "list invoices", http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	var inv invoice.Invoice
	err := c.do(ctx, "get invoice", http.MethodGet, "/invoices/"+url.PathEscape(id), nil, &inv)
	return inv, err
}

// Create posts raw as a new invoice and returns the stored record.
func (c *Client) Create(ctx context.Context, raw map[string]any) (invoice.Invoice, error) {
	var inv invoice.Invoice
	err := c.do(ctx, "create invoice", http.MethodPost, "/invoices", raw, &inv)
	return inv, err
}

// Update sends the writable keys of changes, plus revision when positive.
func (c *Client) Update(ctx context.Context, id string, changes map[string]any, revision int64) (invoice.Invoice, error) {
	body := make(map[string]any, len(changes)+1)
	for _, key := range invoice.Writable {
		if v, ok := changes[key]; ok {
			body[key] = v
		}
	}
	if revision > 0 {
		body["revision"] = revision
	}

	var inv invoice.Invoice
	err := c.do(ctx, "update invoice", http.MethodPut, "/invoices/"+url.PathEscape(id), body, &inv)
	return inv, err
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(payload, &envelope)
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}
