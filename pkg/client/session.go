package client

import (
	"context"
	"errors"
	"time"

	"invoicebook/internal/invoice"
)

// Session keeps the rows one CLI invocation works on. Failed calls leave Rows
// untouched and set Banner. Not safe for concurrent use.
type Session struct {
	client *Client
	Rows   []invoice.Invoice
	Banner string
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Reload replaces Rows with the server's listing for q.
func (s *Session) Reload(ctx context.Context, q string) error {
	rows, err := s.client.List(ctx, q)
	if err != nil {
		return s.fail(err)
	}
	s.Rows = rows
	s.Banner = ""
	return nil
}

// Create stores raw and puts the result at the front of Rows.
func (s *Session) Create(ctx context.Context, raw map[string]any) (invoice.Invoice, error) {
	created, err := s.client.Create(ctx, raw)
	if err != nil {
		return invoice.Invoice{}, s.fail(err)
	}
	s.Rows = append([]invoice.Invoice{created}, s.Rows...)
	s.Banner = ""
	return created, nil
}

// Update applies changes to id and swaps the stored record into Rows.
func (s *Session) Update(ctx context.Context, id string, changes map[string]any, revision int64) (invoice.Invoice, error) {
	updated, err := s.client.Update(ctx, id, changes, revision)
	if err != nil {
		return invoice.Invoice{}, s.fail(err)
	}
	replaced := false
	for i := range s.Rows {
		if s.Rows[i].ID == updated.ID {
			s.Rows[i] = updated
			replaced = true
		}
	}
	if !replaced {
		s.Rows = append([]invoice.Invoice{updated}, s.Rows...)
	}
	s.Banner = ""
	return updated, nil
}

func (s *Session) View(q string, sort invoice.Sort) invoice.Result {
	return invoice.View(s.Rows, q, sort)
}

func (s *Session) Dashboard(q string, sort invoice.Sort, now time.Time) invoice.Result {
	return invoice.DashboardView(s.Rows, q, sort, now)
}

func (s *Session) fail(err error) error {
	var nerr *NetworkError
	if errors.As(err, &nerr) && nerr.Message != "" {
		s.Banner = nerr.Message
	} else {
		s.Banner = err.Error()
	}
	return err
}
