package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"invoicebook/internal/invoice"
	"invoicebook/internal/model"
	"invoicebook/internal/repository"

	"github.com/google/uuid"
	"github.com/shockerli/cvt"
)

// Change events published after a successful write.
const (
	EventInvoiceCreated = "invoice.created"
	EventInvoiceUpdated = "invoice.updated"
)

// Notifier receives every written invoice. Publish must not block.
type Notifier interface {
	Publish(eventType string, inv invoice.Invoice)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, invoice.Invoice) {}

// --- DTOs ---

// ViewRequest selects the rows, order and totals of a computed view.
type ViewRequest struct {
	Query     string
	SortField string
	Direction string
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, raw map[string]any) (invoice.Invoice, error)
	ListInvoices(ctx context.Context, query string) ([]invoice.Invoice, error)
	GetInvoice(ctx context.Context, id string) (invoice.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, raw map[string]any) (invoice.Invoice, error)
	ViewInvoices(ctx context.Context, req ViewRequest) (invoice.Result, error)
	Dashboard(ctx context.Context, req ViewRequest) (invoice.Result, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	notifier    Notifier
	listLimit   int
	now         func() time.Time
}

// Option customises an InvoiceService.
type Option func(*invoiceService)

// WithClock replaces the wall clock used for timestamps and the dashboard.
func WithClock(now func() time.Time) Option {
	return func(s *invoiceService) { s.now = now }
}

// WithListLimit caps the rows read per listing.
func WithListLimit(limit int) Option {
	return func(s *invoiceService) { s.listLimit = limit }
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
	opts ...Option,
) InvoiceService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	s := &invoiceService{
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		notifier:    notifier,
		listLimit:   repository.MaxListLimit,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, raw map[string]any) (invoice.Invoice, error) {
	now := s.now()
	inv, err := invoice.Normalize(raw, now)
	if err != nil {
		return invoice.Invoice{}, err
	}

	row := repository.ToModel(inv)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if row.Code == "" {
			code, err := s.generateCode(txCtx, now)
			if err != nil {
				return persistence("generate invoice code", err)
			}
			row.Code = code
		}
		if err := s.invoiceRepo.Create(txCtx, &row); err != nil {
			return persistence("create invoice", err)
		}
		return s.audit(txCtx, model.ActionCreateInvoice, row, inv.Fields())
	})
	if err != nil {
		return invoice.Invoice{}, err
	}

	created := repository.FromModel(row)
	s.notifier.Publish(EventInvoiceCreated, created)
	return created, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, query string) ([]invoice.Invoice, error) {
	rows, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return invoice.Filter(rows, query), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (invoice.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	row, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return invoice.Invoice{}, lookupError(id, err)
	}
	return repository.FromModel(*row), nil
}

// UpdateInvoice replaces the allow-listed fields present in raw and
// re-derives everything else. A "revision" in raw must match the stored one.
func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, raw map[string]any) (invoice.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}

	expected, hasRevision, err := revisionOf(raw)
	if err != nil {
		return invoice.Invoice{}, err
	}

	changes := allowListed(raw)
	var updated invoice.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return lookupError(id, err)
		}
		if hasRevision && expected != row.Revision {
			return &ConflictError{ID: id, Expected: expected, Actual: row.Revision}
		}

		current := repository.FromModel(*row)
		now := s.now()
		next, err := invoice.Normalize(mergeFields(current, changes), now)
		if err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.Revision = current.Revision + 1

		stored := repository.ToModel(next)
		if err := s.invoiceRepo.Update(txCtx, &stored); err != nil {
			return lookupError(id, err)
		}
		updated = next
		return s.audit(txCtx, model.ActionUpdateInvoice, stored, changes)
	})
	if err != nil {
		return invoice.Invoice{}, err
	}

	s.notifier.Publish(EventInvoiceUpdated, updated)
	return updated, nil
}

func (s *invoiceService) ViewInvoices(ctx context.Context, req ViewRequest) (invoice.Result, error) {
	sort, err := invoice.ParseSort(req.SortField, req.Direction)
	if err != nil {
		return invoice.Result{}, err
	}
	rows, err := s.list(ctx)
	if err != nil {
		return invoice.Result{}, err
	}
	return invoice.View(rows, req.Query, sort), nil
}

func (s *invoiceService) Dashboard(ctx context.Context, req ViewRequest) (invoice.Result, error) {
	sort, err := invoice.ParseSort(req.SortField, req.Direction)
	if err != nil {
		return invoice.Result{}, err
	}
	rows, err := s.list(ctx)
	if err != nil {
		return invoice.Result{}, err
	}
	return invoice.DashboardView(rows, req.Query, sort, s.now()), nil
}

// --- Helpers ---

func (s *invoiceService) list(ctx context.Context) ([]invoice.Invoice, error) {
	rows, err := s.invoiceRepo.List(ctx, s.listLimit)
	if err != nil {
		return nil, persistence("list invoices", err)
	}
	out := make([]invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.FromModel(row))
	}
	return out, nil
}

func lookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	return persistence("load invoice "+id, err)
}

// generateCode numbers invoices per creation day: INV-20251101-00003. Codes are
// labels; two concurrent creations may share one.
func (s *invoiceService) generateCode(ctx context.Context, now time.Time) (string, error) {
	prefix := "INV-" + now.Format("20060102") + "-"

	count, err := s.invoiceRepo.CountByCodePrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *invoiceService) audit(ctx context.Context, action string, row model.Invoice, fields map[string]any) error {
	details, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   row.ID.String(),
		EntityName: row.Code,
		Details:    string(details),
		CreatedAt:  row.UpdatedAt,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return persistence("write audit log", err)
	}
	return nil
}

var rateKeys = []string{"dailyRate", "tjm", "days", "numDays"}

func allowListed(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for _, key := range invoice.Writable {
		if v, ok := raw[key]; ok {
			out[key] = v
		}
	}
	return out
}

// mergeFields lays changes over the stored record. When a daily rate is part
// of the change, stored amounts are dropped so the rate can derive them.
func mergeFields(current invoice.Invoice, changes map[string]any) map[string]any {
	merged := current.Fields()
	for _, key := range rateKeys {
		if _, ok := changes[key]; ok {
			delete(merged, "amountExcl")
			delete(merged, "vat")
			delete(merged, "taxe")
			break
		}
	}
	for k, v := range changes {
		merged[k] = v
	}
	return merged
}

func revisionOf(raw map[string]any) (int64, bool, error) {
	v, ok := raw["revision"]
	if !ok || v == nil {
		return 0, false, nil
	}
	rev, err := cvt.Int64E(v)
	if err != nil || rev < 1 {
		return 0, false, &invoice.ValidationError{Field: "revision", Reason: "must be a positive integer"}
	}
	return rev, true, nil
}
