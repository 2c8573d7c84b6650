package service

import (
	"context"
	"time"

	"invoicebook/internal/model"
	"invoicebook/internal/repository"

	"github.com/google/uuid"
)

// historyLimit bounds the entries returned for one invoice.
const historyLimit = 100

type AuditLogResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]AuditLogResponse, int64, error)
	InvoiceHistory(ctx context.Context, invoiceID string) ([]AuditLogResponse, error)
}

type auditService struct {
	auditRepo   repository.AuditRepository
	invoiceRepo repository.InvoiceRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository, invoiceRepo repository.InvoiceRepository) AuditService {
	return &auditService{auditRepo: auditRepo, invoiceRepo: invoiceRepo}
}

// GetAuditLogs returns one page of invoice write history, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, persistence("list audit logs", err)
	}
	return toAuditResponses(logs), total, nil
}

// InvoiceHistory lists the writes of one invoice, newest first.
func (s *auditService) InvoiceHistory(ctx context.Context, invoiceID string) ([]AuditLogResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, lookupError(invoiceID, repository.ErrNotFound)
	}
	if _, err := s.invoiceRepo.FindByID(ctx, id); err != nil {
		return nil, lookupError(invoiceID, err)
	}

	logs, _, err := s.auditRepo.List(ctx, repository.AuditFilter{InvoiceID: id.String()}, 1, historyLimit)
	if err != nil {
		return nil, persistence("list invoice history", err)
	}
	return toAuditResponses(logs), nil
}

func toAuditResponses(logs []model.AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return res
}
