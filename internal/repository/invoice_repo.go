package repository

import (
	"context"
	"errors"

	"invoicebook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("record not found")

// MaxListLimit bounds the size of a single listing.
const MaxListLimit = 200

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, limit int) ([]model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	CountByCodePrefix(ctx context.Context, prefix string) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// List returns the most recently created invoices first, at most limit rows.
func (r *invoiceRepository) List(ctx context.Context, limit int) ([]model.Invoice, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).Order("created_at desc").Limit(limit).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Update overwrites every column except the id and creation time. It never
// inserts: an unknown id yields ErrNotFound.
func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	res := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ?", invoice.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(invoice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).Where("code LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
