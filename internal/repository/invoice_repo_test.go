package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoicebook/internal/invoice"
	"invoicebook/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Invoice{}, &model.AuditLog{}))
	return db
}

func newRow(name, date string, createdAt time.Time) model.Invoice {
	return model.Invoice{
		Code:              "INV-" + name,
		CustomerName:      name,
		CustomerNameLower: name,
		IssueDate:         date,
		AmountExcl:        decimal.NewFromInt(100),
		VAT:               decimal.NewFromInt(20),
		Taxe:              decimal.RequireFromString("73.5"),
		Quarter:           invoice.QuarterOf(date),
		Revision:          1,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}

func TestInvoiceRepositoryCreateAssignsID(t *testing.T) {
	repo := NewInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)

	a := newRow("acme", "2025-11-01", base)
	b := newRow("blue", "2025-11-02", base.Add(time.Second))
	require.NoError(t, repo.Create(ctx, &a))
	require.NoError(t, repo.Create(ctx, &b))

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", found.CustomerName)
	assert.True(t, found.Taxe.Equal(decimal.RequireFromString("73.5")))
	assert.True(t, found.CreatedAt.Equal(base))
}

func TestInvoiceRepositoryListNewestFirst(t *testing.T) {
	repo := NewInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)

	// Inserted out of creation order on purpose.
	for _, offset := range []int{2, 0, 1} {
		row := newRow(fmt.Sprintf("c%d", offset), "2025-10-01", base.Add(time.Duration(offset)*time.Minute))
		require.NoError(t, repo.Create(ctx, &row))
	}

	rows, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"c2", "c1", "c0"}, []string{rows[0].CustomerName, rows[1].CustomerName, rows[2].CustomerName})

	rows, err = repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestInvoiceRepositoryUpdate(t *testing.T) {
	repo := NewInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)

	row := newRow("acme", "2025-11-01", base)
	require.NoError(t, repo.Create(ctx, &row))

	row.Paid = true
	row.AmountExcl = decimal.Zero
	row.UpdatedAt = base.Add(time.Hour)
	row.Revision = 2
	require.NoError(t, repo.Update(ctx, &row))

	found, err := repo.FindByID(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, found.Paid)
	assert.True(t, found.AmountExcl.IsZero())
	assert.Equal(t, int64(2), found.Revision)
	assert.True(t, found.UpdatedAt.Equal(base.Add(time.Hour)))
	assert.True(t, found.CreatedAt.Equal(base))
}

func TestInvoiceRepositoryUnknownID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	ghost := newRow("ghost", "2025-11-01", time.Now().UTC())
	ghost.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, &ghost), ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count, "update must not insert")
}

func TestInvoiceRepositoryCountByCodePrefix(t *testing.T) {
	repo := NewInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, code := range []string{"INV-20251101-00001", "INV-20251101-00002", "INV-20251102-00001"} {
		row := newRow("x", "2025-11-01", now)
		row.Code = code
		require.NoError(t, repo.Create(ctx, &row))
	}

	n, err := repo.CountByCodePrefix(ctx, "INV-20251101-")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMapperRoundTrip(t *testing.T) {
	created := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	inv := invoice.Invoice{
		ID:                uuid.NewString(),
		Code:              "INV-1",
		CustomerName:      "Acme",
		CustomerNameLower: "acme",
		IssueDate:         "2025-11-01",
		AmountExcl:        decimal.NewFromInt(1000),
		Quarter:           "Q4 2025",
		Revision:          3,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	assert.Equal(t, inv, FromModel(ToModel(inv)))

	assert.Equal(t, uuid.Nil, ToModel(invoice.Invoice{ID: "not-a-uuid"}).ID)
}

func TestTransactionManagerRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	tx := NewTransactionManager(db)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		row := newRow("acme", "2025-11-01", time.Now().UTC())
		if err := repo.Create(txCtx, &row); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	rows, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTransactionManagerNestedCallsShareOneCommit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	tx := NewTransactionManager(db)
	ctx := context.Background()
	assert.False(t, InTx(ctx))

	err := tx.RunInTx(ctx, func(outer context.Context) error {
		assert.True(t, InTx(outer))
		if err := tx.RunInTx(outer, func(inner context.Context) error {
			row := newRow("acme", "2025-11-01", time.Now().UTC())
			return repo.Create(inner, &row)
		}); err != nil {
			return err
		}
		return fmt.Errorf("abort after inner call")
	})
	require.Error(t, err)

	rows, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, rows, "inner write rolls back with the outer transaction")
}
