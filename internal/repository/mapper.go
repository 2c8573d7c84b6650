package repository

import (
	"invoicebook/internal/invoice"
	"invoicebook/internal/model"

	"github.com/google/uuid"
)

// ToModel maps a canonical invoice onto its storage row. An empty or
// malformed id maps to uuid.Nil, which Create replaces with a fresh one.
func ToModel(inv invoice.Invoice) model.Invoice {
	id, err := uuid.Parse(inv.ID)
	if err != nil {
		id = uuid.Nil
	}
	return model.Invoice{
		ID:                id,
		Code:              inv.Code,
		CustomerName:      inv.CustomerName,
		CustomerNameLower: inv.CustomerNameLower,
		IssueDate:         inv.IssueDate,
		Paid:              inv.Paid,
		AmountExcl:        inv.AmountExcl,
		VAT:               inv.VAT,
		Taxe:              inv.Taxe,
		InvoiceURL:        inv.InvoiceURL,
		Quarter:           inv.Quarter,
		Revision:          inv.Revision,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

// FromModel maps a storage row back to the canonical record. Timestamps are
// returned in UTC whatever the driver hands back.
func FromModel(row model.Invoice) invoice.Invoice {
	return invoice.Invoice{
		ID:                row.ID.String(),
		Code:              row.Code,
		CustomerName:      row.CustomerName,
		CustomerNameLower: row.CustomerNameLower,
		IssueDate:         row.IssueDate,
		Paid:              row.Paid,
		AmountExcl:        row.AmountExcl,
		VAT:               row.VAT,
		Taxe:              row.Taxe,
		InvoiceURL:        row.InvoiceURL,
		Quarter:           row.Quarter,
		Revision:          row.Revision,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}
