package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the stored form of a canonical invoice. Quarter and
// CustomerNameLower are written by the service on every save.
type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code              string          `gorm:"type:varchar(64);index" json:"code"` // display label, not unique
	CustomerName      string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerNameLower string          `gorm:"type:varchar(255);not null;index" json:"customer_name_lower"`
	IssueDate         string          `gorm:"type:varchar(10);not null;index" json:"issue_date"` // YYYY-MM-DD
	Paid              bool            `gorm:"not null;default:false" json:"paid"`
	AmountExcl        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_excl"`
	VAT               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"vat"`
	Taxe              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"taxe"`
	InvoiceURL        string          `gorm:"type:text" json:"invoice_url"`
	Quarter           string          `gorm:"type:varchar(10);not null" json:"quarter"`
	Revision          int64           `gorm:"not null;default:1" json:"revision"`
	CreatedAt         time.Time       `gorm:"autoCreateTime:false;index" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// BeforeCreate assigns the primary key so every dialect gets the same ids.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
