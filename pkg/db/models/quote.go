package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/enums"
	"github.com/quotelane/quotelane-backend/pkg/types"
)

// Quote is the central sellable proposal moving through the lifecycle.
// Discounts are stored as value/type column pairs; a row with neither set
// carries no discount at that stage.
type Quote struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email                string              `gorm:"column:email;not null" json:"email"`
	CustomerID           int64               `gorm:"column:customer_id;not null" json:"customer_id"`
	Status               enums.QuoteStatus   `gorm:"column:status;type:text;not null;default:'DraftQuote'" json:"status"`
	SalesAssociateID     *uuid.UUID          `gorm:"column:sales_associate_id;type:uuid" json:"sales_associate_id"`
	InitialDiscountValue *decimal.Decimal    `gorm:"column:initial_discount_value;type:numeric(10,2)" json:"initial_discount_value,omitempty"`
	InitialDiscountType  *enums.DiscountType `gorm:"column:initial_discount_type;type:text" json:"initial_discount_type,omitempty"`
	FinalDiscountValue   *decimal.Decimal    `gorm:"column:final_discount_value;type:numeric(10,2)" json:"final_discount_value,omitempty"`
	FinalDiscountType    *enums.DiscountType `gorm:"column:final_discount_type;type:text" json:"final_discount_type,omitempty"`
	CommissionRate       *decimal.Decimal    `gorm:"column:commission_rate;type:numeric(6,4)" json:"commission_rate,omitempty"`
	ProcessDate          *time.Time          `gorm:"column:process_date" json:"process_date,omitempty"`
	DateCreated          time.Time           `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	LineItems         []LineItem         `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"line_items"`
	ConfidentialNotes []ConfidentialNote `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"confidential_notes"`
}

// InitialDiscount assembles the pre-finalization discount pair, or nil.
func (q *Quote) InitialDiscount() *types.Discount {
	return buildDiscount(q.InitialDiscountValue, q.InitialDiscountType)
}

// FinalDiscount assembles the sanctioning-stage discount pair, or nil.
func (q *Quote) FinalDiscount() *types.Discount {
	return buildDiscount(q.FinalDiscountValue, q.FinalDiscountType)
}

func buildDiscount(value *decimal.Decimal, kind *enums.DiscountType) *types.Discount {
	if value == nil || kind == nil {
		return nil
	}
	return &types.Discount{Value: *value, Type: *kind}
}
