package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee holds staff accounts. Role flags are independent booleans; an
// employee may hold several at once, and is_admin substitutes for every
// other role during authorization.
type Employee struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                  string          `gorm:"column:name;not null" json:"name"`
	Email                 string          `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash          string          `gorm:"column:password_hash;not null" json:"-"`
	Address               *string         `gorm:"column:address" json:"address,omitempty"`
	AccumulatedCommission decimal.Decimal `gorm:"column:accumulated_commission;type:numeric(12,2);not null;default:0" json:"accumulated_commission"`
	IsSalesAssociate      bool            `gorm:"column:is_sales_associate;not null;default:false" json:"is_sales_associate"`
	IsQuoteManager        bool            `gorm:"column:is_quote_manager;not null;default:false" json:"is_quote_manager"`
	IsPurchaseManager     bool            `gorm:"column:is_purchase_manager;not null;default:false" json:"is_purchase_manager"`
	IsAdmin               bool            `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
