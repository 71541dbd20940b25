package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfidentialNote is an internal-only annotation on a quote. It never
// appears in customer-facing payloads.
type ConfidentialNote struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID   uuid.UUID `gorm:"column:quote_id;type:uuid;not null" json:"quote_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
