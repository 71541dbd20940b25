package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/pkg/db/models"
)

// Repository defines persistence operations for quotes and their owned
// collections. FindByID loads line items in insertion order and notes
// newest-first.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindQuoteByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	ListQuotes(ctx context.Context, filters ListFilters) ([]models.Quote, error)
	UpdateQuote(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountQuotesBySalesAssociate(ctx context.Context, employeeID uuid.UUID) (int64, error)

	CreateLineItem(ctx context.Context, item *models.LineItem) (*models.LineItem, error)
	FindLineItem(ctx context.Context, id uuid.UUID) (*models.LineItem, error)
	FindLineItemsByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.LineItem, error)
	UpdateLineItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteLineItem(ctx context.Context, id uuid.UUID) error

	CreateNote(ctx context.Context, note *models.ConfidentialNote) (*models.ConfidentialNote, error)
	FindNote(ctx context.Context, id uuid.UUID) (*models.ConfidentialNote, error)
	FindNotesByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.ConfidentialNote, error)
	UpdateNote(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
}

// EmployeeDirectory is the slice of the employee domain the quote service
// needs for referential checks on sales_associate_id.
type EmployeeDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SanctionNotifier receives the customer notification side effect fired when
// a quote moves into SanctionedQuote. Failures are logged and swallowed by
// the caller; they never roll back the transition.
type SanctionNotifier interface {
	QuoteSanctioned(ctx context.Context, quote *models.Quote) error
}
