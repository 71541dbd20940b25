package quotes

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/enums"
	"github.com/quotelane/quotelane-backend/pkg/types"
)

// CreateQuoteInput carries the fields accepted when opening a new quote.
// SalesAssociateID may be omitted; a sales associate creating a quote is
// assigned automatically.
type CreateQuoteInput struct {
	Email            string
	CustomerID       int64
	SalesAssociateID *uuid.UUID
}

// UpdateQuoteInput is a field-level partial update. Nil pointers leave the
// column untouched. Status changes run through the transition rules before
// any write happens.
type UpdateQuoteInput struct {
	Status           *enums.QuoteStatus
	Email            *string
	CustomerID       *int64
	SalesAssociateID *uuid.UUID
	InitialDiscount  *types.Discount
	FinalDiscount    *types.Discount
}

// HasFieldEdits reports whether the update touches anything besides status.
func (in UpdateQuoteInput) HasFieldEdits() bool {
	return in.Email != nil ||
		in.CustomerID != nil ||
		in.SalesAssociateID != nil ||
		in.InitialDiscount != nil ||
		in.FinalDiscount != nil
}

// CreateLineItemInput carries the required fields for a new line item.
type CreateLineItemInput struct {
	Description string
	Price       decimal.Decimal
}

// UpdateLineItemInput is a partial patch; at least one field must be set.
type UpdateLineItemInput struct {
	Description *string
	Price       *decimal.Decimal
}

// NoteInput carries the content for a new or updated confidential note.
type NoteInput struct {
	Content string
}

// ListFilters narrows the quote listing.
type ListFilters struct {
	Status           *enums.QuoteStatus
	SalesAssociateID *uuid.UUID
	CustomerID       *int64
}
