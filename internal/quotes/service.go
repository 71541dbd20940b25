package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
)

// Service defines quote-level operations: lifecycle, field edits, and the
// owned line item and note collections. Mutations on owned collections
// return the refreshed collection so callers read their own writes.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateQuoteInput) (*models.Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, filters ListFilters) ([]models.Quote, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateQuoteInput) (*models.Quote, error)

	AddLineItem(ctx context.Context, actor Actor, quoteID uuid.UUID, input CreateLineItemInput) ([]models.LineItem, error)
	UpdateLineItem(ctx context.Context, actor Actor, quoteID, itemID uuid.UUID, input UpdateLineItemInput) ([]models.LineItem, error)
	DeleteLineItem(ctx context.Context, actor Actor, quoteID, itemID uuid.UUID) ([]models.LineItem, error)

	AddNote(ctx context.Context, actor Actor, quoteID uuid.UUID, input NoteInput) ([]models.ConfidentialNote, error)
	UpdateNote(ctx context.Context, actor Actor, quoteID, noteID uuid.UUID, input NoteInput) ([]models.ConfidentialNote, error)
	DeleteNote(ctx context.Context, actor Actor, quoteID, noteID uuid.UUID) ([]models.ConfidentialNote, error)
}

type service struct {
	repo      Repository
	employees EmployeeDirectory
	notifier  SanctionNotifier
	logg      *logger.Logger
}

// NewService builds a quote service with the required collaborators.
func NewService(repo Repository, employees EmployeeDirectory, notifier SanctionNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if employees == nil {
		return nil, fmt.Errorf("employee directory required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("sanction notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		employees: employees,
		notifier:  notifier,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateQuoteInput) (*models.Quote, error) {
	if !actor.Roles.CanCreateQuotes() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "creating quotes requires the sales associate role")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if input.CustomerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	associateID, err := s.resolveAssociate(ctx, actor, input.SalesAssociateID)
	if err != nil {
		return nil, err
	}

	quote := &models.Quote{
		Email:            strings.TrimSpace(input.Email),
		CustomerID:       input.CustomerID,
		Status:           enums.QuoteStatusDraft,
		SalesAssociateID: associateID,
	}
	created, err := s.repo.CreateQuote(ctx, quote)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}
	return s.reload(ctx, created.ID)
}

// resolveAssociate applies the assignment rules: a sales associate creating
// without an explicit id is assigned themselves, an admin creating without
// one leaves the quote unassigned, and only admins may assign someone else.
func (s *service) resolveAssociate(ctx context.Context, actor Actor, requested *uuid.UUID) (*uuid.UUID, error) {
	if requested == nil {
		if actor.Roles.SalesAssociate {
			id := actor.EmployeeID
			return &id, nil
		}
		return nil, nil
	}
	if *requested != actor.EmployeeID && !actor.Roles.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may assign quotes to other associates")
	}
	exists, err := s.employees.Exists(ctx, *requested)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sales associate")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales associate does not exist")
	}
	id := *requested
	return &id, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	return s.reload(ctx, id)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Quote, error) {
	quotes, err := s.repo.ListQuotes(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	return quotes, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateQuoteInput) (*models.Quote, error) {
	if input.Status == nil && !input.HasFieldEdits() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable field supplied")
	}

	quote, err := s.loadQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	var decision Decision

	if input.HasFieldEdits() {
		if err := AuthorizeEdit(quote, actor); err != nil {
			return nil, err
		}
		if err := s.collectFieldEdits(ctx, actor, input, updates); err != nil {
			return nil, err
		}
	}

	if input.Status != nil {
		decision, err = AuthorizeTransition(quote, *input.Status, actor)
		if err != nil {
			return nil, err
		}
		if !decision.NoOp {
			updates["status"] = *input.Status
		}
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateQuote(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote")
		}
	}

	refreshed, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}

	if decision.NotifySanctioned {
		s.notifySanctioned(ctx, refreshed)
	}
	return refreshed, nil
}

func (s *service) collectFieldEdits(ctx context.Context, actor Actor, input UpdateQuoteInput, updates map[string]any) error {
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		updates["email"] = email
	}
	if input.CustomerID != nil {
		if *input.CustomerID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer id must be positive")
		}
		updates["customer_id"] = *input.CustomerID
	}
	if input.SalesAssociateID != nil {
		resolved, err := s.resolveAssociate(ctx, actor, input.SalesAssociateID)
		if err != nil {
			return err
		}
		updates["sales_associate_id"] = resolved
	}
	if input.InitialDiscount != nil {
		if !input.InitialDiscount.Valid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "initial discount is invalid")
		}
		updates["initial_discount_value"] = input.InitialDiscount.Value
		updates["initial_discount_type"] = input.InitialDiscount.Type
	}
	if input.FinalDiscount != nil {
		if !input.FinalDiscount.Valid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "final discount is invalid")
		}
		updates["final_discount_value"] = input.FinalDiscount.Value
		updates["final_discount_type"] = input.FinalDiscount.Type
	}
	return nil
}

// notifySanctioned fires the customer notification. Delivery failure is
// logged and swallowed; the transition has already been persisted and must
// not be rolled back.
func (s *service) notifySanctioned(ctx context.Context, quote *models.Quote) {
	if err := s.notifier.QuoteSanctioned(ctx, quote); err != nil {
		lctx := s.logg.WithQuoteID(ctx, quote.ID.String())
		s.logg.Error(lctx, "sanction notification failed", err)
	}
}

func (s *service) AddLineItem(ctx context.Context, actor Actor, quoteID uuid.UUID, input CreateLineItemInput) ([]models.LineItem, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(quote, actor); err != nil {
		return nil, err
	}

	item := &models.LineItem{
		QuoteID:     quoteID,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
	}
	if _, err := s.repo.CreateLineItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item")
	}
	return s.lineItems(ctx, quoteID)
}

func (s *service) UpdateLineItem(ctx context.Context, actor Actor, quoteID, itemID uuid.UUID, input UpdateLineItemInput) ([]models.LineItem, error) {
	if input.Description == nil && input.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable field supplied")
	}

	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(quote, actor); err != nil {
		return nil, err
	}

	item, err := s.loadLineItem(ctx, quoteID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		if desc == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
		}
		updates["description"] = desc
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}

	if err := s.repo.UpdateLineItem(ctx, item.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item")
	}
	return s.lineItems(ctx, quoteID)
}

func (s *service) DeleteLineItem(ctx context.Context, actor Actor, quoteID, itemID uuid.UUID) ([]models.LineItem, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(quote, actor); err != nil {
		return nil, err
	}
	if _, err := s.loadLineItem(ctx, quoteID, itemID); err != nil {
		return nil, err
	}

	if err := s.repo.DeleteLineItem(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line item")
	}
	return s.lineItems(ctx, quoteID)
}

func (s *service) AddNote(ctx context.Context, actor Actor, quoteID uuid.UUID, input NoteInput) ([]models.ConfidentialNote, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(quote, actor); err != nil {
		return nil, err
	}

	note := &models.ConfidentialNote{
		QuoteID: quoteID,
		Content: strings.TrimSpace(input.Content),
	}
	if _, err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create note")
	}
	return s.notes(ctx, quoteID)
}

func (s *service) UpdateNote(ctx context.Context, actor Actor, quoteID, noteID uuid.UUID, input NoteInput) ([]models.ConfidentialNote, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(quote, actor); err != nil {
		return nil, err
	}
	note, err := s.loadNote(ctx, quoteID, noteID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"content": strings.TrimSpace(input.Content)}
	if err := s.repo.UpdateNote(ctx, note.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update note")
	}
	return s.notes(ctx, quoteID)
}

func (s *service) DeleteNote(ctx context.Context, actor Actor, quoteID, noteID uuid.UUID) ([]models.ConfidentialNote, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(quote, actor); err != nil {
		return nil, err
	}
	if _, err := s.loadNote(ctx, quoteID, noteID); err != nil {
		return nil, err
	}

	if err := s.repo.DeleteNote(ctx, noteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete note")
	}
	return s.notes(ctx, quoteID)
}

func (s *service) loadQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindQuoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	return s.loadQuote(ctx, id)
}

func (s *service) loadLineItem(ctx context.Context, quoteID, itemID uuid.UUID) (*models.LineItem, error) {
	item, err := s.repo.FindLineItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
	}
	if item.QuoteID != quoteID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	return item, nil
}

func (s *service) loadNote(ctx context.Context, quoteID, noteID uuid.UUID) (*models.ConfidentialNote, error) {
	note, err := s.repo.FindNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load note")
	}
	if note.QuoteID != quoteID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
	}
	return note, nil
}

func (s *service) lineItems(ctx context.Context, quoteID uuid.UUID) ([]models.LineItem, error) {
	items, err := s.repo.FindLineItemsByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload line items")
	}
	return items, nil
}

func (s *service) notes(ctx context.Context, quoteID uuid.UUID) ([]models.ConfidentialNote, error) {
	notes, err := s.repo.FindNotesByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload notes")
	}
	return notes, nil
}
