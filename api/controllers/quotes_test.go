package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/api/middleware"
	"github.com/quotelane/quotelane-backend/internal/quotes"
	pkgauth "github.com/quotelane/quotelane-backend/pkg/auth"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
)

type stubQuoteService struct {
	quote     *models.Quote
	err       error
	lastActor quotes.Actor
}

func (s *stubQuoteService) Create(ctx context.Context, actor quotes.Actor, input quotes.CreateQuoteInput) (*models.Quote, error) {
	s.lastActor = actor
	return s.quote, s.err
}

func (s *stubQuoteService) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	return s.quote, s.err
}

func (s *stubQuoteService) List(ctx context.Context, filters quotes.ListFilters) ([]models.Quote, error) {
	panic("not implemented")
}

func (s *stubQuoteService) Update(ctx context.Context, actor quotes.Actor, id uuid.UUID, input quotes.UpdateQuoteInput) (*models.Quote, error) {
	s.lastActor = actor
	return s.quote, s.err
}

func (s *stubQuoteService) AddLineItem(ctx context.Context, actor quotes.Actor, quoteID uuid.UUID, input quotes.CreateLineItemInput) ([]models.LineItem, error) {
	panic("not implemented")
}

func (s *stubQuoteService) UpdateLineItem(ctx context.Context, actor quotes.Actor, quoteID, itemID uuid.UUID, input quotes.UpdateLineItemInput) ([]models.LineItem, error) {
	panic("not implemented")
}

func (s *stubQuoteService) DeleteLineItem(ctx context.Context, actor quotes.Actor, quoteID, itemID uuid.UUID) ([]models.LineItem, error) {
	panic("not implemented")
}

func (s *stubQuoteService) AddNote(ctx context.Context, actor quotes.Actor, quoteID uuid.UUID, input quotes.NoteInput) ([]models.ConfidentialNote, error) {
	panic("not implemented")
}

func (s *stubQuoteService) UpdateNote(ctx context.Context, actor quotes.Actor, quoteID, noteID uuid.UUID, input quotes.NoteInput) ([]models.ConfidentialNote, error) {
	panic("not implemented")
}

func (s *stubQuoteService) DeleteNote(ctx context.Context, actor quotes.Actor, quoteID, noteID uuid.UUID) ([]models.ConfidentialNote, error) {
	panic("not implemented")
}

func seedQuote() *models.Quote {
	return &models.Quote{
		ID:         uuid.New(),
		Email:      "buyer@example.com",
		CustomerID: 42,
		Status:     enums.QuoteStatusDraft,
		LineItems: []models.LineItem{
			{ID: uuid.New(), Description: "widget", Price: decimal.NewFromInt(100)},
		},
	}
}

func authedRequest(req *http.Request, employeeID uuid.UUID, roles pkgauth.RoleSet) *http.Request {
	ctx := middleware.WithEmployee(req.Context(), employeeID, roles)
	return req.WithContext(ctx)
}

func TestQuoteCreateReturnsPricing(t *testing.T) {
	svc := &stubQuoteService{quote: seedQuote()}
	handler := QuoteCreate(svc, nil)

	employeeID := uuid.New()
	body := []byte(`{"email":"buyer@example.com","customer_id":42}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = authedRequest(req, employeeID, pkgauth.RoleSet{SalesAssociate: true})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastActor.EmployeeID != employeeID {
		t.Fatalf("actor not threaded from context: %s", svc.lastActor.EmployeeID)
	}

	var envelope struct {
		Data struct {
			Email   string `json:"email"`
			Pricing struct {
				Subtotal decimal.Decimal `json:"subtotal"`
				Total    decimal.Decimal `json:"total"`
			} `json:"pricing"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Email != "buyer@example.com" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
	if !envelope.Data.Pricing.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected subtotal 100 got %s", envelope.Data.Pricing.Subtotal)
	}
	if !envelope.Data.Pricing.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total 100 got %s", envelope.Data.Pricing.Total)
	}
}

func TestQuoteCreateRejectsMissingFields(t *testing.T) {
	handler := QuoteCreate(&stubQuoteService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewReader([]byte(`{"email":"buyer@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = authedRequest(req, uuid.New(), pkgauth.RoleSet{SalesAssociate: true})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteUpdateMapsStateConflict(t *testing.T) {
	svc := &stubQuoteService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "illegal transition")}
	handler := QuoteUpdate(svc, nil)

	quoteID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quotes/"+quoteID.String(), bytes.NewReader([]byte(`{"status":"SanctionedQuote"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "quoteId", quoteID.String())
	req = authedRequest(req, uuid.New(), pkgauth.RoleSet{Admin: true})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict code got %s", envelope.Error.Code)
	}
}

func TestQuoteUpdateRejectsUnknownStatus(t *testing.T) {
	handler := QuoteUpdate(&stubQuoteService{quote: seedQuote()}, nil)

	quoteID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quotes/"+quoteID.String(), bytes.NewReader([]byte(`{"status":"ShippedQuote"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "quoteId", quoteID.String())
	req = authedRequest(req, uuid.New(), pkgauth.RoleSet{Admin: true})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteGetRejectsMalformedID(t *testing.T) {
	handler := QuoteGet(&stubQuoteService{quote: seedQuote()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/not-a-uuid", nil)
	req = withURLParam(req, "quoteId", "not-a-uuid")
	req = authedRequest(req, uuid.New(), pkgauth.RoleSet{SalesAssociate: true})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
