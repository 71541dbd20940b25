package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/api/middleware"
	"github.com/quotelane/quotelane-backend/api/responses"
	"github.com/quotelane/quotelane-backend/api/validators"
	"github.com/quotelane/quotelane-backend/internal/pricing"
	"github.com/quotelane/quotelane-backend/internal/quotes"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/types"
)

func actorFrom(r *http.Request) quotes.Actor {
	return quotes.Actor{
		EmployeeID: middleware.EmployeeIDFromContext(r.Context()),
		Roles:      middleware.RolesFromContext(r.Context()),
	}
}

type quoteResponse struct {
	*models.Quote
	Pricing pricing.Breakdown `json:"pricing"`
}

func newQuoteResponse(quote *models.Quote) quoteResponse {
	return quoteResponse{Quote: quote, Pricing: pricing.ForQuote(quote)}
}

type createQuoteRequest struct {
	Email            string     `json:"email" validate:"required,email"`
	CustomerID       int64      `json:"customer_id" validate:"required,gt=0"`
	SalesAssociateID *uuid.UUID `json:"sales_associate_id"`
}

type discountPayload struct {
	Value decimal.Decimal `json:"value"`
	Type  string          `json:"type" validate:"required"`
}

type updateQuoteRequest struct {
	Status           *string          `json:"status"`
	Email            *string          `json:"email"`
	CustomerID       *int64           `json:"customer_id"`
	SalesAssociateID *uuid.UUID       `json:"sales_associate_id"`
	InitialDiscount  *discountPayload `json:"initial_discount"`
	FinalDiscount    *discountPayload `json:"final_discount"`
}

func (p *discountPayload) toDiscount() (*types.Discount, error) {
	if p == nil {
		return nil, nil
	}
	kind, err := enums.ParseDiscountType(p.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}
	return &types.Discount{Value: p.Value, Type: kind}, nil
}

func (r updateQuoteRequest) toInput() (quotes.UpdateQuoteInput, error) {
	input := quotes.UpdateQuoteInput{
		Email:            r.Email,
		CustomerID:       r.CustomerID,
		SalesAssociateID: r.SalesAssociateID,
	}

	if r.Status != nil {
		status, err := enums.ParseQuoteStatus(*r.Status)
		if err != nil {
			return quotes.UpdateQuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}

	initial, err := r.InitialDiscount.toDiscount()
	if err != nil {
		return quotes.UpdateQuoteInput{}, err
	}
	input.InitialDiscount = initial

	final, err := r.FinalDiscount.toDiscount()
	if err != nil {
		return quotes.UpdateQuoteInput{}, err
	}
	input.FinalDiscount = final

	return input, nil
}

// QuoteCreate opens a new draft quote.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var body createQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), actorFrom(r), quotes.CreateQuoteInput{
			Email:            body.Email,
			CustomerID:       body.CustomerID,
			SalesAssociateID: body.SalesAssociateID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newQuoteResponse(quote))
	}
}

// QuoteGet returns a single quote with its pricing breakdown.
func QuoteGet(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		quoteID, err := validators.UUIDParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Get(r.Context(), quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// QuoteList returns quotes matching the optional query filters.
func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		filters, err := parseQuoteFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]quoteResponse, len(list))
		for i := range list {
			out[i] = newQuoteResponse(&list[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// QuoteUpdate applies field edits and/or a status transition.
func QuoteUpdate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		quoteID, err := validators.UUIDParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Update(r.Context(), actorFrom(r), quoteID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

func parseQuoteFilters(r *http.Request) (quotes.ListFilters, error) {
	filters := quotes.ListFilters{}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseQuoteStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(query.Get("sales_associate_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sales associate filter")
		}
		filters.SalesAssociateID = &id
	}
	if raw := strings.TrimSpace(query.Get("customer_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer filter")
		}
		filters.CustomerID = &id
	}

	return filters, nil
}
