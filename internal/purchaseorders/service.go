package purchaseorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/internal/pricing"
	"github.com/quotelane/quotelane-backend/internal/quotes"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/orderproc"
)

// OrderProcessor is the external order-processing system.
type OrderProcessor interface {
	Process(ctx context.Context, req orderproc.ProcessRequest) (*orderproc.ProcessResult, error)
}

// CommissionAccruer credits the sales associate once processing is confirmed.
// The write joins the supplied transaction.
type CommissionAccruer interface {
	AccrueCommission(ctx context.Context, tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the tail of the quote lifecycle: submitting a sanctioned
// quote to the external processor and confirming its completion.
type Service interface {
	Submit(ctx context.Context, actor quotes.Actor, quoteID uuid.UUID) (*models.Quote, error)
	ConfirmProcessed(ctx context.Context, actor quotes.Actor, quoteID uuid.UUID) (*models.Quote, error)
}

type service struct {
	repo       quotes.Repository
	processor  OrderProcessor
	commission CommissionAccruer
	tx         TxRunner
	logg       *logger.Logger
}

// NewService builds a purchase order service.
func NewService(repo quotes.Repository, processor OrderProcessor, commission CommissionAccruer, tx TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if processor == nil {
		return nil, fmt.Errorf("order processor required")
	}
	if commission == nil {
		return nil, fmt.Errorf("commission accruer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		processor:  processor,
		commission: commission,
		tx:         tx,
		logg:       logg,
	}, nil
}

// Submit sends a sanctioned quote to the external processor. The status
// advances to UnprocessedPurchaseOrder only after a non-error response; any
// failure leaves the quote sanctioned so the caller can retry.
func (s *service) Submit(ctx context.Context, actor quotes.Actor, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	decision, err := quotes.AuthorizeTransition(quote, enums.QuoteStatusUnprocessedPurchaseOrder, actor)
	if err != nil {
		return nil, err
	}
	if decision.NoOp {
		return quote, nil
	}

	breakdown := pricing.ForQuote(quote)
	req := orderproc.ProcessRequest{
		OrderRef:    quote.ID.String(),
		CustomerID:  quote.CustomerID,
		FinalAmount: breakdown.Total,
	}
	if quote.SalesAssociateID != nil {
		req.SalesAssociateID = *quote.SalesAssociateID
	}

	result, err := s.processor.Process(ctx, req)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"status":          enums.QuoteStatusUnprocessedPurchaseOrder,
		"commission_rate": result.CommissionRate,
		"process_date":    result.ProcessDate,
	}
	if err := s.repo.UpdateQuote(ctx, quoteID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance quote to purchase order")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, quoteID.String()), "quote submitted to order processing")
	return s.loadQuote(ctx, quoteID)
}

// ConfirmProcessed marks an unprocessed purchase order as processed and
// credits the sales associate's commission from the stored rate. The status
// write and the commission credit commit together, so a failed accrual
// leaves the purchase order unprocessed and the confirmation retryable.
func (s *service) ConfirmProcessed(ctx context.Context, actor quotes.Actor, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	decision, err := quotes.AuthorizeTransition(quote, enums.QuoteStatusProcessed, actor)
	if err != nil {
		return nil, err
	}
	if decision.NoOp {
		return quote, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateQuote(ctx, quoteID, map[string]any{"status": enums.QuoteStatusProcessed}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark quote processed")
		}
		if quote.SalesAssociateID != nil && quote.CommissionRate != nil {
			total := pricing.ForQuote(quote).Total
			amount := total.Mul(*quote.CommissionRate)
			if err := s.commission.AccrueCommission(ctx, tx, *quote.SalesAssociateID, amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, quoteID.String()), "purchase order confirmed processed")
	return s.loadQuote(ctx, quoteID)
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
