package purchaseorders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/internal/quotes"
	"github.com/quotelane/quotelane-backend/pkg/auth"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/orderproc"
)

type stubRepo struct {
	quotes map[uuid.UUID]*models.Quote
}

func (s *stubRepo) WithTx(tx *gorm.DB) quotes.Repository { return s }

func (s *stubRepo) CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	panic("not implemented")
}

func (s *stubRepo) FindQuoteByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, ok := s.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quote
	return &copied, nil
}

func (s *stubRepo) ListQuotes(ctx context.Context, filters quotes.ListFilters) ([]models.Quote, error) {
	panic("not implemented")
}

func (s *stubRepo) UpdateQuote(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	quote, ok := s.quotes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.QuoteStatus); ok {
		quote.Status = status
	}
	if rate, ok := updates["commission_rate"].(decimal.Decimal); ok {
		quote.CommissionRate = &rate
	}
	if date, ok := updates["process_date"].(time.Time); ok {
		quote.ProcessDate = &date
	}
	return nil
}

func (s *stubRepo) CountQuotesBySalesAssociate(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	panic("not implemented")
}

func (s *stubRepo) CreateLineItem(ctx context.Context, item *models.LineItem) (*models.LineItem, error) {
	panic("not implemented")
}

func (s *stubRepo) FindLineItem(ctx context.Context, id uuid.UUID) (*models.LineItem, error) {
	panic("not implemented")
}

func (s *stubRepo) FindLineItemsByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.LineItem, error) {
	panic("not implemented")
}

func (s *stubRepo) UpdateLineItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubRepo) DeleteLineItem(ctx context.Context, id uuid.UUID) error {
	panic("not implemented")
}

func (s *stubRepo) CreateNote(ctx context.Context, note *models.ConfidentialNote) (*models.ConfidentialNote, error) {
	panic("not implemented")
}

func (s *stubRepo) FindNote(ctx context.Context, id uuid.UUID) (*models.ConfidentialNote, error) {
	panic("not implemented")
}

func (s *stubRepo) FindNotesByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.ConfidentialNote, error) {
	panic("not implemented")
}

func (s *stubRepo) UpdateNote(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubRepo) DeleteNote(ctx context.Context, id uuid.UUID) error {
	panic("not implemented")
}

type stubProcessor struct {
	result *orderproc.ProcessResult
	err    error
	calls  int
}

func (s *stubProcessor) Process(ctx context.Context, req orderproc.ProcessRequest) (*orderproc.ProcessResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubAccruer struct {
	accrued map[uuid.UUID]decimal.Decimal
	err     error
}

func (s *stubAccruer) AccrueCommission(ctx context.Context, tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	if s.err != nil {
		return s.err
	}
	if s.accrued == nil {
		s.accrued = map[uuid.UUID]decimal.Decimal{}
	}
	s.accrued[id] = s.accrued[id].Add(amount)
	return nil
}

// stubTxRunner mimics transaction semantics over the in-memory repo: writes
// made inside a failed callback are rolled back.
type stubTxRunner struct {
	repo *stubRepo
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	snapshot := make(map[uuid.UUID]models.Quote, len(s.repo.quotes))
	for id, quote := range s.repo.quotes {
		snapshot[id] = *quote
	}
	if err := fn(nil); err != nil {
		restored := make(map[uuid.UUID]*models.Quote, len(snapshot))
		for id := range snapshot {
			quote := snapshot[id]
			restored[id] = &quote
		}
		s.repo.quotes = restored
		return err
	}
	return nil
}

func purchaseActor() quotes.Actor {
	return quotes.Actor{EmployeeID: uuid.New(), Roles: auth.RoleSet{PurchaseManager: true}}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func sanctionedQuote(associateID *uuid.UUID) *models.Quote {
	return &models.Quote{
		ID:               uuid.New(),
		Email:            "b@x.com",
		CustomerID:       42,
		Status:           enums.QuoteStatusSanctioned,
		SalesAssociateID: associateID,
		LineItems: []models.LineItem{
			{Description: "Widget", Price: decimal.RequireFromString("100")},
		},
	}
}

func newTestService(t *testing.T, repo *stubRepo, processor *stubProcessor, accruer *stubAccruer) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, processor, accruer, &stubTxRunner{repo: repo}, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestSubmitAdvancesStatusOnSuccess(t *testing.T) {
	associate := uuid.New()
	quote := sanctionedQuote(&associate)
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	processor := &stubProcessor{result: &orderproc.ProcessResult{
		ProcessDate:    time.Now(),
		CommissionRate: decimal.RequireFromString("0.05"),
	}}
	svc := newTestService(t, repo, processor, &stubAccruer{})

	updated, err := svc.Submit(context.Background(), purchaseActor(), quote.ID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if updated.Status != enums.QuoteStatusUnprocessedPurchaseOrder {
		t.Fatalf("status = %s, want UnprocessedPurchaseOrder", updated.Status)
	}
	if updated.CommissionRate == nil || !updated.CommissionRate.Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("commission rate not stored: %v", updated.CommissionRate)
	}
	if processor.calls != 1 {
		t.Fatalf("expected 1 external call, got %d", processor.calls)
	}
}

func TestSubmitLeavesStatusOnExternalFailure(t *testing.T) {
	quote := sanctionedQuote(nil)
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	processor := &stubProcessor{err: pkgerrors.New(pkgerrors.CodeExternal, "processor down")}
	svc := newTestService(t, repo, processor, &stubAccruer{})

	_, err := svc.Submit(context.Background(), purchaseActor(), quote.ID)
	assertCode(t, err, pkgerrors.CodeExternal)
	if repo.quotes[quote.ID].Status != enums.QuoteStatusSanctioned {
		t.Fatalf("status must stay SanctionedQuote for retry, got %s", repo.quotes[quote.ID].Status)
	}
}

func TestSubmitRejectsNonSanctionedQuote(t *testing.T) {
	quote := sanctionedQuote(nil)
	quote.Status = enums.QuoteStatusDraft
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	processor := &stubProcessor{}
	svc := newTestService(t, repo, processor, &stubAccruer{})

	_, err := svc.Submit(context.Background(), purchaseActor(), quote.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
	if processor.calls != 0 {
		t.Fatal("external processor must not be called for an illegal transition")
	}
}

func TestSubmitRequiresPurchaseManagerRole(t *testing.T) {
	quote := sanctionedQuote(nil)
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	svc := newTestService(t, repo, &stubProcessor{}, &stubAccruer{})

	actor := quotes.Actor{EmployeeID: uuid.New(), Roles: auth.RoleSet{SalesAssociate: true}}
	_, err := svc.Submit(context.Background(), actor, quote.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestConfirmProcessedAccruesCommission(t *testing.T) {
	associate := uuid.New()
	quote := sanctionedQuote(&associate)
	quote.Status = enums.QuoteStatusUnprocessedPurchaseOrder
	rate := decimal.RequireFromString("0.05")
	quote.CommissionRate = &rate
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	accruer := &stubAccruer{}
	svc := newTestService(t, repo, &stubProcessor{}, accruer)

	updated, err := svc.ConfirmProcessed(context.Background(), purchaseActor(), quote.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if updated.Status != enums.QuoteStatusProcessed {
		t.Fatalf("status = %s, want Processed", updated.Status)
	}
	// 5% of the 100 total.
	if !accruer.accrued[associate].Equal(decimal.NewFromInt(5)) {
		t.Fatalf("commission = %s, want 5", accruer.accrued[associate])
	}
}

func TestConfirmProcessedRollsBackStatusWhenAccrualFails(t *testing.T) {
	associate := uuid.New()
	quote := sanctionedQuote(&associate)
	quote.Status = enums.QuoteStatusUnprocessedPurchaseOrder
	rate := decimal.RequireFromString("0.10")
	quote.CommissionRate = &rate
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	accruer := &stubAccruer{err: errors.New("employees table unavailable")}
	svc := newTestService(t, repo, &stubProcessor{}, accruer)

	if _, err := svc.ConfirmProcessed(context.Background(), purchaseActor(), quote.ID); err == nil {
		t.Fatal("expected confirmation to fail when accrual fails")
	}
	if repo.quotes[quote.ID].Status != enums.QuoteStatusUnprocessedPurchaseOrder {
		t.Fatalf("status = %s, want UnprocessedPurchaseOrder so the confirmation can be retried", repo.quotes[quote.ID].Status)
	}

	// The retry must credit the commission that the first attempt did not.
	accruer.err = nil
	updated, err := svc.ConfirmProcessed(context.Background(), purchaseActor(), quote.ID)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if updated.Status != enums.QuoteStatusProcessed {
		t.Fatalf("status = %s, want Processed", updated.Status)
	}
	// 10% of the 100 total.
	if !accruer.accrued[associate].Equal(decimal.NewFromInt(10)) {
		t.Fatalf("commission = %s, want 10", accruer.accrued[associate])
	}
}

func TestConfirmProcessedWithoutAssociateSkipsCommission(t *testing.T) {
	quote := sanctionedQuote(nil)
	quote.Status = enums.QuoteStatusUnprocessedPurchaseOrder
	rate := decimal.RequireFromString("0.05")
	quote.CommissionRate = &rate
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{quote.ID: quote}}
	accruer := &stubAccruer{}
	svc := newTestService(t, repo, &stubProcessor{}, accruer)

	if _, err := svc.ConfirmProcessed(context.Background(), purchaseActor(), quote.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if len(accruer.accrued) != 0 {
		t.Fatal("no commission should accrue without an assigned associate")
	}
}

func TestSubmitMissingQuoteIsNotFound(t *testing.T) {
	repo := &stubRepo{quotes: map[uuid.UUID]*models.Quote{}}
	svc := newTestService(t, repo, &stubProcessor{}, &stubAccruer{})

	_, err := svc.Submit(context.Background(), purchaseActor(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
