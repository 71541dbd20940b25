package orderproc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/config"
	apperrors "github.com/quotelane/quotelane-backend/pkg/errors"
)

func testRequest() ProcessRequest {
	return ProcessRequest{
		OrderRef:         "Q-123",
		SalesAssociateID: uuid.New(),
		CustomerID:       42,
		FinalAmount:      decimal.RequireFromString("199.99"),
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.OrderProcConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client, srv
}

func TestProcessSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"processDate":"2026-08-01T12:00:00Z","commissionRate":"0.05"}`))
	})

	result, err := client.Process(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.ProcessDate.IsZero() {
		t.Fatal("expected a process date")
	}
	if !result.CommissionRate.Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("unexpected commission rate %s", result.CommissionRate)
	}
}

func TestProcessRejectionSurfacesUpstreamErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":["customer on credit hold"]}`))
	})

	_, err := client.Process(context.Background(), testRequest())
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeExternal {
		t.Fatalf("expected external service error, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected upstream errors in details")
	}
}

func TestProcessMalformedBodyIsExternalError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Process(context.Background(), testRequest())
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeExternal {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(config.OrderProcConfig{}, nil); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
