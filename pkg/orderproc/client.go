package orderproc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/config"
	apperrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
)

// ProcessRequest is the payload sent to the external order-processing system
// when an unprocessed purchase order is submitted for fulfillment.
type ProcessRequest struct {
	OrderRef         string          `json:"orderRef"`
	SalesAssociateID uuid.UUID       `json:"salesAssociateId"`
	CustomerID       int64           `json:"customerId"`
	FinalAmount      decimal.Decimal `json:"finalAmount"`
}

// ProcessResult is the successful response from the order-processing system.
type ProcessResult struct {
	ProcessDate    time.Time       `json:"processDate"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

type processFailure struct {
	Errors []string `json:"errors"`
}

// Client talks to the external order-processing HTTP API. Every call carries
// an explicit deadline so a stalled remote cannot hold a request open.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// NewClient builds an order-processing client from configuration.
func NewClient(cfg config.OrderProcConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("order processor base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
	}, nil
}

// Process submits a purchase order to the external system. Any transport
// failure, non-2xx status, or malformed body is reported as an external
// service error so callers leave the order untouched and let the client retry.
func (c *Client) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encoding order payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "building order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternal, err, "order processor unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternal, err, "reading order processor response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure processFailure
		msg := fmt.Sprintf("order processor returned status %d", resp.StatusCode)
		if err := json.Unmarshal(raw, &failure); err == nil && len(failure.Errors) > 0 {
			return nil, apperrors.New(apperrors.CodeExternal, msg).
				WithDetails(map[string]any{"errors": failure.Errors})
		}
		return nil, apperrors.New(apperrors.CodeExternal, msg)
	}

	var result ProcessResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternal, err, "malformed order processor response")
	}
	if result.ProcessDate.IsZero() {
		return nil, apperrors.New(apperrors.CodeExternal, "order processor response missing process date")
	}
	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "order_ref", req.OrderRef), "purchase order processed externally")
	}
	return &result, nil
}
