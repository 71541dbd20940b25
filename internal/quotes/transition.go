package quotes

import (
	"github.com/google/uuid"

	"github.com/quotelane/quotelane-backend/pkg/auth"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
)

// Actor is the authenticated principal acting on a quote.
type Actor struct {
	EmployeeID uuid.UUID
	Roles      auth.RoleSet
}

// Decision reports the outcome of an authorized transition request.
type Decision struct {
	// NoOp is set when the requested status equals the current one. The
	// caller skips the write and, importantly, skips the notification.
	NoOp bool
	// NotifySanctioned is set when the quote moves into SanctionedQuote
	// from a different prior status.
	NotifySanctioned bool
}

// nextStatus is the single legal forward step from each status. The pipeline
// is strictly linear and no role, admin included, may skip a step.
var nextStatus = map[enums.QuoteStatus]enums.QuoteStatus{
	enums.QuoteStatusDraft:                    enums.QuoteStatusFinalizedUnresolved,
	enums.QuoteStatusFinalizedUnresolved:      enums.QuoteStatusSanctioned,
	enums.QuoteStatusSanctioned:               enums.QuoteStatusUnprocessedPurchaseOrder,
	enums.QuoteStatusUnprocessedPurchaseOrder: enums.QuoteStatusProcessed,
}

// AuthorizeTransition decides whether the actor may move the quote to the
// target status. Role mismatches come back as authorization errors; legal
// roles requesting an unreachable status come back as state conflicts, so
// callers can tell the two apart.
func AuthorizeTransition(quote *models.Quote, target enums.QuoteStatus, actor Actor) (Decision, error) {
	if quote == nil {
		return Decision{}, pkgerrors.New(pkgerrors.CodeInternal, "quote required for transition check")
	}
	if !target.IsValid() {
		return Decision{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown quote status").
			WithDetails(map[string]any{"status": string(target)})
	}

	noop := target == quote.Status
	if !noop && nextStatus[quote.Status] != target {
		return Decision{}, pkgerrors.New(pkgerrors.CodeStateConflict, "status not reachable from current state").
			WithDetails(map[string]any{
				"current":   string(quote.Status),
				"requested": string(target),
			})
	}

	// The role gate runs before the no-op short-circuit: an actor who could
	// not have performed the transition may not re-request the current
	// status either.
	switch target {
	case enums.QuoteStatusDraft:
		if !actor.Roles.CanCreateQuotes() {
			return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "draft quotes belong to the sales associate role")
		}
		if !actor.Roles.Admin && !ownsQuote(quote, actor) {
			return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another sales associate")
		}
	case enums.QuoteStatusFinalizedUnresolved:
		if !actor.Roles.CanCreateQuotes() {
			return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "finalizing requires the sales associate role")
		}
		if !actor.Roles.Admin && !ownsQuote(quote, actor) {
			return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another sales associate")
		}
	case enums.QuoteStatusSanctioned:
		if !actor.Roles.CanSanction() {
			return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "sanctioning requires the quote manager role")
		}
	case enums.QuoteStatusUnprocessedPurchaseOrder, enums.QuoteStatusProcessed:
		if !actor.Roles.CanConvertPurchaseOrders() {
			return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "purchase order conversion requires the purchase manager role")
		}
	}

	if noop {
		return Decision{NoOp: true}, nil
	}
	return Decision{NotifySanctioned: target == enums.QuoteStatusSanctioned}, nil
}

// AuthorizeEdit decides whether the actor may change quote fields, line items
// or notes. Edit access follows the lifecycle: sales associates edit their
// own drafts, then hand off to the quote manager, who keeps edit access
// (final discount included) through finalization and sanctioning. Admins
// edit at any stage.
func AuthorizeEdit(quote *models.Quote, actor Actor) error {
	if quote == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "quote required for edit check")
	}
	if actor.Roles.Admin {
		return nil
	}

	switch quote.Status {
	case enums.QuoteStatusDraft:
		if !actor.Roles.CanEditDraft() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "editing draft quotes requires the sales associate role")
		}
		if !ownsQuote(quote, actor) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another sales associate")
		}
		return nil
	case enums.QuoteStatusFinalizedUnresolved, enums.QuoteStatusSanctioned:
		if !actor.Roles.CanSanction() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "editing finalized quotes requires the quote manager role")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quote can no longer be edited once converted to a purchase order").
			WithDetails(map[string]any{"current": string(quote.Status)})
	}
}

func ownsQuote(quote *models.Quote, actor Actor) bool {
	return quote.SalesAssociateID != nil && *quote.SalesAssociateID == actor.EmployeeID
}
