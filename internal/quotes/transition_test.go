package quotes

import (
	"testing"

	"github.com/google/uuid"

	"github.com/quotelane/quotelane-backend/pkg/auth"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
)

func associateActor(id uuid.UUID) Actor {
	return Actor{EmployeeID: id, Roles: auth.RoleSet{SalesAssociate: true}}
}

func managerActor() Actor {
	return Actor{EmployeeID: uuid.New(), Roles: auth.RoleSet{QuoteManager: true}}
}

func purchaseActor() Actor {
	return Actor{EmployeeID: uuid.New(), Roles: auth.RoleSet{PurchaseManager: true}}
}

func adminActor() Actor {
	return Actor{EmployeeID: uuid.New(), Roles: auth.RoleSet{Admin: true}}
}

func quoteInStatus(status enums.QuoteStatus, associateID *uuid.UUID) *models.Quote {
	return &models.Quote{
		ID:               uuid.New(),
		Status:           status,
		SalesAssociateID: associateID,
	}
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

func TestAssociateFinalizesOwnDraft(t *testing.T) {
	id := uuid.New()
	quote := quoteInStatus(enums.QuoteStatusDraft, &id)

	decision, err := AuthorizeTransition(quote, enums.QuoteStatusFinalizedUnresolved, associateActor(id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NoOp || decision.NotifySanctioned {
		t.Fatalf("unexpected decision %+v", decision)
	}
}

func TestAssociateCannotFinalizeForeignDraft(t *testing.T) {
	owner := uuid.New()
	quote := quoteInStatus(enums.QuoteStatusDraft, &owner)

	_, err := AuthorizeTransition(quote, enums.QuoteStatusFinalizedUnresolved, associateActor(uuid.New()))
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestManagerSanctionsFinalizedQuote(t *testing.T) {
	quote := quoteInStatus(enums.QuoteStatusFinalizedUnresolved, nil)

	decision, err := AuthorizeTransition(quote, enums.QuoteStatusSanctioned, managerActor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.NotifySanctioned {
		t.Fatal("sanctioning must signal the notification side effect")
	}
}

func TestSanctioningDraftIsStateConflictForEveryRole(t *testing.T) {
	owner := uuid.New()
	actors := map[string]Actor{
		"associate":        associateActor(owner),
		"manager":          managerActor(),
		"purchase manager": purchaseActor(),
		"admin":            adminActor(),
	}
	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			quote := quoteInStatus(enums.QuoteStatusDraft, &owner)
			_, err := AuthorizeTransition(quote, enums.QuoteStatusSanctioned, actor)
			assertCode(t, err, pkgerrors.CodeStateConflict)
		})
	}
}

func TestRoleMismatchIsForbiddenNotStateConflict(t *testing.T) {
	id := uuid.New()
	quote := quoteInStatus(enums.QuoteStatusFinalizedUnresolved, &id)

	// The transition itself is legal, the role is not.
	_, err := AuthorizeTransition(quote, enums.QuoteStatusSanctioned, associateActor(id))
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestPurchaseManagerConvertsSanctionedQuote(t *testing.T) {
	quote := quoteInStatus(enums.QuoteStatusSanctioned, nil)

	decision, err := AuthorizeTransition(quote, enums.QuoteStatusUnprocessedPurchaseOrder, purchaseActor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NotifySanctioned {
		t.Fatal("conversion must not trigger the sanction notification")
	}
}

func TestBackwardTransitionRejected(t *testing.T) {
	quote := quoteInStatus(enums.QuoteStatusSanctioned, nil)
	_, err := AuthorizeTransition(quote, enums.QuoteStatusDraft, adminActor())
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSameStatusIsNoOpWithoutNotification(t *testing.T) {
	quote := quoteInStatus(enums.QuoteStatusSanctioned, nil)

	decision, err := AuthorizeTransition(quote, enums.QuoteStatusSanctioned, managerActor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.NoOp {
		t.Fatal("expected a no-op decision")
	}
	if decision.NotifySanctioned {
		t.Fatal("re-setting the same status must not notify")
	}
}

func TestSameStatusStillRunsRoleGate(t *testing.T) {
	owner := uuid.New()
	quote := quoteInStatus(enums.QuoteStatusSanctioned, &owner)

	// Re-requesting the current status is only a no-op for an actor who
	// could have sanctioned it in the first place.
	_, err := AuthorizeTransition(quote, enums.QuoteStatusSanctioned, associateActor(owner))
	assertCode(t, err, pkgerrors.CodeForbidden)

	decision, err := AuthorizeTransition(quote, enums.QuoteStatusSanctioned, adminActor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.NoOp || decision.NotifySanctioned {
		t.Fatalf("unexpected decision %+v", decision)
	}
}

func TestUnknownStatusIsValidationError(t *testing.T) {
	quote := quoteInStatus(enums.QuoteStatusDraft, nil)
	_, err := AuthorizeTransition(quote, enums.QuoteStatus("Bogus"), adminActor())
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestEditRules(t *testing.T) {
	owner := uuid.New()

	t.Run("associate edits own draft", func(t *testing.T) {
		if err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusDraft, &owner), associateActor(owner)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("associate blocked after finalization", func(t *testing.T) {
		err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusFinalizedUnresolved, &owner), associateActor(owner))
		assertCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("associate blocked on foreign quote", func(t *testing.T) {
		err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusDraft, &owner), associateActor(uuid.New()))
		assertCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("manager blocked on drafts", func(t *testing.T) {
		err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusDraft, &owner), managerActor())
		assertCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("manager edits finalized quote", func(t *testing.T) {
		if err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusFinalizedUnresolved, &owner), managerActor()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("manager edits sanctioned quote", func(t *testing.T) {
		if err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusSanctioned, &owner), managerActor()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("manager blocked once a purchase order", func(t *testing.T) {
		err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusUnprocessedPurchaseOrder, &owner), managerActor())
		assertCode(t, err, pkgerrors.CodeStateConflict)
	})

	t.Run("admin edits anything in any state", func(t *testing.T) {
		if err := AuthorizeEdit(quoteInStatus(enums.QuoteStatusSanctioned, &owner), adminActor()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
