package notifications

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/enums"
)

func TestBuildSanctionEmailIncludesComputedTotal(t *testing.T) {
	value := decimal.RequireFromString("10")
	kind := enums.DiscountTypePercentage
	quote := &models.Quote{
		ID:    uuid.New(),
		Email: "buyer@example.com",
		LineItems: []models.LineItem{
			{Description: "Widget", Price: decimal.RequireFromString("40")},
			{Description: "Gadget", Price: decimal.RequireFromString("60")},
		},
		InitialDiscountValue: &value,
		InitialDiscountType:  &kind,
	}

	event := BuildSanctionEmail(quote)

	if event.To != "buyer@example.com" {
		t.Fatalf("to = %s", event.To)
	}
	if !strings.Contains(event.TextBody, "Subtotal: $100.00") {
		t.Fatalf("missing subtotal in %q", event.TextBody)
	}
	if !strings.Contains(event.TextBody, "Total: $90.00") {
		t.Fatalf("missing total in %q", event.TextBody)
	}
	if !strings.Contains(event.TextBody, "Widget: $40.00") {
		t.Fatalf("missing line item in %q", event.TextBody)
	}
	if !strings.Contains(event.HTMLBody, "Total: $90.00") {
		t.Fatalf("missing total in html %q", event.HTMLBody)
	}
}

func TestBuildSanctionEmailExcludesConfidentialNotes(t *testing.T) {
	quote := &models.Quote{
		ID:    uuid.New(),
		Email: "buyer@example.com",
		LineItems: []models.LineItem{
			{Description: "Widget", Price: decimal.RequireFromString("40")},
		},
		ConfidentialNotes: []models.ConfidentialNote{
			{Content: "margin is razor thin"},
		},
	}

	event := BuildSanctionEmail(quote)

	if strings.Contains(event.TextBody, "razor thin") || strings.Contains(event.HTMLBody, "razor thin") {
		t.Fatal("confidential note content leaked into the notification")
	}
	if strings.Contains(event.Subject, "razor thin") {
		t.Fatal("confidential note content leaked into the subject")
	}
}

func TestBuildSanctionEmailEscapesDescriptions(t *testing.T) {
	quote := &models.Quote{
		ID:    uuid.New(),
		Email: "buyer@example.com",
		LineItems: []models.LineItem{
			{Description: `<script>alert("x")</script>`, Price: decimal.RequireFromString("40")},
		},
	}

	event := BuildSanctionEmail(quote)

	if strings.Contains(event.HTMLBody, "<script>") {
		t.Fatalf("raw markup leaked into html body: %q", event.HTMLBody)
	}
	if !strings.Contains(event.HTMLBody, "&lt;script&gt;") {
		t.Fatalf("description missing from html body: %q", event.HTMLBody)
	}
	// The plain-text body is not rendered and carries the description as-is.
	if !strings.Contains(event.TextBody, `<script>alert("x")</script>`) {
		t.Fatalf("description missing from text body: %q", event.TextBody)
	}
}

func TestBuildSanctionEmailOmitsDiscountLineWhenZero(t *testing.T) {
	quote := &models.Quote{
		ID:        uuid.New(),
		Email:     "buyer@example.com",
		LineItems: []models.LineItem{{Description: "Widget", Price: decimal.RequireFromString("40")}},
	}

	event := BuildSanctionEmail(quote)
	if strings.Contains(event.TextBody, "Discount:") {
		t.Fatalf("unexpected discount line in %q", event.TextBody)
	}
}

func TestToMessageUsesTextBody(t *testing.T) {
	event := EmailEvent{To: "a@b.c", Subject: "s", TextBody: "text", HTMLBody: "<p>html</p>"}
	msg := event.ToMessage()
	if msg.To != "a@b.c" || msg.Subject != "s" || msg.Body != "text" {
		t.Fatalf("unexpected message %+v", msg)
	}
}
