package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/quotelane/quotelane-backend/internal/pricing"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/mailer"
)

const publishTimeout = 10 * time.Second

// EmailEvent is the wire payload published for the mailer worker.
type EmailEvent struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body"`
}

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
}

// Notifier turns quote events into email events on the notification topic.
// Delivery is asynchronous; the mailer worker drains the subscription.
type Notifier struct {
	pub  publisher
	logg *logger.Logger
}

// NewNotifier builds a notifier over the notification topic publisher.
func NewNotifier(pub *gcppubsub.Publisher, logg *logger.Logger) (*Notifier, error) {
	if pub == nil {
		return nil, fmt.Errorf("notification publisher required")
	}
	return &Notifier{pub: pub, logg: logg}, nil
}

// QuoteSanctioned publishes the customer notification for a freshly
// sanctioned quote.
func (n *Notifier) QuoteSanctioned(ctx context.Context, quote *models.Quote) error {
	if quote == nil {
		return fmt.Errorf("quote required")
	}

	event := BuildSanctionEmail(quote)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding notification event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := n.pub.Publish(publishCtx, &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": "quote.sanctioned",
			"quote_id":   quote.ID.String(),
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing notification event: %w", err)
	}

	if n.logg != nil {
		n.logg.Info(n.logg.WithQuoteID(ctx, quote.ID.String()), "sanction notification published")
	}
	return nil
}

// BuildSanctionEmail renders the customer-facing payload: quote id, line
// items, and the computed money breakdown. Confidential notes never appear
// here.
func BuildSanctionEmail(quote *models.Quote) EmailEvent {
	breakdown := pricing.ForQuote(quote)

	var text strings.Builder
	fmt.Fprintf(&text, "Your quote %s has been approved.\n\n", quote.ID)
	for _, item := range quote.LineItems {
		fmt.Fprintf(&text, "  %s: $%s\n", item.Description, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&text, "\nSubtotal: $%s\n", breakdown.Subtotal.StringFixed(2))
	if !breakdown.DiscountAmount.IsZero() {
		fmt.Fprintf(&text, "Discount: -$%s\n", breakdown.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&text, "Total: $%s\n", breakdown.Total.StringFixed(2))

	// Line-item descriptions are user-entered and must not be able to
	// inject markup into the rendered mail.
	var markup strings.Builder
	fmt.Fprintf(&markup, "<p>Your quote <strong>%s</strong> has been approved.</p><ul>", quote.ID)
	for _, item := range quote.LineItems {
		fmt.Fprintf(&markup, "<li>%s: $%s</li>", html.EscapeString(item.Description), item.Price.StringFixed(2))
	}
	markup.WriteString("</ul>")
	fmt.Fprintf(&markup, "<p>Subtotal: $%s", breakdown.Subtotal.StringFixed(2))
	if !breakdown.DiscountAmount.IsZero() {
		fmt.Fprintf(&markup, "<br>Discount: -$%s", breakdown.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&markup, "<br><strong>Total: $%s</strong></p>", breakdown.Total.StringFixed(2))

	return EmailEvent{
		To:       quote.Email,
		Subject:  fmt.Sprintf("Quote %s approved", quote.ID),
		TextBody: text.String(),
		HTMLBody: markup.String(),
	}
}

// ToMessage converts the event into a deliverable mail message.
func (e EmailEvent) ToMessage() mailer.Message {
	return mailer.Message{
		To:      e.To,
		Subject: e.Subject,
		Body:    e.TextBody,
	}
}
