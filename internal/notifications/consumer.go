package notifications

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/mailer"
)

type processResult struct {
	ack  bool
	nack bool
}

// MailConsumer drains the notification subscription and delivers each email
// event over SMTP. Malformed events are acked so they do not wedge the
// subscription; transient delivery failures are nacked for redelivery.
type MailConsumer struct {
	subscription *pubsub.Subscriber
	sender       mailer.Sender
	logg         *logger.Logger
}

func NewMailConsumer(subscription *pubsub.Subscriber, sender mailer.Sender, logg *logger.Logger) (*MailConsumer, error) {
	if subscription == nil {
		return nil, errors.New("notification subscription is required")
	}
	if sender == nil {
		return nil, errors.New("mail sender is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &MailConsumer{
		subscription: subscription,
		sender:       sender,
		logg:         logg,
	}, nil
}

// Run processes notification events until the context is canceled.
func (c *MailConsumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.ID, msg.Attributes, msg.Data)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *MailConsumer) process(ctx context.Context, msgID string, attrs map[string]string, data []byte) processResult {
	fields := map[string]any{
		"message_id": msgID,
		"event_type": attrs["event_type"],
	}
	if quoteID := attrs["quote_id"]; quoteID != "" {
		fields["quote_id"] = quoteID
	}
	logCtx := c.logg.WithFields(ctx, fields)

	var event EmailEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal email event", err)
		return processResult{ack: true}
	}
	if event.To == "" {
		c.logg.Error(logCtx, "email event missing recipient", errors.New("empty to"))
		return processResult{ack: true}
	}

	if err := c.sender.Send(ctx, event.ToMessage()); err != nil {
		c.logg.Error(logCtx, "failed to deliver email", err)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "email delivered")
	return processResult{ack: true}
}
