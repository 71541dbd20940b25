package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/mailer"
)

type stubSender struct {
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testConsumer(sender *stubSender) *MailConsumer {
	return &MailConsumer{
		sender: sender,
		logg:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestProcessDeliversEmail(t *testing.T) {
	sender := &stubSender{}
	consumer := testConsumer(sender)

	payload, err := json.Marshal(EmailEvent{
		To:       "buyer@example.com",
		Subject:  "Quote sanctioned",
		TextBody: "your quote was approved",
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	result := consumer.process(context.Background(), "m1", map[string]string{"event_type": "quote.sanctioned"}, payload)
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(sender.sent))
	}
	if sender.sent[0].To != "buyer@example.com" || sender.sent[0].Subject != "Quote sanctioned" {
		t.Fatalf("unexpected message: %+v", sender.sent[0])
	}
}

func TestProcessAcksMalformedPayload(t *testing.T) {
	sender := &stubSender{}
	consumer := testConsumer(sender)

	result := consumer.process(context.Background(), "m2", nil, []byte("{not json"))
	if !result.ack {
		t.Fatal("malformed payloads must be acked, not redelivered")
	}
	if len(sender.sent) != 0 {
		t.Fatal("malformed payload must not reach the sender")
	}
}

func TestProcessAcksMissingRecipient(t *testing.T) {
	sender := &stubSender{}
	consumer := testConsumer(sender)

	payload, _ := json.Marshal(EmailEvent{Subject: "no recipient"})
	result := consumer.process(context.Background(), "m3", nil, payload)
	if !result.ack {
		t.Fatal("events without a recipient must be acked")
	}
	if len(sender.sent) != 0 {
		t.Fatal("event without recipient must not be sent")
	}
}

func TestProcessNacksDeliveryFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp unreachable")}
	consumer := testConsumer(sender)

	payload, _ := json.Marshal(EmailEvent{To: "buyer@example.com", Subject: "retry me"})
	result := consumer.process(context.Background(), "m4", nil, payload)
	if !result.nack {
		t.Fatal("transient delivery failures must be nacked for redelivery")
	}
}
