package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/quotelane/quotelane-backend/pkg/config"
)

func TestSendBuildsHeadersAndRecipient(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "quotes@example.com",
	}, nil)
	if err != nil {
		t.Fatalf("building sender: %v", err)
	}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, body []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, body
		return nil
	}

	err = sender.Send(context.Background(), Message{
		To:      "buyer@example.com",
		Subject: "Quote sanctioned",
		Body:    "Your quote has been approved.",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %s", gotAddr)
	}
	if gotFrom != "quotes@example.com" || len(gotTo) != 1 || gotTo[0] != "buyer@example.com" {
		t.Fatalf("unexpected envelope from=%s to=%v", gotFrom, gotTo)
	}
	payload := string(gotBody)
	if !strings.Contains(payload, "Subject: Quote sanctioned\r\n") {
		t.Fatalf("missing subject header in %q", payload)
	}
	if !strings.HasSuffix(payload, "Your quote has been approved.") {
		t.Fatalf("missing body in %q", payload)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{Host: "h", Port: 25, From: "f@x"}, nil)
	if err != nil {
		t.Fatalf("building sender: %v", err)
	}
	if err := sender.Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func TestNewSMTPSenderValidatesConfig(t *testing.T) {
	if _, err := NewSMTPSender(config.SMTPConfig{From: "f@x"}, nil); err == nil {
		t.Fatal("expected error for missing host")
	}
	if _, err := NewSMTPSender(config.SMTPConfig{Host: "h"}, nil); err == nil {
		t.Fatal("expected error for missing from")
	}
}
