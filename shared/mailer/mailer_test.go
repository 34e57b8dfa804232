package mailer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

func TestConfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	if Configured() {
		t.Error("Configured with empty SMTP_HOST")
	}

	t.Setenv("SMTP_HOST", "smtp.example.test")
	if !Configured() {
		t.Error("not Configured with SMTP_HOST set")
	}
}

func TestSetEmailMessage_Headers(t *testing.T) {
	m := &Mailer{config: &mailerConfig{From: "noreply@portal.test", FromName: "Job Portal"}}
	msg := gomail.NewMessage()

	m.setEmailMessage(msg, Email{
		To:       []string{"sam@example.test"},
		ReplyTo:  "hr@acme.test",
		Subject:  "You have been shortlisted",
		HTMLBody: "<p>Good news</p>",
	})

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	raw := buf.String()

	for _, want := range []string{
		`From: "Job Portal" <noreply@portal.test>`,
		"To: sam@example.test",
		"Reply-To: hr@acme.test",
		"Subject: You have been shortlisted",
		"Content-Type: text/html",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q:\n%s", want, raw)
		}
	}
	if msg.GetHeader("Cc") != nil {
		t.Error("empty Cc header set")
	}
}

func TestLogSender_NeverFails(t *testing.T) {
	l := zerolog.New(io.Discard)
	if err := (LogSender{Logger: &l}).SendHTML([]string{"a@b.test"}, "hi", "<p>body</p>"); err != nil {
		t.Errorf("SendHTML: %v", err)
	}
}
