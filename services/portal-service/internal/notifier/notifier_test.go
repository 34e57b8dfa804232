package notifier_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/notifier"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type recordingSender struct {
	sent []sentMail
	err  error
}

func (s *recordingSender) SendHTML(to []string, subject, body string) error {
	s.sent = append(s.sent, sentMail{to, subject, body})
	return s.err
}

func newNotifier(sender *recordingSender) *notifier.Notifier {
	logger := zerolog.New(io.Discard)
	return notifier.New(&logger, sender, "https://jobs.example.com")
}

func TestHandle_Shortlisted(t *testing.T) {
	sender := &recordingSender{}
	n := newNotifier(sender)

	err := n.Handle(context.Background(), event.ApplicationShortlisted{
		ApplicantEmail: "u1@x.com",
		ApplicantName:  "Uma",
		JobTitle:       "Backend Engineer",
		CompanyName:    "Acme",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	m := sender.sent[0]
	if m.to[0] != "u1@x.com" {
		t.Errorf("to = %v", m.to)
	}
	if !strings.Contains(m.subject, "Backend Engineer") {
		t.Errorf("subject %q should mention the job title", m.subject)
	}
	if !strings.Contains(m.body, "Acme") {
		t.Errorf("body should mention the company")
	}
}

func TestHandle_EscapesNames(t *testing.T) {
	sender := &recordingSender{}
	n := newNotifier(sender)

	_ = n.Handle(context.Background(), event.FirstLoginCompleted{Email: "a@b.co", Name: "<script>x</script>", Role: "user"})

	if strings.Contains(sender.sent[0].body, "<script>") {
		t.Error("user-supplied name must be HTML-escaped")
	}
}

func TestHandle_SendFailureIsReturned(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: 421")}
	n := newNotifier(sender)

	err := n.Handle(context.Background(), event.ApplicationSubmitted{ApplicantEmail: "a@b.co"})
	if err == nil {
		t.Error("expected the delivery error to be returned to the bus")
	}
}

func TestHandle_MissingRecipient(t *testing.T) {
	sender := &recordingSender{}
	n := newNotifier(sender)

	if err := n.Handle(context.Background(), event.ApplicationSubmitted{}); err == nil {
		t.Error("expected an error for an event without recipient")
	}
	if len(sender.sent) != 0 {
		t.Error("nothing should be sent without a recipient")
	}
}
