// Package event carries domain events from the lifecycle usecases to the
// notification relay. Publishing never blocks a request: events go onto an
// in-process Bus, whose workers deliver them to a Handler (the notifier, or a
// Redis forwarder when notifications run in a separate consumer).
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	TypeFirstLoginCompleted    Type = "first_login_completed"
	TypeApplicationSubmitted   Type = "application_submitted"
	TypeApplicationShortlisted Type = "application_shortlisted"
)

// Event is implemented by every domain event payload.
type Event interface {
	EventType() Type
}

// FirstLoginCompleted fires once per account, on the first observed sign-in.
type FirstLoginCompleted struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ApplicationSubmitted fires after an application is persisted.
type ApplicationSubmitted struct {
	JobID          string `json:"jobId"`
	ApplicantEmail string `json:"applicantEmail"`
	ApplicantName  string `json:"applicantName"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
}

// ApplicationShortlisted fires on each transition into shortlisted.
type ApplicationShortlisted struct {
	JobID          string `json:"jobId"`
	ApplicantEmail string `json:"applicantEmail"`
	ApplicantName  string `json:"applicantName"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
}

func (FirstLoginCompleted) EventType() Type    { return TypeFirstLoginCompleted }
func (ApplicationSubmitted) EventType() Type   { return TypeApplicationSubmitted }
func (ApplicationShortlisted) EventType() Type { return TypeApplicationShortlisted }

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Handler consumes delivered events.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

type envelope struct {
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Encode serializes e into a self-describing JSON envelope.
func Encode(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		Type:       e.EventType(),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
}

// Decode parses an envelope produced by Encode.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var e Event
	switch env.Type {
	case TypeFirstLoginCompleted:
		var v FirstLoginCompleted
		if err := json.Unmarshal(env.Payload, &v); err != nil {
			return nil, err
		}
		e = v
	case TypeApplicationSubmitted:
		var v ApplicationSubmitted
		if err := json.Unmarshal(env.Payload, &v); err != nil {
			return nil, err
		}
		e = v
	case TypeApplicationShortlisted:
		var v ApplicationShortlisted
		if err := json.Unmarshal(env.Payload, &v); err != nil {
			return nil, err
		}
		e = v
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}

	return e, nil
}
