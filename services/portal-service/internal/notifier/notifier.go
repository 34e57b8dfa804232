// Package notifier turns domain events into emails. It is the only consumer
// of the event bus; delivery failures are returned to the bus, which logs them.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/shared/mailer"
)

type Notifier struct {
	logger *zerolog.Logger
	sender mailer.Sender
	appURL string
}

func New(logger *zerolog.Logger, sender mailer.Sender, appURL string) *Notifier {
	return &Notifier{logger: logger, sender: sender, appURL: appURL}
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`
		<p>Hi {{.Name}},</p>
		<p>Welcome to Job Portal! Your account is ready.</p>
		{{if eq .Role "employer"}}<p>Post your first job and start reviewing applicants from your <a href="{{.URL}}/employer/dashboard">dashboard</a>.</p>
		{{else}}<p>Complete your profile and start applying on the <a href="{{.URL}}/jobs">jobs page</a>.</p>{{end}}
		<p>Thank you,</p>
		<p>Job Portal Team</p>
	`))

	submittedTmpl = template.Must(template.New("submitted").Parse(`
		<p>Hi {{.Name}},</p>
		<p>We received your application for <strong>{{.JobTitle}}</strong> at {{.Company}}.</p>
		<p>You can follow its status on <a href="{{.URL}}/user/applications">your applications page</a>.</p>
		<p>Good luck!</p>
		<p>Job Portal Team</p>
	`))

	shortlistedTmpl = template.Must(template.New("shortlisted").Parse(`
		<p>Hi {{.Name}},</p>
		<p>Good news: {{.Company}} has shortlisted your application for <strong>{{.JobTitle}}</strong>.</p>
		<p>The employer may contact you soon about next steps.</p>
		<p>Job Portal Team</p>
	`))
)

type mailData struct {
	Name     string
	Role     string
	JobTitle string
	Company  string
	URL      string
}

// Handle implements event.Handler.
func (n *Notifier) Handle(_ context.Context, e event.Event) error {
	var (
		to      string
		subject string
		tmpl    *template.Template
		data    = mailData{URL: n.appURL}
	)

	switch ev := e.(type) {
	case event.FirstLoginCompleted:
		to, subject, tmpl = ev.Email, "Welcome to Job Portal", welcomeTmpl
		data.Name, data.Role = ev.Name, ev.Role
	case event.ApplicationSubmitted:
		to, subject, tmpl = ev.ApplicantEmail, fmt.Sprintf("Application received: %s", ev.JobTitle), submittedTmpl
		data.Name, data.JobTitle, data.Company = ev.ApplicantName, ev.JobTitle, ev.CompanyName
	case event.ApplicationShortlisted:
		to, subject, tmpl = ev.ApplicantEmail, fmt.Sprintf("You've been shortlisted: %s", ev.JobTitle), shortlistedTmpl
		data.Name, data.JobTitle, data.Company = ev.ApplicantName, ev.JobTitle, ev.CompanyName
	default:
		n.logger.Warn().Str("event", string(e.EventType())).Msg("no notification for event")
		return nil
	}

	if to == "" {
		return fmt.Errorf("%s event has no recipient", e.EventType())
	}
	if data.Name == "" {
		data.Name = "there"
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return err
	}

	if err := n.sender.SendHTML([]string{to}, subject, body.String()); err != nil {
		return fmt.Errorf("send %s email: %w", e.EventType(), err)
	}

	n.logger.Debug().Str("event", string(e.EventType())).Str("to", to).Msg("notification sent")

	return nil
}
