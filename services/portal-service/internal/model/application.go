package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Application is a job seeker's submission, embedded in its Job.
// Applicant and AppliedAt never change after creation.
type Application struct {
	ID                string            `bson:"id"`
	Applicant         bson.ObjectID     `bson:"applicant"`
	Status            ApplicationStatus `bson:"status"`
	AppliedAt         time.Time         `bson:"applied_at"`
	UpdatedAt         time.Time         `bson:"updated_at"`
	CoverLetter       string            `bson:"cover_letter,omitempty"`
	ResumeURL         string            `bson:"resume_url,omitempty"`
	PortfolioURL      string            `bson:"portfolio_url,omitempty"`
	LinkedInURL       string            `bson:"linkedin_url,omitempty"`
	SalaryExpectation string            `bson:"salary_expectation,omitempty"`
	Availability      string            `bson:"availability,omitempty"`
	Skills            []string          `bson:"skills,omitempty"`
	References        []Reference       `bson:"references,omitempty"`
	StatusHistory     []StatusChange    `bson:"status_history,omitempty"`
}

type Reference struct {
	Name         string `bson:"name"`
	Email        string `bson:"email,omitempty"`
	Phone        string `bson:"phone,omitempty"`
	Relationship string `bson:"relationship,omitempty"`
}

// StatusChange records one employer review decision.
type StatusChange struct {
	From ApplicationStatus `bson:"from"`
	To   ApplicationStatus `bson:"to"`
	At   time.Time         `bson:"at"`
}
