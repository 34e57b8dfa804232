package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultJobLifetime is how long a new posting stays open before the expiry
// sweep marks it expired.
const DefaultJobLifetime = 30 * 24 * time.Hour

// Job is an employer's posting. Applications are embedded and share the job's
// lifetime; Version guards every whole-document write.
type Job struct {
	ID                  bson.ObjectID   `bson:"_id,omitempty"`
	UUID                string          `bson:"uuid"`
	Employer            bson.ObjectID   `bson:"employer"`
	EmployerUUID        string          `bson:"employer_uuid"`
	Title               string          `bson:"title"`
	Description         string          `bson:"description"`
	Requirements        []string        `bson:"requirements"`
	Responsibilities    []string        `bson:"responsibilities,omitempty"`
	Benefits            []string        `bson:"benefits,omitempty"`
	Skills              []string        `bson:"skills,omitempty"`
	Department          Department      `bson:"department"`
	JobType             JobType         `bson:"job_type"`
	WorkModel           WorkModel       `bson:"work_model"`
	ExperienceLevel     ExperienceLevel `bson:"experience_level"`
	Location            string          `bson:"location"`
	SalaryRange         SalaryRange     `bson:"salary_range"`
	Company             Company         `bson:"company"`
	Status              JobStatus       `bson:"status"`
	ApplicationDeadline *time.Time      `bson:"application_deadline,omitempty"`
	ExpiresAt           *time.Time      `bson:"expires_at,omitempty"`
	Applications        []Application   `bson:"applications"`
	Views               int64           `bson:"views"`
	Version             int64           `bson:"version"`
	CreatedAt           time.Time       `bson:"created_at"`
	UpdatedAt           time.Time       `bson:"updated_at"`
}

// SalaryRange is optional on both ends.
type SalaryRange struct {
	Min        *int64       `bson:"min,omitempty"`
	Max        *int64       `bson:"max,omitempty"`
	Currency   string       `bson:"currency"`
	Period     SalaryPeriod `bson:"period"`
	Negotiable bool         `bson:"negotiable"`
}

// Inverted reports whether both bounds are set and min exceeds max.
func (s SalaryRange) Inverted() bool {
	return s.Min != nil && s.Max != nil && *s.Min > *s.Max
}

// Company is the employer's company snapshot taken when the job is created.
type Company struct {
	Name    string `bson:"name"`
	Logo    string `bson:"logo,omitempty"`
	Website string `bson:"website,omitempty"`
}

// FindApplication returns the application submitted by applicant, or nil.
func (j *Job) FindApplication(applicant bson.ObjectID) *Application {
	for i := range j.Applications {
		if j.Applications[i].Applicant == applicant {
			return &j.Applications[i]
		}
	}
	return nil
}

// ApplicationByID returns the application with the given public id, or nil.
func (j *Job) ApplicationByID(id string) *Application {
	for i := range j.Applications {
		if j.Applications[i].ID == id {
			return &j.Applications[i]
		}
	}
	return nil
}

// Expired reports whether expiresAt is set and lies before now.
func (j *Job) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && j.ExpiresAt.Before(now)
}

// AcceptingApplications is true only for active jobs that have not expired.
func (j *Job) AcceptingApplications(now time.Time) bool {
	return j.Status == JobStatusActive && !j.Expired(now)
}

// DeadlinePassed reports whether an application deadline is set and has passed.
func (j *Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline != nil && j.ApplicationDeadline.Before(now)
}

type Department string

const (
	DepartmentEngineering     Department = "engineering"
	DepartmentDesign          Department = "design"
	DepartmentMarketing       Department = "marketing"
	DepartmentSales           Department = "sales"
	DepartmentProduct         Department = "product"
	DepartmentOperations      Department = "operations"
	DepartmentFinance         Department = "finance"
	DepartmentHR              Department = "hr"
	DepartmentCustomerSupport Department = "customer-support"
	DepartmentData            Department = "data"
	DepartmentLegal           Department = "legal"
	DepartmentOther           Department = "other"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeTemporary  JobType = "temporary"
	JobTypeFreelance  JobType = "freelance"
)

type WorkModel string

const (
	WorkModelOnSite WorkModel = "on-site"
	WorkModelRemote WorkModel = "remote"
	WorkModelHybrid WorkModel = "hybrid"
)

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceJunior    ExperienceLevel = "junior"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

type SalaryPeriod string

const (
	SalaryHourly  SalaryPeriod = "hourly"
	SalaryMonthly SalaryPeriod = "monthly"
	SalaryYearly  SalaryPeriod = "yearly"
)
