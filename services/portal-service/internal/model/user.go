package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the account type chosen at signup or during onboarding.
type Role string

const (
	RoleUser     Role = "user"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a raw string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleUser, RoleEmployer, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// OAuthPasswordSentinel is stored as the password hash of accounts created
// through an OAuth provider. It never verifies against any input.
const OAuthPasswordSentinel = "oauth-managed"

// User represents an account on the job portal. The internal ObjectID is never
// exposed over the API; UUID is the public identifier.
type User struct {
	ID               bson.ObjectID     `bson:"_id,omitempty"`
	UUID             string            `bson:"uuid"`
	Name             string            `bson:"name"`
	Email            string            `bson:"email"`
	PasswordHash     string            `bson:"password_hash,omitempty"`
	Role             Role              `bson:"role"`
	Verified         bool              `bson:"verified"`
	Image            string            `bson:"image,omitempty"`
	OAuth            OAuthLinks        `bson:"oauth"`
	JobSeekerProfile *JobSeekerProfile `bson:"job_seeker_profile,omitempty"`
	EmployerProfile  *EmployerProfile  `bson:"employer_profile,omitempty"`
	ProfileCompleted bool              `bson:"profile_completed"`
	WelcomeEmailSent bool              `bson:"welcome_email_sent"`
	PasswordReset    *PasswordReset    `bson:"password_reset,omitempty"`
	CreatedAt        time.Time         `bson:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at"`
}

// OAuthLinks holds the external identities attached to an account.
type OAuthLinks struct {
	Google *OAuthAccount `bson:"google,omitempty"`
}

// OAuthAccount is a provider-side identity.
type OAuthAccount struct {
	ID    string `bson:"id"`
	Email string `bson:"email"`
}

// HasPassword reports whether the account can sign in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordHash != OAuthPasswordSentinel
}

// LinkedToGoogle reports whether the given Google account is attached.
func (u *User) LinkedToGoogle(googleID string) bool {
	return u.OAuth.Google != nil && u.OAuth.Google.ID == googleID
}

// IsNewUser is true for job-seeker accounts that have not completed any
// profile yet, which the UI treats as "still needs to pick a role".
func (u *User) IsNewUser() bool {
	if u.Role != RoleUser {
		return false
	}
	if u.JobSeekerProfile != nil && u.JobSeekerProfile.ProfileCompleted {
		return false
	}
	if u.EmployerProfile != nil && u.EmployerProfile.ProfileCompleted {
		return false
	}
	return true
}

// JobSeekerProfile is filled in by job seekers during onboarding.
type JobSeekerProfile struct {
	Headline          string          `bson:"headline"`
	Phone             string          `bson:"phone,omitempty"`
	Location          string          `bson:"location"`
	Bio               string          `bson:"bio,omitempty"`
	Skills            []string        `bson:"skills"`
	ExperienceLevel   ExperienceLevel `bson:"experience_level"`
	YearsOfExperience int             `bson:"years_of_experience"`
	ResumeURL         string          `bson:"resume_url,omitempty"`
	PortfolioURL      string          `bson:"portfolio_url,omitempty"`
	LinkedInURL       string          `bson:"linkedin_url,omitempty"`
	PreferredJobTypes []JobType       `bson:"preferred_job_types,omitempty"`
	ProfileCompleted  bool            `bson:"profile_completed"`
}

// EmployerProfile describes the company an employer hires for.
type EmployerProfile struct {
	CompanyName        string          `bson:"company_name"`
	CompanyLogo        string          `bson:"company_logo,omitempty"`
	CompanyWebsite     string          `bson:"company_website,omitempty"`
	CompanyDescription string          `bson:"company_description"`
	CompanySize        CompanySize     `bson:"company_size"`
	Industry           Industry        `bson:"industry"`
	CompanyType        CompanyType     `bson:"company_type"`
	FoundedYear        int             `bson:"founded_year,omitempty"`
	Location           string          `bson:"location"`
	ContactPerson      string          `bson:"contact_person"`
	ContactPhone       string          `bson:"contact_phone,omitempty"`
	HiringFrequency    HiringFrequency `bson:"hiring_frequency"`
	TypicalRoles       []Department    `bson:"typical_roles,omitempty"`
	ProfileCompleted   bool            `bson:"profile_completed"`
}

// PasswordReset tracks the single outstanding password reset token of a user.
type PasswordReset struct {
	JTI       string    `bson:"jti"`
	Used      bool      `bson:"used"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type CompanySize string

const (
	CompanySizeMicro      CompanySize = "1-10"
	CompanySizeSmall      CompanySize = "11-50"
	CompanySizeMedium     CompanySize = "51-200"
	CompanySizeLarge      CompanySize = "201-500"
	CompanySizeXLarge     CompanySize = "501-1000"
	CompanySizeEnterprise CompanySize = "1000+"
)

type Industry string

const (
	IndustryTechnology    Industry = "technology"
	IndustryHealthcare    Industry = "healthcare"
	IndustryFinance       Industry = "finance"
	IndustryEducation     Industry = "education"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryConsulting    Industry = "consulting"
	IndustryMedia         Industry = "media"
	IndustryHospitality   Industry = "hospitality"
	IndustryOther         Industry = "other"
)

type CompanyType string

const (
	CompanyTypeStartup    CompanyType = "startup"
	CompanyTypeSME        CompanyType = "sme"
	CompanyTypeEnterprise CompanyType = "enterprise"
	CompanyTypeNonprofit  CompanyType = "nonprofit"
	CompanyTypeGovernment CompanyType = "government"
	CompanyTypeAgency     CompanyType = "agency"
)

type HiringFrequency string

const (
	HiringRarely       HiringFrequency = "rarely"
	HiringOccasionally HiringFrequency = "occasionally"
	HiringRegularly    HiringFrequency = "regularly"
	HiringContinuously HiringFrequency = "continuously"
)
