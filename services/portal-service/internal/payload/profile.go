package payload

import (
	"time"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

type SelectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user employer"`
}

type CompleteEmployerProfileRequest struct {
	CompanyName        string   `json:"companyName"        validate:"required,min=2,max=120"`
	CompanyLogo        string   `json:"companyLogo"        validate:"omitempty,url"`
	CompanyWebsite     string   `json:"companyWebsite"     validate:"omitempty,url"`
	CompanyDescription string   `json:"companyDescription" validate:"required,max=2000"`
	CompanySize        string   `json:"companySize"        validate:"required,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Industry           string   `json:"industry"           validate:"required,oneof=technology healthcare finance education retail manufacturing consulting media hospitality other"`
	CompanyType        string   `json:"companyType"        validate:"required,oneof=startup sme enterprise nonprofit government agency"`
	FoundedYear        int      `json:"foundedYear"        validate:"omitempty,min=1800,max=2100"`
	Location           string   `json:"location"           validate:"required,max=200"`
	ContactPerson      string   `json:"contactPerson"      validate:"required,max=100"`
	ContactPhone       string   `json:"contactPhone"       validate:"omitempty,max=30"`
	HiringFrequency    string   `json:"hiringFrequency"    validate:"required,oneof=rarely occasionally regularly continuously"`
	TypicalRoles       []string `json:"typicalRoles"       validate:"omitempty,dive,oneof=engineering design marketing sales product operations finance hr customer-support data legal other"`
}

func (r CompleteEmployerProfileRequest) ToModel() model.EmployerProfile {
	roles := make([]model.Department, 0, len(r.TypicalRoles))
	for _, role := range r.TypicalRoles {
		roles = append(roles, model.Department(role))
	}

	return model.EmployerProfile{
		CompanyName:        r.CompanyName,
		CompanyLogo:        r.CompanyLogo,
		CompanyWebsite:     r.CompanyWebsite,
		CompanyDescription: r.CompanyDescription,
		CompanySize:        model.CompanySize(r.CompanySize),
		Industry:           model.Industry(r.Industry),
		CompanyType:        model.CompanyType(r.CompanyType),
		FoundedYear:        r.FoundedYear,
		Location:           r.Location,
		ContactPerson:      r.ContactPerson,
		ContactPhone:       r.ContactPhone,
		HiringFrequency:    model.HiringFrequency(r.HiringFrequency),
		TypicalRoles:       roles,
	}
}

type CompleteJobSeekerProfileRequest struct {
	Headline          string   `json:"headline"          validate:"required,max=160"`
	Phone             string   `json:"phone"             validate:"omitempty,max=30"`
	Location          string   `json:"location"          validate:"required,max=200"`
	Bio               string   `json:"bio"               validate:"omitempty,max=2000"`
	Skills            []string `json:"skills"            validate:"required,min=1,max=50,dive,required,max=60"`
	ExperienceLevel   string   `json:"experienceLevel"   validate:"required,oneof=entry junior mid senior lead executive"`
	YearsOfExperience int      `json:"yearsOfExperience" validate:"min=0,max=60"`
	ResumeURL         string   `json:"resumeUrl"         validate:"omitempty,url"`
	PortfolioURL      string   `json:"portfolioUrl"      validate:"omitempty,url"`
	LinkedInURL       string   `json:"linkedinUrl"       validate:"omitempty,url"`
	PreferredJobTypes []string `json:"preferredJobTypes" validate:"omitempty,dive,oneof=full-time part-time contract internship temporary freelance"`
}

func (r CompleteJobSeekerProfileRequest) ToModel() model.JobSeekerProfile {
	types := make([]model.JobType, 0, len(r.PreferredJobTypes))
	for _, t := range r.PreferredJobTypes {
		types = append(types, model.JobType(t))
	}

	return model.JobSeekerProfile{
		Headline:          r.Headline,
		Phone:             r.Phone,
		Location:          r.Location,
		Bio:               r.Bio,
		Skills:            r.Skills,
		ExperienceLevel:   model.ExperienceLevel(r.ExperienceLevel),
		YearsOfExperience: r.YearsOfExperience,
		ResumeURL:         r.ResumeURL,
		PortfolioURL:      r.PortfolioURL,
		LinkedInURL:       r.LinkedInURL,
		PreferredJobTypes: types,
	}
}

// UserResponse is the caller's own account. It never carries the password
// hash or the internal id.
type UserResponse struct {
	ID               string                    `json:"id"`
	Name             string                    `json:"name"`
	Email            string                    `json:"email"`
	Role             model.Role                `json:"role"`
	Verified         bool                      `json:"verified"`
	Image            string                    `json:"image,omitempty"`
	GoogleLinked     bool                      `json:"googleLinked"`
	HasPassword      bool                      `json:"hasPassword"`
	ProfileCompleted bool                      `json:"profileCompleted"`
	IsNewUser        bool                      `json:"isNewUser"`
	JobSeekerProfile *JobSeekerProfileResponse `json:"jobSeekerProfile,omitempty"`
	EmployerProfile  *EmployerProfileResponse  `json:"employerProfile,omitempty"`
	CreatedAt        time.Time                 `json:"createdAt"`
}

type JobSeekerProfileResponse struct {
	Headline          string                `json:"headline"`
	Phone             string                `json:"phone,omitempty"`
	Location          string                `json:"location"`
	Bio               string                `json:"bio,omitempty"`
	Skills            []string              `json:"skills"`
	ExperienceLevel   model.ExperienceLevel `json:"experienceLevel"`
	YearsOfExperience int                   `json:"yearsOfExperience"`
	ResumeURL         string                `json:"resumeUrl,omitempty"`
	PortfolioURL      string                `json:"portfolioUrl,omitempty"`
	LinkedInURL       string                `json:"linkedinUrl,omitempty"`
	PreferredJobTypes []model.JobType       `json:"preferredJobTypes,omitempty"`
	ProfileCompleted  bool                  `json:"profileCompleted"`
}

type EmployerProfileResponse struct {
	CompanyName        string                `json:"companyName"`
	CompanyLogo        string                `json:"companyLogo,omitempty"`
	CompanyWebsite     string                `json:"companyWebsite,omitempty"`
	CompanyDescription string                `json:"companyDescription"`
	CompanySize        model.CompanySize     `json:"companySize"`
	Industry           model.Industry        `json:"industry"`
	CompanyType        model.CompanyType     `json:"companyType"`
	FoundedYear        int                   `json:"foundedYear,omitempty"`
	Location           string                `json:"location"`
	ContactPerson      string                `json:"contactPerson"`
	ContactPhone       string                `json:"contactPhone,omitempty"`
	HiringFrequency    model.HiringFrequency `json:"hiringFrequency"`
	TypicalRoles       []model.Department    `json:"typicalRoles,omitempty"`
	ProfileCompleted   bool                  `json:"profileCompleted"`
}

func NewUserResponse(u *model.User) *UserResponse {
	resp := &UserResponse{
		ID:               u.UUID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Verified:         u.Verified,
		Image:            u.Image,
		GoogleLinked:     u.OAuth.Google != nil,
		HasPassword:      u.HasPassword(),
		ProfileCompleted: u.ProfileCompleted,
		IsNewUser:        u.IsNewUser(),
		CreatedAt:        u.CreatedAt,
	}

	if p := u.JobSeekerProfile; p != nil {
		resp.JobSeekerProfile = &JobSeekerProfileResponse{
			Headline:          p.Headline,
			Phone:             p.Phone,
			Location:          p.Location,
			Bio:               p.Bio,
			Skills:            p.Skills,
			ExperienceLevel:   p.ExperienceLevel,
			YearsOfExperience: p.YearsOfExperience,
			ResumeURL:         p.ResumeURL,
			PortfolioURL:      p.PortfolioURL,
			LinkedInURL:       p.LinkedInURL,
			PreferredJobTypes: p.PreferredJobTypes,
			ProfileCompleted:  p.ProfileCompleted,
		}
	}

	if p := u.EmployerProfile; p != nil {
		resp.EmployerProfile = &EmployerProfileResponse{
			CompanyName:        p.CompanyName,
			CompanyLogo:        p.CompanyLogo,
			CompanyWebsite:     p.CompanyWebsite,
			CompanyDescription: p.CompanyDescription,
			CompanySize:        p.CompanySize,
			Industry:           p.Industry,
			CompanyType:        p.CompanyType,
			FoundedYear:        p.FoundedYear,
			Location:           p.Location,
			ContactPerson:      p.ContactPerson,
			ContactPhone:       p.ContactPhone,
			HiringFrequency:    p.HiringFrequency,
			TypicalRoles:       p.TypicalRoles,
			ProfileCompleted:   p.ProfileCompleted,
		}
	}

	return resp
}

type UserEnvelope struct {
	User *UserResponse `json:"user"`
}

// ProfileUpdateResponse tells the UI where onboarding continues.
type ProfileUpdateResponse struct {
	User       *UserResponse `json:"user"`
	RedirectTo string        `json:"redirectTo"`
}
