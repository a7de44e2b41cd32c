package dto

import "github.com/noah-isme/placement-portal-api/internal/models"

// ProfileRequest is shared by POST and PUT /student. On update only non-nil fields are applied;
// an empty list clears the stored list.
type ProfileRequest struct {
	Headline       *string                `json:"headline" validate:"omitempty,max=160"`
	About          *string                `json:"about" validate:"omitempty,max=4000"`
	Location       *string                `json:"location" validate:"omitempty,max=120"`
	PreferredField *string                `json:"preferred_field" validate:"omitempty,max=120"`
	LinkedInURL    *string                `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL      *string                `json:"github_url" validate:"omitempty,url"`
	ResumeLink     *string                `json:"resume_link" validate:"omitempty,url"`
	ProfileImage   *string                `json:"profile_image" validate:"omitempty,url"`
	Skills         []string               `json:"skills" validate:"omitempty,dive,required"`
	LookingFor     *models.LookingFor     `json:"looking_for"`
	Education      models.EducationList   `json:"education"`
	Experience     models.ExperienceList  `json:"experience"`
	Projects       models.ProjectList     `json:"projects"`
	Certificates   models.CertificateList `json:"certificates"`
}

// UpdateAccountRequest captures PATCH /account payload.
type UpdateAccountRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"lastName" validate:"omitempty,max=80"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=72"`
}
