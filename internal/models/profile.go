package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// OpportunityType is what a student is open to.
type OpportunityType string

const (
	OpportunityInternship OpportunityType = "internship"
	OpportunityJob        OpportunityType = "job"
)

// Valid reports whether t is a known opportunity type.
func (t OpportunityType) Valid() bool {
	return t == OpportunityInternship || t == OpportunityJob
}

// Owner is the account a profile belongs to.
type Owner struct {
	ID         string `db:"user_id" json:"id"`
	AUID       string `db:"auid" json:"auid,omitempty"`
	FirstName  string `db:"first_name" json:"firstName"`
	LastName   string `db:"last_name" json:"lastName"`
	Email      string `db:"email" json:"email,omitempty"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	University string `db:"university" json:"university,omitempty"`
}

// FullName joins first and last name.
func (o Owner) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// LookingFor describes the opportunity a student wants and when they are available.
// A nil ToDate means available indefinitely.
type LookingFor struct {
	Type     OpportunityType `json:"type"`
	FromDate *time.Time      `json:"from_date,omitempty"`
	ToDate   *time.Time      `json:"to_date,omitempty"`
}

// Value stores the struct as JSONB.
func (l LookingFor) Value() (driver.Value, error) { return jsonValue(l) }

// Scan loads the struct from JSONB.
func (l *LookingFor) Scan(value interface{}) error { return jsonScan(value, l) }

// Education is one education entry of a profile.
type Education struct {
	ID             string     `json:"id,omitempty"`
	Institute      string     `json:"institute"`
	FromDate       *time.Time `json:"from_date,omitempty"`
	ToDate         *time.Time `json:"to_date,omitempty"`
	Course         CourseRef  `json:"course"`
	Specialization string     `json:"specialization,omitempty"`
}

// Experience is one work experience entry.
type Experience struct {
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Project is a portfolio project.
type Project struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	OnGoing     bool       `json:"on_going"`
	TechUsed    []string   `json:"tech_used"`
	CodeURL     string     `json:"code_url,omitempty"`
	LiveURL     string     `json:"live_url,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Certificate is an earned certification.
type Certificate struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	IssuedBy       string     `json:"issued_by"`
	IssueDate      time.Time  `json:"issue_date"`
	CertificateURL string     `json:"certificate_url,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
}

// EducationList is persisted as JSONB.
type EducationList []Education

func (e EducationList) Value() (driver.Value, error)  { return jsonValue(nonNil(e)) }
func (e *EducationList) Scan(value interface{}) error { return jsonScan(value, e) }

// ExperienceList is persisted as JSONB.
type ExperienceList []Experience

func (e ExperienceList) Value() (driver.Value, error)  { return jsonValue(nonNil(e)) }
func (e *ExperienceList) Scan(value interface{}) error { return jsonScan(value, e) }

// ProjectList is persisted as JSONB.
type ProjectList []Project

func (p ProjectList) Value() (driver.Value, error)  { return jsonValue(nonNil(p)) }
func (p *ProjectList) Scan(value interface{}) error { return jsonScan(value, p) }

// CertificateList is persisted as JSONB.
type CertificateList []Certificate

func (c CertificateList) Value() (driver.Value, error)  { return jsonValue(nonNil(c)) }
func (c *CertificateList) Scan(value interface{}) error { return jsonScan(value, c) }

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// StudentProfile is a student's placement profile together with its owner.
type StudentProfile struct {
	ID                    string          `json:"id"`
	UserID                string          `json:"userId"`
	Owner                 Owner           `json:"user"`
	Headline              string          `json:"headline"`
	About                 string          `json:"about"`
	Location              string          `json:"location"`
	PreferredField        *string         `json:"preferred_field"`
	LinkedInURL           string          `json:"linkedin_url,omitempty"`
	GitHubURL             string          `json:"github_url,omitempty"`
	ResumeLink            string          `json:"resume_link,omitempty"`
	ProfileImage          string          `json:"profile_image,omitempty"`
	Skills                SkillRefs       `json:"skills"`
	LookingFor            *LookingFor     `json:"looking_for"`
	TotalExperienceMonths int             `json:"total_experience"`
	Education             EducationList   `json:"education"`
	Experience            ExperienceList  `json:"experience"`
	Projects              ProjectList     `json:"projects"`
	Certificates          CertificateList `json:"certificates"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// Field returns the preferred field or "" when unset.
func (p StudentProfile) Field() string {
	if p.PreferredField == nil {
		return ""
	}
	return *p.PreferredField
}

// ExperienceMonths sums whole months across experience entries. Open-ended entries run until now.
func ExperienceMonths(entries []Experience, now time.Time) int {
	total := 0
	for _, e := range entries {
		end := now
		if e.EndDate != nil {
			end = *e.EndDate
		}
		total += monthsBetween(e.StartDate, end)
	}
	return total
}

func monthsBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
