package models

import "time"

// UserRole represents the roles carried in session tokens.
type UserRole string

const (
	RoleStudent   UserRole = "STUDENT"
	RoleRecruiter UserRole = "RECRUITER"
	RoleAdmin     UserRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is an account row. Sessions are issued elsewhere; this service only edits account fields.
type User struct {
	ID           string    `db:"id" json:"id"`
	AUID         string    `db:"auid" json:"auid,omitempty"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	University   string    `db:"university" json:"university,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Owner projects the public owner view of the account.
func (u User) Owner() Owner {
	return Owner{
		ID:         u.ID,
		AUID:       u.AUID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		University: u.University,
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
