package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role разделяет работодателей и соискателей.
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleCompany   Role = "COMPANY"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleApplicant || r == RoleCompany
}

// User is a domain entity representing a system user.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	Role         Role
	IsActive     bool
	IsSuperuser  bool
	PasswordHash string
	CreatedAt    time.Time
}
