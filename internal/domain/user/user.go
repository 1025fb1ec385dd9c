package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User is an account in the system. Doctors carry a specialization,
// patients do not.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	Name           string
	Role           Role
	Specialization sql.NullString
	Phone          sql.NullString
	CreatedAt      time.Time
}
