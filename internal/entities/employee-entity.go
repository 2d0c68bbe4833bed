package entities

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID         uint64
	EmployeeID string
	FirstName  string
	LastName   string
	Branch     null.String
	Department null.String
	Position   null.String
	Email      string
	Phone      null.String
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// NormalizeEmail lower-cases and trims an email so the uniqueness constraint
// is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
