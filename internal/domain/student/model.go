package student

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmptyName   = errors.New("student name cannot be empty")
	ErrNameTooLong = errors.New("student name cannot exceed 100 characters")
	ErrNoClass     = errors.New("student must belong to a class")
)

// Student holds state for one roster entry. Excluded is a pool-membership
// flag: an excluded student stays on the roster but is filtered out of
// random-selection and grouping pools. It is distinct from deletion.
type Student struct {
	ID        string
	ClassID   string
	Name      string
	Excluded  bool
	CreatedAt time.Time
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be blank, ClassID must be set
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if s.ClassID == "" {
		return ErrNoClass
	}
	return nil
}
