package classroom

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
	ErrEmptyName   = errors.New("class name cannot be empty")
	ErrNameTooLong = errors.New("class name cannot exceed 100 characters")
	ErrNoOwner     = errors.New("class must belong to a user")
)

// ClassRoom is a teacher's named group of students. It is the unit of
// data partitioning for students, attendance and notes.
type ClassRoom struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// Validate checks if the ClassRoom has valid data.
// PRE: ClassRoom struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be blank, UserID must be set
func (c *ClassRoom) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if c.UserID == "" {
		return ErrNoOwner
	}
	return nil
}
