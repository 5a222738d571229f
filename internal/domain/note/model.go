package note

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyText = errors.New("note text cannot be empty")
	ErrNoClass   = errors.New("note must belong to a class")
)

// Note is a dated free-text entry attached to a class. Notes are displayed
// newest first.
type Note struct {
	ID        string
	ClassID   string
	Text      string
	Date      string // YYYY-MM-DD, stamped by the client clock on creation
	CreatedAt time.Time
}

// Validate checks if the Note has valid data.
// PRE: Note struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return ErrEmptyText
	}
	if n.ClassID == "" {
		return ErrNoClass
	}
	return nil
}
