package profile

import (
	"strings"
	"time"
)

// Profile is the extended display identity derived from an account. It is
// fetched as a non-blocking background step after session bootstrap, so
// callers must tolerate its absence.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// FullName joins first and last name, tolerating blanks.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
