package attendance

import (
	"errors"
	"time"
)

// Attendance status constants. Absence of a record means "unmarked".
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

// DateLayout is the calendar-date format used for attendance keys.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrNoStudent     = errors.New("attendance record must reference a student")
	ErrInvalidDate   = errors.New("attendance date must be YYYY-MM-DD")
	ErrInvalidStatus = errors.New("status must be 'present', 'absent', or 'late'")
)

// Record marks one student's status on one calendar date.
// INVARIANT: at most one Record exists per (StudentID, Date) pair, enforced
// by the store's upsert-on-conflict semantics.
type Record struct {
	ID        string
	StudentID string
	Date      string // YYYY-MM-DD
	Status    string
}

// ValidStatus reports whether s is one of the three attendance statuses.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Record) Validate() error {
	if r.StudentID == "" {
		return ErrNoStudent
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if !ValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Counted reports whether the record keeps its student in the selection pool.
// Present and late students remain eligible; absent students do not.
func (r *Record) Counted() bool {
	return r.Status == StatusPresent || r.Status == StatusLate
}
