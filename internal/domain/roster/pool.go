package roster

import (
	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// Available returns the pool eligible for random picking and grouping:
// non-excluded students who, if any attendance exists for the date, are
// marked present or late. With zero attendance records for the date the
// filter is inactive and every non-excluded student is eligible.
// POST: result preserves roster order; input slices are not mutated
func Available(students []student.Student, records []attendance.Record, date string) []student.Student {
	statusByStudent := make(map[string]string)
	for _, r := range records {
		if r.Date == date {
			statusByStudent[r.StudentID] = r.Status
		}
	}
	hasAttendance := len(statusByStudent) > 0

	var pool []student.Student
	for _, s := range students {
		if s.Excluded {
			continue
		}
		if hasAttendance {
			status, marked := statusByStudent[s.ID]
			if !marked || (status != attendance.StatusPresent && status != attendance.StatusLate) {
				continue
			}
		}
		pool = append(pool, s)
	}
	return pool
}
