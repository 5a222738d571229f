package projections

import (
	"context"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/roster"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// AttendanceSummaryQuery carries query parameters.
type AttendanceSummaryQuery struct {
	ClassID string
	Date    string // Optional, defaults to today
}

// StudentStatus pairs one student with their status for the date.
type StudentStatus struct {
	StudentID string
	Name      string
	Excluded  bool
	Status    string // "" means unmarked
}

// AttendanceSummaryResult carries per-status counts plus the per-student
// breakdown and the eligible picking pool size.
type AttendanceSummaryResult struct {
	Date      string
	Total     int
	Present   int
	Absent    int
	Late      int
	Unmarked  int
	Available int
	Students  []StudentStatus
}

// SummaryStudentStore defines the student store interface for this projection.
type SummaryStudentStore interface {
	ListByClass(ctx context.Context, classID string) ([]student.Student, error)
}

// SummaryAttendanceStore defines the attendance store interface for this projection.
type SummaryAttendanceStore interface {
	ListByClassAndDate(ctx context.Context, classID, date string) ([]attendance.Record, error)
}

// AttendanceSummaryDeps holds dependencies for AttendanceSummary.
type AttendanceSummaryDeps struct {
	StudentStore    SummaryStudentStore
	AttendanceStore SummaryAttendanceStore
}

// QueryAttendanceSummary tallies one class's attendance for a date.
// PRE: ClassID names an existing class
// POST: Counts sum to Total; Available counts students eligible for
// random picking under the advisory attendance rule
func QueryAttendanceSummary(ctx context.Context, query AttendanceSummaryQuery, deps AttendanceSummaryDeps) (AttendanceSummaryResult, error) {
	date := query.Date
	if date == "" {
		date = time.Now().Format(attendance.DateLayout)
	}

	students, err := deps.StudentStore.ListByClass(ctx, query.ClassID)
	if err != nil {
		return AttendanceSummaryResult{}, err
	}
	records, err := deps.AttendanceStore.ListByClassAndDate(ctx, query.ClassID, date)
	if err != nil {
		return AttendanceSummaryResult{}, err
	}

	statusByStudent := make(map[string]string, len(records))
	for _, r := range records {
		statusByStudent[r.StudentID] = r.Status
	}

	result := AttendanceSummaryResult{Date: date, Total: len(students)}
	for _, s := range students {
		status := statusByStudent[s.ID]
		switch status {
		case attendance.StatusPresent:
			result.Present++
		case attendance.StatusAbsent:
			result.Absent++
		case attendance.StatusLate:
			result.Late++
		default:
			result.Unmarked++
		}
		result.Students = append(result.Students, StudentStatus{
			StudentID: s.ID,
			Name:      s.Name,
			Excluded:  s.Excluded,
			Status:    status,
		})
	}
	result.Available = len(roster.Available(students, records, date))

	return result, nil
}
