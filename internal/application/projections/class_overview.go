package projections

import (
	"context"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/classroom"
	"github.com/geraldho81/classroom-manager/internal/domain/note"
	"github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// ClassOverviewQuery carries query parameters.
type ClassOverviewQuery struct {
	UserID  string
	ClassID string
	Date    string // Optional, defaults to today
}

// ClassOverviewResult is the dashboard header for one class: roster and
// note counts, today's attendance tallies, and today's lost time.
type ClassOverviewResult struct {
	ClassID       string
	ClassName     string
	Date          string
	StudentCount  int
	NoteCount     int
	Present       int
	Absent        int
	Late          int
	Unmarked      int
	TimeLostToday int // seconds
}

// OverviewClassStore defines the class store interface for this projection.
type OverviewClassStore interface {
	GetByID(ctx context.Context, id string) (classroom.ClassRoom, error)
}

// OverviewNoteStore defines the note store interface for this projection.
type OverviewNoteStore interface {
	ListByClass(ctx context.Context, classID string) ([]note.Note, error)
}

// OverviewSettingsStore defines the settings store interface for this projection.
type OverviewSettingsStore interface {
	GetByUser(ctx context.Context, userID string) (settings.Settings, error)
}

// ClassOverviewDeps holds dependencies for ClassOverview.
type ClassOverviewDeps struct {
	ClassStore      OverviewClassStore
	StudentStore    SummaryStudentStore
	AttendanceStore SummaryAttendanceStore
	NoteStore       OverviewNoteStore
	SettingsStore   OverviewSettingsStore // optional: nil skips time-loss lookup
}

// QueryClassOverview assembles the dashboard header for one class.
// PRE: ClassID names a class owned by UserID
// POST: Counts reflect the stored rows at query time
func QueryClassOverview(ctx context.Context, query ClassOverviewQuery, deps ClassOverviewDeps) (ClassOverviewResult, error) {
	date := query.Date
	if date == "" {
		date = time.Now().Format(attendance.DateLayout)
	}

	class, err := deps.ClassStore.GetByID(ctx, query.ClassID)
	if err != nil {
		return ClassOverviewResult{}, err
	}

	summary, err := QueryAttendanceSummary(ctx, AttendanceSummaryQuery{
		ClassID: query.ClassID,
		Date:    date,
	}, AttendanceSummaryDeps{
		StudentStore:    deps.StudentStore,
		AttendanceStore: deps.AttendanceStore,
	})
	if err != nil {
		return ClassOverviewResult{}, err
	}

	notes, err := deps.NoteStore.ListByClass(ctx, query.ClassID)
	if err != nil {
		return ClassOverviewResult{}, err
	}

	result := ClassOverviewResult{
		ClassID:      class.ID,
		ClassName:    class.Name,
		Date:         date,
		StudentCount: summary.Total,
		NoteCount:    len(notes),
		Present:      summary.Present,
		Absent:       summary.Absent,
		Late:         summary.Late,
		Unmarked:     summary.Unmarked,
	}

	if deps.SettingsStore != nil {
		if s, err := deps.SettingsStore.GetByUser(ctx, query.UserID); err == nil {
			result.TimeLostToday = s.TimeLossFor(date)
		}
	}

	return result, nil
}
