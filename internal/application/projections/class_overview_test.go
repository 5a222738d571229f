package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/classroom"
	"github.com/geraldho81/classroom-manager/internal/domain/note"
	"github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// mockClassStore implements OverviewClassStore.
type mockClassStore struct {
	class classroom.ClassRoom
	err   error
}

func (m *mockClassStore) GetByID(_ context.Context, id string) (classroom.ClassRoom, error) {
	if m.err != nil {
		return classroom.ClassRoom{}, m.err
	}
	return m.class, nil
}

// mockOverviewNoteStore implements OverviewNoteStore.
type mockOverviewNoteStore struct {
	notes []note.Note
}

func (m *mockOverviewNoteStore) ListByClass(_ context.Context, classID string) ([]note.Note, error) {
	return m.notes, nil
}

// mockOverviewSettingsStore implements OverviewSettingsStore.
type mockOverviewSettingsStore struct {
	doc settings.Settings
	err error
}

func (m *mockOverviewSettingsStore) GetByUser(_ context.Context, userID string) (settings.Settings, error) {
	if m.err != nil {
		return settings.Settings{}, m.err
	}
	return m.doc, nil
}

// TestQueryClassOverview tests the assembled dashboard header.
func TestQueryClassOverview(t *testing.T) {
	doc := settings.Defaults("u1")
	doc.AddTimeLoss(summaryDate, 90)

	deps := ClassOverviewDeps{
		ClassStore:   &mockClassStore{class: classroom.ClassRoom{ID: "class-1", UserID: "u1", Name: "Room 5"}},
		StudentStore: &mockStudentStore{students: summaryRoster()},
		AttendanceStore: &mockAttendanceStore{records: []attendance.Record{
			{ID: "a1", StudentID: "s1", Date: summaryDate, Status: attendance.StatusPresent},
		}},
		NoteStore: &mockOverviewNoteStore{notes: []note.Note{
			{ID: "n1", ClassID: "class-1", Text: "fire drill", Date: summaryDate, CreatedAt: time.Now()},
			{ID: "n2", ClassID: "class-1", Text: "new seating", Date: summaryDate, CreatedAt: time.Now()},
		}},
		SettingsStore: &mockOverviewSettingsStore{doc: doc},
	}

	result, err := QueryClassOverview(context.Background(), ClassOverviewQuery{
		UserID:  "u1",
		ClassID: "class-1",
		Date:    summaryDate,
	}, deps)
	if err != nil {
		t.Fatalf("QueryClassOverview() error = %v", err)
	}

	if result.ClassName != "Room 5" {
		t.Errorf("ClassName = %q, want Room 5", result.ClassName)
	}
	if result.StudentCount != 4 || result.NoteCount != 2 {
		t.Errorf("StudentCount = %d, NoteCount = %d; want 4 and 2", result.StudentCount, result.NoteCount)
	}
	if result.Present != 1 || result.Unmarked != 3 {
		t.Errorf("Present = %d, Unmarked = %d; want 1 and 3", result.Present, result.Unmarked)
	}
	if result.TimeLostToday != 90 {
		t.Errorf("TimeLostToday = %d, want 90", result.TimeLostToday)
	}
}

// TestQueryClassOverview_NoSettingsStore tests that the time-loss lookup is
// optional.
func TestQueryClassOverview_NoSettingsStore(t *testing.T) {
	result, err := QueryClassOverview(context.Background(), ClassOverviewQuery{
		UserID:  "u1",
		ClassID: "class-1",
		Date:    summaryDate,
	}, ClassOverviewDeps{
		ClassStore:      &mockClassStore{class: classroom.ClassRoom{ID: "class-1", Name: "Room 5"}},
		StudentStore:    &mockStudentStore{},
		AttendanceStore: &mockAttendanceStore{},
		NoteStore:       &mockOverviewNoteStore{},
	})
	if err != nil {
		t.Fatalf("QueryClassOverview() error = %v", err)
	}
	if result.TimeLostToday != 0 {
		t.Errorf("TimeLostToday = %d with no settings store, want 0", result.TimeLostToday)
	}
}

// TestQueryClassOverview_UnknownClass tests error propagation.
func TestQueryClassOverview_UnknownClass(t *testing.T) {
	classErr := errors.New("classroom not found")
	_, err := QueryClassOverview(context.Background(), ClassOverviewQuery{
		UserID:  "u1",
		ClassID: "nope",
	}, ClassOverviewDeps{
		ClassStore:      &mockClassStore{err: classErr},
		StudentStore:    &mockStudentStore{},
		AttendanceStore: &mockAttendanceStore{},
		NoteStore:       &mockOverviewNoteStore{},
	})
	if !errors.Is(err, classErr) {
		t.Errorf("QueryClassOverview() error = %v, want the class store error", err)
	}
}
