package projections

import (
	"context"
	"errors"
	"testing"

	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// mockStudentStore implements SummaryStudentStore.
type mockStudentStore struct {
	students []student.Student
	err      error
}

func (m *mockStudentStore) ListByClass(_ context.Context, classID string) ([]student.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.students, nil
}

// mockAttendanceStore implements SummaryAttendanceStore.
type mockAttendanceStore struct {
	records []attendance.Record
	err     error
}

func (m *mockAttendanceStore) ListByClassAndDate(_ context.Context, classID, date string) ([]attendance.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

const summaryDate = "2026-03-02"

func summaryRoster() []student.Student {
	return []student.Student{
		{ID: "s1", ClassID: "class-1", Name: "Ana"},
		{ID: "s2", ClassID: "class-1", Name: "Ben", Excluded: true},
		{ID: "s3", ClassID: "class-1", Name: "Cyrus"},
		{ID: "s4", ClassID: "class-1", Name: "Dana"},
	}
}

// TestQueryAttendanceSummary tests the per-status tallies and pool size.
func TestQueryAttendanceSummary(t *testing.T) {
	deps := AttendanceSummaryDeps{
		StudentStore: &mockStudentStore{students: summaryRoster()},
		AttendanceStore: &mockAttendanceStore{records: []attendance.Record{
			{ID: "a1", StudentID: "s1", Date: summaryDate, Status: attendance.StatusPresent},
			{ID: "a2", StudentID: "s3", Date: summaryDate, Status: attendance.StatusAbsent},
			{ID: "a3", StudentID: "s4", Date: summaryDate, Status: attendance.StatusLate},
		}},
	}

	result, err := QueryAttendanceSummary(context.Background(), AttendanceSummaryQuery{
		ClassID: "class-1",
		Date:    summaryDate,
	}, deps)
	if err != nil {
		t.Fatalf("QueryAttendanceSummary() error = %v", err)
	}

	if result.Total != 4 {
		t.Errorf("Total = %d, want 4", result.Total)
	}
	if result.Present != 1 || result.Absent != 1 || result.Late != 1 || result.Unmarked != 1 {
		t.Errorf("counts = P%d A%d L%d U%d, want 1/1/1/1",
			result.Present, result.Absent, result.Late, result.Unmarked)
	}
	if result.Present+result.Absent+result.Late+result.Unmarked != result.Total {
		t.Error("status counts do not sum to Total")
	}

	// Ana is present, Dana is late; Ben is excluded and Cyrus is absent.
	if result.Available != 2 {
		t.Errorf("Available = %d, want 2", result.Available)
	}

	if len(result.Students) != 4 {
		t.Fatalf("Students has %d entries, want 4", len(result.Students))
	}
	if result.Students[0].Status != attendance.StatusPresent {
		t.Errorf("Students[0].Status = %q, want present", result.Students[0].Status)
	}
	if result.Students[1].Status != "" || !result.Students[1].Excluded {
		t.Errorf("Students[1] = %+v, want unmarked and excluded", result.Students[1])
	}
}

// TestQueryAttendanceSummary_NoAttendance tests a class before roll call.
func TestQueryAttendanceSummary_NoAttendance(t *testing.T) {
	result, err := QueryAttendanceSummary(context.Background(), AttendanceSummaryQuery{
		ClassID: "class-1",
		Date:    summaryDate,
	}, AttendanceSummaryDeps{
		StudentStore:    &mockStudentStore{students: summaryRoster()},
		AttendanceStore: &mockAttendanceStore{},
	})
	if err != nil {
		t.Fatalf("QueryAttendanceSummary() error = %v", err)
	}

	if result.Unmarked != 4 {
		t.Errorf("Unmarked = %d, want 4", result.Unmarked)
	}
	// Without attendance the pool is everyone not excluded.
	if result.Available != 3 {
		t.Errorf("Available = %d, want 3", result.Available)
	}
}

// TestQueryAttendanceSummary_EmptyClass tests an empty roster.
func TestQueryAttendanceSummary_EmptyClass(t *testing.T) {
	result, err := QueryAttendanceSummary(context.Background(), AttendanceSummaryQuery{
		ClassID: "class-1",
		Date:    summaryDate,
	}, AttendanceSummaryDeps{
		StudentStore:    &mockStudentStore{},
		AttendanceStore: &mockAttendanceStore{},
	})
	if err != nil {
		t.Fatalf("QueryAttendanceSummary() error = %v", err)
	}
	if result.Total != 0 || result.Available != 0 {
		t.Errorf("result = %+v, want all zero counts", result)
	}
}

// TestQueryAttendanceSummary_StoreError tests error propagation.
func TestQueryAttendanceSummary_StoreError(t *testing.T) {
	storeErr := errors.New("db closed")
	_, err := QueryAttendanceSummary(context.Background(), AttendanceSummaryQuery{
		ClassID: "class-1",
		Date:    summaryDate,
	}, AttendanceSummaryDeps{
		StudentStore:    &mockStudentStore{err: storeErr},
		AttendanceStore: &mockAttendanceStore{},
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("QueryAttendanceSummary() error = %v, want the store error", err)
	}
}
