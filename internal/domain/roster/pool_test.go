package roster_test

import (
	"testing"

	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/roster"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// TestAvailable tests pool filtering by exclusion and attendance.
func TestAvailable(t *testing.T) {
	students := []student.Student{
		{ID: "s1", Name: "Ana"},
		{ID: "s2", Name: "Ben", Excluded: true},
		{ID: "s3", Name: "Cyrus"},
		{ID: "s4", Name: "Dana"},
	}
	const today = "2026-03-02"

	tests := []struct {
		name    string
		records []attendance.Record
		want    []string
	}{
		{
			name:    "no attendance keeps all non-excluded",
			records: nil,
			want:    []string{"s1", "s3", "s4"},
		},
		{
			name: "absent students drop out",
			records: []attendance.Record{
				{StudentID: "s1", Date: today, Status: attendance.StatusPresent},
				{StudentID: "s3", Date: today, Status: attendance.StatusAbsent},
				{StudentID: "s4", Date: today, Status: attendance.StatusLate},
			},
			want: []string{"s1", "s4"},
		},
		{
			name: "unmarked students drop out once any attendance exists",
			records: []attendance.Record{
				{StudentID: "s1", Date: today, Status: attendance.StatusPresent},
			},
			want: []string{"s1"},
		},
		{
			name: "records for another date are ignored",
			records: []attendance.Record{
				{StudentID: "s1", Date: "2026-03-01", Status: attendance.StatusAbsent},
			},
			want: []string{"s1", "s3", "s4"},
		},
		{
			name: "excluded stays out even when marked present",
			records: []attendance.Record{
				{StudentID: "s2", Date: today, Status: attendance.StatusPresent},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := roster.Available(students, tt.records, today)

			var got []string
			for _, s := range pool {
				got = append(got, s.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("pool = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pool[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
