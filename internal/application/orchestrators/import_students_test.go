package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// mockImporter implements RosterImporter.
type mockImporter struct {
	received []string
	err      error
}

func (m *mockImporter) ImportStudents(_ context.Context, names []string) ([]student.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.received = names
	out := make([]student.Student, len(names))
	for i, n := range names {
		out[i] = student.Student{ID: "s" + n, ClassID: "class-1", Name: n}
	}
	return out, nil
}

// TestParseRoster tests splitting pasted roster text.
func TestParseRoster(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "one per line",
			text: "Ana\nBen\nCyrus",
			want: []string{"Ana", "Ben", "Cyrus"},
		},
		{
			name: "comma separated",
			text: "Ana, Ben,Cyrus",
			want: []string{"Ana", "Ben", "Cyrus"},
		},
		{
			name: "mixed separators with windows line endings",
			text: "Ana, Ben\r\nCyrus\r\n",
			want: []string{"Ana", "Ben", "Cyrus"},
		},
		{
			name: "blank lines and padding dropped",
			text: "  Ana  \n\n   \n,Ben,\n",
			want: []string{"Ana", "Ben"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "only separators",
			text: ",,\n\n,",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRoster(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseRoster() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("names[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestExecuteImportStudents_Valid tests a clean import.
func TestExecuteImportStudents_Valid(t *testing.T) {
	importer := &mockImporter{}

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{
		ClassID: "class-1",
		Text:    "Ana\nBen, Cyrus",
	}, ImportStudentsDeps{Importer: importer})
	if err != nil {
		t.Fatalf("ExecuteImportStudents() error = %v", err)
	}

	if result.Total != 3 || result.Imported != 3 || result.Skipped != 0 {
		t.Errorf("counts = %+v, want 3/3/0", result)
	}
	if len(importer.received) != 3 {
		t.Errorf("importer got %d names, want 3", len(importer.received))
	}
}

// TestExecuteImportStudents_SkipsOverlongNames tests per-name filtering.
func TestExecuteImportStudents_SkipsOverlongNames(t *testing.T) {
	importer := &mockImporter{}
	long := strings.Repeat("x", student.MaxNameLength+1)

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{
		ClassID: "class-1",
		Text:    "Ana\n" + long + "\nBen",
	}, ImportStudentsDeps{Importer: importer})
	if err != nil {
		t.Fatalf("ExecuteImportStudents() error = %v", err)
	}

	if result.Total != 3 || result.Imported != 2 || result.Skipped != 1 {
		t.Errorf("counts = Total %d Imported %d Skipped %d, want 3/2/1",
			result.Total, result.Imported, result.Skipped)
	}
}

// TestExecuteImportStudents_EmptyText tests that an empty parse never
// touches the roster.
func TestExecuteImportStudents_EmptyText(t *testing.T) {
	importer := &mockImporter{}

	for _, text := range []string{"", "  \n , \n", strings.Repeat("x", student.MaxNameLength+1)} {
		_, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{
			ClassID: "class-1",
			Text:    text,
		}, ImportStudentsDeps{Importer: importer})
		if !errors.Is(err, ErrEmptyRoster) {
			t.Errorf("ExecuteImportStudents(%q) error = %v, want ErrEmptyRoster", text, err)
		}
	}
	if importer.received != nil {
		t.Error("importer called for an empty parse")
	}
}
