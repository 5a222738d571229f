package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// ImportStudentsInput carries the raw roster text and target class.
// The text is one name per line, or comma-separated, or both mixed.
type ImportStudentsInput struct {
	ClassID string
	Text    string
}

// ImportStudentsResult holds counts from an import run.
type ImportStudentsResult struct {
	Total    int
	Imported int
	Skipped  int // blank or over-length names
	Students []student.Student
}

// RosterImporter replaces a class roster wholesale.
type RosterImporter interface {
	ImportStudents(ctx context.Context, names []string) ([]student.Student, error)
}

// ImportStudentsDeps holds dependencies for ImportStudents.
type ImportStudentsDeps struct {
	Importer RosterImporter
}

var ErrEmptyRoster = errors.New("no student names found in the pasted text")

// ParseRoster splits pasted roster text into trimmed, non-empty names.
// Newlines and commas both act as separators.
func ParseRoster(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	var names []string
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ExecuteImportStudents parses pasted text and replaces the class roster.
// PRE: Input.ClassID is the loaded class
// POST: The roster holds exactly the parsed names; prior students and
// their attendance are gone
// INVARIANT: An empty parse leaves the existing roster untouched
func ExecuteImportStudents(ctx context.Context, input ImportStudentsInput, deps ImportStudentsDeps) (ImportStudentsResult, error) {
	names := ParseRoster(input.Text)
	if len(names) == 0 {
		return ImportStudentsResult{}, ErrEmptyRoster
	}

	var kept []string
	skipped := 0
	for _, name := range names {
		if len(name) > student.MaxNameLength {
			skipped++
			continue
		}
		kept = append(kept, name)
	}
	if len(kept) == 0 {
		return ImportStudentsResult{}, ErrEmptyRoster
	}

	imported, err := deps.Importer.ImportStudents(ctx, kept)
	if err != nil {
		return ImportStudentsResult{}, err
	}

	slog.Info("import_event", "event", "students_imported", "class_id", input.ClassID,
		"total", len(names), "imported", len(imported), "skipped", skipped)

	return ImportStudentsResult{
		Total:    len(names),
		Imported: len(imported),
		Skipped:  skipped,
		Students: imported,
	}, nil
}
