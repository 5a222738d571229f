package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/note"
)

// mockNoteStore implements NoteStoreForExport.
type mockNoteStore struct {
	notes []note.Note
	err   error
}

func (m *mockNoteStore) ListByClass(_ context.Context, classID string) ([]note.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.notes, nil
}

func exportNotes() []note.Note {
	return []note.Note{
		{
			ID:        "n2",
			ClassID:   "class-1",
			Text:      "Ana forgot her **book**",
			Date:      "2026-03-02",
			CreatedAt: time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:        "n1",
			ClassID:   "class-1",
			Text:      "fire drill at 10",
			Date:      "2026-03-01",
			CreatedAt: time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC),
		},
	}
}

// TestExecuteExportNotes_Text tests the plain text rendering.
func TestExecuteExportNotes_Text(t *testing.T) {
	result, err := ExecuteExportNotes(context.Background(), ExportNotesInput{
		ClassID:   "class-1",
		ClassName: "Room 5",
	}, ExportNotesDeps{
		NoteStore: &mockNoteStore{notes: exportNotes()},
		Now:       fixedNow,
	})
	if err != nil {
		t.Fatalf("ExecuteExportNotes() error = %v", err)
	}

	if result.Filename != "class-notes-2026-03-02.txt" {
		t.Errorf("Filename = %q", result.Filename)
	}
	if result.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("ContentType = %q", result.ContentType)
	}

	want := "[2026-03-02 14:30] Ana forgot her **book**\n[2026-03-01 09:05] fire drill at 10\n"
	if string(result.Body) != want {
		t.Errorf("Body = %q, want %q", result.Body, want)
	}
}

// TestExecuteExportNotes_HTML tests the Markdown-rendered HTML output.
func TestExecuteExportNotes_HTML(t *testing.T) {
	result, err := ExecuteExportNotes(context.Background(), ExportNotesInput{
		ClassID:   "class-1",
		ClassName: "Room <5>",
		Format:    "html",
	}, ExportNotesDeps{
		NoteStore: &mockNoteStore{notes: exportNotes()},
		Now:       fixedNow,
	})
	if err != nil {
		t.Fatalf("ExecuteExportNotes() error = %v", err)
	}

	if result.Filename != "class-notes-2026-03-02.html" {
		t.Errorf("Filename = %q", result.Filename)
	}
	body := string(result.Body)

	if !strings.Contains(body, "Notes for Room &lt;5&gt;") {
		t.Error("class name not escaped in the heading")
	}
	if !strings.Contains(body, "<strong>book</strong>") {
		t.Error("note Markdown not rendered")
	}
	if !strings.Contains(body, "<h2>2026-03-02 14:30</h2>") {
		t.Error("note timestamp heading missing")
	}
}

// TestExecuteExportNotes_Empty tests exporting a class with no notes.
func TestExecuteExportNotes_Empty(t *testing.T) {
	result, err := ExecuteExportNotes(context.Background(), ExportNotesInput{
		ClassID:   "class-1",
		ClassName: "Room 5",
	}, ExportNotesDeps{
		NoteStore: &mockNoteStore{},
		Now:       fixedNow,
	})
	if err != nil {
		t.Fatalf("ExecuteExportNotes() error = %v", err)
	}
	if len(result.Body) != 0 {
		t.Errorf("Body = %q for empty class, want empty", result.Body)
	}
}

// TestExecuteExportNotes_StoreError tests error propagation.
func TestExecuteExportNotes_StoreError(t *testing.T) {
	storeErr := errors.New("db closed")
	_, err := ExecuteExportNotes(context.Background(), ExportNotesInput{ClassID: "class-1"},
		ExportNotesDeps{NoteStore: &mockNoteStore{err: storeErr}})
	if !errors.Is(err, storeErr) {
		t.Errorf("ExecuteExportNotes() error = %v, want the store error", err)
	}
}
