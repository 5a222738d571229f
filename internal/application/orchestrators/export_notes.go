package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/geraldho81/classroom-manager/internal/domain/note"
)

// ExportNotesInput selects the class and output format.
type ExportNotesInput struct {
	ClassID   string
	ClassName string
	Format    string // "text" (default) or "html"
}

// ExportNotesResult carries the rendered document.
type ExportNotesResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// NoteStoreForExport defines the note store interface needed by ExportNotes.
type NoteStoreForExport interface {
	ListByClass(ctx context.Context, classID string) ([]note.Note, error)
}

// ExportNotesDeps holds dependencies for ExportNotes.
type ExportNotesDeps struct {
	NoteStore NoteStoreForExport
	Now       func() time.Time // nil means time.Now
}

var notesMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ExecuteExportNotes renders a class's notes as a downloadable document.
// Text output is one line per note; HTML output renders each note's text
// as Markdown.
// PRE: ClassID names an existing class
// POST: Body holds every note, newest first
func ExecuteExportNotes(ctx context.Context, input ExportNotesInput, deps ExportNotesDeps) (ExportNotesResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	notes, err := deps.NoteStore.ListByClass(ctx, input.ClassID)
	if err != nil {
		return ExportNotesResult{}, err
	}

	stamp := now().Format("2006-01-02")
	if input.Format == "html" {
		body, err := renderNotesHTML(input.ClassName, notes)
		if err != nil {
			return ExportNotesResult{}, err
		}
		return ExportNotesResult{
			Filename:    fmt.Sprintf("class-notes-%s.html", stamp),
			ContentType: "text/html; charset=utf-8",
			Body:        body,
		}, nil
	}

	var b strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&b, "[%s %s] %s\n", n.Date, n.CreatedAt.Format("15:04"), n.Text)
	}
	return ExportNotesResult{
		Filename:    fmt.Sprintf("class-notes-%s.txt", stamp),
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(b.String()),
	}, nil
}

func renderNotesHTML(className string, notes []note.Note) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Class Notes</title></head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>Notes for %s</h1>\n", htmlEscape(className))
	for _, n := range notes {
		fmt.Fprintf(&b, "<h2>%s %s</h2>\n<div>\n", n.Date, n.CreatedAt.Format("15:04"))
		if err := notesMarkdown.Convert([]byte(n.Text), &b); err != nil {
			return nil, err
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
