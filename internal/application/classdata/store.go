// Package classdata caches one class's working set: its roster, today's
// attendance, and its notes. Switching classes resets the cache before the
// new class loads so stale rows from the previous class are never visible.
package classdata

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/note"
	"github.com/geraldho81/classroom-manager/internal/domain/roster"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// Domain errors
var (
	ErrNoClass         = errors.New("no class is loaded")
	ErrStudentNotFound = errors.New("student is not in the loaded class")
	ErrNoteNotFound    = errors.New("note is not in the loaded class")
)

// StudentGateway is the storage surface the cache needs for students.
type StudentGateway interface {
	ListByClass(ctx context.Context, classID string) ([]student.Student, error)
	Save(ctx context.Context, value student.Student) error
	SaveMany(ctx context.Context, values []student.Student) error
	Delete(ctx context.Context, id string) error
	DeleteByClass(ctx context.Context, classID string) error
}

// AttendanceGateway is the storage surface the cache needs for attendance.
type AttendanceGateway interface {
	ListByClassAndDate(ctx context.Context, classID, date string) ([]attendance.Record, error)
	Save(ctx context.Context, value attendance.Record) error
	SaveMany(ctx context.Context, values []attendance.Record) error
	DeletePair(ctx context.Context, studentID, date string) error
	DeleteByClassAndDate(ctx context.Context, classID, date string) error
}

// NoteGateway is the storage surface the cache needs for notes.
type NoteGateway interface {
	ListByClass(ctx context.Context, classID string) ([]note.Note, error)
	Save(ctx context.Context, value note.Note) error
	Delete(ctx context.Context, id string) error
	DeleteByClass(ctx context.Context, classID string) error
}

// Store is the per-class working set. All methods are safe for concurrent
// use.
// INVARIANT: every cached attendance record belongs to a cached student
type Store struct {
	students   StudentGateway
	attendance AttendanceGateway
	notes      NoteGateway

	mu       sync.Mutex
	classID  string
	date     string
	roster   []student.Student
	statuses map[string]string // student ID -> attendance status for date
	noteList []note.Note
}

// NewStore creates an empty cache with no class loaded.
func NewStore(students StudentGateway, att AttendanceGateway, notes NoteGateway) *Store {
	return &Store{
		students:   students,
		attendance: att,
		notes:      notes,
		statuses:   map[string]string{},
	}
}

// SetCurrentClass resets the cache, then loads the class's roster, the
// given date's attendance, and its notes. Passing an empty classID just
// clears the cache.
// POST: Cache holds only rows belonging to classID
func (s *Store) SetCurrentClass(ctx context.Context, classID, date string) error {
	s.mu.Lock()
	// Reset before fetching so a failed load leaves an empty cache, not
	// the previous class's rows.
	s.classID = classID
	s.date = date
	s.roster = nil
	s.statuses = map[string]string{}
	s.noteList = nil
	s.mu.Unlock()

	if classID == "" {
		return nil
	}

	studentsList, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return err
	}
	records, err := s.attendance.ListByClassAndDate(ctx, classID, date)
	if err != nil {
		return err
	}
	noteList, err := s.notes.ListByClass(ctx, classID)
	if err != nil {
		return err
	}

	statuses := make(map[string]string, len(records))
	for _, r := range records {
		statuses[r.StudentID] = r.Status
	}

	s.mu.Lock()
	// A concurrent switch wins; discard this load.
	if s.classID != classID || s.date != date {
		s.mu.Unlock()
		return nil
	}
	s.roster = studentsList
	s.statuses = statuses
	s.noteList = noteList
	s.mu.Unlock()

	slog.Info("classdata_event", "event", "class_loaded", "class_id", classID,
		"students", len(studentsList), "notes", len(noteList))
	return nil
}

// ClassID returns the loaded class, or "" when none is loaded.
func (s *Store) ClassID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classID
}

// Students returns the cached roster in creation order.
func (s *Store) Students() []student.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]student.Student, len(s.roster))
	copy(out, s.roster)
	return out
}

// AddStudent validates and appends a student to the roster.
// PRE: a class is loaded
func (s *Store) AddStudent(ctx context.Context, name string) (student.Student, error) {
	s.mu.Lock()
	classID := s.classID
	s.mu.Unlock()
	if classID == "" {
		return student.Student{}, ErrNoClass
	}

	entity := student.Student{
		ID:        uuid.NewString(),
		ClassID:   classID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
	if err := entity.Validate(); err != nil {
		return student.Student{}, err
	}
	if err := s.students.Save(ctx, entity); err != nil {
		return student.Student{}, err
	}

	s.mu.Lock()
	if s.classID == classID {
		s.roster = append(s.roster, entity)
	}
	s.mu.Unlock()
	return entity, nil
}

// RemoveStudent deletes a student and prunes their attendance from the
// cache. The store row cascades to attendance rows.
// POST: Neither the roster nor the attendance map reference the student
func (s *Store) RemoveStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for _, st := range s.roster {
		if st.ID == id {
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrStudentNotFound
	}

	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.roster[:0]
	for _, st := range s.roster {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	s.roster = kept
	delete(s.statuses, id)
	s.mu.Unlock()
	return nil
}

// RenameStudent changes a student's name.
func (s *Store) RenameStudent(ctx context.Context, id, name string) (student.Student, error) {
	return s.updateStudent(ctx, id, func(st *student.Student) {
		st.Name = strings.TrimSpace(name)
	})
}

// ToggleExcluded flips whether the student sits out of random picks.
func (s *Store) ToggleExcluded(ctx context.Context, id string) (student.Student, error) {
	return s.updateStudent(ctx, id, func(st *student.Student) {
		st.Excluded = !st.Excluded
	})
}

func (s *Store) updateStudent(ctx context.Context, id string, mutate func(*student.Student)) (student.Student, error) {
	s.mu.Lock()
	idx := -1
	for i, st := range s.roster {
		if st.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return student.Student{}, ErrStudentNotFound
	}
	updated := s.roster[idx]
	mutate(&updated)
	s.mu.Unlock()

	if err := updated.Validate(); err != nil {
		return student.Student{}, err
	}
	if err := s.students.Save(ctx, updated); err != nil {
		return student.Student{}, err
	}

	s.mu.Lock()
	if idx < len(s.roster) && s.roster[idx].ID == id {
		s.roster[idx] = updated
	}
	s.mu.Unlock()
	return updated, nil
}

// ClearAllStudents deletes the whole roster. Attendance rows cascade.
// POST: Roster and attendance caches are empty
func (s *Store) ClearAllStudents(ctx context.Context) error {
	s.mu.Lock()
	classID := s.classID
	s.mu.Unlock()
	if classID == "" {
		return ErrNoClass
	}

	if err := s.students.DeleteByClass(ctx, classID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.classID == classID {
		s.roster = nil
		s.statuses = map[string]string{}
	}
	s.mu.Unlock()
	return nil
}

// ImportStudents replaces the roster with the given names. This is
// destructive: the existing roster and its attendance are gone afterwards.
// POST: Roster holds exactly the imported names, in order
func (s *Store) ImportStudents(ctx context.Context, names []string) ([]student.Student, error) {
	s.mu.Lock()
	classID := s.classID
	s.mu.Unlock()
	if classID == "" {
		return nil, ErrNoClass
	}

	now := time.Now()
	imported := make([]student.Student, 0, len(names))
	for i, name := range names {
		entity := student.Student{
			ID:      uuid.NewString(),
			ClassID: classID,
			Name:    strings.TrimSpace(name),
			// Spread creation times so the creation-order roster listing
			// preserves import order.
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		}
		if err := entity.Validate(); err != nil {
			return nil, err
		}
		imported = append(imported, entity)
	}

	if err := s.students.DeleteByClass(ctx, classID); err != nil {
		return nil, err
	}
	if err := s.students.SaveMany(ctx, imported); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.classID == classID {
		s.roster = imported
		s.statuses = map[string]string{}
	}
	s.mu.Unlock()

	slog.Info("classdata_event", "event", "students_imported", "class_id", classID, "count", len(imported))
	return imported, nil
}

// Status returns the attendance status for a student on the loaded date,
// or ok=false when unmarked.
func (s *Store) Status(studentID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[studentID]
	return status, ok
}

// SetStatus marks a student's attendance for the loaded date. An empty
// status unmarks the student; setting the status they already have is an
// idempotent no-op, so a retried mark never flips to unmarked.
// PRE: status is a valid attendance status or ""
// POST: The student is marked with status, or unmarked when status is ""
func (s *Store) SetStatus(ctx context.Context, studentID, status string) error {
	if status != "" && !attendance.ValidStatus(status) {
		return attendance.ErrInvalidStatus
	}

	s.mu.Lock()
	classID, date := s.classID, s.date
	found := false
	for _, st := range s.roster {
		if st.ID == studentID {
			found = true
			break
		}
	}
	s.mu.Unlock()

	if classID == "" {
		return ErrNoClass
	}
	if !found {
		return ErrStudentNotFound
	}

	if status == "" {
		if err := s.attendance.DeletePair(ctx, studentID, date); err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.statuses, studentID)
		s.mu.Unlock()
		return nil
	}

	record := attendance.Record{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Date:      date,
		Status:    status,
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if err := s.attendance.Save(ctx, record); err != nil {
		return err
	}
	s.mu.Lock()
	s.statuses[studentID] = status
	s.mu.Unlock()
	return nil
}

// SetAllStatuses marks every student in the roster with the same status.
// PRE: status is a valid attendance status
func (s *Store) SetAllStatuses(ctx context.Context, status string) error {
	if !attendance.ValidStatus(status) {
		return attendance.ErrInvalidStatus
	}

	s.mu.Lock()
	classID, date := s.classID, s.date
	rosterCopy := make([]student.Student, len(s.roster))
	copy(rosterCopy, s.roster)
	s.mu.Unlock()

	if classID == "" {
		return ErrNoClass
	}
	if len(rosterCopy) == 0 {
		return nil
	}

	records := make([]attendance.Record, 0, len(rosterCopy))
	for _, st := range rosterCopy {
		records = append(records, attendance.Record{
			ID:        uuid.NewString(),
			StudentID: st.ID,
			Date:      date,
			Status:    status,
		})
	}
	if err := s.attendance.SaveMany(ctx, records); err != nil {
		return err
	}

	s.mu.Lock()
	for _, r := range records {
		s.statuses[r.StudentID] = r.Status
	}
	s.mu.Unlock()
	return nil
}

// ClearAttendance unmarks every student for the loaded date.
// POST: No attendance rows remain for the class on the date
func (s *Store) ClearAttendance(ctx context.Context) error {
	s.mu.Lock()
	classID, date := s.classID, s.date
	s.mu.Unlock()
	if classID == "" {
		return ErrNoClass
	}

	if err := s.attendance.DeleteByClassAndDate(ctx, classID, date); err != nil {
		return err
	}
	s.mu.Lock()
	s.statuses = map[string]string{}
	s.mu.Unlock()
	return nil
}

// AttendanceRecords returns the cached records for the loaded date.
func (s *Store) AttendanceRecords() []attendance.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attendance.Record, 0, len(s.statuses))
	for studentID, status := range s.statuses {
		out = append(out, attendance.Record{
			StudentID: studentID,
			Date:      s.date,
			Status:    status,
		})
	}
	return out
}

// AvailablePool returns the students eligible for random picking: not
// excluded, and present or late when attendance has been taken today.
func (s *Store) AvailablePool() []student.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]attendance.Record, 0, len(s.statuses))
	for studentID, status := range s.statuses {
		records = append(records, attendance.Record{
			StudentID: studentID,
			Date:      s.date,
			Status:    status,
		})
	}
	return roster.Available(s.roster, records, s.date)
}

// Notes returns the cached notes, newest first.
func (s *Store) Notes() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]note.Note, len(s.noteList))
	copy(out, s.noteList)
	return out
}

// AddNote validates and prepends a note dated to the loaded date.
// PRE: a class is loaded
func (s *Store) AddNote(ctx context.Context, text string) (note.Note, error) {
	s.mu.Lock()
	classID, date := s.classID, s.date
	s.mu.Unlock()
	if classID == "" {
		return note.Note{}, ErrNoClass
	}

	entity := note.Note{
		ID:        uuid.NewString(),
		ClassID:   classID,
		Text:      strings.TrimSpace(text),
		Date:      date,
		CreatedAt: time.Now(),
	}
	if err := entity.Validate(); err != nil {
		return note.Note{}, err
	}
	if err := s.notes.Save(ctx, entity); err != nil {
		return note.Note{}, err
	}

	s.mu.Lock()
	if s.classID == classID {
		s.noteList = append([]note.Note{entity}, s.noteList...)
	}
	s.mu.Unlock()
	return entity, nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for _, n := range s.noteList {
		if n.ID == id {
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNoteNotFound
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.noteList[:0]
	for _, n := range s.noteList {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.noteList = kept
	s.mu.Unlock()
	return nil
}

// ClearNotes removes every note for the loaded class.
// PRE: a class is loaded
// POST: Notes() is empty
func (s *Store) ClearNotes(ctx context.Context) error {
	s.mu.Lock()
	classID := s.classID
	s.mu.Unlock()
	if classID == "" {
		return ErrNoClass
	}

	if err := s.notes.DeleteByClass(ctx, classID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.classID == classID {
		s.noteList = nil
	}
	s.mu.Unlock()

	slog.Info("classdata_event", "event", "notes_cleared", "class_id", classID)
	return nil
}
