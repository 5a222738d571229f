package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/http/middleware"
	"github.com/geraldho81/classroom-manager/internal/application/classdata"
	"github.com/geraldho81/classroom-manager/internal/application/orchestrators"
	"github.com/geraldho81/classroom-manager/internal/domain/note"
)

type noteJSON struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	CreatedAt string `json:"createdAt"`
}

func toNoteJSON(n note.Note) noteJSON {
	return noteJSON{
		ID:        n.ID,
		Text:      n.Text,
		Date:      n.Date,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// handleNotes handles GET, POST, and DELETE /api/classes/{id}/notes.
// DELETE clears every note for the class.
func handleNotes(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	switch r.Method {
	case "POST":
		var body struct {
			Text string `json:"text"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		added, err := cd.AddNote(r.Context(), body.Text)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toNoteJSON(added))

	case "DELETE":
		if err := cd.ClearNotes(r.Context()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		out := []noteJSON{}
		for _, n := range cd.Notes() {
			out = append(out, toNoteJSON(n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleNoteByID handles DELETE /api/classes/{id}/notes/{noteID}.
func handleNoteByID(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	noteID := r.PathValue("noteID")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	if err := cd.DeleteNote(r.Context(), noteID); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, classdata.ErrNoteNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportNotes handles GET /api/classes/{id}/export/notes.
func handleExportNotes(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	class, err := getOwnedClass(r.Context(), r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	result, err := orchestrators.ExecuteExportNotes(r.Context(), orchestrators.ExportNotesInput{
		ClassID:   classID,
		ClassName: class.Name,
		Format:    r.URL.Query().Get("format"),
	}, orchestrators.ExportNotesDeps{
		NoteStore: stores.NoteStore,
		Now:       timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Write(result.Body)
}

// handleExportBackup handles GET /api/classes/{id}/export/backup.
func handleExportBackup(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	classID := r.PathValue("id")
	if _, err := getOwnedClass(r.Context(), r, classID); err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	result, err := orchestrators.ExecuteExportBackup(r.Context(), orchestrators.ExportBackupInput{
		ClassID: classID,
		UserID:  sess.AccountID,
	}, orchestrators.ExportBackupDeps{
		StudentStore:  stores.StudentStore,
		SettingsStore: stores.SettingsStore,
		Now:           timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Write(result.Body)
}

// maxBackupBytes caps uploaded backup files.
const maxBackupBytes = 1 << 20

// handleRestoreBackup handles POST /api/classes/{id}/restore.
func handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	cache := settingsCacheFor(sess.AccountID)
	if _, err := cache.Load(r.Context()); err != nil {
		internalError(w, err)
		return
	}

	result, err := orchestrators.ExecuteRestoreBackup(r.Context(), orchestrators.RestoreBackupInput{
		ClassID: classID,
		UserID:  sess.AccountID,
		Body:    body,
	}, orchestrators.RestoreBackupDeps{
		Importer: cd,
		Settings: cache,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidBackup) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"students": result.Students})
}
