package web

import (
	"errors"
	"net/http"

	"github.com/geraldho81/classroom-manager/internal/application/classdata"
	"github.com/geraldho81/classroom-manager/internal/application/orchestrators"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

type studentJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Excluded bool   `json:"excluded"`
	Status   string `json:"status,omitempty"` // attendance for the loaded date
}

func toStudentJSON(cd *classdata.Store, s student.Student) studentJSON {
	status, _ := cd.Status(s.ID)
	return studentJSON{ID: s.ID, Name: s.Name, Excluded: s.Excluded, Status: status}
}

// classDataFor verifies ownership and loads the class's working set for
// the request's date.
func classDataFor(r *http.Request, classID string) (*classdata.Store, error) {
	if _, err := getOwnedClass(r.Context(), r, classID); err != nil {
		return nil, err
	}
	cd := classdata.NewStore(stores.StudentStore, stores.AttendanceStore, stores.NoteStore)
	if err := cd.SetCurrentClass(r.Context(), classID, todayDate(r)); err != nil {
		return nil, err
	}
	return cd, nil
}

func studentErrorStatus(err error) int {
	switch {
	case errors.Is(err, classdata.ErrStudentNotFound):
		return http.StatusNotFound
	case errors.Is(err, classdata.ErrNoClass):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// handleStudents handles GET, POST, and DELETE /api/classes/{id}/students.
func handleStudents(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	switch r.Method {
	case "GET":
		out := []studentJSON{}
		for _, s := range cd.Students() {
			out = append(out, toStudentJSON(cd, s))
		}
		writeJSON(w, http.StatusOK, out)

	case "POST":
		var body struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		added, err := cd.AddStudent(r.Context(), body.Name)
		if err != nil {
			writeError(w, studentErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toStudentJSON(cd, added))

	case "DELETE":
		if err := cd.ClearAllStudents(r.Context()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleStudentByID handles PUT and DELETE /api/classes/{id}/students/{studentID}.
func handleStudentByID(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	studentID := r.PathValue("studentID")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	switch r.Method {
	case "PUT":
		var body struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		updated, err := cd.RenameStudent(r.Context(), studentID, body.Name)
		if err != nil {
			writeError(w, studentErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toStudentJSON(cd, updated))

	case "DELETE":
		if err := cd.RemoveStudent(r.Context(), studentID); err != nil {
			writeError(w, studentErrorStatus(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleToggleExcluded handles POST /api/classes/{id}/students/{studentID}/exclude.
func handleToggleExcluded(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	studentID := r.PathValue("studentID")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	updated, err := cd.ToggleExcluded(r.Context(), studentID)
	if err != nil {
		writeError(w, studentErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStudentJSON(cd, updated))
}

// handleImportStudents handles POST /api/classes/{id}/students/import.
// This replaces the roster wholesale.
func handleImportStudents(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteImportStudents(r.Context(), orchestrators.ImportStudentsInput{
		ClassID: classID,
		Text:    body.Text,
	}, orchestrators.ImportStudentsDeps{Importer: cd})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmptyRoster) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	out := []studentJSON{}
	for _, s := range result.Students {
		out = append(out, toStudentJSON(cd, s))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    result.Total,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"students": out,
	})
}

// handleAttendance handles GET, POST, and DELETE /api/classes/{id}/attendance.
func handleAttendance(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	switch r.Method {
	case "GET":
		statuses := map[string]string{}
		for _, rec := range cd.AttendanceRecords() {
			statuses[rec.StudentID] = rec.Status
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"date":     todayDate(r),
			"statuses": statuses,
		})

	case "POST":
		var body struct {
			StudentID string `json:"studentId"`
			Status    string `json:"status"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := cd.SetStatus(r.Context(), body.StudentID, body.Status); err != nil {
			writeError(w, studentErrorStatus(err), err.Error())
			return
		}
		status, _ := cd.Status(body.StudentID)
		writeJSON(w, http.StatusOK, map[string]string{
			"studentId": body.StudentID,
			"status":    status,
		})

	case "DELETE":
		if err := cd.ClearAttendance(r.Context()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMarkAll handles POST /api/classes/{id}/attendance/all.
func handleMarkAll(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := cd.SetAllStatuses(r.Context(), body.Status); err != nil {
		writeError(w, studentErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
