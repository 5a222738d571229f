package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/http/middleware"
	"github.com/geraldho81/classroom-manager/internal/application/projections"
	"github.com/geraldho81/classroom-manager/internal/application/registry"
	"github.com/geraldho81/classroom-manager/internal/domain/classroom"
)

type classJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	Selected  bool   `json:"selected"`
}

func toClassJSON(c classroom.ClassRoom, selectedID string) classJSON {
	return classJSON{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		Selected:  c.ID == selectedID,
	}
}

// registryFor builds the class registry for the session user and loads it.
func registryFor(r *http.Request) (*registry.Store, error) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return nil, errors.New("no session")
	}
	reg := registry.NewStore(stores.ClassStore, devicePrefs, sess.AccountID)
	if _, err := reg.Fetch(r.Context()); err != nil {
		return nil, err
	}
	return reg, nil
}

// handleClasses handles GET and POST /api/classes.
func handleClasses(w http.ResponseWriter, r *http.Request) {
	reg, err := registryFor(r)
	if err != nil {
		internalError(w, err)
		return
	}

	if r.Method == "POST" {
		var body struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		created, err := reg.Create(r.Context(), body.Name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toClassJSON(created, created.ID))
		return
	}

	selectedID := ""
	if selected, ok := reg.Selected(); ok {
		selectedID = selected.ID
	}
	out := []classJSON{}
	for _, c := range reg.List() {
		out = append(out, toClassJSON(c, selectedID))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"classes":  out,
		"selected": selectedID,
	})
}

// handleClassByID handles PUT and DELETE /api/classes/{id}.
func handleClassByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	reg, err := registryFor(r)
	if err != nil {
		internalError(w, err)
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
		updated, err := reg.Rename(r.Context(), id, body.Name)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, registry.ErrNotInRegistry) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		selectedID := ""
		if selected, ok := reg.Selected(); ok {
			selectedID = selected.ID
		}
		writeJSON(w, http.StatusOK, toClassJSON(updated, selectedID))

	case "DELETE":
		if err := reg.Delete(r.Context(), id); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, registry.ErrNotInRegistry) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		selectedID := ""
		if selected, ok := reg.Selected(); ok {
			selectedID = selected.ID
		}
		writeJSON(w, http.StatusOK, map[string]string{"selected": selectedID})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSelectClass handles POST /api/classes/{id}/select.
func handleSelectClass(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	reg, err := registryFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	if err := reg.Select(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClassOverview handles GET /api/classes/{id}/overview.
func handleClassOverview(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	classID := r.PathValue("id")
	if _, err := getOwnedClass(r.Context(), r, classID); err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	result, err := projections.QueryClassOverview(r.Context(), projections.ClassOverviewQuery{
		UserID:  sess.AccountID,
		ClassID: classID,
		Date:    todayDate(r),
	}, projections.ClassOverviewDeps{
		ClassStore:      stores.ClassStore,
		StudentStore:    stores.StudentStore,
		AttendanceStore: stores.AttendanceStore,
		NoteStore:       stores.NoteStore,
		SettingsStore:   stores.SettingsStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAttendanceSummary handles GET /api/classes/{id}/summary.
func handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	if _, err := getOwnedClass(r.Context(), r, classID); err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	result, err := projections.QueryAttendanceSummary(r.Context(), projections.AttendanceSummaryQuery{
		ClassID: classID,
		Date:    todayDate(r),
	}, projections.AttendanceSummaryDeps{
		StudentStore:    stores.StudentStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
