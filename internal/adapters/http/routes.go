package web

import (
	"net/http"

	"github.com/geraldho81/classroom-manager/internal/adapters/http/middleware"
)

// registerRoutes attaches all API handlers to the mux. Auth endpoints are
// open; everything else requires a session.
func registerRoutes(mux *http.ServeMux) {
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}

	// Session and auth
	mux.HandleFunc("GET /api/session", handleSession)
	mux.HandleFunc("POST /api/auth/register", handleRegister)
	mux.HandleFunc("POST /api/auth/login", handleLogin)
	mux.HandleFunc("POST /api/auth/logout", handleLogout)
	mux.Handle("POST /api/auth/change-password", requireAuth(handleChangePassword))
	mux.HandleFunc("POST /api/auth/request-reset", handleRequestReset)
	mux.HandleFunc("POST /api/auth/reset-password", handleResetPassword)

	// Class registry
	mux.Handle("/api/classes", requireAuth(handleClasses))
	mux.Handle("/api/classes/{id}", requireAuth(handleClassByID))
	mux.Handle("POST /api/classes/{id}/select", requireAuth(handleSelectClass))
	mux.Handle("GET /api/classes/{id}/overview", requireAuth(handleClassOverview))
	mux.Handle("GET /api/classes/{id}/summary", requireAuth(handleAttendanceSummary))

	// Roster
	mux.Handle("/api/classes/{id}/students", requireAuth(handleStudents))
	mux.Handle("/api/classes/{id}/students/{studentID}", requireAuth(handleStudentByID))
	mux.Handle("POST /api/classes/{id}/students/{studentID}/exclude", requireAuth(handleToggleExcluded))
	mux.Handle("POST /api/classes/{id}/students/import", requireAuth(handleImportStudents))

	// Attendance
	mux.Handle("/api/classes/{id}/attendance", requireAuth(handleAttendance))
	mux.Handle("POST /api/classes/{id}/attendance/all", requireAuth(handleMarkAll))

	// Notes and exports
	mux.Handle("/api/classes/{id}/notes", requireAuth(handleNotes))
	mux.Handle("DELETE /api/classes/{id}/notes/{noteID}", requireAuth(handleNoteByID))
	mux.Handle("GET /api/classes/{id}/export/notes", requireAuth(handleExportNotes))
	mux.Handle("GET /api/classes/{id}/export/backup", requireAuth(handleExportBackup))
	mux.Handle("POST /api/classes/{id}/restore", requireAuth(handleRestoreBackup))

	// Settings
	mux.Handle("/api/settings", requireAuth(handleSettings))
	mux.Handle("POST /api/settings/presets", requireAuth(handleTimerPresets))
	mux.Handle("DELETE /api/settings/presets/{seconds}", requireAuth(handleTimerPresetDelete))
	mux.Handle("/api/settings/time-loss", requireAuth(handleTimeLoss))

	// Random tools
	mux.Handle("GET /api/classes/{id}/pool", requireAuth(handlePool))
	mux.Handle("POST /api/classes/{id}/pick", requireAuth(handlePick))
	mux.Handle("POST /api/classes/{id}/groups", requireAuth(handleGroups))
	mux.Handle("POST /api/dice", requireAuth(handleDice))
	mux.Handle("POST /api/coin", requireAuth(handleCoin))

	// Diagnostics
	mux.Handle("GET /api/perf", requireAuth(handlePerf))
}
