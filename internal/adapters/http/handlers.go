package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/http/middleware"
	"github.com/geraldho81/classroom-manager/internal/application/orchestrators"
	"github.com/geraldho81/classroom-manager/internal/application/session"
	accountDomain "github.com/geraldho81/classroom-manager/internal/domain/account"
	"github.com/geraldho81/classroom-manager/internal/domain/attendance"
	"github.com/geraldho81/classroom-manager/internal/domain/classroom"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// todayDate returns the current calendar date, or the date query parameter
// when one is given.
func todayDate(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		if _, err := time.Parse(attendance.DateLayout, d); err == nil {
			return d
		}
	}
	return timeNow().Format(attendance.DateLayout)
}

// getOwnedClass loads a class and verifies the session user owns it.
func getOwnedClass(ctx context.Context, r *http.Request, classID string) (classroom.ClassRoom, error) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return classroom.ClassRoom{}, errors.New("no session")
	}
	class, err := stores.ClassStore.GetByID(ctx, classID)
	if err != nil {
		return classroom.ClassRoom{}, err
	}
	if class.UserID != sess.AccountID {
		return classroom.ClassRoom{}, errors.New("class belongs to another user")
	}
	return class, nil
}

// userPrefs scopes the device preference store to one user for sign-out.
type userPrefs struct {
	userID string
}

func (p userPrefs) Clear() error {
	return devicePrefs.Delete("selected-class:" + p.userID)
}

// cookieAuthGateway adapts the request's cookie session to the session
// store's bootstrap interface.
type cookieAuthGateway struct {
	sess  middleware.Session
	ok    bool
	token string
}

func (g cookieAuthGateway) CurrentUser(_ context.Context) (session.User, bool, error) {
	if !g.ok {
		return session.User{}, false, nil
	}
	return session.User{ID: g.sess.AccountID, Email: g.sess.Email}, true, nil
}

func (g cookieAuthGateway) SignOut(_ context.Context) error {
	if g.token != "" {
		sessions.Delete(g.token)
	}
	return nil
}

func gatewayFromRequest(r *http.Request) cookieAuthGateway {
	gw := cookieAuthGateway{}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		gw.token = cookie.Value
	}
	gw.sess, gw.ok = middleware.GetSessionFromContext(r.Context())
	return gw
}

// handleSession handles GET /api/session: the bootstrap auth check.
func handleSession(w http.ResponseWriter, r *http.Request) {
	gw := gatewayFromRequest(r)
	store := session.NewStore(gw, stores.ProfileStore, userPrefs{userID: gw.sess.AccountID})
	state := store.Initialize(r.Context())

	resp := map[string]any{"state": state.String()}
	if user, ok := store.CurrentUser(); ok {
		resp["user"] = map[string]string{"id": user.ID, "email": user.Email}
		// The profile loads in the background; include it when it has
		// already landed.
		if p, loaded := store.Profile(); loaded {
			resp["profile"] = map[string]string{
				"firstName": p.FirstName,
				"lastName":  p.LastName,
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRegister handles POST /api/auth/register.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.RegisterInput
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteRegister(r.Context(), input, orchestrators.RegisterDeps{
		AccountStore:  stores.AccountStore,
		ProfileStore:  stores.ProfileStore,
		SettingsStore: stores.SettingsStore,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, orchestrators.ErrEmailTaken) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]string{"id": result.AccountID, "email": result.Email})
}

// handleLogin handles POST /api/auth/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"id": result.AccountID, "email": result.Email})
}

// handleLogout handles POST /api/auth/logout. Local state clears first;
// the device signs out even if nothing else succeeds.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	gw := gatewayFromRequest(r)
	store := session.NewStore(gw, stores.ProfileStore, userPrefs{userID: gw.sess.AccountID})
	store.SignOut(r.Context())
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleChangePassword handles POST /api/auth/change-password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: body.CurrentPassword,
		NewPassword:     body.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRequestReset handles POST /api/auth/request-reset.
func handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := orchestrators.ExecuteRequestPasswordReset(r.Context(), orchestrators.RequestPasswordResetInput{
		Email:   body.Email,
		BaseURL: resetBaseURL,
	}, orchestrators.RequestPasswordResetDeps{
		AccountStore: stores.AccountStore,
		TokenStore:   stores.TokenStore,
		EmailSender:  emailSender,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	// Same response for known and unknown emails
	w.WriteHeader(http.StatusNoContent)
}

// handleResetPassword handles POST /api/auth/reset-password.
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteResetPassword(r.Context(), orchestrators.ResetPasswordInput{
		Token:       body.Token,
		NewPassword: body.NewPassword,
	}, orchestrators.ResetPasswordDeps{
		AccountStore: stores.AccountStore,
		TokenStore:   stores.TokenStore,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, accountDomain.ErrTokenExpired) || errors.Is(err, accountDomain.ErrTokenInvalid) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	// A reset signs the account out everywhere
	sessions.DeleteByAccount(result.AccountID)
	w.WriteHeader(http.StatusNoContent)
}
