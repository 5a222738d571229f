package web

import (
	"net/http"
	"strconv"

	"github.com/geraldho81/classroom-manager/internal/adapters/http/middleware"
	"github.com/geraldho81/classroom-manager/internal/application/settingscache"
	"github.com/geraldho81/classroom-manager/internal/domain/settings"
)

type settingsJSON struct {
	SoundEnabled   bool           `json:"soundEnabled"`
	Volume         float64        `json:"volume"`
	TimerPresets   []int          `json:"timerPresets"`
	NoiseThreshold int            `json:"noiseThreshold"`
	DarkMode       bool           `json:"darkMode"`
	TimeLoss       map[string]int `json:"timeLoss"`
}

func toSettingsJSON(s settings.Settings) settingsJSON {
	presets := s.TimerPresets
	if presets == nil {
		presets = []int{}
	}
	timeLoss := s.TimeLoss
	if timeLoss == nil {
		timeLoss = map[string]int{}
	}
	return settingsJSON{
		SoundEnabled:   s.SoundEnabled,
		Volume:         s.Volume,
		TimerPresets:   presets,
		NoiseThreshold: s.NoiseThreshold,
		DarkMode:       s.DarkMode,
		TimeLoss:       timeLoss,
	}
}

func loadedSettingsCache(w http.ResponseWriter, r *http.Request) (*settingscache.Store, bool) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	cache := settingsCacheFor(sess.AccountID)
	if _, err := cache.Load(r.Context()); err != nil {
		internalError(w, err)
		return nil, false
	}
	return cache, true
}

// handleSettings handles GET and PUT /api/settings.
func handleSettings(w http.ResponseWriter, r *http.Request) {
	cache, ok := loadedSettingsCache(w, r)
	if !ok {
		return
	}

	if r.Method == "PUT" {
		var body settingsJSON
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		updated := cache.Mutate(func(s *settings.Settings) {
			s.SoundEnabled = body.SoundEnabled
			s.SetVolume(body.Volume)
			s.SetNoiseThreshold(body.NoiseThreshold)
			s.DarkMode = body.DarkMode
			if body.TimerPresets != nil {
				s.TimerPresets = nil
				for _, p := range body.TimerPresets {
					if p > 0 {
						s.AddTimerPreset(p)
					}
				}
			}
		})
		writeJSON(w, http.StatusOK, toSettingsJSON(updated))
		return
	}

	writeJSON(w, http.StatusOK, toSettingsJSON(cache.Get()))
}

// handleTimerPresets handles POST /api/settings/presets.
func handleTimerPresets(w http.ResponseWriter, r *http.Request) {
	cache, ok := loadedSettingsCache(w, r)
	if !ok {
		return
	}

	var body struct {
		Seconds int `json:"seconds"`
	}
	if err := strictDecode(r, &body); err != nil || body.Seconds <= 0 {
		writeError(w, http.StatusBadRequest, "seconds must be a positive integer")
		return
	}

	updated := cache.Mutate(func(s *settings.Settings) {
		s.AddTimerPreset(body.Seconds)
	})
	writeJSON(w, http.StatusOK, toSettingsJSON(updated))
}

// handleTimerPresetDelete handles DELETE /api/settings/presets/{seconds}.
func handleTimerPresetDelete(w http.ResponseWriter, r *http.Request) {
	cache, ok := loadedSettingsCache(w, r)
	if !ok {
		return
	}

	seconds, err := strconv.Atoi(r.PathValue("seconds"))
	if err != nil || seconds <= 0 {
		writeError(w, http.StatusBadRequest, "seconds must be a positive integer")
		return
	}

	updated := cache.Mutate(func(s *settings.Settings) {
		s.RemoveTimerPreset(seconds)
	})
	writeJSON(w, http.StatusOK, toSettingsJSON(updated))
}

// handleTimeLoss handles POST and DELETE /api/settings/time-loss.
// POST accumulates lost seconds onto a date; DELETE resets a date.
func handleTimeLoss(w http.ResponseWriter, r *http.Request) {
	cache, ok := loadedSettingsCache(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "POST":
		var body struct {
			Date    string `json:"date"`
			Seconds int    `json:"seconds"`
		}
		if err := strictDecode(r, &body); err != nil || body.Seconds < 0 {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		date := body.Date
		if date == "" {
			date = todayDate(r)
		}
		updated := cache.Mutate(func(s *settings.Settings) {
			s.AddTimeLoss(date, body.Seconds)
		})
		writeJSON(w, http.StatusOK, map[string]int{"total": updated.TimeLossFor(date)})

	case "DELETE":
		date := todayDate(r)
		cache.Mutate(func(s *settings.Settings) {
			s.ResetTimeLoss(date)
		})
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
