package settings

import (
	"slices"
)

// Default values applied when a user has no stored settings document.
const (
	DefaultVolume         = 0.5
	DefaultNoiseThreshold = 70
)

// DefaultTimerPresets are the starting timer durations in seconds.
var DefaultTimerPresets = []int{60, 120, 180, 300, 600, 900}

// Settings is a per-user singleton document. It is lazily created on first
// fetch miss and always written back as a whole document; there is no
// partial-field update against the store.
type Settings struct {
	ID             string
	UserID         string
	SoundEnabled   bool
	Volume         float64
	TimerPresets   []int
	NoiseThreshold int
	DarkMode       bool
	TimeLoss       map[string]int // date (YYYY-MM-DD) -> cumulative seconds lost
}

// Defaults returns a settings document with default values for the user.
// PRE: userID is non-empty
// POST: Returns a document ready to persist or mutate
func Defaults(userID string) Settings {
	return Settings{
		UserID:         userID,
		SoundEnabled:   true,
		Volume:         DefaultVolume,
		TimerPresets:   slices.Clone(DefaultTimerPresets),
		NoiseThreshold: DefaultNoiseThreshold,
		TimeLoss:       map[string]int{},
	}
}

// AddTimerPreset inserts a preset duration, deduplicating and keeping the
// set sorted ascending.
// POST: seconds appears exactly once in TimerPresets; order is ascending
func (s *Settings) AddTimerPreset(seconds int) {
	if slices.Contains(s.TimerPresets, seconds) {
		return
	}
	s.TimerPresets = append(s.TimerPresets, seconds)
	slices.Sort(s.TimerPresets)
}

// RemoveTimerPreset deletes a preset duration if present.
func (s *Settings) RemoveTimerPreset(seconds int) {
	s.TimerPresets = slices.DeleteFunc(s.TimerPresets, func(p int) bool {
		return p == seconds
	})
}

// SetVolume clamps the volume to [0, 1] and stores it.
func (s *Settings) SetVolume(vol float64) {
	s.Volume = min(max(vol, 0), 1)
}

// SetNoiseThreshold clamps the threshold percentage to [0, 100] and stores it.
func (s *Settings) SetNoiseThreshold(threshold int) {
	s.NoiseThreshold = min(max(threshold, 0), 100)
}

// AddTimeLoss accumulates lost seconds onto the given date's total.
// PRE: date is YYYY-MM-DD, seconds >= 0
func (s *Settings) AddTimeLoss(date string, seconds int) {
	if s.TimeLoss == nil {
		s.TimeLoss = map[string]int{}
	}
	s.TimeLoss[date] += seconds
}

// ResetTimeLoss clears the accumulated loss for the given date.
func (s *Settings) ResetTimeLoss(date string) {
	delete(s.TimeLoss, date)
}

// TimeLossFor returns the accumulated seconds lost on the given date.
func (s *Settings) TimeLossFor(date string) int {
	return s.TimeLoss[date]
}
