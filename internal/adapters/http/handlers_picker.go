package web

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/roster"
)

// newPickerRand returns the randomness source for one picker request.
// A variable so tests can substitute a seeded source.
var newPickerRand = func() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// spinSteps is the number of cosmetic animation frames returned with each
// random draw.
const spinSteps = 10

// handlePool handles GET /api/classes/{id}/pool: the students currently
// eligible for random selection.
func handlePool(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	out := []studentJSON{}
	for _, s := range cd.AvailablePool() {
		out = append(out, toStudentJSON(cd, s))
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePick handles POST /api/classes/{id}/pick: a spin over the pool
// ending on the picked student.
func handlePick(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	pool := cd.AvailablePool()
	result, ok := roster.Spin(pool, roster.DefaultSpinSteps, newPickerRand())
	if !ok {
		writeError(w, http.StatusConflict, "no students are available to pick")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"steps":  result.Steps,
		"picked": toStudentJSON(cd, result.Picked),
	})
}

// handleGroups handles POST /api/classes/{id}/groups.
func handleGroups(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	cd, err := classDataFor(r, classID)
	if err != nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	var body struct {
		Mode string `json:"mode"` // "count" or "size"
		N    int    `json:"n"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var names []string
	for _, s := range cd.AvailablePool() {
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		writeError(w, http.StatusConflict, "no students are available to group")
		return
	}

	groups, err := roster.Generate(names, body.Mode, body.N, newPickerRand())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleDice handles POST /api/dice.
func handleDice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Count int `json:"count"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if body.Count == 0 {
		body.Count = 1
	}

	spin, err := roster.SpinDice(body.Count, spinSteps, newPickerRand())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	total := 0
	for _, v := range spin.Final {
		total += v
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"steps":  spin.Steps,
		"values": spin.Final,
		"total":  total,
	})
}

// handleCoin handles POST /api/coin.
func handleCoin(w http.ResponseWriter, r *http.Request) {
	spin := roster.SpinCoin(spinSteps, newPickerRand())
	writeJSON(w, http.StatusOK, map[string]any{
		"steps":  spin.Steps,
		"result": spin.Final,
	})
}

// handlePerf handles GET /api/perf: timing stats for requests and queries
// over the last 15 minutes.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-15*time.Minute), 10))
}
