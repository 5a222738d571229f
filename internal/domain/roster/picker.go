package roster

import (
	"math/rand/v2"

	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// DefaultSpinSteps is the number of cosmetic intermediate samples shown
// while the picker "spins".
const DefaultSpinSteps = 15

// SpinResult carries the cosmetic spin samples and the committed pick.
// The steps are presentation only; Picked is a single independent uniform
// draw over the pool and is not influenced by the steps.
type SpinResult struct {
	Steps  []string
	Picked student.Student
}

// Pick draws one student uniformly from the pool.
// POST: ok is false iff the pool is empty
func Pick(pool []student.Student, rng *rand.Rand) (student.Student, bool) {
	if len(pool) == 0 {
		return student.Student{}, false
	}
	return pool[rng.IntN(len(pool))], true
}

// Spin samples steps intermediate names for the picker animation, then
// commits a final independent uniform draw.
// PRE: steps >= 0
// POST: ok is false iff the pool is empty; len(result.Steps) == steps
func Spin(pool []student.Student, steps int, rng *rand.Rand) (SpinResult, bool) {
	if len(pool) == 0 {
		return SpinResult{}, false
	}
	result := SpinResult{Steps: make([]string, 0, steps)}
	for i := 0; i < steps; i++ {
		result.Steps = append(result.Steps, pool[rng.IntN(len(pool))].Name)
	}
	result.Picked, _ = Pick(pool, rng)
	return result, true
}
