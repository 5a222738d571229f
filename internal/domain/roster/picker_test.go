package roster_test

import (
	"testing"

	"github.com/geraldho81/classroom-manager/internal/domain/roster"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

func testPool(names ...string) []student.Student {
	pool := make([]student.Student, len(names))
	for i, n := range names {
		pool[i] = student.Student{ID: "s-" + n, ClassID: "class-1", Name: n}
	}
	return pool
}

// TestPick tests uniform selection from a pool.
func TestPick(t *testing.T) {
	pool := testPool("Ana", "Ben", "Cyrus")

	for i := 0; i < 50; i++ {
		picked, ok := roster.Pick(pool, testRand())
		if !ok {
			t.Fatal("Pick() ok = false on non-empty pool")
		}
		found := false
		for _, s := range pool {
			if s.ID == picked.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("Pick() returned %q, not in pool", picked.Name)
		}
	}
}

// TestPick_Uniformity tests that every pool member is drawn with frequency
// close to 1/k over many trials.
func TestPick_Uniformity(t *testing.T) {
	pool := testPool("Ana", "Ben", "Cyrus", "Dana")
	rng := testRand()

	const trials = 8000
	counts := make(map[string]int, len(pool))
	for i := 0; i < trials; i++ {
		picked, ok := roster.Pick(pool, rng)
		if !ok {
			t.Fatal("Pick() ok = false on non-empty pool")
		}
		counts[picked.ID]++
	}

	expected := trials / len(pool)
	tolerance := expected / 10
	for _, s := range pool {
		got := counts[s.ID]
		if got < expected-tolerance || got > expected+tolerance {
			t.Errorf("%s picked %d times, want %d±%d", s.Name, got, expected, tolerance)
		}
	}
}

// TestPick_EmptyPool tests that an empty pool yields no pick.
func TestPick_EmptyPool(t *testing.T) {
	if _, ok := roster.Pick(nil, testRand()); ok {
		t.Error("Pick(nil) ok = true, want false")
	}
	if _, ok := roster.Pick([]student.Student{}, testRand()); ok {
		t.Error("Pick(empty) ok = true, want false")
	}
}

// TestSpin tests the animated pick result shape.
func TestSpin(t *testing.T) {
	pool := testPool("Ana", "Ben", "Cyrus")

	result, ok := roster.Spin(pool, roster.DefaultSpinSteps, testRand())
	if !ok {
		t.Fatal("Spin() ok = false on non-empty pool")
	}
	if len(result.Steps) != roster.DefaultSpinSteps {
		t.Errorf("len(Steps) = %d, want %d", len(result.Steps), roster.DefaultSpinSteps)
	}
	for i, step := range result.Steps {
		valid := false
		for _, s := range pool {
			if s.Name == step {
				valid = true
			}
		}
		if !valid {
			t.Errorf("step %d is %q, not a pool name", i, step)
		}
	}
	if result.Picked.ID == "" {
		t.Error("Picked is zero value")
	}
}

// TestSpin_ZeroSteps tests a spin with no animation frames.
func TestSpin_ZeroSteps(t *testing.T) {
	result, ok := roster.Spin(testPool("Solo"), 0, testRand())
	if !ok {
		t.Fatal("Spin() ok = false on non-empty pool")
	}
	if len(result.Steps) != 0 {
		t.Errorf("len(Steps) = %d, want 0", len(result.Steps))
	}
	if result.Picked.Name != "Solo" {
		t.Errorf("Picked = %q, want Solo", result.Picked.Name)
	}
}

// TestSpin_EmptyPool tests that an empty pool yields no spin.
func TestSpin_EmptyPool(t *testing.T) {
	if _, ok := roster.Spin(nil, roster.DefaultSpinSteps, testRand()); ok {
		t.Error("Spin(nil) ok = true, want false")
	}
}
