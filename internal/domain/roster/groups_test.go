package roster_test

import (
	"errors"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/geraldho81/classroom-manager/internal/domain/roster"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('A' + i))
	}
	return out
}

// groupSizes returns the member count of each group in order.
func groupSizes(groups []roster.Group) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g.Members)
	}
	return sizes
}

// TestSplitByCount tests partitioning into a fixed number of groups.
func TestSplitByCount(t *testing.T) {
	tests := []struct {
		name       string
		students   int
		groupCount int
		wantSizes  []int
	}{
		{"even split", 9, 3, []int{3, 3, 3}},
		{"extras go to first groups", 10, 3, []int{4, 3, 3}},
		{"one group", 5, 1, []int{5}},
		{"more groups than students", 2, 5, []int{1, 1}},
		{"single student", 1, 3, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := roster.SplitByCount(names(tt.students), tt.groupCount)

			sizes := groupSizes(groups)
			if len(sizes) != len(tt.wantSizes) {
				t.Fatalf("got %d groups %v, want sizes %v", len(groups), sizes, tt.wantSizes)
			}
			for i := range sizes {
				if sizes[i] != tt.wantSizes[i] {
					t.Errorf("group %d size = %d, want %d", i+1, sizes[i], tt.wantSizes[i])
				}
			}
			assertPartition(t, names(tt.students), groups)
		})
	}
}

// TestSplitBySize tests partitioning into fixed-size chunks.
func TestSplitBySize(t *testing.T) {
	tests := []struct {
		name      string
		students  int
		groupSize int
		wantSizes []int
	}{
		{"exact chunks", 6, 3, []int{3, 3}},
		{"smaller last chunk", 7, 3, []int{3, 3, 1}},
		{"size larger than roster", 2, 5, []int{2}},
		{"size one", 3, 1, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := roster.SplitBySize(names(tt.students), tt.groupSize)

			sizes := groupSizes(groups)
			if len(sizes) != len(tt.wantSizes) {
				t.Fatalf("got %d groups %v, want sizes %v", len(groups), sizes, tt.wantSizes)
			}
			for i := range sizes {
				if sizes[i] != tt.wantSizes[i] {
					t.Errorf("group %d size = %d, want %d", i+1, sizes[i], tt.wantSizes[i])
				}
			}
			assertPartition(t, names(tt.students), groups)
		})
	}
}

// TestGenerate tests mode dispatch and parameter validation.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		n       int
		wantErr error
	}{
		{"by count", roster.ByCount, 2, nil},
		{"by size", roster.BySize, 3, nil},
		{"count below one", roster.ByCount, 0, roster.ErrInvalidCount},
		{"size below one", roster.BySize, -1, roster.ErrInvalidSize},
		{"unknown mode", "random", 2, roster.ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := roster.Generate(names(7), tt.mode, tt.n, testRand())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Generate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				assertPartition(t, names(7), groups)
			}
		})
	}
}

// TestShuffle tests that shuffling permutes without mutating the input.
func TestShuffle(t *testing.T) {
	input := names(10)
	original := append([]string(nil), input...)

	shuffled := roster.Shuffle(input, testRand())

	for i := range input {
		if input[i] != original[i] {
			t.Fatal("Shuffle mutated its input")
		}
	}

	a := append([]string(nil), shuffled...)
	b := append([]string(nil), original...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Shuffle result is not a permutation of the input")
		}
	}
}

// assertPartition fails the test unless every input name appears in exactly
// one group and group IDs are sequential from 1.
func assertPartition(t *testing.T, input []string, groups []roster.Group) {
	t.Helper()
	seen := make(map[string]int)
	for i, g := range groups {
		if g.ID != i+1 {
			t.Errorf("group %d has ID %d", i, g.ID)
		}
		if len(g.Members) == 0 {
			t.Errorf("group %d is empty", g.ID)
		}
		for _, m := range g.Members {
			seen[m]++
		}
	}
	for _, name := range input {
		if seen[name] != 1 {
			t.Errorf("name %q appears %d times across groups, want 1", name, seen[name])
		}
	}
	if len(seen) != len(input) {
		t.Errorf("groups contain %d distinct names, want %d", len(seen), len(input))
	}
}
