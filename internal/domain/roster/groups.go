package roster

import (
	"errors"
	"math/rand/v2"
)

// Grouping modes.
const (
	ByCount = "count" // split into a requested number of groups
	BySize  = "size"  // split into chunks of a requested size
)

// Domain errors
var (
	ErrInvalidMode  = errors.New("group mode must be 'count' or 'size'")
	ErrInvalidCount = errors.New("group count must be at least 1")
	ErrInvalidSize  = errors.New("group size must be at least 1")
)

// Group is one generated team.
type Group struct {
	ID      int
	Members []string
}

// Shuffle returns a uniform random permutation of names. The input is not
// mutated.
func Shuffle(names []string, rng *rand.Rand) []string {
	shuffled := make([]string, len(names))
	copy(shuffled, names)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// SplitByCount partitions names into groupCount groups of size floor(n/k),
// with one extra member in each of the first n mod k groups.
// PRE: groupCount >= 1
// POST: sizes differ by at most 1; every name appears in exactly one group;
// empty groups are dropped
func SplitByCount(names []string, groupCount int) []Group {
	baseSize := len(names) / groupCount
	extras := len(names) % groupCount

	var groups []Group
	index := 0
	for i := 0; i < groupCount; i++ {
		size := baseSize
		if i < extras {
			size++
		}
		if size == 0 {
			continue
		}
		groups = append(groups, Group{
			ID:      len(groups) + 1,
			Members: names[index : index+size],
		})
		index += size
	}
	return groups
}

// SplitBySize partitions names into chunks of groupSize; the final chunk may
// be smaller.
// PRE: groupSize >= 1
// POST: every name appears in exactly one group; empty groups are dropped
func SplitBySize(names []string, groupSize int) []Group {
	var groups []Group
	for start := 0; start < len(names); start += groupSize {
		end := min(start+groupSize, len(names))
		groups = append(groups, Group{
			ID:      len(groups) + 1,
			Members: names[start:end],
		})
	}
	return groups
}

// Generate shuffles names uniformly and partitions them according to mode.
// For ByCount, n is the requested number of groups; for BySize, n is the
// requested group size.
// POST: returns nil, error on invalid parameters; otherwise a partition of
// the input with uniform random membership
func Generate(names []string, mode string, n int, rng *rand.Rand) ([]Group, error) {
	shuffled := Shuffle(names, rng)
	switch mode {
	case ByCount:
		if n < 1 {
			return nil, ErrInvalidCount
		}
		return SplitByCount(shuffled, n), nil
	case BySize:
		if n < 1 {
			return nil, ErrInvalidSize
		}
		return SplitBySize(shuffled, n), nil
	default:
		return nil, ErrInvalidMode
	}
}
