package roster

import (
	"errors"
	"math/rand/v2"
)

// Coin faces.
const (
	CoinHeads = "heads"
	CoinTails = "tails"
)

// Dice limits.
const (
	DieSides = 6
	MaxDice  = 6
)

// ErrInvalidDiceCount is returned when the requested dice count is out of range.
var ErrInvalidDiceCount = errors.New("dice count must be between 1 and 6")

// RollDice rolls count independent six-sided dice.
// PRE: 1 <= count <= MaxDice
// POST: each value is uniform in 1..6
func RollDice(count int, rng *rand.Rand) ([]int, error) {
	if count < 1 || count > MaxDice {
		return nil, ErrInvalidDiceCount
	}
	values := make([]int, count)
	for i := range values {
		values[i] = rng.IntN(DieSides) + 1
	}
	return values, nil
}

// FlipCoin flips a fair coin.
func FlipCoin(rng *rand.Rand) string {
	if rng.IntN(2) == 0 {
		return CoinHeads
	}
	return CoinTails
}

// DiceSpin carries the cosmetic intermediate rolls and the committed roll.
type DiceSpin struct {
	Steps [][]int
	Final []int
}

// SpinDice samples steps intermediate fake rolls for the animation, then
// commits a final independent roll.
// PRE: 1 <= count <= MaxDice, steps >= 0
func SpinDice(count, steps int, rng *rand.Rand) (DiceSpin, error) {
	spin := DiceSpin{Steps: make([][]int, 0, steps)}
	for i := 0; i < steps; i++ {
		roll, err := RollDice(count, rng)
		if err != nil {
			return DiceSpin{}, err
		}
		spin.Steps = append(spin.Steps, roll)
	}
	final, err := RollDice(count, rng)
	if err != nil {
		return DiceSpin{}, err
	}
	spin.Final = final
	return spin, nil
}

// CoinSpin carries the cosmetic intermediate faces and the committed flip.
type CoinSpin struct {
	Steps []string
	Final string
}

// SpinCoin samples steps intermediate fake faces, then commits a final
// independent flip.
// PRE: steps >= 0
func SpinCoin(steps int, rng *rand.Rand) CoinSpin {
	spin := CoinSpin{Steps: make([]string, 0, steps)}
	for i := 0; i < steps; i++ {
		spin.Steps = append(spin.Steps, FlipCoin(rng))
	}
	spin.Final = FlipCoin(rng)
	return spin
}
