package testutils

import "github.com/argus-labs/scene-engine/pkg/assert"

// Gen enumerates every combination of bounded choices made inside a `for !g.Done()` loop. Each
// call to a choice method records a digit with its bound; Done advances the rightmost digit that
// is still below its bound and zeroes everything after it, like an odometer with per-wheel limits.
//
// See: <https://matklad.github.io/2021/11/07/generate-all-the-things.html>
type Gen struct {
	started bool
	digits  [32]genDigit
	pos     int // Next digit to hand out in the current round
	depth   int // Number of digits recorded so far
}

type genDigit struct {
	value, bound uint32
}

// NewGen creates a new exhaustive generator.
func NewGen() *Gen {
	return &Gen{}
}

// Done reports whether every combination has been produced. The first call always returns false.
func (g *Gen) Done() bool {
	if !g.started {
		g.started = true
		return false
	}
	for i := g.depth - 1; i >= 0; i-- {
		if g.digits[i].value < g.digits[i].bound {
			g.digits[i].value++
			g.depth = i + 1
			g.pos = 0
			return false
		}
	}
	return true
}

func (g *Gen) next(bound uint32) uint32 {
	assert.That(g.pos < len(g.digits), "exhaustigen: exceeded maximum depth of %d", len(g.digits))
	if g.pos == g.depth {
		g.digits[g.pos] = genDigit{}
		g.depth++
	}
	g.digits[g.pos].bound = bound
	g.pos++
	return g.digits[g.pos-1].value
}

// Intn returns an int in [0, bound], inclusive.
func (g *Gen) Intn(bound int) int {
	return int(g.next(uint32(bound))) //nolint:gosec // bounds are small in tests
}

// Range returns an int in [lo, hi], inclusive.
func (g *Gen) Range(lo, hi int) int {
	assert.That(lo <= hi, "exhaustigen: lo > hi")
	return lo + g.Intn(hi-lo)
}

// Shuffle permutes slice in place; across all rounds every permutation is produced exactly once.
func Shuffle[T any](g *Gen, slice []T) {
	for i := 0; i+1 < len(slice); i++ {
		j := g.Range(i, len(slice)-1)
		slice[i], slice[j] = slice[j], slice[i]
	}
}
