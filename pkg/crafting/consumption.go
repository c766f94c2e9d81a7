package crafting

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Roller supplies uniform random numbers in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// NewSeededRoller returns a deterministic roller for the given seed.
func NewSeededRoller(seed int64) Roller {
	// Non-cryptographic PRNG is intentional: rolls must be reproducible.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "consume"), seedWord(seed, "place")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// clampChance keeps a consumption chance inside [0, 1].
func clampChance(chance float64) float64 {
	switch {
	case chance < 0:
		return 0
	case chance > 1:
		return 1
	default:
		return chance
	}
}

// consumes rolls whether a placement costs a dot.
func (s *Session) consumes() bool {
	if s.chance >= 1 || s.roller == nil {
		return true
	}
	return s.roller.Float64() < s.chance
}
