package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Rand is the random source injected into every piece of game logic that
// rolls dice. Tests swap in a scripted implementation to force outcomes.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// SeedFromString folds an arbitrary string into a 64-bit seed.
func SeedFromString(s string) int64 {
	h := sha256.Sum256([]byte(s))
	return int64(binary.LittleEndian.Uint64(h[:8]))
}

type locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a Rand backed by math/rand with the given seed. The
// source is guarded by a mutex so concurrent sessions can share one instance.
func NewSeeded(seed int64) Rand {
	return &locked{r: rand.New(rand.NewSource(seed))}
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *locked) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// IntBetween returns a uniform value in [lo, hi] inclusive.
func IntBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}
