package seed

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is a mutex-guarded PRNG shared by generators, the API and the feed.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand seeds a PCG source. Seed 0 is a valid seed; use ResolveSeed to pick
// a time-based one.
func NewRand(seed int64) *Rand {
	// #nosec G404 -- fixtures, not secrets
	return &Rand{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// ResolveSeed returns seed, or a time-based seed when seed is 0.
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// IntN returns a value in [0, n). n must be positive.
func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Between returns a float in [lo, hi).
func (r *Rand) Between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Duration returns a duration in [lo, hi]. It returns lo when hi <= lo.
func (r *Rand) Duration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + time.Duration(r.r.Int64N(int64(hi-lo)+1))
}

func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.r.Shuffle(n, swap)
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

func Pick[T any](r *Rand, items []T) T {
	return items[r.IntN(len(items))]
}
