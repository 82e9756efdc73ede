package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// Random is the single random stream shared by generation, projection and scenarios
type Random struct {
	rand *rand.Rand
}

// NewRandom creates a stream from a seed; zero seeds from the clock
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rand: rand.New(rand.NewSource(seed))}
}

// Float64 returns a value in [0,1)
func (r *Random) Float64() float64 {
	return r.rand.Float64()
}

// Uniform returns a value in [min,max]
func (r *Random) Uniform(min, max float64) float64 {
	return min + (max-min)*r.rand.Float64()
}

// IntBetween returns an integer in [min,max], both inclusive
func (r *Random) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rand.Intn(max-min+1)
}

// Intn returns an integer in [0,n)
func (r *Random) Intn(n int) int {
	return r.rand.Intn(n)
}

// Chance returns true with probability p
func (r *Random) Chance(p float64) bool {
	return r.rand.Float64() < p
}

// Sample returns k distinct indices drawn from [0,n)
func (r *Random) Sample(n, k int) ([]int, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("%w: cannot sample %d of %d items", entities.ErrPoolTooSmall, k, n)
	}
	perm := r.rand.Perm(n)
	return perm[:k], nil
}

// Shuffle permutes n elements in place through swap
func (r *Random) Shuffle(n int, swap func(i, j int)) {
	r.rand.Shuffle(n, swap)
}

// Pick returns a random element of a non-empty slice
func Pick[T any](r *Random, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: cannot pick from an empty pool", entities.ErrPoolTooSmall)
	}
	return items[r.rand.Intn(len(items))], nil
}

// SampleOf returns k distinct elements of items in sampled order
func SampleOf[T any](r *Random, items []T, k int) ([]T, error) {
	indices, err := r.Sample(len(items), k)
	if err != nil {
		return nil, err
	}
	result := make([]T, k)
	for i, idx := range indices {
		result[i] = items[idx]
	}
	return result, nil
}
