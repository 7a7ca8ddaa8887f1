// Package random is the injectable randomness behind puzzle encoding and pool picks.
package random

import (
	"crypto/rand"
	"math/big"
	"slices"
)

type Random interface {
	// Intn returns a value in [0, n), or 0 when n <= 0
	Intn(n int) int
}

// Crypto draws from crypto/rand so letter codes are not predictable
type Crypto struct{}

func New() Crypto {
	return Crypto{}
}

func (Crypto) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Between returns a value in [lo, hi]. hi below lo yields lo.
func Between(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Shuffle permutes the first n elements via swap (Fisher-Yates)
func Shuffle(r Random, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

// Sample draws up to k distinct elements of items without replacement, in draw order
func Sample[T any](r Random, items []T, k int) []T {
	k = min(max(k, 0), len(items))
	pool := slices.Clone(items)
	for i := range k {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k]
}

// Pick returns a uniformly chosen element of items. ok is false when items is empty.
func Pick[T any](r Random, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[r.Intn(len(items))], true
}
