// Package generator produces random test data for exercising the roaring
// package's bitmaps without relying on go-fuzz or testing/quick's own
// (less controllable) value generation.
package generator

import (
	"math/rand"
	"sort"
)

// Uint32Slice generates between [0, n) random uint32 values in [min, max),
// optionally sorted ascending.
func Uint32Slice(n int, min, max uint32, sorted bool, rnd *rand.Rand) []uint32 {
	a := make([]uint32, rnd.Intn(n))
	for i := range a {
		a[i] = min + uint32(rnd.Int63n(int64(max-min)))
	}

	if sorted {
		sort.Sort(uint32Slice(a))
	}

	return a
}

// Uint32SetSlice returns the values of a uint32 set, sorted ascending.
func Uint32SetSlice(m map[uint32]struct{}) []uint32 {
	a := make([]uint32, 0, len(m))
	for v := range m {
		a = append(a, v)
	}
	sort.Sort(uint32Slice(a))
	return a
}

// uint32Slice represents a sortable slice of uint32 numbers.
type uint32Slice []uint32

func (u uint32Slice) Swap(i, j int)      { u[i], u[j] = u[j], u[i] }
func (u uint32Slice) Len() int           { return len(u) }
func (u uint32Slice) Less(i, j int) bool { return u[i] < u[j] }
