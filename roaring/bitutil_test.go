// Copyright 2017 Pilosa Corp.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package roaring

import (
	"sort"
	"testing"
)

func TestHighLowBits(t *testing.T) {
	for _, v := range []uint32{0, 1, 0xFFFF, 0x10000, 0xFFFFFFFF, 0x12345678} {
		hb, lb := highbits(v), lowbits(v)
		if got := keyvalue(hb, lb); got != v {
			t.Fatalf("keyvalue(highbits(%d), lowbits(%d)) = %d, want %d", v, v, got, v)
		}
	}
}

func TestSearch16(t *testing.T) {
	for _, tt := range []struct {
		a     []uint16
		value uint16
		exp   int
	}{
		{nil, 5, -1},
		{[]uint16{1, 3, 5}, 3, 1},
		{[]uint16{1, 3, 5}, 0, -1},
		{[]uint16{1, 3, 5}, 2, -2},
		{[]uint16{1, 3, 5}, 6, -4},
		{[]uint16{1, 3, 5}, 5, 2},
	} {
		if got := search16(tt.a, tt.value); got != tt.exp {
			t.Errorf("search16(%v, %d) = %d, want %d", tt.a, tt.value, got, tt.exp)
		}
	}
}

func TestSearch16InsertionPoint(t *testing.T) {
	a := []uint16{2, 4, 6, 8, 10}
	for value := uint16(0); value < 12; value++ {
		i := search16(a, value)
		if i >= 0 {
			if a[i] != value {
				t.Fatalf("search16 returned %d for value %d but a[%d]=%d", i, value, i, a[i])
			}
			continue
		}
		insertAt := -i - 1
		sorted := append(append([]uint16{}, a[:insertAt]...), append([]uint16{value}, a[insertAt:]...)...)
		if !sort.SliceIsSorted(sorted, func(x, y int) bool { return sorted[x] < sorted[y] }) {
			t.Fatalf("insertion point %d for value %d does not keep %v sorted", insertAt, value, a)
		}
	}
}

func TestPopcountSlice64(t *testing.T) {
	a := []uint64{0, 1, 3, ^uint64(0)}
	if got, want := popcountSlice64(a), 1+2+64; got != want {
		t.Fatalf("popcountSlice64 = %d, want %d", got, want)
	}
}

func TestPopcountAndSlice64(t *testing.T) {
	a := []uint64{0xFF, 0x0F}
	b := []uint64{0x0F, 0xFF}
	if got, want := popcountAndSlice64(a, b), 4+4; got != want {
		t.Fatalf("popcountAndSlice64 = %d, want %d", got, want)
	}
}
