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
	"math/rand"
	"testing"
)

func TestContainerAddContainsRemove(t *testing.T) {
	c := newArrayContainer()
	for _, v := range []uint16{5, 1, 3} {
		c = c.add(v)
	}
	for _, v := range []uint16{1, 3, 5} {
		if !c.contains(v) {
			t.Fatalf("expected container to contain %d", v)
		}
	}
	if c.contains(2) {
		t.Fatalf("container should not contain 2")
	}
	c = c.remove(3)
	if c.contains(3) {
		t.Fatalf("container should no longer contain 3 after remove")
	}
	if c.cardinality() != 2 {
		t.Fatalf("cardinality = %d, want 2", c.cardinality())
	}
}

func TestContainerArrayToBitmapThreshold(t *testing.T) {
	c := newArrayContainer()
	for v := 0; v <= arrayMaxSize; v++ {
		c = c.add(uint16(v))
	}
	if !c.isBitmap() {
		t.Fatalf("container with cardinality %d should have converted to bitmap", c.cardinality())
	}
	if c.cardinality() != arrayMaxSize+1 {
		t.Fatalf("cardinality = %d, want %d", c.cardinality(), arrayMaxSize+1)
	}

	for v := arrayMaxSize; v > 0; v-- {
		c = c.remove(uint16(v))
	}
	if !c.isArray() {
		t.Fatalf("container with cardinality %d should have converted back to array", c.cardinality())
	}
}

func TestContainerCloneIndependence(t *testing.T) {
	c := newArrayContainer()
	c = c.add(1)
	c = c.add(2)
	clone := c.clone()
	clone = clone.add(3)
	if c.contains(3) {
		t.Fatalf("mutating a clone should not affect the original")
	}
	if !clone.contains(1) || !clone.contains(2) {
		t.Fatalf("clone should retain the original's values")
	}
}

func TestContainerIteratorOrder(t *testing.T) {
	for _, dense := range []bool{false, true} {
		c := newArrayContainer()
		values := []uint16{5, 1, 9000, 3, 65535, 0}
		for _, v := range values {
			c = c.add(v)
		}
		if dense {
			c = c.toBitmap()
		}
		itr := c.iterator()
		var got []uint16
		for itr.next() {
			got = append(got, itr.value)
		}
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("iterator values not strictly increasing: %v", got)
			}
		}
		if len(got) != len(values) {
			t.Fatalf("iterator produced %d values, want %d", len(got), len(values))
		}
	}
}

func TestContainerSeek(t *testing.T) {
	for _, dense := range []bool{false, true} {
		c := newArrayContainer()
		for _, v := range []uint16{2, 4, 6, 8} {
			c = c.add(v)
		}
		if dense {
			c = c.toBitmap()
		}
		itr := c.iterator()
		itr.seek(5)
		if !itr.next() || itr.value != 6 {
			t.Fatalf("seek(5) then next() = %d, want 6", itr.value)
		}
	}
}

func TestContainerAndOrXorAndNot(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		am := map[uint16]struct{}{}
		bm := map[uint16]struct{}{}
		a := newArrayContainer()
		b := newArrayContainer()
		n := 1 + rnd.Intn(5000)
		for i := 0; i < n; i++ {
			v := uint16(rnd.Intn(20000))
			am[v] = struct{}{}
			a = a.add(v)
		}
		for i := 0; i < n; i++ {
			v := uint16(rnd.Intn(20000))
			bm[v] = struct{}{}
			b = b.add(v)
		}

		checkSetOp(t, "and", containerAnd(a, b), intersect(am, bm))
		checkSetOp(t, "or", containerOr(a, b), union(am, bm))
		checkSetOp(t, "xor", containerXor(a, b), symDiff(am, bm))
		checkSetOp(t, "andNot", containerAndNot(a, b), difference(am, bm))
	}
}

func checkSetOp(t *testing.T, op string, c *Container, want map[uint16]struct{}) {
	t.Helper()
	if c.cardinality() != len(want) {
		t.Fatalf("%s: cardinality = %d, want %d", op, c.cardinality(), len(want))
	}
	for v := range want {
		if !c.contains(v) {
			t.Fatalf("%s: result missing expected value %d", op, v)
		}
	}
}

func intersect(a, b map[uint16]struct{}) map[uint16]struct{} {
	out := map[uint16]struct{}{}
	for v := range a {
		if _, ok := b[v]; ok {
			out[v] = struct{}{}
		}
	}
	return out
}

func union(a, b map[uint16]struct{}) map[uint16]struct{} {
	out := map[uint16]struct{}{}
	for v := range a {
		out[v] = struct{}{}
	}
	for v := range b {
		out[v] = struct{}{}
	}
	return out
}

func symDiff(a, b map[uint16]struct{}) map[uint16]struct{} {
	out := map[uint16]struct{}{}
	for v := range a {
		if _, ok := b[v]; !ok {
			out[v] = struct{}{}
		}
	}
	for v := range b {
		if _, ok := a[v]; !ok {
			out[v] = struct{}{}
		}
	}
	return out
}

func difference(a, b map[uint16]struct{}) map[uint16]struct{} {
	out := map[uint16]struct{}{}
	for v := range a {
		if _, ok := b[v]; !ok {
			out[v] = struct{}{}
		}
	}
	return out
}

func TestContainerInPlaceBitmapBitmap(t *testing.T) {
	a := newBitmapContainer()
	b := newBitmapContainer()
	for v := uint16(0); v < 10000; v += 3 {
		a = a.add(v)
	}
	for v := uint16(0); v < 10000; v += 5 {
		b = b.add(v)
	}
	want := containerAnd(a, b)
	a.iand(b)
	if !a.equals(want) {
		t.Fatalf("iand result differs from containerAnd result")
	}
}

func TestContainerNotInvolution(t *testing.T) {
	c := newArrayContainer()
	for _, v := range []uint16{1, 2, 100, 5000} {
		c = c.add(v)
	}
	once := c.not(0, maxLowBit)
	twice := once.not(0, maxLowBit)
	if !c.equals(twice) {
		t.Fatalf("not(not(c)) should equal c")
	}
}

func TestContainerMax(t *testing.T) {
	c := newArrayContainer()
	if c.max() != 0 {
		t.Fatalf("max of empty container = %d, want 0", c.max())
	}
	c = c.add(5)
	c = c.add(9000)
	if c.max() != 9000 {
		t.Fatalf("max = %d, want 9000", c.max())
	}
	c = c.toBitmap()
	if c.max() != 9000 {
		t.Fatalf("max after toBitmap = %d, want 9000", c.max())
	}
}
