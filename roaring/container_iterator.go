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

// containerIterator produces a container's values, in ascending order.
type containerIterator struct {
	c     *Container
	i     int    // index into array, when c is an array container
	word  int    // current word index, when c is a bitmap container
	bits  uint64 // remaining unscanned bits of the current word
	value uint16
	begun bool
}

func (c *Container) iterator() *containerIterator {
	itr := &containerIterator{c: c, i: -1}
	if c.isBitmap() {
		itr.word = -1
	}
	return itr
}

// next advances the iterator and reports whether a value is available.
func (itr *containerIterator) next() bool {
	c := itr.c
	if c.isArray() {
		itr.i++
		if itr.i >= len(c.array) {
			return false
		}
		itr.value = c.array[itr.i]
		return true
	}

	for itr.bits == 0 {
		itr.word++
		if itr.word >= len(c.bitmap) {
			return false
		}
		itr.bits = c.bitmap[itr.word]
	}
	t := itr.bits & -itr.bits
	itr.value = uint16(itr.word*64 + popcount64(t-1))
	itr.bits ^= t
	return true
}

// seek advances the iterator to the first value >= v without producing it;
// the following call to next() returns that value (or eof).
func (itr *containerIterator) seek(v uint16) {
	c := itr.c
	if c.isArray() {
		i := search16(c.array, v)
		if i < 0 {
			i = -i - 1
		}
		itr.i = i - 1
		return
	}
	itr.word = int(v) / 64
	if itr.word >= len(c.bitmap) {
		itr.word = len(c.bitmap)
		itr.bits = 0
		return
	}
	itr.bits = c.bitmap[itr.word] &^ (maskBelow(v % 64))
}

func maskBelow(bit uint16) uint64 {
	if bit == 0 {
		return 0
	}
	return (uint64(1) << bit) - 1
}
