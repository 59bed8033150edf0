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

// Iterator produces a Bitmap's values in ascending order. It holds a
// reference back to the Bitmap so that Remove can delete the value last
// returned by Next without the caller re-resolving its container.
//
// Any mutation of the Bitmap other than Iterator.Remove invalidates the
// iterator; this is not checked at run time.
type Iterator struct {
	b         *Bitmap
	keyIndex  int
	cIter     *containerIterator
	lastValue uint32
	valid     bool
}

func (itr *Iterator) reset() {
	itr.keyIndex = 0
	itr.cIter = nil
	itr.valid = false
	itr.advanceContainer()
}

// advanceContainer moves to the next non-exhausted container's iterator.
func (itr *Iterator) advanceContainer() {
	ra := &itr.b.highlowcontainer
	for itr.keyIndex < ra.size() {
		if itr.cIter == nil {
			itr.cIter = ra.containers[itr.keyIndex].iterator()
		}
		if itr.cIter.next() {
			return
		}
		itr.keyIndex++
		itr.cIter = nil
	}
	itr.cIter = nil
}

// HasNext reports whether a call to Next will return a value.
func (itr *Iterator) HasNext() bool {
	return itr.cIter != nil
}

// Next returns the next value in ascending order. It panics if called when
// HasNext would return false.
func (itr *Iterator) Next() uint32 {
	ra := &itr.b.highlowcontainer
	hs := uint32(ra.getKeyAtIndex(itr.keyIndex)) << 16
	itr.lastValue = hs | uint32(itr.cIter.value)
	itr.valid = true
	itr.advanceContainer()
	return itr.lastValue
}

// Seek advances the iterator so the next call to Next returns the smallest
// value >= v, or exhausts the iterator if no such value exists.
func (itr *Iterator) Seek(v uint32) {
	ra := &itr.b.highlowcontainer
	hb := highbits(v)
	i := ra.getIndex(hb)
	if i < 0 {
		i = -i - 1
	}
	itr.keyIndex = i
	itr.cIter = nil
	itr.valid = false
	if itr.keyIndex >= ra.size() {
		return
	}
	if ra.getKeyAtIndex(itr.keyIndex) == hb {
		itr.cIter = ra.containers[itr.keyIndex].iterator()
		itr.cIter.seek(lowbits(v))
	}
	itr.advanceContainer()
}

// Remove deletes the value last returned by Next from the underlying
// Bitmap. It panics if called before any call to Next. Iteration continues
// with the value that followed the removed one.
func (itr *Iterator) Remove() {
	if !itr.valid {
		panic("roaring: Remove called before Next")
	}
	hadNext := itr.HasNext()
	itr.b.Remove(itr.lastValue)
	itr.valid = false
	if hadNext {
		// The removal may have shifted or converted the current container,
		// so re-position on the value after the removed one.
		itr.Seek(itr.lastValue + 1)
	}
}
