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

// Package roaring implements a compressed bitmap of unsigned 32-bit
// integers. Values are split into a 16-bit high key and a 16-bit low
// value; the high key selects one of a sorted set of Containers, each of
// which holds the low bits of every member sharing that key, in either a
// sparse (array) or dense (bitmap) representation depending on how many
// members it has.
package roaring

import (
	"bytes"
	"hash/fnv"
	"io"

	"github.com/pkg/errors"
)

// Bitmap is a compressed set of uint32 values.
type Bitmap struct {
	highlowcontainer RoaringArray
}

// NewBitmap returns an empty Bitmap, optionally pre-populated with values.
func NewBitmap(values ...uint32) *Bitmap {
	b := &Bitmap{}
	for _, v := range values {
		b.Add(v)
	}
	return b
}

// Add inserts v into b, returning true if v was not already present.
func (b *Bitmap) Add(v uint32) bool {
	hb, lb := highbits(v), lowbits(v)
	i := b.highlowcontainer.getIndex(hb)
	if i < 0 {
		c := newArrayContainer().add(lb)
		b.highlowcontainer.insertNewKeyValueAt(-i-1, hb, c)
		return true
	}
	c := b.highlowcontainer.getContainerAtIndex(i)
	n := c.cardinality()
	c = c.add(lb)
	b.highlowcontainer.setContainerAtIndex(i, c)
	return c.cardinality() != n
}

// Remove deletes v from b, returning true if v was present.
func (b *Bitmap) Remove(v uint32) bool {
	hb, lb := highbits(v), lowbits(v)
	i := b.highlowcontainer.getIndex(hb)
	if i < 0 {
		return false
	}
	c := b.highlowcontainer.getContainerAtIndex(i)
	n := c.cardinality()
	c = c.remove(lb)
	if c.cardinality() == 0 {
		b.highlowcontainer.removeAtIndex(i)
		return true
	}
	b.highlowcontainer.setContainerAtIndex(i, c)
	return c.cardinality() != n
}

// Contains reports whether v is a member of b.
func (b *Bitmap) Contains(v uint32) bool {
	hb, lb := highbits(v), lowbits(v)
	c := b.highlowcontainer.getContainer(hb)
	if c == nil {
		return false
	}
	return c.contains(lb)
}

// Cardinality returns the number of distinct values held by b.
func (b *Bitmap) Cardinality() uint64 {
	var n uint64
	for _, c := range b.highlowcontainer.containers {
		n += uint64(c.cardinality())
	}
	return n
}

// IsEmpty reports whether b holds no values.
func (b *Bitmap) IsEmpty() bool { return b.highlowcontainer.size() == 0 }

// Clear removes every value from b.
func (b *Bitmap) Clear() { b.highlowcontainer = RoaringArray{} }

// Clone returns a deep copy of b.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{highlowcontainer: *b.highlowcontainer.clone()}
}

// Equals reports whether b and other hold the same set of values.
func (b *Bitmap) Equals(other *Bitmap) bool {
	return b.highlowcontainer.equals(&other.highlowcontainer)
}

// ToArray returns every value in b, in ascending order.
func (b *Bitmap) ToArray() []uint32 {
	out := make([]uint32, b.Cardinality())
	offset := 0
	for i, c := range b.highlowcontainer.containers {
		hs := uint32(b.highlowcontainer.getKeyAtIndex(i)) << 16
		offset += c.fillLeastSignificant16bits(out, offset, hs)
	}
	return out
}

// SizeInBytes estimates b's in-memory footprint.
func (b *Bitmap) SizeInBytes() int { return b.highlowcontainer.sizeInBytes() }

// Trim releases unused backing capacity held by b's containers.
func (b *Bitmap) Trim() { b.highlowcontainer.trim() }

// Checksum returns a 32-bit FNV-1a hash of b's serialized form, useful for
// quickly comparing bitmaps across a wire or a cache without transmitting
// the full payload.
func (b *Bitmap) Checksum() uint32 {
	h := fnv.New32a()
	_, _ = b.WriteTo(h)
	return h.Sum32()
}

// String returns a human-readable summary of b.
func (b *Bitmap) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range b.ToArray() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(uitoa(v))
	}
	buf.WriteByte('}')
	return buf.String()
}

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// WriteTo serializes b to w and returns the number of bytes written.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	return b.highlowcontainer.writeTo(w)
}

// MarshalBinary serializes b per the package's binary format.
func (b *Bitmap) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(b.highlowcontainer.serializedSizeInBytes())
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces b's contents by deserializing data.
func (b *Bitmap) UnmarshalBinary(data []byte) error {
	return b.highlowcontainer.readFrom(data)
}

// ReadFrom deserializes a Bitmap from r, replacing b's contents, and
// returns the number of bytes consumed.
func (b *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Wrap(err, "reading bitmap stream")
	}
	if err := b.UnmarshalBinary(data); err != nil {
		return int64(len(data)), err
	}
	return int64(len(data)), nil
}

// Iterator returns an ascending iterator over b's values.
func (b *Bitmap) Iterator() *Iterator {
	itr := &Iterator{b: b}
	itr.reset()
	return itr
}

// And returns the intersection of a and b, allocating a new Bitmap. Neither
// operand is modified.
func And(a, b *Bitmap) *Bitmap {
	out := &Bitmap{}
	ai, bi := &a.highlowcontainer, &b.highlowcontainer
	na, nb := ai.size(), bi.size()
	for i, j := 0, 0; i < na && j < nb; {
		ka, kb := ai.keys[i], bi.keys[j]
		if ka < kb {
			i++
		} else if ka > kb {
			j++
		} else {
			c := containerAnd(ai.containers[i], bi.containers[j])
			if c.cardinality() > 0 {
				out.highlowcontainer.append(ka, c)
			}
			i++
			j++
		}
	}
	return out
}

// Or returns the union of a and b, allocating a new Bitmap. Neither operand
// is modified.
func Or(a, b *Bitmap) *Bitmap {
	out := &Bitmap{}
	ai, bi := &a.highlowcontainer, &b.highlowcontainer
	na, nb := ai.size(), bi.size()
	i, j := 0, 0
	for i < na && j < nb {
		ka, kb := ai.keys[i], bi.keys[j]
		if ka < kb {
			out.highlowcontainer.appendCopy(ai, i)
			i++
		} else if ka > kb {
			out.highlowcontainer.appendCopy(bi, j)
			j++
		} else {
			out.highlowcontainer.append(ka, containerOr(ai.containers[i], bi.containers[j]))
			i++
			j++
		}
	}
	out.highlowcontainer.appendCopiesFrom(ai, i)
	out.highlowcontainer.appendCopiesFrom(bi, j)
	return out
}

// Xor returns the symmetric difference of a and b, allocating a new
// Bitmap. Neither operand is modified.
func Xor(a, b *Bitmap) *Bitmap {
	out := &Bitmap{}
	ai, bi := &a.highlowcontainer, &b.highlowcontainer
	na, nb := ai.size(), bi.size()
	i, j := 0, 0
	for i < na && j < nb {
		ka, kb := ai.keys[i], bi.keys[j]
		if ka < kb {
			out.highlowcontainer.appendCopy(ai, i)
			i++
		} else if ka > kb {
			out.highlowcontainer.appendCopy(bi, j)
			j++
		} else {
			c := containerXor(ai.containers[i], bi.containers[j])
			if c.cardinality() > 0 {
				out.highlowcontainer.append(ka, c)
			}
			i++
			j++
		}
	}
	out.highlowcontainer.appendCopiesFrom(ai, i)
	out.highlowcontainer.appendCopiesFrom(bi, j)
	return out
}

// AndNot returns the values of a that are not present in b, allocating a
// new Bitmap. Neither operand is modified.
func AndNot(a, b *Bitmap) *Bitmap {
	out := &Bitmap{}
	ai, bi := &a.highlowcontainer, &b.highlowcontainer
	na, nb := ai.size(), bi.size()
	i, j := 0, 0
	for i < na && j < nb {
		ka, kb := ai.keys[i], bi.keys[j]
		if ka < kb {
			out.highlowcontainer.appendCopy(ai, i)
			i++
		} else if ka > kb {
			j++
		} else {
			c := containerAndNot(ai.containers[i], bi.containers[j])
			if c.cardinality() > 0 {
				out.highlowcontainer.append(ka, c)
			}
			i++
			j++
		}
	}
	out.highlowcontainer.appendCopiesFrom(ai, i)
	return out
}

// AndCardinality returns len(And(a, b)) without materializing the result.
func AndCardinality(a, b *Bitmap) uint64 {
	var n uint64
	ai, bi := &a.highlowcontainer, &b.highlowcontainer
	na, nb := ai.size(), bi.size()
	for i, j := 0, 0; i < na && j < nb; {
		ka, kb := ai.keys[i], bi.keys[j]
		if ka < kb {
			i++
		} else if ka > kb {
			j++
		} else {
			ca, cb := ai.containers[i], bi.containers[j]
			if ca.isBitmap() && cb.isBitmap() {
				n += uint64(popcountAndSlice64(ca.bitmap, cb.bitmap))
			} else {
				n += uint64(containerAnd(ca, cb).cardinality())
			}
			i++
			j++
		}
	}
	return n
}

// AndInPlace intersects other into b, discarding any key of b absent from
// other. other is not modified.
func (b *Bitmap) AndInPlace(other *Bitmap) *Bitmap {
	ai, bi := &b.highlowcontainer, &other.highlowcontainer
	na, nb := ai.size(), bi.size()
	pos := 0
	i, j := 0, 0
	for i < na && j < nb {
		ka, kb := ai.keys[i], bi.keys[j]
		if ka < kb {
			i++
		} else if ka > kb {
			j++
		} else {
			c := ai.containers[i].iand(bi.containers[j])
			if c.cardinality() > 0 {
				ai.keys[pos] = ka
				ai.containers[pos] = c
				pos++
			}
			i++
			j++
		}
	}
	ai.resize(pos)
	return b
}

// OrInPlace unions other into b. other is not modified.
func (b *Bitmap) OrInPlace(other *Bitmap) *Bitmap {
	bi := &other.highlowcontainer
	for i := 0; i < bi.size(); i++ {
		key := bi.keys[i]
		idx := b.highlowcontainer.getIndex(key)
		if idx < 0 {
			b.highlowcontainer.insertNewKeyValueAt(-idx-1, key, bi.containers[i].clone())
			continue
		}
		c := b.highlowcontainer.getContainerAtIndex(idx).ior(bi.containers[i])
		b.highlowcontainer.setContainerAtIndex(idx, c)
	}
	return b
}

// XorInPlace symmetric-differences other into b. other is not modified.
func (b *Bitmap) XorInPlace(other *Bitmap) *Bitmap {
	bi := &other.highlowcontainer
	for i := 0; i < bi.size(); i++ {
		key := bi.keys[i]
		idx := b.highlowcontainer.getIndex(key)
		if idx < 0 {
			b.highlowcontainer.insertNewKeyValueAt(-idx-1, key, bi.containers[i].clone())
			continue
		}
		c := b.highlowcontainer.getContainerAtIndex(idx).ixor(bi.containers[i])
		if c.cardinality() == 0 {
			b.highlowcontainer.removeAtIndex(idx)
			continue
		}
		b.highlowcontainer.setContainerAtIndex(idx, c)
	}
	return b
}

// DifferenceInPlace removes every value of other from b. other is not
// modified.
func (b *Bitmap) DifferenceInPlace(other *Bitmap) *Bitmap {
	bi := &other.highlowcontainer
	ai := &b.highlowcontainer
	for i := 0; i < bi.size(); i++ {
		idx := ai.getIndex(bi.keys[i])
		if idx < 0 {
			continue
		}
		c := ai.getContainerAtIndex(idx).iandNot(bi.containers[i])
		if c.cardinality() == 0 {
			ai.removeAtIndex(idx)
			continue
		}
		ai.setContainerAtIndex(idx, c)
	}
	return b
}

// Flip returns a new Bitmap equal to b with every value in [start, end)
// toggled. If start >= end, it returns a clone of b unchanged.
func (b *Bitmap) Flip(start, end uint64) *Bitmap {
	if start >= end {
		return b.Clone()
	}
	out := &Bitmap{}
	flipRange(&b.highlowcontainer, &out.highlowcontainer, start, end)
	return out
}

// FlipInPlace toggles every value in [start, end) within b. If start >=
// end, b is left unchanged.
func (b *Bitmap) FlipInPlace(start, end uint64) *Bitmap {
	if start >= end {
		return b
	}
	var out RoaringArray
	flipRange(&b.highlowcontainer, &out, start, end)
	b.highlowcontainer = out
	return b
}

// flipRange implements the range negation shared by Flip and FlipInPlace.
// end is exclusive and may equal 1<<32, representing the end of the 32-bit
// universe; it is saturated rather than rejected. A range starting at or
// above 1<<32 toggles nothing and dst receives a copy of src.
func flipRange(src, dst *RoaringArray, start, end uint64) {
	if end > 1<<32 {
		end = 1 << 32
	}
	if start >= end {
		dst.appendCopiesFrom(src, 0)
		return
	}
	last := end - 1

	hbStart := highbits(uint32(start))
	lbStart := lowbits(uint32(start))
	hbLast := highbits(uint32(last))
	lbLast := lowbits(uint32(last))

	dst.appendCopiesUntil(src, hbStart)

	if hbStart == hbLast {
		i := src.getIndex(hbStart)
		var c *Container
		if i >= 0 {
			c = src.getContainerAtIndex(i).not(lbStart, lbLast)
		} else {
			c = rangeOfOnes(lbStart, lbLast)
		}
		if c.cardinality() > 0 {
			dst.append(hbStart, c)
		}
		dst.appendCopiesAfter(src, hbLast)
		return
	}

	i := src.getIndex(hbStart)
	var first *Container
	if i >= 0 {
		first = src.getContainerAtIndex(i).not(lbStart, maxLowBit)
	} else {
		first = rangeOfOnes(lbStart, maxLowBit)
	}
	if first.cardinality() > 0 {
		dst.append(hbStart, first)
	}

	for hb := int(hbStart) + 1; hb < int(hbLast); hb++ {
		key := uint16(hb)
		j := src.getIndex(key)
		var c *Container
		if j >= 0 {
			c = src.getContainerAtIndex(j).not(0, maxLowBit)
		} else {
			c = rangeOfOnes(0, maxLowBit)
		}
		if c.cardinality() > 0 {
			dst.append(key, c)
		}
	}

	j := src.getIndex(hbLast)
	var lastC *Container
	if j >= 0 {
		lastC = src.getContainerAtIndex(j).not(0, lbLast)
	} else {
		lastC = rangeOfOnes(0, lbLast)
	}
	if lastC.cardinality() > 0 {
		dst.append(hbLast, lastC)
	}

	dst.appendCopiesAfter(src, hbLast)
}
