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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// serialCookie identifies this package's binary format. It has no
	// significance beyond being a fixed value a reader can check.
	serialCookie = uint32(0x52424D31) // "RBM1"

	// headerSize is the size, in bytes, of the cookie and container count.
	headerSize = 4 + 4

	// descriptorSize is the size, in bytes, of one key+cardinality record.
	descriptorSize = 2 + 2

	// offsetSize is the size, in bytes, of one container offset record.
	offsetSize = 4
)

// RoaringArray is the ordered, binary-searchable map from 16-bit high-key
// values to the Container holding the corresponding low 16 bits. Keys are
// kept strictly increasing and every container is non-empty; RoaringArray
// owns every container it holds.
type RoaringArray struct {
	keys       []uint16
	containers []*Container
}

// size returns the number of key/container pairs.
func (ra *RoaringArray) size() int { return len(ra.keys) }

// getIndex returns the index of key if present, or -(insertionPoint+1) if
// it is absent - the one's complement of where it would need to be
// inserted to keep keys sorted.
func (ra *RoaringArray) getIndex(key uint16) int {
	return search16(ra.keys, key)
}

// getContainer returns the container for key, or nil if key is absent.
func (ra *RoaringArray) getContainer(key uint16) *Container {
	i := ra.getIndex(key)
	if i < 0 {
		return nil
	}
	return ra.containers[i]
}

// getContainerAtIndex returns the container at position i.
func (ra *RoaringArray) getContainerAtIndex(i int) *Container { return ra.containers[i] }

// getKeyAtIndex returns the key at position i.
func (ra *RoaringArray) getKeyAtIndex(i int) uint16 { return ra.keys[i] }

// setContainerAtIndex replaces the container at position i.
func (ra *RoaringArray) setContainerAtIndex(i int, c *Container) { ra.containers[i] = c }

// append pushes key/c onto the end. The caller must guarantee key is
// strictly greater than the current last key; violating that is a
// programmer error, not a recoverable condition.
func (ra *RoaringArray) append(key uint16, c *Container) {
	if n := len(ra.keys); n > 0 && ra.keys[n-1] >= key {
		panic("roaring: append called with a key not strictly greater than the last key")
	}
	ra.keys = append(ra.keys, key)
	ra.containers = append(ra.containers, c)
}

// appendCopy clones src's container at index i and appends it with src's key.
func (ra *RoaringArray) appendCopy(src *RoaringArray, i int) {
	ra.append(src.keys[i], src.containers[i].clone())
}

// appendCopiesUntil clones every entry of src whose key is strictly less
// than stopKey, in order.
func (ra *RoaringArray) appendCopiesUntil(src *RoaringArray, stopKey uint16) {
	for i, key := range src.keys {
		if key >= stopKey {
			break
		}
		ra.appendCopy(src, i)
	}
}

// appendCopiesAfter clones every entry of src whose key is strictly greater
// than afterKey, in order.
func (ra *RoaringArray) appendCopiesAfter(src *RoaringArray, afterKey uint16) {
	for i, key := range src.keys {
		if key <= afterKey {
			continue
		}
		ra.appendCopy(src, i)
	}
}

// appendCopiesFrom clones every entry of src starting at index from, in order.
func (ra *RoaringArray) appendCopiesFrom(src *RoaringArray, from int) {
	for i := from; i < src.size(); i++ {
		ra.appendCopy(src, i)
	}
}

// insertNewKeyValueAt shift-inserts key/c at position i.
func (ra *RoaringArray) insertNewKeyValueAt(i int, key uint16, c *Container) {
	ra.keys = append(ra.keys, 0)
	copy(ra.keys[i+1:], ra.keys[i:])
	ra.keys[i] = key

	ra.containers = append(ra.containers, nil)
	copy(ra.containers[i+1:], ra.containers[i:])
	ra.containers[i] = c
}

// removeAtIndex deletes the entry at position i.
func (ra *RoaringArray) removeAtIndex(i int) {
	ra.keys = append(ra.keys[:i], ra.keys[i+1:]...)
	ra.containers = append(ra.containers[:i], ra.containers[i+1:]...)
}

// resize truncates to n entries, releasing any containers beyond it.
func (ra *RoaringArray) resize(n int) {
	for i := n; i < len(ra.containers); i++ {
		ra.containers[i] = nil
	}
	ra.keys = ra.keys[:n]
	ra.containers = ra.containers[:n]
}

// clone deep-copies every container.
func (ra *RoaringArray) clone() *RoaringArray {
	other := &RoaringArray{
		keys:       make([]uint16, len(ra.keys)),
		containers: make([]*Container, len(ra.containers)),
	}
	copy(other.keys, ra.keys)
	for i, c := range ra.containers {
		other.containers[i] = c.clone()
	}
	return other
}

// equals reports whether ra and other hold the same keys mapped to
// equal-valued containers, in the same order.
func (ra *RoaringArray) equals(other *RoaringArray) bool {
	if len(ra.keys) != len(other.keys) {
		return false
	}
	for i, key := range ra.keys {
		if other.keys[i] != key {
			return false
		}
		if !ra.containers[i].equals(other.containers[i]) {
			return false
		}
	}
	return true
}

// sizeInBytes estimates total memory: the RoaringArray header plus each
// container's key/pointer overhead and payload.
func (ra *RoaringArray) sizeInBytes() int {
	n := 8
	for _, c := range ra.containers {
		n += 2 + c.sizeInBytes()
	}
	return n
}

// trim asks every container to release unused backing capacity.
func (ra *RoaringArray) trim() {
	for _, c := range ra.containers {
		c.trim()
	}
}

// serializedSizeInBytes returns the exact number of bytes writeTo will emit.
func (ra *RoaringArray) serializedSizeInBytes() int {
	n := headerSize + ra.size()*(descriptorSize+offsetSize)
	for _, c := range ra.containers {
		n += c.sizeInBytes()
	}
	return n
}

// writeTo serializes ra per the format described in the roaring package's
// binary layout: a cookie, a count, a key+cardinality descriptor table, an
// offset table, and then each container's payload in key order.
func (ra *RoaringArray) writeTo(w io.Writer) (int64, error) {
	size := ra.size()
	buf := make([]byte, headerSize+size*(descriptorSize+offsetSize))

	binary.LittleEndian.PutUint32(buf[0:], serialCookie)
	binary.LittleEndian.PutUint32(buf[4:], uint32(size))

	descOff := headerSize
	offOff := headerSize + size*descriptorSize
	payloadOffset := uint32(len(buf))
	for i, key := range ra.keys {
		c := ra.containers[i]
		binary.LittleEndian.PutUint16(buf[descOff:], key)
		binary.LittleEndian.PutUint16(buf[descOff+2:], uint16(c.n-1))
		descOff += descriptorSize

		binary.LittleEndian.PutUint32(buf[offOff:], payloadOffset)
		offOff += offsetSize
		payloadOffset += uint32(c.sizeInBytes())
	}

	n, err := w.Write(buf)
	total := int64(n)
	if err != nil {
		return total, err
	}

	for _, c := range ra.containers {
		nn, err := writeContainerPayload(w, c)
		total += nn
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeContainerPayload(w io.Writer, c *Container) (int64, error) {
	if c.isArray() {
		buf := make([]byte, len(c.array)*2)
		for i, v := range c.array {
			binary.LittleEndian.PutUint16(buf[i*2:], v)
		}
		n, err := w.Write(buf)
		return int64(n), err
	}

	buf := make([]byte, len(c.bitmap)*8)
	for i, v := range c.bitmap {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// readFrom deserializes ra from data, replacing its current contents. It
// rejects streams with a mismatched cookie, a truncated header or payload,
// an invalid cardinality, or keys that are not strictly increasing.
func (ra *RoaringArray) readFrom(data []byte) error {
	if len(data) < headerSize {
		return errors.Wrap(ErrTruncatedData, "header")
	}

	cookie := binary.LittleEndian.Uint32(data[0:4])
	if cookie != serialCookie {
		return errors.Wrapf(ErrInvalidCookie, "got %#x", cookie)
	}
	size := int(binary.LittleEndian.Uint32(data[4:8]))

	descEnd := headerSize + size*descriptorSize
	offEnd := descEnd + size*offsetSize
	if len(data) < offEnd {
		return errors.Wrap(ErrTruncatedData, "descriptor/offset table")
	}

	keys := make([]uint16, size)
	cards := make([]int, size)
	for i := 0; i < size; i++ {
		rec := data[headerSize+i*descriptorSize:]
		keys[i] = binary.LittleEndian.Uint16(rec[0:2])
		cards[i] = int(binary.LittleEndian.Uint16(rec[2:4])) + 1
		if cards[i] <= 0 || cards[i] > 65536 {
			return errors.Wrapf(ErrInvalidCardinality, "key %d: %d", keys[i], cards[i])
		}
		if i > 0 && keys[i] <= keys[i-1] {
			return errors.Wrapf(ErrKeysNotSorted, "index %d", i)
		}
	}

	offsets := make([]uint32, size)
	for i := 0; i < size; i++ {
		offsets[i] = binary.LittleEndian.Uint32(data[descEnd+i*offsetSize:])
	}

	containers := make([]*Container, size)
	for i := 0; i < size; i++ {
		off := int(offsets[i])
		n := cards[i]
		var c *Container
		var payloadLen int
		if n <= arrayMaxSize {
			payloadLen = n * 2
			if off+payloadLen > len(data) {
				return errors.Wrap(ErrTruncatedData, "array payload")
			}
			arr := make([]uint16, n)
			for j := 0; j < n; j++ {
				arr[j] = binary.LittleEndian.Uint16(data[off+j*2:])
			}
			c = &Container{typ: containerArray, n: n, array: arr}
		} else {
			payloadLen = bitmapN * 8
			if off+payloadLen > len(data) {
				return errors.Wrap(ErrTruncatedData, "bitmap payload")
			}
			bm := make([]uint64, bitmapN)
			for j := 0; j < bitmapN; j++ {
				bm[j] = binary.LittleEndian.Uint64(data[off+j*8:])
			}
			if actual := popcountSlice64(bm); actual != n {
				return errors.Wrapf(ErrInvalidCardinality, "key %d: declared %d, actual %d", keys[i], n, actual)
			}
			c = &Container{typ: containerBitmap, n: n, bitmap: bm}
		}
		containers[i] = c
	}

	ra.keys = keys
	ra.containers = containers
	return nil
}
