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

import "github.com/pkg/errors"

// Sentinel errors returned by UnmarshalBinary/ReadFrom on a malformed
// stream. Use errors.Is to test for a specific cause.
var (
	// ErrInvalidCookie is returned when the stream's leading magic number
	// does not match the format this package writes.
	ErrInvalidCookie = errors.New("roaring: invalid cookie")

	// ErrTruncatedData is returned when the stream ends before the header
	// or a container payload it describes has been fully read.
	ErrTruncatedData = errors.New("roaring: truncated data")

	// ErrInvalidCardinality is returned when a bitmap container's payload
	// does not hold the number of values its descriptor declares.
	ErrInvalidCardinality = errors.New("roaring: invalid container cardinality")

	// ErrKeysNotSorted is returned when a stream's keys are not strictly
	// increasing.
	ErrKeysNotSorted = errors.New("roaring: keys are not strictly increasing")
)
