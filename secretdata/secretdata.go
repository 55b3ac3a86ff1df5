// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package secretdata provides an access-controlled wrapper for secret seeds.
//
// Private keys hold their seeds (skSeed, skPrf) in a [Bytes] value, so that
// reading them back requires an [insecuresecretdataaccess.Token].
package secretdata

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/spxfault/spx/insecuresecretdataaccess"
)

// Bytes is an immutable byte string that requires a token to read.
//
// The zero value is an empty Bytes.
type Bytes struct {
	data []byte
}

// NewBytesFromReader returns size bytes read from r. A short read is an
// error.
func NewBytesFromReader(r io.Reader, size uint32) (Bytes, error) {
	b := Bytes{data: make([]byte, size)}
	if _, err := io.ReadFull(r, b.data); err != nil {
		return Bytes{}, fmt.Errorf("secretdata.NewBytesFromReader: %w", err)
	}
	return b, nil
}

// NewBytesFromData creates a new Bytes holding a copy of data.
func NewBytesFromData(data []byte, token insecuresecretdataaccess.Token) Bytes {
	return Bytes{data: bytes.Clone(data)}
}

// Concat returns the concatenation of parts.
func Concat(parts ...Bytes) Bytes {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p.data...)
	}
	return Bytes{data: buf}
}

// Data returns a copy of the wrapped bytes.
func (b Bytes) Data(token insecuresecretdataaccess.Token) []byte { return bytes.Clone(b.data) }

// Len returns the size of the wrapped bytes.
func (b Bytes) Len() int { return len(b.data) }

// Equal reports whether b and other hold the same bytes. The comparison is
// constant time for inputs of equal length.
func (b Bytes) Equal(other Bytes) bool {
	return subtle.ConstantTimeCompare(b.data, other.data) == 1
}
