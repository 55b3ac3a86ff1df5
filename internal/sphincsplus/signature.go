// Copyright 2025 Google LLC
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

package sphincsplus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errSignatureLength = errors.New("invalid signature length")

// ForsTreeSignature is the part of a FORS signature for one tree: the
// revealed secret leaf value and its a-element authentication path.
type ForsTreeSignature struct {
	Secret   []byte
	AuthPath [][]byte
}

// XMSSSignature is one hypertree layer: a WOTS+ signature of len elements
// and an hp-element authentication path.
type XMSSSignature struct {
	WOTS     [][]byte
	AuthPath [][]byte
}

// Signature is a parsed SPHINCS+ signature. Its encoding is
//
//	R || k * (secret || a path elements) || d * (len WOTS+ elements || hp path elements)
//
// with every element n bytes long.
type Signature struct {
	R         []byte
	Fors      []ForsTreeSignature
	Hypertree []XMSSSignature
}

// SignatureLength returns (1 + k(a+1) + h + d*len) * n.
func (p *Params) SignatureLength() int {
	return int((1 + p.k*(p.a+1) + p.h + p.d*p.len) * p.n)
}

// Bytes encodes the signature.
func (s *Signature) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(s.R)
	for _, t := range s.Fors {
		buf.Write(t.Secret)
		for _, e := range t.AuthPath {
			buf.Write(e)
		}
	}
	for _, l := range s.Hypertree {
		for _, e := range l.WOTS {
			buf.Write(e)
		}
		for _, e := range l.AuthPath {
			buf.Write(e)
		}
	}
	return buf.Bytes()
}

// ParseSignature decodes a signature. The input must have exactly
// SignatureLength bytes.
func (p *Params) ParseSignature(b []byte) (*Signature, error) {
	if len(b) != p.SignatureLength() {
		return nil, fmt.Errorf("sphincsplus.ParseSignature: %w: got %d bytes, want %d", errSignatureLength, len(b), p.SignatureLength())
	}
	next := func() []byte {
		e := bytes.Clone(b[:p.n])
		b = b[p.n:]
		return e
	}
	elements := func(count uint32) [][]byte {
		out := make([][]byte, count)
		for i := range out {
			out[i] = next()
		}
		return out
	}
	sig := &Signature{
		R:         next(),
		Fors:      make([]ForsTreeSignature, p.k),
		Hypertree: make([]XMSSSignature, p.d),
	}
	for i := range sig.Fors {
		sig.Fors[i].Secret = next()
		sig.Fors[i].AuthPath = elements(p.a)
	}
	for i := range sig.Hypertree {
		sig.Hypertree[i].WOTS = elements(p.len)
		sig.Hypertree[i].AuthPath = elements(p.hp)
	}
	return sig, nil
}

// Equal reports whether both signatures have the same elements.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.Bytes(), other.Bytes()) &&
		len(s.Fors) == len(other.Fors) &&
		len(s.Hypertree) == len(other.Hypertree)
}

// Format writes a labelled hex dump of the signature, one element per line.
func (s *Signature) Format(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "R: %x\n", s.R)
	for i, t := range s.Fors {
		fmt.Fprintf(&buf, "\nFORS %2d: %x\n", i, t.Secret)
		for j, e := range t.AuthPath {
			fmt.Fprintf(&buf, "path %2d: %x\n", j, e)
		}
	}
	for _, l := range s.Hypertree {
		buf.WriteString(strings.Repeat("=", 72) + "\n")
		for j, e := range l.WOTS {
			fmt.Fprintf(&buf, "WOTS+%2d: %x\n", j, e)
		}
		for j, e := range l.AuthPath {
			fmt.Fprintf(&buf, "path %2d: %x\n", j, e)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
