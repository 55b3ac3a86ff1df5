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
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToInt(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		want uint64
	}{
		{nil, 0},
		{[]byte{0x01, 0x02}, 0x0102},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0xffffffffffffffff},
	} {
		if got := toInt(tc.in); got != tc.want {
			t.Errorf("toInt(%x) = %x, want %x", tc.in, got, tc.want)
		}
	}
}

func TestBits(t *testing.T) {
	x := []byte{0x80, 0x01}
	if got := bitBE(x, 0); got != 1 {
		t.Errorf("bitBE(x, 0) = %d, want 1", got)
	}
	if got := bitBE(x, 15); got != 1 {
		t.Errorf("bitBE(x, 15) = %d, want 1", got)
	}
	if got := bitBE(x, 8); got != 0 {
		t.Errorf("bitBE(x, 8) = %d, want 0", got)
	}
	if got := bitLE(x, 7); got != 1 {
		t.Errorf("bitLE(x, 7) = %d, want 1", got)
	}
	if got := bitLE(x, 8); got != 1 {
		t.Errorf("bitLE(x, 8) = %d, want 1", got)
	}
	if got := bitLE(x, 16); got != 0 {
		t.Errorf("bitLE(x, 16) = %d, want 0", got)
	}
}

func TestBaseW(t *testing.T) {
	if diff := cmp.Diff([]uint32{1, 2, 3, 4}, baseW([]byte{0x12, 0x34}, 4, 4)); diff != "" {
		t.Errorf("baseW() diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{0, 1, 0, 2, 0, 3, 1, 0}, baseW([]byte{0x12, 0x34}, 2, 8)); diff != "" {
		t.Errorf("baseW() diff (-want +got):\n%s", diff)
	}
	// Only the low bits are used when fewer digits are requested.
	if diff := cmp.Diff([]uint32{3, 4}, baseW([]byte{0x12, 0x34}, 4, 2)); diff != "" {
		t.Errorf("baseW() diff (-want +got):\n%s", diff)
	}
}

func TestBaseWInt(t *testing.T) {
	if diff := cmp.Diff([]uint32{2, 10, 5}, baseWInt(0x2a5, 4, 3)); diff != "" {
		t.Errorf("baseWInt() diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{0, 0, 1, 14, 0}, baseWInt(0x1e0, 4, 5)); diff != "" {
		t.Errorf("baseWInt() diff (-want +got):\n%s", diff)
	}
}

func TestForEachIndex(t *testing.T) {
	out := make([]uint32, 100)
	if err := forEachIndex(100, func(i uint32) error {
		out[i] = i * i
		return nil
	}); err != nil {
		t.Fatalf("forEachIndex() err = %v, want nil", err)
	}
	for i, v := range out {
		if v != uint32(i*i) {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}

	errBoom := errors.New("boom")
	var calls atomic.Int32
	err := forEachIndex(10, func(i uint32) error {
		calls.Add(1)
		if i == 3 {
			return errBoom
		}
		return nil
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("forEachIndex() err = %v, want %v", err, errBoom)
	}
	if calls.Load() != 10 {
		t.Errorf("calls = %d, want 10", calls.Load())
	}
}
