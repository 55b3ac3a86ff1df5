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
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestForsIndicesLittleEndian(t *testing.T) {
	p := mustTestParams(t, false)
	// 0x654321 split into 4-bit groups from the least significant bit.
	md := []byte{0x21, 0x43, 0x65}
	if diff := cmp.Diff([]uint32{1, 2, 3, 4, 5}, p.forsIndices(md)); diff != "" {
		t.Errorf("forsIndices() diff (-want +got):\n%s", diff)
	}
}

func TestForsSignVerify(t *testing.T) {
	for _, robust := range []bool{false, true} {
		p := mustTestParams(t, robust)
		skSeed := bytes.Repeat([]byte{0x31}, p.N())
		pkSeed := bytes.Repeat([]byte{0x32}, p.N())
		var adrs address
		adrs.setTreeAddress(5)
		adrs.setKeyPairAddress(1)

		pk, err := p.forsKeyGen(skSeed, pkSeed, adrs)
		if err != nil {
			t.Fatalf("forsKeyGen() err = %v, want nil", err)
		}
		md := []byte{0xde, 0xad, 0xbe}
		sig, err := p.forsSign(md, skSeed, pkSeed, adrs)
		if err != nil {
			t.Fatalf("forsSign() err = %v, want nil", err)
		}
		if len(sig) != p.K() {
			t.Fatalf("len(sig) = %d, want %d", len(sig), p.K())
		}
		for i, s := range sig {
			if len(s.AuthPath) != p.A() {
				t.Errorf("len(sig[%d].AuthPath) = %d, want %d", i, len(s.AuthPath), p.A())
			}
		}
		if !p.forsVerify(md, sig, pk, pkSeed, adrs) {
			t.Errorf("robust=%v: forsVerify() = false, want true", robust)
		}
		if p.forsVerify([]byte{0xde, 0xad, 0xbf}, sig, pk, pkSeed, adrs) {
			t.Errorf("robust=%v: forsVerify(other md) = true, want false", robust)
		}

		tampered := slices.Clone(sig)
		tampered[2].Secret = bytes.Repeat([]byte{0xff}, p.N())
		if p.forsVerify(md, tampered, pk, pkSeed, adrs) {
			t.Errorf("robust=%v: forsVerify(tampered) = true, want false", robust)
		}
	}
}

func TestForsRevealsIndexedSecret(t *testing.T) {
	p := mustTestParams(t, false)
	skSeed := bytes.Repeat([]byte{0x33}, p.N())
	pkSeed := bytes.Repeat([]byte{0x34}, p.N())
	var adrs address
	md := []byte{0x21, 0x43, 0x65}
	sig, err := p.forsSign(md, skSeed, pkSeed, adrs)
	if err != nil {
		t.Fatalf("forsSign() err = %v, want nil", err)
	}
	for i, idx := range p.forsIndices(md) {
		secrets, _ := p.forsTree(skSeed, pkSeed, adrs, uint32(i))
		if !bytes.Equal(sig[i].Secret, secrets[idx]) {
			t.Errorf("sig[%d].Secret = %x, want secret %d %x", i, sig[i].Secret, idx, secrets[idx])
		}
	}
}
