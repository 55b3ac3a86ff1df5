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
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
)

func TestFaultTarget(t *testing.T) {
	if got := FaultTargetFromVerifying(true); got != FaultSibling {
		t.Errorf("FaultTargetFromVerifying(true) = %v, want %v", got, FaultSibling)
	}
	if got := FaultTargetFromVerifying(false); got != FaultSigningLeaf {
		t.Errorf("FaultTargetFromVerifying(false) = %v, want %v", got, FaultSigningLeaf)
	}
	for _, tc := range []struct {
		target  FaultTarget
		leafIdx uint32
		want    uint32
		name    string
	}{
		{FaultSibling, 2, 3, "SIBLING"},
		{FaultSibling, 3, 2, "SIBLING"},
		{FaultSigningLeaf, 2, 2, "SIGNING_LEAF"},
	} {
		got, err := tc.target.leaf(tc.leafIdx)
		if err != nil {
			t.Fatalf("%v.leaf(%d) err = %v, want nil", tc.target, tc.leafIdx, err)
		}
		if got != tc.want {
			t.Errorf("%v.leaf(%d) = %d, want %d", tc.target, tc.leafIdx, got, tc.want)
		}
		if tc.target.String() != tc.name {
			t.Errorf("String() = %q, want %q", tc.target.String(), tc.name)
		}
	}
	if _, err := UnknownFaultTarget.leaf(0); err == nil {
		t.Errorf("UnknownFaultTarget.leaf() err = nil, want error")
	}
}

func TestFaultSignVerification(t *testing.T) {
	for _, robust := range []bool{false, true} {
		p := mustTestParams(t, robust)
		sk, pk := mustTestKey(t, p)
		msg := []byte("fault")
		top := uint32(p.D() - 1)
		for _, tc := range []struct {
			layer  uint32
			target FaultTarget
			want   bool
		}{
			// A faulty sibling below the top layer changes the root that
			// the next layer signs, so the chain stays consistent.
			{0, FaultSibling, true},
			{1, FaultSibling, true},
			{top, FaultSibling, false},
			{0, FaultSigningLeaf, false},
			{1, FaultSigningLeaf, false},
			// On the top layer the signing leaf is not part of the
			// signature, so the fault is not observable.
			{top, FaultSigningLeaf, true},
		} {
			t.Run(fmt.Sprintf("robust=%v/layer=%d/%v", robust, tc.layer, tc.target), func(t *testing.T) {
				sig, err := sk.FaultSign(msg, tc.layer, tc.target, rand.Reader, rand.Reader)
				if err != nil {
					t.Fatalf("FaultSign() err = %v, want nil", err)
				}
				if got := len(sig.Bytes()); got != p.SignatureLength() {
					t.Errorf("len(sig.Bytes()) = %d, want %d", got, p.SignatureLength())
				}
				if got := pk.Verify(msg, sig); got != tc.want {
					t.Errorf("Verify() = %v, want %v", got, tc.want)
				}
			})
		}
	}
}

func TestFaultSignChangesOneRoot(t *testing.T) {
	p := mustTestParams(t, false)
	sk, pk := mustTestKey(t, p)
	msg := []byte("one root")
	honest, err := sk.SignDeterministic(msg)
	if err != nil {
		t.Fatalf("SignDeterministic() err = %v, want nil", err)
	}
	want, err := pk.ExtractKeys(msg, honest)
	if err != nil {
		t.Fatalf("ExtractKeys() err = %v, want nil", err)
	}
	for layer := range p.D() - 1 {
		faulty, err := sk.FaultSign(msg, uint32(layer), FaultSibling, nil, rand.Reader)
		if err != nil {
			t.Fatalf("FaultSign() err = %v, want nil", err)
		}
		if !bytes.Equal(faulty.R, honest.R) {
			t.Fatalf("faulty.R = %x, want %x", faulty.R, honest.R)
		}
		got, err := pk.ExtractKeys(msg, faulty)
		if err != nil {
			t.Fatalf("ExtractKeys() err = %v, want nil", err)
		}
		for i := range got {
			changed := !bytes.Equal(got[i], want[i])
			if changed != (i == layer+1) {
				t.Errorf("layer %d: root %d changed = %v, want %v", layer, i, changed, i == layer+1)
			}
		}
	}
}

func TestFaultSignErrors(t *testing.T) {
	p := mustTestParams(t, false)
	sk, _ := mustTestKey(t, p)
	msg := []byte("errors")
	if _, err := sk.FaultSign(msg, uint32(p.D()), FaultSibling, nil, rand.Reader); !errors.Is(err, errFaultLayer) {
		t.Errorf("FaultSign() with layer d err = %v, want %v", err, errFaultLayer)
	}
	if _, err := sk.FaultSign(msg, 0, UnknownFaultTarget, nil, rand.Reader); err == nil {
		t.Errorf("FaultSign() with unknown target err = nil, want error")
	}
	if _, err := sk.FaultSign(msg, 0, FaultSibling, nil, nil); err == nil {
		t.Errorf("FaultSign() with nil fault source err = nil, want error")
	}
	if _, err := sk.FaultSign(msg, 0, FaultSibling, nil, bytes.NewReader(make([]byte, p.N()-1))); err == nil {
		t.Errorf("FaultSign() with short fault source err = nil, want error")
	}
	if _, err := sk.FaultSign(msg, 0, FaultSibling, bytes.NewReader(nil), rand.Reader); err == nil {
		t.Errorf("FaultSign() with empty randomizer source err = nil, want error")
	}
}

func TestFaultSignTopSigningLeafIsInvisible(t *testing.T) {
	p := mustTestParams(t, true)
	sk, _ := mustTestKey(t, p)
	msg := []byte("top")
	honest, err := sk.SignDeterministic(msg)
	if err != nil {
		t.Fatalf("SignDeterministic() err = %v, want nil", err)
	}
	faulty, err := sk.FaultSign(msg, uint32(p.D()-1), FaultSigningLeaf, nil, rand.Reader)
	if err != nil {
		t.Fatalf("FaultSign() err = %v, want nil", err)
	}
	if !faulty.Equal(honest) {
		t.Errorf("FaultSign() on the top signing leaf = %x, want %x", faulty.Bytes(), honest.Bytes())
	}
}
