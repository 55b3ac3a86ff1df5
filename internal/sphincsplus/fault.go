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
	"fmt"
	"io"
)

// FaultTarget selects which XMSS leaf a simulated fault overwrites while the
// tree is being rebuilt for the authentication path.
type FaultTarget int

const (
	// UnknownFaultTarget is the default value of FaultTarget.
	UnknownFaultTarget FaultTarget = iota
	// FaultSibling overwrites the sibling of the signing leaf. The resulting
	// signature still verifies when the fault is below the top layer, since
	// the faulty root is signed by the layer above.
	FaultSibling
	// FaultSigningLeaf overwrites the signing leaf itself. The layer above
	// then signs a root the verifier cannot reproduce; on the top layer the
	// fault is not visible in the signature at all.
	FaultSigningLeaf
)

func (t FaultTarget) String() string {
	switch t {
	case FaultSibling:
		return "SIBLING"
	case FaultSigningLeaf:
		return "SIGNING_LEAF"
	default:
		return "UNKNOWN"
	}
}

// FaultTargetFromVerifying maps the "verifying" flag of a fault campaign to
// a target: a fault that a verifier still accepts hits the sibling leaf.
func FaultTargetFromVerifying(verifying bool) FaultTarget {
	if verifying {
		return FaultSibling
	}
	return FaultSigningLeaf
}

func (t FaultTarget) leaf(leafIdx uint32) (uint32, error) {
	switch t {
	case FaultSibling:
		return leafIdx ^ 1, nil
	case FaultSigningLeaf:
		return leafIdx, nil
	default:
		return 0, fmt.Errorf("invalid fault target: %v", t)
	}
}

// xmssFaultSign is xmssSign with one leaf replaced by n bytes read from
// faultRand before the tree is hashed. The WOTS+ signature is left intact;
// the authentication path and the returned root come from the corrupted
// tree.
func (p *Params) xmssFaultSign(msg []byte, leafIdx uint32, target FaultTarget, faultRand io.Reader, skSeed []byte, pkSeed []byte, adrs address) (XMSSSignature, []byte, error) {
	faulty, err := target.leaf(leafIdx)
	if err != nil {
		return XMSSSignature{}, nil, err
	}
	leaves, wotsSig := p.xmssLeaves(msg, &leafIdx, skSeed, pkSeed, adrs)
	garbage := make([]byte, p.n)
	if _, err := io.ReadFull(faultRand, garbage); err != nil {
		return XMSSSignature{}, nil, fmt.Errorf("reading fault value: %w", err)
	}
	leaves[faulty] = garbage
	return p.xmssAuthenticate(leaves, wotsSig, leafIdx, pkSeed, adrs)
}
