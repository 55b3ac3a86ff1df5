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

import "crypto/subtle"

func (p *Params) xmssTreeAddress(adrs address) address {
	adrs.setType(addressXMSS)
	adrs.setKeyPairAddress(0)
	return adrs
}

// xmssLeaves computes the 2^hp WOTS+ public keys of the tree at adrs. If
// signIdx is not nil, leaf *signIdx is obtained by signing msg and
// re-extracting the public key from that signature, which is returned.
func (p *Params) xmssLeaves(msg []byte, signIdx *uint32, skSeed []byte, pkSeed []byte, adrs address) ([][]byte, [][]byte) {
	leaves := make([][]byte, 1<<p.hp)
	var wotsSig [][]byte
	// The tasks never fail.
	_ = forEachIndex(1<<p.hp, func(i uint32) error {
		leafAdrs := adrs
		leafAdrs.setKeyPairAddress(i)
		if signIdx != nil && i == *signIdx {
			wotsSig = p.wotsSign(msg, skSeed, pkSeed, leafAdrs)
			leaves[i] = p.wotsPkFromSig(wotsSig, msg, pkSeed, leafAdrs)
			return nil
		}
		leaves[i] = p.wotsPkGen(skSeed, pkSeed, leafAdrs)
		return nil
	})
	return leaves, wotsSig
}

// xmssKeyGen returns the root of the XMSS tree at adrs.
func (p *Params) xmssKeyGen(skSeed []byte, pkSeed []byte, adrs address) ([]byte, error) {
	leaves, _ := p.xmssLeaves(nil, nil, skSeed, pkSeed, adrs)
	root, _, err := p.treehash(leaves, 0, pkSeed, p.xmssTreeAddress(adrs), 0)
	return root, err
}

// xmssSign signs the n-byte msg with the WOTS+ key pair leafIdx. It also
// returns the tree root, so that the caller can sign it on the next layer
// without recomputing the tree.
func (p *Params) xmssSign(msg []byte, leafIdx uint32, skSeed []byte, pkSeed []byte, adrs address) (XMSSSignature, []byte, error) {
	leaves, wotsSig := p.xmssLeaves(msg, &leafIdx, skSeed, pkSeed, adrs)
	return p.xmssAuthenticate(leaves, wotsSig, leafIdx, pkSeed, adrs)
}

func (p *Params) xmssAuthenticate(leaves [][]byte, wotsSig [][]byte, leafIdx uint32, pkSeed []byte, adrs address) (XMSSSignature, []byte, error) {
	root, authPath, err := p.treehash(leaves, leafIdx, pkSeed, p.xmssTreeAddress(adrs), 0)
	if err != nil {
		return XMSSSignature{}, nil, err
	}
	return XMSSSignature{WOTS: wotsSig, AuthPath: authPath}, root, nil
}

// xmssPkFromSig returns the root that sig authenticates for msg.
func (p *Params) xmssPkFromSig(msg []byte, leafIdx uint32, sig XMSSSignature, pkSeed []byte, adrs address) []byte {
	if len(sig.AuthPath) != int(p.hp) {
		panic("unreachable")
	}
	leafAdrs := adrs
	leafAdrs.setKeyPairAddress(leafIdx)
	leaf := p.wotsPkFromSig(sig.WOTS, msg, pkSeed, leafAdrs)
	return p.recompRoot(leaf, sig.AuthPath, leafIdx, pkSeed, p.xmssTreeAddress(adrs), 0)
}

func (p *Params) xmssVerify(msg []byte, leafIdx uint32, sig XMSSSignature, root []byte, pkSeed []byte, adrs address) bool {
	return subtle.ConstantTimeCompare(p.xmssPkFromSig(msg, leafIdx, sig, pkSeed, adrs), root) == 1
}
