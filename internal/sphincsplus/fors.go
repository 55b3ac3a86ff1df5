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

// forsIndices splits md, read as a little-endian integer, into k indices of
// a bits each. Index i is made of bits [i*a, (i+1)*a).
func (p *Params) forsIndices(md []byte) []uint32 {
	indices := make([]uint32, p.k)
	for i := range p.k {
		for b := range p.a {
			indices[i] |= bitLE(md, i*p.a+b) << b
		}
	}
	return indices
}

// forsTree derives the t secret values of tree i and their leaves. Tree i
// owns the absolute leaf indices [i*t, (i+1)*t).
func (p *Params) forsTree(skSeed []byte, pkSeed []byte, adrs address, i uint32) (secrets, leaves [][]byte) {
	treeAdrs := adrs
	treeAdrs.setType(addressFORSTree)
	treeAdrs.setTreeHeight(0)
	secrets = make([][]byte, p.t)
	leaves = make([][]byte, p.t)
	for j := range p.t {
		treeAdrs.setTreeIndex(i*p.t + j)
		secrets[j] = p.hPrf(skSeed, &treeAdrs)
		leaves[j] = p.hF(pkSeed, &treeAdrs, secrets[j])
	}
	return secrets, leaves
}

func (p *Params) forsTreeAddress(adrs address) address {
	adrs.setType(addressFORSTree)
	return adrs
}

// forsBuild constructs all k trees. For tree i it returns the root and, when
// indices is not nil, the revealed secret and authentication path of leaf
// indices[i].
func (p *Params) forsBuild(skSeed []byte, pkSeed []byte, adrs address, indices []uint32) ([]ForsTreeSignature, [][]byte, error) {
	sigs := make([]ForsTreeSignature, p.k)
	roots := make([][]byte, p.k)
	err := forEachIndex(p.k, func(i uint32) error {
		secrets, leaves := p.forsTree(skSeed, pkSeed, adrs, i)
		idx := uint32(0)
		if indices != nil {
			idx = indices[i]
		}
		root, authPath, err := p.treehash(leaves, idx, pkSeed, p.forsTreeAddress(adrs), i*p.t>>1)
		if err != nil {
			return err
		}
		roots[i] = root
		sigs[i] = ForsTreeSignature{Secret: secrets[idx], AuthPath: authPath}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sigs, roots, nil
}

func (p *Params) forsCompress(roots [][]byte, pkSeed []byte, adrs address) []byte {
	adrs.setType(addressFORSPk)
	return p.hTl(pkSeed, &adrs, roots)
}

// forsKeyGen returns the FORS public key of the key pair at adrs.
func (p *Params) forsKeyGen(skSeed []byte, pkSeed []byte, adrs address) ([]byte, error) {
	_, roots, err := p.forsBuild(skSeed, pkSeed, adrs, nil)
	if err != nil {
		return nil, err
	}
	return p.forsCompress(roots, pkSeed, adrs), nil
}

func (p *Params) forsSign(md []byte, skSeed []byte, pkSeed []byte, adrs address) ([]ForsTreeSignature, error) {
	sigs, _, err := p.forsBuild(skSeed, pkSeed, adrs, p.forsIndices(md))
	return sigs, err
}

// forsPkFromSig recomputes the k roots from the revealed leaves and returns
// the FORS public key they hash to.
func (p *Params) forsPkFromSig(sig []ForsTreeSignature, md []byte, pkSeed []byte, adrs address) []byte {
	if len(sig) != int(p.k) {
		panic("unreachable")
	}
	indices := p.forsIndices(md)
	treeAdrs := p.forsTreeAddress(adrs)
	roots := make([][]byte, p.k)
	for i := range p.k {
		treeAdrs.setTreeHeight(0)
		treeAdrs.setTreeIndex(i*p.t + indices[i])
		leaf := p.hF(pkSeed, &treeAdrs, sig[i].Secret)
		roots[i] = p.recompRoot(leaf, sig[i].AuthPath, indices[i], pkSeed, treeAdrs, i*p.t>>1)
	}
	return p.forsCompress(roots, pkSeed, adrs)
}

func (p *Params) forsVerify(md []byte, sig []ForsTreeSignature, pk []byte, pkSeed []byte, adrs address) bool {
	return subtle.ConstantTimeCompare(p.forsPkFromSig(sig, md, pkSeed, adrs), pk) == 1
}
