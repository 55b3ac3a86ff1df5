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

// wotsSecret derives the secret start of chain i.
func (p *Params) wotsSecret(skSeed []byte, chainAdrs address, i uint32) []byte {
	chainAdrs.setChainAddress(i)
	chainAdrs.setHashAddress(0)
	return p.hPrf(skSeed, &chainAdrs)
}

// wotsCompress hashes the len chain ends into the WOTS+ public key.
func (p *Params) wotsCompress(ends [][]byte, pkSeed []byte, adrs address) []byte {
	adrs.setType(addressWOTSPk)
	return p.hTl(pkSeed, &adrs, ends)
}

// wotsPkGen computes the WOTS+ public key of the key pair at adrs.
func (p *Params) wotsPkGen(skSeed []byte, pkSeed []byte, adrs address) []byte {
	chainAdrs := adrs
	chainAdrs.setType(addressWOTSChain)
	ends := make([][]byte, p.len)
	for i := range p.len {
		sk := p.wotsSecret(skSeed, chainAdrs, i)
		chainAdrs.setChainAddress(i)
		ends[i] = p.chain(sk, 0, p.w-1, pkSeed, chainAdrs)
	}
	return p.wotsCompress(ends, pkSeed, adrs)
}

// wotsDigits converts an n-byte message to len1 base-w digits followed by
// len2 checksum digits, both most significant digit first.
func (p *Params) wotsDigits(msg []byte) []uint32 {
	msgw := baseW(msg, p.lgw, p.len1)
	csum := uint32(0)
	for _, d := range msgw {
		csum += p.w - 1 - d
	}
	return append(msgw, baseWInt(csum, p.lgw, p.len2)...)
}

func (p *Params) wotsSign(msg []byte, skSeed []byte, pkSeed []byte, adrs address) [][]byte {
	return p.wotsSignDigits(p.wotsDigits(msg), skSeed, pkSeed, adrs)
}

func (p *Params) wotsSignDigits(digits []uint32, skSeed []byte, pkSeed []byte, adrs address) [][]byte {
	chainAdrs := adrs
	chainAdrs.setType(addressWOTSChain)
	sig := make([][]byte, p.len)
	for i := range p.len {
		sk := p.wotsSecret(skSeed, chainAdrs, i)
		chainAdrs.setChainAddress(i)
		sig[i] = p.chain(sk, 0, digits[i], pkSeed, chainAdrs)
	}
	return sig
}

// wotsPkFromSig finishes every chain of sig and returns the public key the
// signature commits to.
func (p *Params) wotsPkFromSig(sig [][]byte, msg []byte, pkSeed []byte, adrs address) []byte {
	return p.wotsPkFromDigits(sig, p.wotsDigits(msg), pkSeed, adrs)
}

func (p *Params) wotsPkFromDigits(sig [][]byte, digits []uint32, pkSeed []byte, adrs address) []byte {
	if len(sig) != int(p.len) || len(digits) != int(p.len) {
		panic("unreachable")
	}
	chainAdrs := adrs
	chainAdrs.setType(addressWOTSChain)
	ends := make([][]byte, p.len)
	for i := range p.len {
		chainAdrs.setChainAddress(i)
		ends[i] = p.chain(sig[i], digits[i], p.w-1-digits[i], pkSeed, chainAdrs)
	}
	return p.wotsCompress(ends, pkSeed, adrs)
}

func (p *Params) wotsVerify(msg []byte, sig [][]byte, pk []byte, pkSeed []byte, adrs address) bool {
	return subtle.ConstantTimeCompare(p.wotsPkFromSig(sig, msg, pkSeed, adrs), pk) == 1
}
