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
	"crypto/subtle"
	"slices"

	"golang.org/x/crypto/sha3"
)

// Tweakable hash functions built on SHAKE256. m and n are byte lengths.
//
// The public functions F, H and T_l hash pkSeed || adrs || payload. In the
// robust variant the payload is first XORed with a mask read from
// SHAKE256(pkSeed || adrs); H masks its two halves with consecutive bytes
// of that one stream. PRF and PRF_msg are keyed by secret material only.

func shakeHMsg(r []byte, pkSeed []byte, pkRoot []byte, msg []byte, m uint32) []byte {
	digest := make([]byte, m)
	sha3.ShakeSum256(digest, slices.Concat(r, pkSeed, pkRoot, msg))
	return digest
}

func shakePrf(skSeed []byte, adrs *address, n uint32) []byte {
	digest := make([]byte, n)
	sha3.ShakeSum256(digest, slices.Concat(skSeed, adrs[:]))
	return digest
}

func shakePrfMsg(skPrf []byte, optRand []byte, msg []byte, n uint32) []byte {
	digest := make([]byte, n)
	sha3.ShakeSum256(digest, slices.Concat(skPrf, optRand, msg))
	return digest
}

func shakeSimple(pkSeed []byte, adrs *address, msg []byte, n uint32) []byte {
	digest := make([]byte, n)
	sha3.ShakeSum256(digest, slices.Concat(pkSeed, adrs[:], msg))
	return digest
}

// shakeMask XORs msg with len(msg) bytes of SHAKE256(pkSeed || adrs).
func shakeMask(pkSeed []byte, adrs *address, msg []byte) []byte {
	mask := make([]byte, len(msg))
	sha3.ShakeSum256(mask, slices.Concat(pkSeed, adrs[:]))
	subtle.XORBytes(mask, mask, msg)
	return mask
}

func shakeRobust(pkSeed []byte, adrs *address, msg []byte, n uint32) []byte {
	return shakeSimple(pkSeed, adrs, shakeMask(pkSeed, adrs, msg), n)
}

type hashSuite struct {
	pHMsg   func(r []byte, pkSeed []byte, pkRoot []byte, msg []byte, m uint32) []byte
	pPrf    func(skSeed []byte, adrs *address, n uint32) []byte
	pPrfMsg func(skPrf []byte, optRand []byte, msg []byte, n uint32) []byte
	pF      func(pkSeed []byte, adrs *address, msg1 []byte, n uint32) []byte
	pH      func(pkSeed []byte, adrs *address, msg2 []byte, n uint32) []byte
	pTl     func(pkSeed []byte, adrs *address, msgl []byte, n uint32) []byte
}

var (
	hashSuiteShakeSimple = hashSuite{
		pHMsg:   shakeHMsg,
		pPrf:    shakePrf,
		pPrfMsg: shakePrfMsg,
		pF:      shakeSimple,
		pH:      shakeSimple,
		pTl:     shakeSimple,
	}

	hashSuiteShakeRobust = hashSuite{
		pHMsg:   shakeHMsg,
		pPrf:    shakePrf,
		pPrfMsg: shakePrfMsg,
		pF:      shakeRobust,
		pH:      shakeRobust,
		pTl:     shakeRobust,
	}
)

func (p *Params) hHMsg(r []byte, pkSeed []byte, pkRoot []byte, msg []byte) []byte {
	return p.hash.pHMsg(r, pkSeed, pkRoot, msg, p.m)
}

func (p *Params) hPrf(skSeed []byte, adrs *address) []byte {
	return p.hash.pPrf(skSeed, adrs, p.n)
}

func (p *Params) hPrfMsg(skPrf []byte, optRand []byte, msg []byte) []byte {
	return p.hash.pPrfMsg(skPrf, optRand, msg, p.n)
}

func (p *Params) hF(pkSeed []byte, adrs *address, msg1 []byte) []byte {
	return p.hash.pF(pkSeed, adrs, msg1, p.n)
}

func (p *Params) hH(pkSeed []byte, adrs *address, left, right []byte) []byte {
	return p.hash.pH(pkSeed, adrs, slices.Concat(left, right), p.n)
}

func (p *Params) hTl(pkSeed []byte, adrs *address, msgs [][]byte) []byte {
	return p.hash.pTl(pkSeed, adrs, slices.Concat(msgs...), p.n)
}

// chain applies F steps times to x, starting at chain position start. Only
// the hash address word of adrs changes between steps.
func (p *Params) chain(x []byte, start, steps uint32, pkSeed []byte, adrs address) []byte {
	tmp := x
	for j := start; j < start+steps; j++ {
		adrs.setHashAddress(j)
		tmp = p.hF(pkSeed, &adrs, tmp)
	}
	return tmp
}
