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

// Package sphincsplus implements the SPHINCS+ stateless hash-based signature
// scheme instantiated with SHAKE256, in its simple and robust variants,
// together with a fault-injection signing variant that corrupts one XMSS
// leaf of a chosen hypertree layer.
//
// The implementation is not hardened against side channels.
package sphincsplus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"slices"
)

var (
	errUnknownInstance = errors.New("unknown parameter instance")
	errSeedLength      = errors.New("invalid seed length")
	errFaultLayer      = errors.New("fault layer out of range")
	errMalformed       = errors.New("malformed signature")
)

// Params is one SPHINCS+ instance together with its hashing variant.
type Params struct {
	name   string
	robust bool

	// Instance parameters. Note that h = d * hp.
	n   uint32
	h   uint32
	d   uint32
	hp  uint32
	a   uint32
	k   uint32
	lgw uint32
	m   uint32

	// Derived parameters.
	t    uint32
	w    uint32
	len1 uint32
	len2 uint32
	len  uint32

	hash hashSuite
}

type paramsOpts struct {
	n   uint32
	h   uint32
	d   uint32
	a   uint32
	k   uint32
	lgw uint32
}

func newParams(name string, par paramsOpts, robust bool) (*Params, error) {
	if par.n == 0 || par.d == 0 || par.h%par.d != 0 {
		return nil, fmt.Errorf("invalid parameters %+v: d must divide h", par)
	}
	hp := par.h / par.d
	if hp == 0 || hp > 31 || par.h-hp > 64 {
		return nil, fmt.Errorf("invalid parameters %+v: unsupported tree heights", par)
	}
	if par.a == 0 || par.a > 24 || par.k == 0 || par.lgw == 0 || par.lgw > 8 {
		return nil, fmt.Errorf("invalid parameters %+v", par)
	}
	w := uint32(1) << par.lgw
	len1 := (8*par.n + par.lgw - 1) / par.lgw
	log2 := func(x uint32) uint32 { return uint32(bits.Len32(x) - 1) }
	len2 := log2(len1*(w-1))/par.lgw + 1
	hash := hashSuiteShakeSimple
	if robust {
		hash = hashSuiteShakeRobust
	}
	return &Params{
		name:   name,
		robust: robust,
		n:      par.n,
		h:      par.h,
		d:      par.d,
		hp:     hp,
		a:      par.a,
		k:      par.k,
		lgw:    par.lgw,
		m:      (par.k*par.a+7)/8 + (par.h-hp+7)/8 + (hp+7)/8,
		t:      uint32(1) << par.a,
		w:      w,
		len1:   len1,
		len2:   len2,
		len:    len1 + len2,
		hash:   hash,
	}, nil
}

func mustNewParams(name string, par paramsOpts, robust bool) *Params {
	p, err := newParams(name, par, robust)
	if err != nil {
		panic(err)
	}
	return p
}

// Standard instances.
var (
	param128s = paramsOpts{n: 16, h: 64, d: 8, a: 15, k: 10, lgw: 4}
	param128f = paramsOpts{n: 16, h: 60, d: 20, a: 9, k: 30, lgw: 4}
	param192s = paramsOpts{n: 24, h: 64, d: 8, a: 16, k: 14, lgw: 4}
	param192f = paramsOpts{n: 24, h: 66, d: 22, a: 8, k: 33, lgw: 4}
	param256s = paramsOpts{n: 32, h: 64, d: 8, a: 14, k: 22, lgw: 4}
	param256f = paramsOpts{n: 32, h: 68, d: 17, a: 10, k: 30, lgw: 4}

	instanceNames = []string{"128s", "128f", "192s", "192f", "256s", "256f"}

	instances = map[string]paramsOpts{
		"128s": param128s,
		"128f": param128f,
		"192s": param192s,
		"192f": param192f,
		"256s": param256s,
		"256f": param256f,
	}

	simpleParams = buildTable(false)
	robustParams = buildTable(true)
)

func buildTable(robust bool) map[string]*Params {
	table := make(map[string]*Params, len(instances))
	for name, par := range instances {
		table[name] = mustNewParams(name, par, robust)
	}
	return table
}

// Instances returns the names of the standard instances.
func Instances() []string { return slices.Clone(instanceNames) }

// Lookup returns the parameters of a standard instance. The returned value
// is shared and must be treated as immutable.
func Lookup(instance string, robust bool) (*Params, error) {
	table := simpleParams
	if robust {
		table = robustParams
	}
	p, ok := table[instance]
	if !ok {
		return nil, fmt.Errorf("sphincsplus.Lookup: %w: %q", errUnknownInstance, instance)
	}
	return p, nil
}

// Name returns the instance name, e.g. "128s".
func (p *Params) Name() string { return p.name }

// Robust reports whether the robust tweakable hash functions are used.
func (p *Params) Robust() bool { return p.robust }

// N returns the hash output length in bytes.
func (p *Params) N() int { return int(p.n) }

// H returns the total hypertree height.
func (p *Params) H() int { return int(p.h) }

// D returns the number of hypertree layers.
func (p *Params) D() int { return int(p.d) }

// HPrime returns the height of one XMSS layer.
func (p *Params) HPrime() int { return int(p.hp) }

// A returns the height of a FORS tree.
func (p *Params) A() int { return int(p.a) }

// K returns the number of FORS trees.
func (p *Params) K() int { return int(p.k) }

// LogW returns log2 of the Winternitz parameter.
func (p *Params) LogW() int { return int(p.lgw) }

// WOTSLen returns the number of WOTS+ chains.
func (p *Params) WOTSLen() int { return int(p.len) }

// DigestLength returns the length in bytes of the H_msg output.
func (p *Params) DigestLength() int { return int(p.m) }

func (p *Params) String() string {
	variant := "simple"
	if p.robust {
		variant = "robust"
	}
	return fmt.Sprintf("SPHINCS+-SHAKE256-%s-%s", p.name, variant)
}

// PublicKey is a SPHINCS+ public key.
type PublicKey struct {
	pkSeed []byte
	pkRoot []byte
	p      *Params
}

// SecretKey is the immutable signing context: both secret seeds and the
// public key they belong to.
type SecretKey struct {
	skSeed []byte
	skPrf  []byte
	pkSeed []byte
	pkRoot []byte
	p      *Params
}

// KeyGen draws skSeed, skPrf and pkSeed from rand and derives pkRoot.
func (p *Params) KeyGen(rand io.Reader) (*SecretKey, *PublicKey, error) {
	seeds := make([]byte, 3*p.n)
	if _, err := io.ReadFull(rand, seeds); err != nil {
		return nil, nil, fmt.Errorf("sphincsplus.KeyGen: %w", err)
	}
	return p.KeyGenFromSeeds(seeds[:p.n], seeds[p.n:2*p.n], seeds[2*p.n:], nil)
}

// KeyGenFromSeeds builds a key pair from explicit seeds. If pkRoot is empty
// it is computed as the root of the single XMSS tree of the top layer.
func (p *Params) KeyGenFromSeeds(skSeed, skPrf, pkSeed, pkRoot []byte) (*SecretKey, *PublicKey, error) {
	for _, s := range [][]byte{skSeed, skPrf, pkSeed} {
		if len(s) != int(p.n) {
			return nil, nil, fmt.Errorf("sphincsplus.KeyGenFromSeeds: %w: %d", errSeedLength, len(s))
		}
	}
	if len(pkRoot) == 0 {
		var adrs address
		adrs.setLayerAddress(p.d - 1)
		root, err := p.xmssKeyGen(skSeed, pkSeed, adrs)
		if err != nil {
			return nil, nil, fmt.Errorf("sphincsplus.KeyGenFromSeeds: %w", err)
		}
		pkRoot = root
	} else if len(pkRoot) != int(p.n) {
		return nil, nil, fmt.Errorf("sphincsplus.KeyGenFromSeeds: %w: pkRoot has %d bytes", errSeedLength, len(pkRoot))
	}
	sk := &SecretKey{
		skSeed: bytes.Clone(skSeed),
		skPrf:  bytes.Clone(skPrf),
		pkSeed: bytes.Clone(pkSeed),
		pkRoot: bytes.Clone(pkRoot),
		p:      p,
	}
	return sk, sk.PublicKey(), nil
}

// digest computes H_msg and splits it into the FORS message md, the index
// of the bottom XMSS tree and the leaf inside that tree. The three parts
// are read from consecutive byte ranges; the indices are truncated to
// h-hp and hp bits.
func (p *Params) digest(msg, r, pkSeed, pkRoot []byte) ([]byte, uint64, uint32) {
	digest := p.hHMsg(r, pkSeed, pkRoot, msg)
	mdLen := (p.k*p.a + 7) / 8
	treeLen := (p.h - p.hp + 7) / 8
	leafLen := (p.hp + 7) / 8
	md := digest[:mdLen]
	treeIdx := toInt(digest[mdLen : mdLen+treeLen])
	// For h - hp = 64 the mask would be all ones.
	if p.h-p.hp < 64 {
		treeIdx &= uint64(1)<<(p.h-p.hp) - 1
	}
	leafIdx := uint32(toInt(digest[mdLen+treeLen:mdLen+treeLen+leafLen])) & (uint32(1)<<p.hp - 1)
	return md, treeIdx, leafIdx
}

type faultSpec struct {
	layer  uint32
	target FaultTarget
	rand   io.Reader
}

// signInternal produces R || SIG_FORS || SIG_HT for msg. The FORS key pair
// and every layer's leaf are selected by the message digest; each layer
// signs the root recovered on the layer below.
func (sk *SecretKey) signInternal(msg []byte, optRand []byte, fault *faultSpec) (*Signature, error) {
	p := sk.p
	r := p.hPrfMsg(sk.skPrf, optRand, msg)
	md, treeIdx, leafIdx := p.digest(msg, r, sk.pkSeed, sk.pkRoot)

	var adrs address
	adrs.setLayerAddress(0)
	adrs.setTreeAddress(treeIdx)
	adrs.setKeyPairAddress(leafIdx)
	forsSig, err := p.forsSign(md, sk.skSeed, sk.pkSeed, adrs)
	if err != nil {
		return nil, err
	}
	root := p.forsPkFromSig(forsSig, md, sk.pkSeed, adrs)

	ht := make([]XMSSSignature, p.d)
	for i := range p.d {
		adrs.setLayerAddress(i)
		adrs.setTreeAddress(treeIdx)
		if fault != nil && fault.layer == i {
			ht[i], root, err = p.xmssFaultSign(root, leafIdx, fault.target, fault.rand, sk.skSeed, sk.pkSeed, adrs)
		} else {
			ht[i], root, err = p.xmssSign(root, leafIdx, sk.skSeed, sk.pkSeed, adrs)
		}
		if err != nil {
			return nil, err
		}
		// hp least significant bits of treeIdx select the leaf on the next layer.
		leafIdx = uint32(treeIdx & (uint64(1)<<p.hp - 1))
		treeIdx >>= p.hp
	}
	return &Signature{R: r, Fors: forsSig, Hypertree: ht}, nil
}

func (p *Params) optRand(rand io.Reader) ([]byte, error) {
	opt := make([]byte, p.n)
	if rand == nil {
		return opt, nil
	}
	if _, err := io.ReadFull(rand, opt); err != nil {
		return nil, fmt.Errorf("reading signing randomness: %w", err)
	}
	return opt, nil
}

// Sign signs msg with a fresh n-byte randomizer read from rand. A failing
// reader is fatal to the signature and reported as an error.
func (sk *SecretKey) Sign(msg []byte, rand io.Reader) (*Signature, error) {
	if rand == nil {
		return nil, fmt.Errorf("sphincsplus.Sign: nil randomness source")
	}
	opt, err := sk.p.optRand(rand)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.Sign: %w", err)
	}
	return sk.signInternal(msg, opt, nil)
}

// SignDeterministic signs msg with an all-zero randomizer.
func (sk *SecretKey) SignDeterministic(msg []byte) (*Signature, error) {
	return sk.signInternal(msg, make([]byte, sk.p.n), nil)
}

// FaultSign signs msg like Sign, except that on hypertree layer the XMSS
// tree is rebuilt with the leaf chosen by target replaced by n bytes from
// faultRand. optRand provides the randomizer; if it is nil the randomizer
// is all-zero as in SignDeterministic.
//
// The result is a structurally valid but corrupted signature, meant for
// studying fault attacks only.
func (sk *SecretKey) FaultSign(msg []byte, layer uint32, target FaultTarget, optRand, faultRand io.Reader) (*Signature, error) {
	if layer >= sk.p.d {
		return nil, fmt.Errorf("sphincsplus.FaultSign: %w: %d not in [0, %d)", errFaultLayer, layer, sk.p.d)
	}
	if faultRand == nil {
		return nil, fmt.Errorf("sphincsplus.FaultSign: nil fault source")
	}
	if _, err := target.leaf(0); err != nil {
		return nil, fmt.Errorf("sphincsplus.FaultSign: %w", err)
	}
	opt, err := sk.p.optRand(optRand)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.FaultSign: %w", err)
	}
	return sk.signInternal(msg, opt, &faultSpec{layer: layer, target: target, rand: faultRand})
}

// wellFormed reports whether sig has the shape required by p.
func (p *Params) wellFormed(sig *Signature) bool {
	ok := func(e []byte) bool { return len(e) == int(p.n) }
	all := func(es [][]byte, count uint32) bool {
		if len(es) != int(count) {
			return false
		}
		for _, e := range es {
			if !ok(e) {
				return false
			}
		}
		return true
	}
	if sig == nil || !ok(sig.R) || len(sig.Fors) != int(p.k) || len(sig.Hypertree) != int(p.d) {
		return false
	}
	for _, t := range sig.Fors {
		if !ok(t.Secret) || !all(t.AuthPath, p.a) {
			return false
		}
	}
	for _, l := range sig.Hypertree {
		if !all(l.WOTS, p.len) || !all(l.AuthPath, p.hp) {
			return false
		}
	}
	return true
}

// ExtractKeys recomputes the FORS public key and then the root of every
// hypertree layer from sig, bottom up. It returns d+1 values; the last one
// equals pkRoot for a valid signature.
func (pk *PublicKey) ExtractKeys(msg []byte, sig *Signature) ([][]byte, error) {
	p := pk.p
	if !p.wellFormed(sig) {
		return nil, fmt.Errorf("sphincsplus.ExtractKeys: %w", errMalformed)
	}
	md, treeIdx, leafIdx := p.digest(msg, sig.R, pk.pkSeed, pk.pkRoot)

	var adrs address
	adrs.setLayerAddress(0)
	adrs.setTreeAddress(treeIdx)
	adrs.setKeyPairAddress(leafIdx)
	roots := make([][]byte, 0, p.d+1)
	roots = append(roots, p.forsPkFromSig(sig.Fors, md, pk.pkSeed, adrs))
	for i := range p.d {
		adrs.setLayerAddress(i)
		adrs.setTreeAddress(treeIdx)
		roots = append(roots, p.xmssPkFromSig(roots[i], leafIdx, sig.Hypertree[i], pk.pkSeed, adrs))
		leafIdx = uint32(treeIdx & (uint64(1)<<p.hp - 1))
		treeIdx >>= p.hp
	}
	return roots, nil
}

// Verify reports whether sig is a valid signature of msg. A mismatch or a
// malformed signature yields false.
func (pk *PublicKey) Verify(msg []byte, sig *Signature) bool {
	roots, err := pk.ExtractKeys(msg, sig)
	if err != nil {
		return false
	}
	// Only public values are compared.
	return bytes.Equal(roots[len(roots)-1], pk.pkRoot)
}

// VerifyBytes parses sig and verifies it. Only a signature of the wrong
// length is an error.
func (pk *PublicKey) VerifyBytes(msg []byte, sig []byte) (bool, error) {
	parsed, err := pk.p.ParseSignature(sig)
	if err != nil {
		return false, err
	}
	return pk.Verify(msg, parsed), nil
}

// Params returns the parameters of the key.
func (pk *PublicKey) Params() *Params { return pk.p }

// Encode encodes a public key as pkSeed || pkRoot.
func (pk *PublicKey) Encode() []byte {
	return slices.Concat(pk.pkSeed, pk.pkRoot)
}

// PublicKeyLength returns the length of a public key.
func (p *Params) PublicKeyLength() int {
	return int(2 * p.n)
}

// DecodePublicKey decodes a public key.
func (p *Params) DecodePublicKey(pkEnc []byte) (*PublicKey, error) {
	if len(pkEnc) != p.PublicKeyLength() {
		return nil, fmt.Errorf("invalid public key length")
	}
	return &PublicKey{
		pkSeed: bytes.Clone(pkEnc[0:p.n]),
		pkRoot: bytes.Clone(pkEnc[p.n : 2*p.n]),
		p:      p,
	}, nil
}

// Params returns the parameters of the key.
func (sk *SecretKey) Params() *Params { return sk.p }

// Encode encodes a secret key as skSeed || skPrf || pkSeed || pkRoot.
func (sk *SecretKey) Encode() []byte {
	return slices.Concat(sk.skSeed, sk.skPrf, sk.pkSeed, sk.pkRoot)
}

// SecretKeyLength returns the length of a secret key.
func (p *Params) SecretKeyLength() int {
	return int(4 * p.n)
}

// DecodeSecretKey decodes a secret key.
func (p *Params) DecodeSecretKey(skEnc []byte) (*SecretKey, error) {
	if len(skEnc) != p.SecretKeyLength() {
		return nil, fmt.Errorf("invalid secret key length")
	}
	return &SecretKey{
		skSeed: bytes.Clone(skEnc[0:p.n]),
		skPrf:  bytes.Clone(skEnc[p.n : 2*p.n]),
		pkSeed: bytes.Clone(skEnc[2*p.n : 3*p.n]),
		pkRoot: bytes.Clone(skEnc[3*p.n : 4*p.n]),
		p:      p,
	}, nil
}

// PublicKey returns the public key corresponding to a secret key.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{pkSeed: sk.pkSeed, pkRoot: sk.pkRoot, p: sk.p}
}
