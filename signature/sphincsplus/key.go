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
	"fmt"
	"io"

	"github.com/spxfault/spx/insecuresecretdataaccess"
	"github.com/spxfault/spx/internal/sphincsplus"
	"github.com/spxfault/spx/key"
	"github.com/spxfault/spx/secretdata"
)

// HashMode selects the tweakable hash functions.
type HashMode int

const (
	// UnknownHashMode is the default value of HashMode.
	UnknownHashMode HashMode = iota
	// Simple hashes pkSeed || adrs || message.
	Simple
	// Robust masks the message with a bitmask derived from pkSeed and adrs
	// before hashing.
	Robust
)

func (m HashMode) String() string {
	switch m {
	case Simple:
		return "SIMPLE"
	case Robust:
		return "ROBUST"
	default:
		return "UNKNOWN"
	}
}

// SigningMode selects how the per-signature randomizer is chosen.
type SigningMode int

const (
	// UnknownSigningMode is the default value of SigningMode.
	UnknownSigningMode SigningMode = iota
	// Randomized draws a fresh randomizer for every signature.
	Randomized
	// Deterministic uses an all-zero randomizer, so that a message always
	// gets the same signature.
	Deterministic
)

func (m SigningMode) String() string {
	switch m {
	case Randomized:
		return "RANDOMIZED"
	case Deterministic:
		return "DETERMINISTIC"
	default:
		return "UNKNOWN"
	}
}

// Parameters represents the parameters of a SPHINCS+ key.
//
// The instance is one of "128s", "128f", "192s", "192f", "256s" and "256f";
// all instances hash with SHAKE256.
type Parameters struct {
	instance    string
	hashMode    HashMode
	signingMode SigningMode
	params      *sphincsplus.Params
}

var _ key.Parameters = (*Parameters)(nil)

// NewParameters creates a new Parameters.
func NewParameters(instance string, hashMode HashMode, signingMode SigningMode) (*Parameters, error) {
	if hashMode != Simple && hashMode != Robust {
		return nil, fmt.Errorf("sphincsplus.NewParameters: unsupported hash mode %v", hashMode)
	}
	if signingMode != Randomized && signingMode != Deterministic {
		return nil, fmt.Errorf("sphincsplus.NewParameters: unsupported signing mode %v", signingMode)
	}
	params, err := sphincsplus.Lookup(instance, hashMode == Robust)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewParameters: %w", err)
	}
	return &Parameters{
		instance:    instance,
		hashMode:    hashMode,
		signingMode: signingMode,
		params:      params,
	}, nil
}

// Instances returns the names of the supported instances.
func Instances() []string { return sphincsplus.Instances() }

// Instance returns the instance name.
func (p *Parameters) Instance() string { return p.instance }

// HashMode returns the hash mode.
func (p *Parameters) HashMode() HashMode { return p.hashMode }

// SigningMode returns the signing mode.
func (p *Parameters) SigningMode() SigningMode { return p.signingMode }

// SignatureLength returns the length of a signature in bytes.
func (p *Parameters) SignatureLength() int { return p.params.SignatureLength() }

// PublicKeyLength returns the length of an encoded public key.
func (p *Parameters) PublicKeyLength() int { return p.params.PublicKeyLength() }

// PrivateKeyLength returns the length of an encoded private key.
func (p *Parameters) PrivateKeyLength() int { return p.params.SecretKeyLength() }

// N returns the security parameter n in bytes. H, D, A, K and LogW return
// the remaining instance parameters.
func (p *Parameters) N() int { return p.params.N() }

// H returns the total hypertree height.
func (p *Parameters) H() int { return p.params.H() }

// D returns the number of hypertree layers.
func (p *Parameters) D() int { return p.params.D() }

// A returns the height of a FORS tree.
func (p *Parameters) A() int { return p.params.A() }

// K returns the number of FORS trees.
func (p *Parameters) K() int { return p.params.K() }

// LogW returns log2 of the Winternitz parameter.
func (p *Parameters) LogW() int { return p.params.LogW() }

func (p *Parameters) String() string {
	if p.signingMode == Deterministic {
		return p.params.String() + "-deterministic"
	}
	return p.params.String()
}

// Equal returns true if this parameters object is equal to other.
func (p *Parameters) Equal(other key.Parameters) bool {
	that, ok := other.(*Parameters)
	return ok && p.instance == that.instance &&
		p.hashMode == that.hashMode &&
		p.signingMode == that.signingMode
}

// FormatSignature writes a labelled hex dump of sig to w.
func (p *Parameters) FormatSignature(w io.Writer, sig []byte) error {
	parsed, err := p.params.ParseSignature(sig)
	if err != nil {
		return err
	}
	return parsed.Format(w)
}

// PublicKey represents a SPHINCS+ public key, pkSeed || pkRoot.
type PublicKey struct {
	keyBytes []byte
	params   *Parameters
}

var _ key.Key = (*PublicKey)(nil)

// NewPublicKey creates a new SPHINCS+ public key.
func NewPublicKey(keyBytes []byte, params *Parameters) (*PublicKey, error) {
	if params == nil {
		return nil, fmt.Errorf("sphincsplus.NewPublicKey: params must not be nil")
	}
	if len(keyBytes) != params.PublicKeyLength() {
		return nil, fmt.Errorf("sphincsplus.NewPublicKey: invalid public key length: %v", len(keyBytes))
	}
	return &PublicKey{
		keyBytes: bytes.Clone(keyBytes),
		params:   params,
	}, nil
}

// KeyBytes returns the public key bytes.
func (k *PublicKey) KeyBytes() []byte { return bytes.Clone(k.keyBytes) }

// Parameters returns the parameters of the key.
func (k *PublicKey) Parameters() key.Parameters { return k.params }

// Equal returns true if this key is equal to other.
func (k *PublicKey) Equal(other key.Key) bool {
	if k == other {
		return true
	}
	that, ok := other.(*PublicKey)
	return ok && k.params.Equal(that.params) &&
		bytes.Equal(k.keyBytes, that.keyBytes)
}

func (k *PublicKey) engineKey() (*sphincsplus.PublicKey, error) {
	return k.params.params.DecodePublicKey(k.keyBytes)
}

// PrivateKey represents a SPHINCS+ private key,
// skSeed || skPrf || pkSeed || pkRoot.
type PrivateKey struct {
	publicKey *PublicKey
	keyBytes  secretdata.Bytes
}

var _ key.Key = (*PrivateKey)(nil)

// publicKeyForSeeds recomputes pkRoot from the seeds in privateKeyBytes and
// returns pkSeed || pkRoot. It assumes that the length is correct.
func publicKeyForSeeds(privateKeyBytes secretdata.Bytes, params *Parameters) ([]byte, error) {
	raw := privateKeyBytes.Data(insecuresecretdataaccess.Token{})
	n := params.N()
	_, pk, err := params.params.KeyGenFromSeeds(raw[:n], raw[n:2*n], raw[2*n:3*n], nil)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(pk.Encode(), raw[2*n:]) {
		return nil, fmt.Errorf("public key root does not match the seeds")
	}
	return pk.Encode(), nil
}

// NewPrivateKey creates a new SPHINCS+ private key from privateKeyBytes.
//
// The embedded public root is checked against the seeds, which costs one
// top-layer tree computation. Use [NewPrivateKeyFromSeedsAndRoot] to take a
// known root without that check.
func NewPrivateKey(privateKeyBytes secretdata.Bytes, params *Parameters) (*PrivateKey, error) {
	if params == nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKey: params must not be nil")
	}
	if privateKeyBytes.Len() != params.PrivateKeyLength() {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKey: invalid private key length: %v", privateKeyBytes.Len())
	}
	pubKeyBytes, err := publicKeyForSeeds(privateKeyBytes, params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKey: %w", err)
	}
	pubKey, err := NewPublicKey(pubKeyBytes, params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKey: %w", err)
	}
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  privateKeyBytes,
	}, nil
}

// NewPrivateKeyWithPublicKey creates a new SPHINCS+ private key from
// privateKeyBytes and a [PublicKey].
func NewPrivateKeyWithPublicKey(privateKeyBytes secretdata.Bytes, pubKey *PublicKey) (*PrivateKey, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKeyWithPublicKey: pubKey must not be nil")
	}
	if pubKey.params == nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKeyWithPublicKey: pubKey.params must not be nil")
	}
	privKey, err := NewPrivateKey(privateKeyBytes, pubKey.params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKeyWithPublicKey: %w", err)
	}
	if !privKey.publicKey.Equal(pubKey) {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKeyWithPublicKey: public key does not match private key")
	}
	privKey.publicKey = pubKey
	return privKey, nil
}

// NewPrivateKeyFromSeeds creates a private key from its three seeds and
// derives the public root.
func NewPrivateKeyFromSeeds(skSeed, skPrf, pkSeed secretdata.Bytes, params *Parameters) (*PrivateKey, error) {
	privKey, err := newPrivateKeyFromParts(skSeed, skPrf, pkSeed, nil, params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKeyFromSeeds: %w", err)
	}
	return privKey, nil
}

// NewPrivateKeyFromSeedsAndRoot creates a private key from its three seeds
// and a known public root. The root is taken as given and not checked
// against the seeds, so no top-layer tree is computed. An empty pkRoot is
// derived as in [NewPrivateKeyFromSeeds].
func NewPrivateKeyFromSeedsAndRoot(skSeed, skPrf, pkSeed secretdata.Bytes, pkRoot []byte, params *Parameters) (*PrivateKey, error) {
	privKey, err := newPrivateKeyFromParts(skSeed, skPrf, pkSeed, pkRoot, params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewPrivateKeyFromSeedsAndRoot: %w", err)
	}
	return privKey, nil
}

func newPrivateKeyFromParts(skSeed, skPrf, pkSeed secretdata.Bytes, pkRoot []byte, params *Parameters) (*PrivateKey, error) {
	if params == nil {
		return nil, fmt.Errorf("params must not be nil")
	}
	token := insecuresecretdataaccess.Token{}
	_, pk, err := params.params.KeyGenFromSeeds(skSeed.Data(token), skPrf.Data(token), pkSeed.Data(token), pkRoot)
	if err != nil {
		return nil, err
	}
	pubKey, err := NewPublicKey(pk.Encode(), params)
	if err != nil {
		return nil, err
	}
	root := secretdata.NewBytesFromData(pubKey.keyBytes[params.N():], token)
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  secretdata.Concat(skSeed, skPrf, pkSeed, root),
	}, nil
}

// GeneratePrivateKey creates a fresh private key. The seeds are read from
// crypto/rand unless [WithRand] is given.
func GeneratePrivateKey(params *Parameters, opts ...Option) (*PrivateKey, error) {
	if params == nil {
		return nil, fmt.Errorf("sphincsplus.GeneratePrivateKey: params must not be nil")
	}
	o := newOptions(opts)
	n := uint32(params.N())
	var seeds [3]secretdata.Bytes
	for i := range seeds {
		s, err := secretdata.NewBytesFromReader(o.rand, n)
		if err != nil {
			return nil, fmt.Errorf("sphincsplus.GeneratePrivateKey: %w", err)
		}
		seeds[i] = s
	}
	return NewPrivateKeyFromSeeds(seeds[0], seeds[1], seeds[2], params)
}

// PrivateKeyBytes returns the encoded private key.
func (k *PrivateKey) PrivateKeyBytes() secretdata.Bytes { return k.keyBytes }

// PublicKey returns the public key of the key.
func (k *PrivateKey) PublicKey() (key.Key, error) { return k.publicKey, nil }

// Parameters returns the parameters of the key.
func (k *PrivateKey) Parameters() key.Parameters { return k.publicKey.params }

// Equal returns true if this key is equal to other.
func (k *PrivateKey) Equal(other key.Key) bool {
	if k == other {
		return true
	}
	that, ok := other.(*PrivateKey)
	return ok && k.publicKey.Equal(that.publicKey) &&
		k.keyBytes.Equal(that.keyBytes)
}

func (k *PrivateKey) engineKey() (*sphincsplus.SecretKey, error) {
	return k.publicKey.params.params.DecodeSecretKey(k.keyBytes.Data(insecuresecretdataaccess.Token{}))
}
