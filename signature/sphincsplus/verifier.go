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

	"github.com/spxfault/spx/internal/monitoringutil"
	"github.com/spxfault/spx/internal/sphincsplus"
	"github.com/spxfault/spx/monitoring"
)

// Verifier checks SPHINCS+ signatures.
type Verifier struct {
	publicKey *sphincsplus.PublicKey
	params    *Parameters
	logger    monitoring.Logger
}

// NewVerifier creates a new Verifier for publicKey.
func NewVerifier(publicKey *PublicKey, opts ...Option) (*Verifier, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("sphincsplus.NewVerifier: publicKey must not be nil")
	}
	pubKey, err := publicKey.engineKey()
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewVerifier: %w", err)
	}
	o := newOptions(opts)
	logger, err := monitoringutil.NewLogger(o.client, verifyPrimitive, "verify", publicKey.params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewVerifier: %w", err)
	}
	return &Verifier{
		publicKey: pubKey,
		params:    publicKey.params,
		logger:    logger,
	}, nil
}

// Verify reports whether signature is valid for data. It returns an error
// only if signature does not have the length of a signature.
func (v *Verifier) Verify(signature, data []byte) (bool, error) {
	ok, err := v.publicKey.VerifyBytes(data, signature)
	if err != nil || !ok {
		v.logger.LogFailure()
		return false, err
	}
	v.logger.Log(len(data))
	return true, nil
}

// ExtractKeys recomputes from signature the FORS public key and the root of
// every hypertree layer, bottom up. For a valid signature the last of the
// D()+1 values equals the public root.
func (v *Verifier) ExtractKeys(signature, data []byte) ([][]byte, error) {
	sig, err := v.params.params.ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	return v.publicKey.ExtractKeys(data, sig)
}
