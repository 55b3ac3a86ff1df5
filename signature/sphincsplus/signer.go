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

	"github.com/spxfault/spx/internal/monitoringutil"
	"github.com/spxfault/spx/internal/sphincsplus"
	"github.com/spxfault/spx/monitoring"
)

// Signer computes SPHINCS+ signatures. It is safe for concurrent use if the
// configured randomness source is.
type Signer struct {
	secretKey   *sphincsplus.SecretKey
	signingMode SigningMode
	rand        io.Reader
	logger      monitoring.Logger
}

// NewSigner creates a new Signer for privateKey.
func NewSigner(privateKey *PrivateKey, opts ...Option) (*Signer, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("sphincsplus.NewSigner: privateKey must not be nil")
	}
	secretKey, err := privateKey.engineKey()
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewSigner: %w", err)
	}
	o := newOptions(opts)
	params := privateKey.publicKey.params
	logger, err := monitoringutil.NewLogger(o.client, signPrimitive, "sign", params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewSigner: %w", err)
	}
	return &Signer{
		secretKey:   secretKey,
		signingMode: params.signingMode,
		rand:        o.rand,
		logger:      logger,
	}, nil
}

// Sign computes a signature for the given data.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	var (
		sig *sphincsplus.Signature
		err error
	)
	if s.signingMode == Deterministic {
		sig, err = s.secretKey.SignDeterministic(data)
	} else {
		sig, err = s.secretKey.Sign(data, s.rand)
	}
	if err != nil {
		s.logger.LogFailure()
		return nil, err
	}
	s.logger.Log(len(data))
	return sig.Bytes(), nil
}
