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

// FaultSigner computes SPHINCS+ signatures with a simulated fault: while
// one hypertree layer is signed, one leaf of its XMSS tree is replaced by
// random bytes before the tree is hashed.
type FaultSigner struct {
	secretKey   *sphincsplus.SecretKey
	layers      int
	signingMode SigningMode
	rand        io.Reader
	logger      monitoring.Logger
}

// NewFaultSigner creates a new FaultSigner for privateKey. Fault values and,
// for randomized parameters, the signing randomizers are read from the
// [WithRand] source.
func NewFaultSigner(privateKey *PrivateKey, opts ...Option) (*FaultSigner, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("sphincsplus.NewFaultSigner: privateKey must not be nil")
	}
	secretKey, err := privateKey.engineKey()
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewFaultSigner: %w", err)
	}
	o := newOptions(opts)
	params := privateKey.publicKey.params
	logger, err := monitoringutil.NewLogger(o.client, monitoring.FaultSignPrimitive, "fault_sign", params)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.NewFaultSigner: %w", err)
	}
	return &FaultSigner{
		secretKey:   secretKey,
		layers:      params.D(),
		signingMode: params.signingMode,
		rand:        o.rand,
		logger:      logger,
	}, nil
}

// FaultSign signs data with a fault on hypertree layer layer, counted from
// the bottom. If verifying is true the sibling of the signing leaf is
// overwritten, which yields a signature that still verifies unless layer is
// the top layer. Otherwise the signing leaf itself is overwritten; the
// signature then fails to verify unless layer is the top layer.
func (s *FaultSigner) FaultSign(data []byte, layer int, verifying bool) ([]byte, error) {
	if layer < 0 || layer >= s.layers {
		s.logger.LogFailure()
		return nil, fmt.Errorf("sphincsplus.FaultSign: layer %d not in [0, %d)", layer, s.layers)
	}
	var optRand io.Reader
	if s.signingMode == Randomized {
		optRand = s.rand
	}
	sig, err := s.secretKey.FaultSign(data, uint32(layer), sphincsplus.FaultTargetFromVerifying(verifying), optRand, s.rand)
	if err != nil {
		s.logger.LogFailure()
		return nil, err
	}
	s.logger.Log(len(data))
	return sig.Bytes(), nil
}
