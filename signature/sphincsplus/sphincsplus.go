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

// Package sphincsplus provides SPHINCS+-SHAKE256 keys and parameters,
// signers, verifiers, and a fault-injection signer that produces signatures
// with one corrupted XMSS leaf for fault-attack research.
//
// A [FaultSigner] is deliberately a different type from [Signer]: its
// output must never be used where a genuine signature is expected.
package sphincsplus

import (
	"crypto/rand"
	"io"

	"github.com/spxfault/spx/monitoring"
)

const (
	signPrimitive   = "public_key_sign"
	verifyPrimitive = "public_key_verify"
)

// Option configures signers, verifiers and key generation.
type Option func(*options)

type options struct {
	client monitoring.Client
	rand   io.Reader
}

func newOptions(opts []Option) *options {
	o := &options{rand: rand.Reader}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMonitoringClient reports every operation to client. Without this
// option operations are not monitored.
func WithMonitoringClient(client monitoring.Client) Option {
	return func(o *options) { o.client = client }
}

// WithRand sets the source of seeds, signing randomizers and fault values.
// The default is crypto/rand.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}
