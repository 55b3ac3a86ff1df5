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

// Package monitoring defines the interfaces through which signers and
// verifiers report their operations, and two implementations: one writing
// structured logs with zap and one counting operations with Prometheus.
package monitoring

// Context describes the primitive a Logger is attached to.
type Context struct {
	// Primitive is the kind of primitive, e.g. "public_key_sign".
	Primitive string
	// APIFunction is the operation that is logged, e.g. "sign".
	APIFunction string
	// Parameters names the parameters of the key in use.
	Parameters string
}

// NewContext creates a new monitoring context.
func NewContext(primitive, apiFunction, parameters string) *Context {
	return &Context{
		Primitive:   primitive,
		APIFunction: apiFunction,
		Parameters:  parameters,
	}
}

// Logger records the outcome of single operations.
type Logger interface {
	// Log records a successful operation on numBytes bytes of input.
	Log(numBytes int)
	// LogFailure records a failed operation.
	LogFailure()
}

// Client creates a Logger for each monitored primitive.
type Client interface {
	NewLogger(context *Context) (Logger, error)
}
