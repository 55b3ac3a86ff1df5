// Copyright 2024 Google LLC
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

// Package key defines interfaces for Key and Parameters types.
package key

// Parameters represents key parameters.
//
// A Parameters value fully determines the key and signature sizes and the
// behaviour of every primitive built from a key with these parameters.
type Parameters interface {
	// Equal compares this parameters object with other.
	Equal(other Parameters) bool
	// String returns a human readable name of the parameters, suitable as a
	// monitoring label.
	String() string
}

// Key represents a signing or verification key.
type Key interface {
	// Parameters returns the parameters of this key.
	Parameters() Parameters
	// Equal compares this key object with other.
	Equal(other Key) bool
}
