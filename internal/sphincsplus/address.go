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
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"strings"
)

// An address is a 32-byte buffer made of eight big-endian 4-byte words.
//
//	| layer (1 word) | tree address (3 words) | type (1 word) | type specific (3 words) |
//
// type specific words:
//
//	WOTS_CHAIN: | key pair address | chain address | hash address |
//	WOTS_PK:    | key pair address | 0             | 0            |
//	XMSS:       | 0                | tree height   | tree index   |
//	FORS_TREE:  | key pair address | tree height   | tree index   |
//	FORS_PK:    | key pair address | 0             | 0            |
//
// address is a value type. Every function that descends into a subtree
// takes its address by value, so a callee's writes never reach its caller
// or its siblings.
type address [addressBytes]byte

const addressBytes = 32

// Word indices.
const (
	wordLayer        = 0
	wordTree         = 1
	wordType         = 4
	wordKeyPair      = 5
	wordChainAddress = 6
	wordTreeHeight   = 6
	wordHashAddress  = 7
	wordTreeIndex    = 7
)

type addressType uint32

const (
	addressWOTSChain addressType = iota
	addressWOTSPk
	addressXMSS
	addressFORSTree
	addressFORSPk
)

var errAddressBounds = errors.New("address field out of bounds")

// setWords writes v big-endian into words [idx, idx+length).
func (a *address) setWords(idx, length int, v uint64) error {
	if idx < 0 || length < 1 || 4*(idx+length) > addressBytes {
		return errAddressBounds
	}
	if length == 1 && v > math.MaxUint32 {
		return errAddressBounds
	}
	field := a[4*idx : 4*(idx+length)]
	clear(field)
	for i := len(field) - 1; i >= 0 && v != 0; i-- {
		field[i] = byte(v)
		v >>= 8
	}
	return nil
}

func (a *address) setWord(idx int, v uint32) {
	binary.BigEndian.PutUint32(a[4*idx:4*(idx+1)], v)
}

func (a *address) setLayerAddress(l uint32) {
	a.setWord(wordLayer, l)
}

// setTreeAddress writes the 96-bit tree address. Only 64 bits are used by
// the parameter sets, the top word is zeroed.
func (a *address) setTreeAddress(t uint64) {
	if err := a.setWords(wordTree, 3, t); err != nil {
		panic(err)
	}
}

func (a *address) setType(y addressType) {
	a.setWord(wordType, uint32(y))
}

func (a *address) setKeyPairAddress(i uint32) {
	a.setWord(wordKeyPair, i)
}

func (a *address) setChainAddress(i uint32) {
	a.setWord(wordChainAddress, i)
}

func (a *address) setHashAddress(i uint32) {
	a.setWord(wordHashAddress, i)
}

func (a *address) setTreeHeight(i uint32) {
	a.setWord(wordTreeHeight, i)
}

func (a *address) setTreeIndex(i uint32) {
	a.setWord(wordTreeIndex, i)
}

func (a address) String() string {
	words := make([]string, addressBytes/4)
	for i := range words {
		words[i] = hex.EncodeToString(a[4*i : 4*(i+1)])
	}
	return strings.Join(words, " ")
}
