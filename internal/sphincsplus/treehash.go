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
	"errors"
	"fmt"
	"math/bits"
)

var (
	errNotPowerOfTwo   = errors.New("number of leaves is not a power of two")
	errTreeIndexOffset = errors.New("tree index offset is not aligned to the tree width")
	errLeafIndex       = errors.New("leaf index out of range")
)

// treehash builds the Merkle tree over leaves and returns its root together
// with the authentication path of leaves[leafIdx].
//
// Nodes of height z are hashed at tree height z and tree index
// offset/2^(z-1) + position, so that several trees built with different
// offsets (FORS) sit at disjoint absolute coordinates. offset must be a
// multiple of len(leaves)/2.
func (p *Params) treehash(leaves [][]byte, leafIdx uint32, pkSeed []byte, adrs address, offset uint32) ([]byte, [][]byte, error) {
	numLeaves := len(leaves)
	if numLeaves == 0 || numLeaves&(numLeaves-1) != 0 {
		return nil, nil, fmt.Errorf("treehash: %w: %d", errNotPowerOfTwo, numLeaves)
	}
	if uint64(leafIdx) >= uint64(numLeaves) {
		return nil, nil, fmt.Errorf("treehash: %w: %d of %d", errLeafIndex, leafIdx, numLeaves)
	}
	if numLeaves == 1 {
		return leaves[0], nil, nil
	}
	if offset%uint32(numLeaves/2) != 0 {
		return nil, nil, fmt.Errorf("treehash: %w: offset %d, %d leaves", errTreeIndexOffset, offset, numLeaves)
	}
	nodes := leaves
	authPath := make([][]byte, 0, bits.TrailingZeros(uint(numLeaves)))
	for height := uint32(1); len(nodes) > 1; height++ {
		adrs.setTreeHeight(height)
		// Every node of this level is at hand, take the sibling for the path.
		authPath = append(authPath, nodes[leafIdx^1])
		parents := make([][]byte, len(nodes)/2)
		for j := range parents {
			adrs.setTreeIndex(offset + uint32(j))
			parents[j] = p.hH(pkSeed, &adrs, nodes[2*j], nodes[2*j+1])
		}
		nodes = parents
		leafIdx >>= 1
		offset >>= 1
	}
	return nodes[0], authPath, nil
}

// recompRoot climbs from leaf to the root along authPath. At each level the
// low bit of leafIdx tells whether the running node is a left (0) or right
// (1) child.
func (p *Params) recompRoot(leaf []byte, authPath [][]byte, leafIdx uint32, pkSeed []byte, adrs address, offset uint32) []byte {
	node := leaf
	for i, sibling := range authPath {
		adrs.setTreeIndex(offset + leafIdx>>1)
		adrs.setTreeHeight(uint32(i + 1))
		if leafIdx&1 == 0 {
			node = p.hH(pkSeed, &adrs, node, sibling)
		} else {
			node = p.hH(pkSeed, &adrs, sibling, node)
		}
		leafIdx >>= 1
		offset >>= 1
	}
	return node
}
