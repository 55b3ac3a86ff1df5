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
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testLeaves(count, n int) [][]byte {
	leaves := make([][]byte, count)
	for i := range leaves {
		leaves[i] = bytes.Repeat([]byte{byte(i + 1)}, n)
	}
	return leaves
}

func TestTreehashFourLeaves(t *testing.T) {
	p := mustTestParams(t, false)
	pkSeed := bytes.Repeat([]byte{0x11}, p.N())
	leaves := testLeaves(4, p.N())
	var adrs address
	adrs.setType(addressFORSTree)

	// Offset 4 puts the level-1 nodes at indices 4, 5 and the root at 2.
	const offset = 4
	at := func(height, index uint32) *address {
		a := adrs
		a.setTreeHeight(height)
		a.setTreeIndex(index)
		return &a
	}
	n0 := p.hH(pkSeed, at(1, 4), leaves[0], leaves[1])
	n1 := p.hH(pkSeed, at(1, 5), leaves[2], leaves[3])
	wantRoot := p.hH(pkSeed, at(2, 2), n0, n1)

	for _, tc := range []struct {
		leafIdx  uint32
		wantPath [][]byte
	}{
		{0, [][]byte{leaves[1], n1}},
		{1, [][]byte{leaves[0], n1}},
		{2, [][]byte{leaves[3], n0}},
		{3, [][]byte{leaves[2], n0}},
	} {
		root, path, err := p.treehash(leaves, tc.leafIdx, pkSeed, adrs, offset)
		if err != nil {
			t.Fatalf("treehash(%d) err = %v, want nil", tc.leafIdx, err)
		}
		if !bytes.Equal(root, wantRoot) {
			t.Errorf("treehash(%d) root = %x, want %x", tc.leafIdx, root, wantRoot)
		}
		if diff := cmp.Diff(tc.wantPath, path); diff != "" {
			t.Errorf("treehash(%d) path diff (-want +got):\n%s", tc.leafIdx, diff)
		}
		if got := p.recompRoot(leaves[tc.leafIdx], path, tc.leafIdx, pkSeed, adrs, offset); !bytes.Equal(got, wantRoot) {
			t.Errorf("recompRoot(%d) = %x, want %x", tc.leafIdx, got, wantRoot)
		}
	}
}

func randomLeaves(t *testing.T, count, n int) [][]byte {
	t.Helper()
	leaves := make([][]byte, count)
	for i := range leaves {
		leaves[i] = make([]byte, n)
		if _, err := rand.Read(leaves[i]); err != nil {
			t.Fatalf("rand.Read() err = %v, want nil", err)
		}
	}
	return leaves
}

func TestTreehashRecompRootInverse(t *testing.T) {
	for _, robust := range []bool{false, true} {
		p := mustTestParams(t, robust)
		for height := 0; height <= 5; height++ {
			t.Run(fmt.Sprintf("robust=%v height=%d", robust, height), func(t *testing.T) {
				numLeaves := 1 << height
				leaves := randomLeaves(t, numLeaves, p.N())
				pkSeed := randomLeaves(t, 1, p.N())[0]
				var adrs address
				adrs.setLayerAddress(1)
				adrs.setTreeAddress(7)
				adrs.setType(addressFORSTree)
				adrs.setKeyPairAddress(2)
				offset := uint32(3 * (numLeaves / 2))
				var wantRoot []byte
				for i := range numLeaves {
					leafIdx := uint32(i)
					root, path, err := p.treehash(leaves, leafIdx, pkSeed, adrs, offset)
					if err != nil {
						t.Fatalf("treehash(%d) err = %v, want nil", leafIdx, err)
					}
					if got, want := len(path), height; got != want {
						t.Errorf("len(path) = %v, want %v", got, want)
					}
					if wantRoot == nil {
						wantRoot = root
					} else if !bytes.Equal(root, wantRoot) {
						t.Errorf("treehash(%d) root = %x, want %x", leafIdx, root, wantRoot)
					}
					if got := p.recompRoot(leaves[leafIdx], path, leafIdx, pkSeed, adrs, offset); !bytes.Equal(got, root) {
						t.Errorf("recompRoot(%d) = %x, want %x", leafIdx, got, root)
					}
				}
			})
		}
	}
}

func TestTreehashOffsetChangesRoot(t *testing.T) {
	p := mustTestParams(t, false)
	pkSeed := bytes.Repeat([]byte{0x12}, p.N())
	leaves := testLeaves(8, p.N())
	var adrs address
	r0, _, err := p.treehash(leaves, 0, pkSeed, adrs, 0)
	if err != nil {
		t.Fatalf("treehash() err = %v, want nil", err)
	}
	r1, _, err := p.treehash(leaves, 0, pkSeed, adrs, 4)
	if err != nil {
		t.Fatalf("treehash() err = %v, want nil", err)
	}
	if bytes.Equal(r0, r1) {
		t.Errorf("roots at offsets 0 and 4 are equal, want different")
	}
}

func TestTreehashSingleLeaf(t *testing.T) {
	p := mustTestParams(t, false)
	leaves := testLeaves(1, p.N())
	root, path, err := p.treehash(leaves, 0, nil, address{}, 0)
	if err != nil {
		t.Fatalf("treehash() err = %v, want nil", err)
	}
	if !bytes.Equal(root, leaves[0]) {
		t.Errorf("root = %x, want %x", root, leaves[0])
	}
	if len(path) != 0 {
		t.Errorf("len(path) = %d, want 0", len(path))
	}
}

func TestTreehashErrors(t *testing.T) {
	p := mustTestParams(t, false)
	for _, tc := range []struct {
		name    string
		leaves  int
		leafIdx uint32
		offset  uint32
		wantErr error
	}{
		{"no leaves", 0, 0, 0, errNotPowerOfTwo},
		{"three leaves", 3, 0, 0, errNotPowerOfTwo},
		{"leaf index", 4, 4, 0, errLeafIndex},
		{"misaligned offset", 4, 0, 3, errTreeIndexOffset},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := p.treehash(testLeaves(tc.leaves, p.N()), tc.leafIdx, nil, address{}, tc.offset)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("treehash() err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
