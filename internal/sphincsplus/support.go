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

// toInt reads x as a big-endian integer of at most 8 bytes.
func toInt(x []byte) uint64 {
	if len(x) > 8 {
		panic("unreachable")
	}
	total := uint64(0)
	for _, b := range x {
		total = 256*total + uint64(b)
	}
	return total
}

// bitBE returns bit j (0 = least significant) of x read as a big-endian
// integer. Bits beyond the end of x are zero.
func bitBE(x []byte, j uint32) uint32 {
	if j >= uint32(8*len(x)) {
		return 0
	}
	return uint32(x[len(x)-1-int(j/8)]>>(j%8)) & 1
}

// bitLE returns bit j of x read as a little-endian integer.
func bitLE(x []byte, j uint32) uint32 {
	if j >= uint32(8*len(x)) {
		return 0
	}
	return uint32(x[j/8]>>(j%8)) & 1
}

// baseW splits the big-endian integer x into outLen digits of lgw bits,
// most significant digit first. Only the low outLen*lgw bits are used.
func baseW(x []byte, lgw uint32, outLen uint32) []uint32 {
	digits := make([]uint32, outLen)
	for i := range outLen {
		shift := (outLen - 1 - i) * lgw
		for b := range lgw {
			digits[i] |= bitBE(x, shift+b) << b
		}
	}
	return digits
}

// baseWInt is baseW for a small integer.
func baseWInt(x uint32, lgw uint32, outLen uint32) []uint32 {
	digits := make([]uint32, outLen)
	mask := uint32(1)<<lgw - 1
	for i := range outLen {
		digits[outLen-1-i] = (x >> (i * lgw)) & mask
	}
	return digits
}
