// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cipher implements the per-character substitution applied to batch
// files. It is a toy, reversible, non-secret Caesar rotation: only ASCII
// alphabetic bytes are substituted, rotated within their case's 26-letter
// alphabet; every other byte passes through unchanged.
package cipher

// 🔄 Apply rotates ASCII letters in data by shift positions, wrapping within
// each case's alphabet. decrypt reverses the rotation. The shift is taken
// modulo 26 and a negative effective shift normalizes into [0,26), so
// Apply(Apply(x, s, false), s, true) == x for all x and s.
func Apply(data []byte, shift int, decrypt bool) []byte {
	if decrypt {
		shift = -shift
	}
	shift = ((shift % 26) + 26) % 26

	out := make([]byte, len(data))
	for i, b := range data {
		switch {
		case b >= 'a' && b <= 'z':
			out[i] = 'a' + (b-'a'+byte(shift))%26
		case b >= 'A' && b <= 'Z':
			out[i] = 'A' + (b-'A'+byte(shift))%26
		default:
			out[i] = b
		}
	}
	return out
}
