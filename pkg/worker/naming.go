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

package worker

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/walteh/parcrypt/pkg/batch"
)

var tokenCounter atomic.Uint64

// 🎲 uniqueToken returns an 8-hex-char token that is collision-resistant
// across concurrently running workers and across repeated invocations.
func uniqueToken() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// rand.Read never fails on supported platforms; the counter keeps
		// the token unique within this process if it somehow does
		return fmt.Sprintf("%08x", tokenCounter.Add(1))
	}
	return hex.EncodeToString(buf[:])
}

// 🏷️ OutputName builds the generated output filename for a job:
// "{direction}_{epochMillisAtWrite}_{uniqueToken}_{originalName}".
// No two workers may ever target the same output path, so names are unique
// by construction rather than by mutual exclusion.
func OutputName(direction batch.Direction, originalName string) string {
	return fmt.Sprintf("%s_%d_%s_%s", direction, time.Now().UnixMilli(), uniqueToken(), originalName)
}
