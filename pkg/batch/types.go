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

package batch

import (
	"gitlab.com/tozd/go/errors"
)

// 🔄 Direction selects which way the cipher runs for a job
type Direction string

const (
	Encrypt Direction = "encrypt"
	Decrypt Direction = "decrypt"
)

// 🔍 ParseDirection parses a direction name
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Encrypt:
		return Encrypt, nil
	case Decrypt:
		return Decrypt, nil
	default:
		return "", errors.Errorf("unknown direction: %q", s)
	}
}

// 📦 FileJob describes one unit of work. Immutable once constructed;
// consumed by exactly one worker.
type FileJob struct {
	SourceRef    string    `json:"source_ref"`    // Opaque handle resolved by the source provider
	OriginalName string    `json:"original_name"` // Submission name, the stable key for results
	Direction    Direction `json:"direction"`     // Encrypt or Decrypt
	Shift        int       `json:"shift"`         // Cipher shift parameter
}

// 📄 FileResult is the successful outcome of one FileJob. Ownership
// transfers to the executor's aggregate, then to the reporter.
type FileResult struct {
	OriginalName string    `json:"original_name"`
	OutputRef    string    `json:"output_ref"` // Generated output filename, the retrieval key
	ByteSize     int64     `json:"byte_size"`
	Direction    Direction `json:"direction"`
}

// 🚨 ErrorKind classifies how a job failed
type ErrorKind string

const (
	ErrKindSourceUnreadable ErrorKind = "source_unreadable"
	ErrKindTransformFailure ErrorKind = "transform_failure"
	ErrKindDestWriteFailure ErrorKind = "destination_write_failure"
	ErrKindWorkerCrashed    ErrorKind = "worker_crashed"
)

// ❌ Failure is the error outcome of one FileJob
type Failure struct {
	OriginalName string    `json:"original_name"`
	Kind         ErrorKind `json:"kind"`
	Message      string    `json:"message,omitempty"`
}

// 📊 BatchOutcome is the aggregate returned to the caller for one batch.
// Ordering of Results and Failures is strategy-dependent; only set
// membership by OriginalName is stable across strategies.
type BatchOutcome struct {
	Strategy      string       `json:"strategy"`
	ElapsedMillis int64        `json:"elapsed_millis"`
	Results       []FileResult `json:"results"`
	Failures      []Failure    `json:"failures"`
}

// 🔢 Len returns the total number of accounted jobs
func (o *BatchOutcome) Len() int {
	return len(o.Results) + len(o.Failures)
}
