// Copyright 2025 Zintix Labs
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

package corefmt

import (
	"bytes"
	"strings"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 250, 251, 252}
	s := EncodeState(raw)
	if strings.ContainsAny(s, "+/=") {
		t.Fatalf("state must be url safe: %q", s)
	}
	got, err := DecodeState(s)
	if err != nil || !bytes.Equal(got, raw) {
		t.Fatalf("round trip failed: %v %v", got, err)
	}
	if _, err := DecodeState("!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("moved spawned cleared ", 200))
	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() >= len(payload) {
		t.Fatalf("expected compression, got %d bytes", buf.Len())
	}
	got, err := ReadFrame(&buf, 1<<20)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestReadFrameRejectsOversize(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, bytes.Repeat([]byte{7}, 4096)); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFrame(bytes.NewReader(buf.Bytes()[:3]), 0); err == nil {
		t.Fatalf("expected truncated frame error")
	}
}
