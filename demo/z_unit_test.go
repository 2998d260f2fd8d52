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

package demo

import (
	"testing"

	"github.com/zintix-labs/matchlab/server/logger"
	"github.com/zintix-labs/matchlab/spec"
)

func TestDemoBoardsLoad(t *testing.T) {
	lab, err := NewQuietLab()
	if err != nil {
		t.Fatal(err)
	}
	list := lab.Boards()
	if len(list) != 2 {
		t.Fatalf("want 2 demo boards, got %d", len(list))
	}
	for _, b := range list {
		s, err := lab.NewSession(b.ID, 1)
		if err != nil {
			t.Fatalf("board %s: %v", b.Name, err)
		}
		if len(s.View().Layout) != b.Rows {
			t.Fatalf("board %s: layout rows mismatch", b.Name)
		}
	}
	bs, err := lab.Setting(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(bs.Obstacles) != 5 || !bs.Caps[spec.Obstacle].Clearable {
		t.Fatalf("obstacles board: %d obstacles, caps %+v", len(bs.Obstacles), bs.Caps[spec.Obstacle])
	}
	if w := bs.ShapeWeights(); len(w) != 5 || w[4] != 1 {
		t.Fatalf("obstacles board weights %v", w)
	}
}

func TestNewServerConfig(t *testing.T) {
	cfg, err := NewServerConfig(logger.ModeSilence)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Valid(); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr == "" || cfg.SessionTTL == 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
