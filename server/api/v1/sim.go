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

package v1

import (
	"net/http"
	"runtime"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/server/httperr"
	"github.com/zintix-labs/matchlab/spec"
	"github.com/zintix-labs/matchlab/stats"
)

type SimHandler struct {
	Lab *matchlab.Lab
}

func NewSimHandler(lab *matchlab.Lab) (*SimHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("sim handler requires lab")
	}
	return &SimHandler{Lab: lab}, nil
}

// Sim GET|POST /v1/sim {board_id, games, moves, workers, seed}
func (sh *SimHandler) Sim(w http.ResponseWriter, r *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SimResponse struct {
		Stats    *stats.CascadeReport `json:"stats"`
		Seed     int64                `json:"seed"`
		Workers  int                  `json:"workers"`
		UsedTime int64                `json:"used_ms"`
	}
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	seed, err := seedOrRandom(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := sh.Lab.NewSimulator(req.BoardID, seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	workers := min(req.Workers, runtime.NumCPU())
	result, used, err := sim.SimMP(req.Games, req.Moves, workers, false)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SimResponse{Stats: result, Seed: seed, Workers: workers, UsedTime: used.Milliseconds()})
}

// Board GET /v1/boards/{id} 完整盤面設定
func (sh *SimHandler) Board(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	bs, err := sh.Lab.Setting(id)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boardDoc(bs))
}

// Boards GET /v1/boards
func (sh *SimHandler) Boards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sh.Lab.Boards())
}

func boardDoc(bs *spec.BoardSetting) map[string]any {
	caps := make(map[string]any, len(bs.Caps))
	for k, c := range bs.Caps {
		caps[spec.PieceKind(k).String()] = c
	}
	return map[string]any{
		"setting":      bs,
		"capabilities": caps,
		"pace_ms":      bs.FillPace().Milliseconds(),
	}
}

func boardID(r *http.Request) (int, error) {
	v := chi.URLParam(r, "id")
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.NewWarn("invalid board id: " + v)
	}
	return id, nil
}
