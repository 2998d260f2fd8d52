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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/server/httperr"
	"github.com/zintix-labs/matchlab/server/netsvr/middleware"
)

// maxConfigBody 以設定內容建立 Session 時的 body 上限
const maxConfigBody = 1 << 20

// SessionHandler /v1/sessions
type SessionHandler struct {
	lab   *matchlab.Lab
	store *matchlab.SessionStore
	log   *slog.Logger
}

func NewSessionHandler(lab *matchlab.Lab, store *matchlab.SessionStore, log *slog.Logger) (*SessionHandler, error) {
	if lab == nil || store == nil {
		return nil, errs.NewFatal("session handler requires lab and store")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SessionHandler{lab: lab, store: store, log: log}, nil
}

// Create POST /v1/sessions {board_id|board, seed}
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeNewSessionRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	id := req.BoardID
	if req.BoardName != "" {
		if id, err = h.lab.BoardID(req.BoardName); err != nil {
			httperr.Errs(w, err)
			return
		}
	}
	seed, err := seedOrRandom(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	s, err := h.lab.NewSession(id, seed)
	if err != nil {
		httperr.Log(middleware.ReqLogger(h.log, r), "new session failed", err)
		httperr.Errs(w, err)
		return
	}
	h.put(w, s)
}

// CreateByConfig POST /v1/sessions/config?seed=  body 為 YAML 盤面設定（試玩未收錄的盤面）
func (h *SessionHandler) CreateByConfig(w http.ResponseWriter, r *http.Request) {
	var seedPtr *int64
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed must be int64"))
			return
		}
		seedPtr = &n
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBody))
	if err != nil {
		httperr.Errs(w, errs.NewWarn("read config body failed: "+err.Error()))
		return
	}
	seed, err := seedOrRandom(seedPtr)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	s, err := h.lab.NewSessionByYAML(raw, seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.put(w, s)
}

func (h *SessionHandler) put(w http.ResponseWriter, s *matchlab.Session) {
	if _, err := h.store.Put(s); err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.View())
}

// Get GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// Delete DELETE /v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if !h.store.Delete(id) {
		httperr.Errs(w, errs.ErrSessionNotFound.WithExtra(fmt.Sprintf("id=%d", id)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Press POST /v1/sessions/{id}/press {x,y}
func (h *SessionHandler) Press(w http.ResponseWriter, r *http.Request) {
	h.cellOp(w, r, matchlab.OpPress)
}

// Enter POST /v1/sessions/{id}/enter {x,y}
func (h *SessionHandler) Enter(w http.ResponseWriter, r *http.Request) {
	h.cellOp(w, r, matchlab.OpEnter)
}

// Release POST /v1/sessions/{id}/release
func (h *SessionHandler) Release(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.apply(w, r, s, matchlab.Op{Kind: matchlab.OpRelease})
}

// Swap POST /v1/sessions/{id}/swap {ax,ay,bx,by}
func (h *SessionHandler) Swap(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodeSwapRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.apply(w, r, s, matchlab.Op{Kind: matchlab.OpSwap, AX: req.AX, AY: req.AY, BX: req.BX, BY: req.BY})
}

// Hints GET /v1/sessions/{id}/hints
func (h *SessionHandler) Hints(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.NewMoveViews(s.Hints()))
}

// Events GET /v1/sessions/{id}/events?since=
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.Errs(w, errs.NewWarn("since must be non-negative integer"))
			return
		}
		since = n
	}
	writeJSON(w, http.StatusOK, dto.NewEventViews(s.Events(since)))
}

// Trace GET /v1/sessions/{id}/trace  zstd frame 下載
func (h *SessionHandler) Trace(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("session-%d.trace.zst", s.ID())))
	if err := s.ExportTrace(w); err != nil {
		httperr.Log(middleware.ReqLogger(h.log, r), "export trace failed", err)
	}
}

// State GET /v1/sessions/{id}/state  PRNG 狀態（base64url）
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	st, err := s.CoreState()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seed": s.Seed(), "core_b64u": st})
}

func (h *SessionHandler) cellOp(w http.ResponseWriter, r *http.Request, kind matchlab.OpKind) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodeCellRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.apply(w, r, s, matchlab.Op{Kind: kind, AX: req.X, AY: req.Y})
}

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, s *matchlab.Session, op matchlab.Op) {
	res, err := s.Apply(op)
	if err != nil {
		if !errors.Is(err, errs.ErrCascadeCap) {
			httperr.Errs(w, err)
			return
		}
		middleware.ReqLogger(h.log, r).Warn("cascade cap reached", slog.Uint64("session", s.ID()), slog.Any("err", err))
		res.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*matchlab.Session, bool) {
	id, err := sessionID(r)
	if err != nil {
		httperr.Errs(w, err)
		return nil, false
	}
	s, err := h.store.Get(id)
	if err != nil {
		httperr.Errs(w, err)
		return nil, false
	}
	return s, true
}

func sessionID(r *http.Request) (uint64, error) {
	v := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewWarn("invalid session id: " + v)
	}
	return id, nil
}

func seedOrRandom(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	return matchlab.RandomSeed()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
