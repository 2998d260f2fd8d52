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

package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zintix-labs/matchlab/errs"
)

// maxBody POST body 上限（1MiB）
const maxBody = 1 << 20

// 模擬請求的預設值與上限
const (
	DefaultSimMoves = 30
	MaxSimGames     = 1_000_000
	MaxSimMoves     = 10_000
	MaxSimWorkers   = 256
)

// NewSessionRequest 建立 Session。board_id 與 board 擇一；seed 省略時由伺服器產生。
type NewSessionRequest struct {
	BoardID   int    `json:"board_id"`
	BoardName string `json:"board,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

// CellRequest 按下 / 拖曳進入的格子
type CellRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SwapRequest 直接交換兩格
type SwapRequest struct {
	AX int `json:"ax"`
	AY int `json:"ay"`
	BX int `json:"bx"`
	BY int `json:"by"`
}

// SimRequest 模擬請求
type SimRequest struct {
	BoardID int    `json:"board_id"`
	Games   int    `json:"games"`
	Moves   int    `json:"moves"`   // 每局最多交換次數，0 表示預設值
	Workers int    `json:"workers"` // 0 表示 1
	Seed    *int64 `json:"seed,omitempty"`
}

// Normalize 補預設值並檢查範圍
func (r *SimRequest) Normalize() error {
	if r.Moves == 0 {
		r.Moves = DefaultSimMoves
	}
	if r.Workers == 0 {
		r.Workers = 1
	}
	switch {
	case r.Games < 1 || r.Games > MaxSimGames:
		return errs.NewWarn(fmt.Sprintf("games must be in [1,%d]", MaxSimGames))
	case r.Moves < 1 || r.Moves > MaxSimMoves:
		return errs.NewWarn(fmt.Sprintf("moves must be in [1,%d]", MaxSimMoves))
	case r.Workers < 1 || r.Workers > MaxSimWorkers:
		return errs.NewWarn(fmt.Sprintf("workers must be in [1,%d]", MaxSimWorkers))
	}
	return nil
}

// DecodeNewSessionRequest 支援 GET（query: board_id/board/seed）與 POST（JSON）
func DecodeNewSessionRequest(r *http.Request) (*NewSessionRequest, error) {
	req := new(NewSessionRequest)
	err := decode(r, req, func(q url.Values) error {
		var err error
		if req.BoardID, err = queryInt(q, "board_id"); err != nil {
			return err
		}
		req.BoardName = q.Get("board")
		req.Seed, err = querySeed(q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeCellRequest 支援 GET（query: x/y）與 POST（JSON）
func DecodeCellRequest(r *http.Request) (*CellRequest, error) {
	req := new(CellRequest)
	err := decode(r, req, func(q url.Values) error {
		var err error
		if req.X, err = queryInt(q, "x"); err != nil {
			return err
		}
		req.Y, err = queryInt(q, "y")
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeSwapRequest 支援 GET（query: ax/ay/bx/by）與 POST（JSON）
func DecodeSwapRequest(r *http.Request) (*SwapRequest, error) {
	req := new(SwapRequest)
	err := decode(r, req, func(q url.Values) error {
		var err error
		for _, f := range []struct {
			key string
			dst *int
		}{{"ax", &req.AX}, {"ay", &req.AY}, {"bx", &req.BX}, {"by", &req.BY}} {
			if *f.dst, err = queryInt(q, f.key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeSimRequest 支援 GET（query: board_id/games/moves/workers/seed）與 POST（JSON），並套用 Normalize
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	req := new(SimRequest)
	err := decode(r, req, func(q url.Values) error {
		var err error
		if req.BoardID, err = queryInt(q, "board_id"); err != nil {
			return err
		}
		if req.Games, err = queryInt(q, "games"); err != nil {
			return err
		}
		if req.Moves, err = queryInt(q, "moves"); err != nil {
			return err
		}
		if req.Workers, err = queryInt(q, "workers"); err != nil {
			return err
		}
		req.Seed, err = querySeed(q)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	return req, nil
}

// decode GET 走 fromQuery；POST 解 JSON（限制大小、拒絕未知欄位）
func decode(r *http.Request, dst any, fromQuery func(url.Values) error) error {
	if r == nil {
		return errs.NewWarn("nil request")
	}
	switch r.Method {
	case http.MethodGet:
		return fromQuery(r.URL.Query())
	case http.MethodPost:
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return errs.NewWarn("empty request body")
			}
			return errs.NewWarn(fmt.Sprintf("invalid json: %v", err))
		}
		return nil
	default:
		return errs.NewWarn("method not allowed")
	}
}

func queryInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewWarn(fmt.Sprintf("invalid %s: %v", key, err))
	}
	return v, nil
}

func querySeed(q url.Values) (*int64, error) {
	s := q.Get("seed")
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errs.NewWarn(fmt.Sprintf("invalid seed: %v", err))
	}
	return &v, nil
}
