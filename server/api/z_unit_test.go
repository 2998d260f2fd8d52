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

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/server/httperr"
	"github.com/zintix-labs/matchlab/server/netsvr"
	"github.com/zintix-labs/matchlab/server/svrcfg"
	"github.com/zintix-labs/matchlab/stats"
)

const boardYAML = `
name: classic
id: 1
rows: 6
columns: 6
shapes:
  - { name: ruby }
  - { name: emerald }
  - { name: sapphire }
  - { name: topaz }
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	lab, err := matchlab.New(fstest.MapFS{"classic.yaml": {Data: []byte(boardYAML)}})
	if err != nil {
		t.Fatal(err)
	}
	cfg := &svrcfg.SvrCfg{Log: slog.New(slog.DiscardHandler), Lab: lab}
	if err := cfg.Valid(); err != nil {
		t.Fatal(err)
	}
	store := matchlab.NewSessionStore(time.Minute, 16)
	t.Cleanup(store.Close)
	svr := netsvr.NewChiServer(":0")
	if err := RegisterRoutes(svr, cfg, store); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	// 關閉 client 端自動 gzip，方便檢查 Content-Encoding
	req.Header.Set("Accept-Encoding", "identity")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func createSession(t *testing.T, ts *httptest.Server, seed int64) dto.BoardView {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{"board_id": 1, "seed": seed})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	return decodeBody[dto.BoardView](t, resp)
}

func TestIndexListsBoards(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	page := decodeBody[struct {
		Service string
		Boards  []struct{ ID int }
	}](t, resp)
	if page.Service != "matchlab" || len(page.Boards) != 1 || page.Boards[0].ID != 1 {
		t.Fatalf("unexpected index: %+v", page)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	v := createSession(t, ts, 42)
	if v.SessionID == 0 || v.Seed != 42 || v.Rows != 6 || v.State != "idle" {
		t.Fatalf("unexpected view: %+v", v)
	}
	base := fmt.Sprintf("%s/v1/sessions/%d", ts.URL, v.SessionID)

	got := decodeBody[dto.BoardView](t, do(t, http.MethodGet, base, nil))
	if strings.Join(got.Layout, "/") != strings.Join(v.Layout, "/") {
		t.Fatalf("layout changed between reads")
	}

	hints := decodeBody[[]dto.MoveView](t, do(t, http.MethodGet, base+"/hints", nil))
	if len(hints) > 0 {
		mv := hints[0]
		resp := do(t, http.MethodPost, base+"/swap", mv)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("swap status %d", resp.StatusCode)
		}
		res := decodeBody[dto.ActionResult](t, resp)
		if !res.Accepted || len(res.Events) < 5 || res.Events[0].Kind != "moved" {
			t.Fatalf("unexpected swap result: accepted=%v events=%d", res.Accepted, len(res.Events))
		}
	}

	resp := do(t, http.MethodGet, base+"/trace", nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Encoding") != "" {
		t.Fatalf("trace: status %d encoding %q", resp.StatusCode, resp.Header.Get("Content-Encoding"))
	}
	doc, err := matchlab.ReadTrace(resp.Body, 1<<24)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Seed != 42 || len(doc.Events) < 36 {
		t.Fatalf("unexpected trace: seed=%d events=%d", doc.Seed, len(doc.Events))
	}

	if resp := do(t, http.MethodDelete, base, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 after delete, got %d", resp.StatusCode)
	}
	body := decodeBody[httperr.Body](t, resp)
	if body.Code != "session_not_found" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestGestureEndpoints(t *testing.T) {
	ts := newTestServer(t)
	v := createSession(t, ts, 7)
	base := fmt.Sprintf("%s/v1/sessions/%d", ts.URL, v.SessionID)

	res := decodeBody[dto.ActionResult](t, do(t, http.MethodPost, base+"/press", dto.CellRequest{X: 0, Y: 0}))
	if !res.Accepted || res.Board.State != "selecting" {
		t.Fatalf("press: %+v", res)
	}
	res = decodeBody[dto.ActionResult](t, do(t, http.MethodPost, base+"/enter", dto.CellRequest{X: 3, Y: 3}))
	if !res.Accepted {
		t.Fatalf("enter rejected")
	}
	// 不相鄰：放開後回到 idle，不交換
	res = decodeBody[dto.ActionResult](t, do(t, http.MethodPost, base+"/release", nil))
	if res.Accepted || res.Board.State != "idle" || len(res.Events) != 0 {
		t.Fatalf("release: %+v", res)
	}

	resp := do(t, http.MethodPost, base+"/press", dto.CellRequest{X: 6, Y: 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out of bounds: want 400, got %d", resp.StatusCode)
	}
	if body := decodeBody[httperr.Body](t, resp); body.Code != "out_of_bounds" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodPost, "/v1/sessions", map[string]any{"board_id": 9}, http.StatusNotFound},
		{http.MethodPost, "/v1/sessions", map[string]any{"board": "nope"}, http.StatusNotFound},
		{http.MethodPost, "/v1/sessions", map[string]any{"bogus": 1}, http.StatusBadRequest},
		{http.MethodGet, "/v1/sessions/abc", nil, http.StatusBadRequest},
		{http.MethodGet, "/v1/sessions/12345", nil, http.StatusNotFound},
		{http.MethodGet, "/v1/boards/x", nil, http.StatusBadRequest},
		{http.MethodGet, "/v1/boards/9", nil, http.StatusNotFound},
		{http.MethodGet, "/v1/boards/1", nil, http.StatusOK},
	}
	for _, c := range cases {
		resp := do(t, c.method, ts.URL+c.path, c.body)
		if resp.StatusCode != c.want {
			t.Errorf("%s %s: want %d, got %d", c.method, c.path, c.want, resp.StatusCode)
		}
	}
}

func TestCreateSessionByConfig(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/sessions/config?seed=3", "application/yaml", strings.NewReader(strings.Replace(boardYAML, "classic", "draft", 1)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}
	v := decodeBody[dto.BoardView](t, resp)
	if v.BoardName != "draft" || v.Seed != 3 {
		t.Fatalf("unexpected view %+v", v)
	}

	bad, err := http.Post(ts.URL+"/v1/sessions/config", "application/yaml", strings.NewReader("name: x\nrows: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("invalid config: want 422, got %d", bad.StatusCode)
	}

	for _, raw := range []string{
		"name: huge\nrows: 4294967296\ncolumns: 4294967296\nshapes: [{name: a}, {name: b}, {name: c}]\n",
		"name: wide\nrows: 8\ncolumns: 1000000\nshapes: [{name: a}, {name: b}, {name: c}]\n",
	} {
		huge, err := http.Post(ts.URL+"/v1/sessions/config", "application/yaml", strings.NewReader(raw))
		if err != nil {
			t.Fatal(err)
		}
		huge.Body.Close()
		if huge.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("oversized board: want 422, got %d", huge.StatusCode)
		}
	}
}

func TestSimEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/v1/sim", map[string]any{"board_id": 1, "games": 4, "moves": 3, "seed": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	out := decodeBody[struct {
		Stats *stats.CascadeReport `json:"stats"`
		Seed  int64                `json:"seed"`
	}](t, resp)
	if out.Seed != 1 || out.Stats == nil || out.Stats.Summary.Games != 4 {
		t.Fatalf("unexpected sim response: %+v", out)
	}

	if resp := do(t, http.MethodPost, ts.URL+"/v1/sim", map[string]any{"board_id": 1, "games": 0}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("games=0: want 400, got %d", resp.StatusCode)
	}
}

func TestIndexCompressed(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("want gzip, got %q", resp.Header.Get("Content-Encoding"))
	}
}
