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

// Package index 服務首頁：列出可用盤面與路由
package index

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/catalog"
)

type page struct {
	Service string            `json:"service"`
	Boards  []catalog.Summary `json:"boards"`
	Routes  []string          `json:"routes"`
}

var routes = []string{
	"GET    /v1/boards",
	"GET    /v1/boards/{id}",
	"POST   /v1/sessions",
	"POST   /v1/sessions/config",
	"GET    /v1/sessions/{id}",
	"DELETE /v1/sessions/{id}",
	"POST   /v1/sessions/{id}/press",
	"POST   /v1/sessions/{id}/enter",
	"POST   /v1/sessions/{id}/release",
	"POST   /v1/sessions/{id}/swap",
	"GET    /v1/sessions/{id}/hints",
	"GET    /v1/sessions/{id}/events",
	"GET    /v1/sessions/{id}/trace",
	"GET    /v1/sessions/{id}/state",
	"POST   /v1/sim",
}

// New 首頁 handler
func New(lab *matchlab.Lab) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page{Service: "matchlab", Boards: lab.Boards(), Routes: routes})
	}
}
