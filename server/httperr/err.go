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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/matchlab/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則：
//   - ctx timeout/cancel     → 504/408
//   - 找不到盤面 / Session   → 404
//   - 盤面連鎖中（ErrBusy）   → 409
//   - 設定不合法             → 422
//   - 其他 errs.Warn         → 400
//   - errs.Fatal 與外部錯誤   → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, errs.ErrBoardNotFound), errors.Is(err, errs.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	}

	switch errs.Level(err) {
	case errs.Warn, errs.Log:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Body 錯誤回應
type Body struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"error"`
}

// Errs 以 JSON 寫回錯誤
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	body := Body{Message: err.Error()}
	if e, ok := errs.AsErr(err); ok {
		body.Code = e.Code
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Log 只記錄伺服器端需要關注的錯誤（逾時、衝突、5xx）
func Log(log *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Any("err", err))
	}
}
