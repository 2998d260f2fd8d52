package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	chimid "github.com/go-chi/chi/v5/middleware"
)

func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(next)
}

// GetReqIdNumPart chi 的 request id 為 host/prefix-seq，只取流水號
func GetReqIdNumPart(r *http.Request) string {
	str := chimid.GetReqID(r.Context())
	if len(str) == 0 {
		return ""
	}
	i := strings.LastIndex(str, "-")
	if i < 0 || i+1 >= len(str) {
		return str
	}
	return str[i+1:]
}

// ReqLogger 帶上 req_id 的子 logger，handler 內記錄業務事件用
func ReqLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	if id := GetReqIdNumPart(r); id != "" {
		return log.With(slog.String("req_id", id))
	}
	return log
}
