package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
	// SkipSuffixes 路徑以這些字串結尾時不壓縮（回應本身已是 zstd frame，例如事件紀錄下載）
	SkipSuffixes []string
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel:    gzip.DefaultCompression,
	ZstdLevel:    zstd.SpeedFastest,
	SkipSuffixes: []string{"/trace"},
}

func skipByPath(path string) bool {
	for _, suf := range DefaultCompressConfig.SkipSuffixes {
		if strings.HasSuffix(path, suf) {
			return true
		}
	}
	return false
}

// 204 / 304 / 1xx 不能帶 body
func isNoBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// encoder gzip.Writer 與 zstd.Encoder 共同的部分
type encoder interface {
	io.WriteCloser
	Reset(w io.Writer)
	Flush() error
}

// codec 一種 Content-Encoding 與它的 writer pool
type codec struct {
	name string
	pool sync.Pool
}

func (c *codec) get(w io.Writer) encoder {
	e := c.pool.Get().(encoder)
	e.Reset(w)
	return e
}

// release 停用壓縮時先導到 io.Discard，Close 產生的 footer 不會寫進 204/304
func (c *codec) release(e encoder, discard bool) {
	if discard {
		e.Reset(io.Discard)
	}
	_ = e.Close()
	c.pool.Put(e)
}

// 依偏好順序
var codecs = []*codec{
	{name: "zstd", pool: sync.Pool{New: func() any {
		zw, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(DefaultCompressConfig.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}}},
	{name: "gzip", pool: sync.Pool{New: func() any {
		gw, _ := gzip.NewWriterLevel(nil, DefaultCompressConfig.GzipLevel)
		return gw
	}}},
}

func pickCodec(accept string) *codec {
	for _, c := range codecs {
		if strings.Contains(accept, c.name) {
			return c
		}
	}
	return nil
}

type compressResponseWriter struct {
	http.ResponseWriter
	enc      encoder
	disabled bool // 回應狀態碼不允許 body 時停用
}

func (cw *compressResponseWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	// 隱式 WriteHeader 前先清掉未壓縮長度並補上 Content-Type
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressResponseWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if isNoBodyStatus(code) {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressResponseWriter) Flush() {
	if !cw.disabled {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應。
// HEAD、已帶 Content-Encoding 或路徑在 SkipSuffixes 內的回應原樣通過。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || w.Header().Get("Content-Encoding") != "" || skipByPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		c := pickCodec(r.Header.Get("Accept-Encoding"))
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", c.name)
		w.Header().Add("Vary", "Accept-Encoding")
		cw := &compressResponseWriter{ResponseWriter: w, enc: c.get(w)}
		defer func() { c.release(cw.enc, cw.disabled) }()
		next.ServeHTTP(cw, r)
	})
}
