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

// Package corefmt 處理 session 狀態在外部傳輸時的編碼：
// PRNG 快照以 base64url 放進 JSON，事件軌跡以 zstd 壓縮後加上長度前綴輸出。
package corefmt

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/matchlab/errs"
)

// EncodeState PRNG 快照 -> URL 安全字串
func EncodeState(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeState EncodeState 的反向
func DecodeState(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64url failed")
	}
	return b, nil
}

// WriteFrame 以 zstd 壓縮 payload，寫出 uvarint(len(compressed)) || compressed
func WriteFrame(w io.Writer, payload []byte) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return errs.Wrap(err, "create zstd encoder failed")
	}
	defer enc.Close()
	compressed := enc.EncodeAll(payload, nil)

	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(compressed)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return errs.Wrap(err, "write frame header failed")
	}
	if _, err := w.Write(compressed); err != nil {
		return errs.Wrap(err, "write frame payload failed")
	}
	return nil
}

// ReadFrame 讀回 WriteFrame 的內容並解壓。
// maxBytes 限制壓縮後與解壓後的大小，避免不受信任的輸入造成大量配置；0 表示不限制。
func ReadFrame(r io.Reader, maxBytes uint64) ([]byte, error) {
	br := bufio.NewReader(r)
	ln, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, errs.Wrap(err, "read frame header failed")
	}
	if maxBytes > 0 && ln > maxBytes {
		return nil, errs.NewWarn("read frame failed: payload exceeds maxBytes")
	}
	compressed := make([]byte, ln)
	if _, err := io.ReadFull(br, compressed); err != nil {
		return nil, errs.Wrap(err, "read frame payload failed")
	}

	opts := []zstd.DOption{}
	if maxBytes > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(maxBytes))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd decoder failed")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errs.Wrap(err, "zstd decode failed")
	}
	return out, nil
}
