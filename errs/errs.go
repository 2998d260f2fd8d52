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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : 錯誤嚴重度，讓最上層（HTTP / CLI）決定如何回應
type ErrLevel uint8

const (
	None  ErrLevel = iota
	Fatal          // 設定錯誤、內部不一致，需中止
	Warn           // 呼叫端可修正的請求錯誤
	Log            // 僅需記錄
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// E 是整個 matchlab 共用的錯誤型別。
// Code 為穩定的機器可讀代碼（可為空），Message 為人類可讀主訊息，
// Extra 為附加上下文，Cause 為被包裝的下層錯誤。
type E struct {
	Code    string
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Code != "" {
		base = fmt.Sprintf("errlv=%s [%s] %s", e.ErrLv, e.Code, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能向下展開
func (e *E) Unwrap() error { return e.Cause }

// Is 以 Code 比對，使 errors.Is(err, ErrCascadeCap) 對包裝後的錯誤也成立
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithExtra 回傳附帶額外上下文的複本，不修改原錯誤（哨兵錯誤可安全使用）
func (e *E) WithExtra(extra string) *E {
	c := *e
	c.Extra = extra
	return &c
}

// New 以指定等級建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func NewLog(msg string) *E { return New(Log, msg) }

func Fatalf(format string, a ...any) *E { return NewFatal(fmt.Sprintf(format, a...)) }

func Warnf(format string, a ...any) *E { return NewWarn(fmt.Sprintf(format, a...)) }

// Wrap 包裝下層錯誤。
//
// 若 cause 已是 *E，沿用其 ErrLv 與 Code；
// 其他（標準庫、三方套件）錯誤一律視為 Fatal。
// 可預期的情境請直接用 New / Warnf 建立，而不是 Wrap。
func Wrap(cause error, msg string) *E {
	r := NewFatal(msg)
	if e, ok := AsErr(cause); ok {
		r.ErrLv = e.ErrLv
		r.Code = e.Code
	}
	r.Cause = cause
	return r
}

// WrapWithExtra 同 Wrap，另附上下文
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

// AsErr 取出錯誤鏈中的 *E
func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Level 回傳錯誤等級，非 *E 視為 Fatal，nil 為 None
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
