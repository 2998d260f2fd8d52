// Package app 定義應用程式根目錄用以管理長期運行元件的最小生命週期抽象。
package app

import "context"

// Component 抽象任何「可啟動 / 可關閉」的長生命週期元件。
// - Run() 應該是阻塞呼叫，直到元件停止為止（正常或錯誤）。
// - Shutdown(ctx) 用於要求優雅關閉；實作方應該尊重 ctx deadline/cancel。
// 典型實例：HTTP Server、Session 回收迴圈。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Funcs 以兩個函式組成 Component，適合不想另外定義型別的背景迴圈
type Funcs struct {
	Name       string
	RunFn      func() error
	ShutdownFn func(ctx context.Context) error
}

func (f Funcs) Run() error {
	if f.RunFn == nil {
		return nil
	}
	return f.RunFn()
}

func (f Funcs) Shutdown(ctx context.Context) error {
	if f.ShutdownFn == nil {
		return nil
	}
	return f.ShutdownFn(ctx)
}
