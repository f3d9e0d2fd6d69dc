package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

/*
單機版固定窗口, 每個 key 一個窗口
會有突刺問題
過期的 key 每隔一個窗口長度清一次, 避免來源 IP 一直累積
*/
type FixedWindow struct {
	config    LimiterConfig
	windows   sync.Map // key -> *window
	lastSweep atomic.Int64
	now       func() time.Time
}

type window struct {
	mu        sync.Mutex
	count     int
	startedAt time.Time
	removed   bool // 已從 map 移除, 持有舊指標的呼叫需要重新取得
}

func NewFixedWindow(config LimiterConfig) *FixedWindow {
	return &FixedWindow{config: config.normalize(), now: time.Now}
}

func (f *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	current := f.now()
	f.sweep(current)

	for {
		v, _ := f.windows.LoadOrStore(key, &window{startedAt: current})
		w := v.(*window)

		w.mu.Lock()
		if w.removed {
			w.mu.Unlock()
			continue
		}
		if current.Sub(w.startedAt) >= f.config.Window {
			w.count = 0
			w.startedAt = current
		}
		allowed := w.count < f.config.Capacity
		if allowed {
			w.count++
		}
		w.mu.Unlock()
		return allowed, nil
	}
}

// sweep 同一時間只有一個呼叫會掃描
func (f *FixedWindow) sweep(current time.Time) {
	last := f.lastSweep.Load()
	if current.UnixNano()-last < int64(f.config.Window) {
		return
	}
	if !f.lastSweep.CompareAndSwap(last, current.UnixNano()) {
		return
	}

	f.windows.Range(func(k, v any) bool {
		w := v.(*window)
		w.mu.Lock()
		if current.Sub(w.startedAt) >= f.config.Window {
			w.removed = true
			f.windows.CompareAndDelete(k, w)
		}
		w.mu.Unlock()
		return true
	})
}

func (f *FixedWindow) size() int {
	n := 0
	f.windows.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

var _ ILimiter = (*FixedWindow)(nil)
