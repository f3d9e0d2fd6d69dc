package inventory

import (
	"sort"
	"sync"
)

// stripedLock 以商品ID取模分片, 固定數量的 mutex
type stripedLock struct {
	stripes []sync.Mutex
}

func newStripedLock(n int) *stripedLock {
	if n <= 0 {
		n = DefaultStripes
	}
	return &stripedLock{stripes: make([]sync.Mutex, n)}
}

func (l *stripedLock) index(productID int) int {
	return int(uint64(int64(productID)) % uint64(len(l.stripes)))
}

// lock 一次取得多個分片, 依分片序號遞增取鎖避免死結
// 回傳的 func 以相反順序釋放
func (l *stripedLock) lock(productIDs ...int) func() {
	seen := make(map[int]struct{}, len(productIDs))
	idx := make([]int, 0, len(productIDs))
	for _, id := range productIDs {
		i := l.index(id)
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		idx = append(idx, i)
	}
	sort.Ints(idx)

	for _, i := range idx {
		l.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			l.stripes[idx[j]].Unlock()
		}
	}
}
