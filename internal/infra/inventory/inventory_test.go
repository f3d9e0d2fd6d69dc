package inventory

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racyStore 讀與寫分開取鎖, 沒有外部序列化就會超賣
type racyStore struct {
	mu       sync.Mutex
	stock    map[int]int
	negative atomic.Bool
}

func newRacyStore(stock map[int]int) *racyStore {
	return &racyStore{stock: stock}
}

func (s *racyStore) read(id int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.stock[id]
	return v, ok
}

func (s *racyStore) write(id, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v < 0 {
		s.negative.Store(true)
	}
	s.stock[id] = v
}

func (s *racyStore) GetStock(ctx context.Context, productID int) (int, error) {
	v, ok := s.read(productID)
	if !ok {
		return 0, db.ErrProductNotFound
	}
	return v, nil
}

func (s *racyStore) DecrementStock(ctx context.Context, productID int, quantity int) error {
	v, ok := s.read(productID)
	if !ok {
		return db.ErrProductNotFound
	}
	if v < quantity {
		return db.ErrStockNotEnough
	}
	runtime.Gosched()
	s.write(productID, v-quantity)
	return nil
}

func (s *racyStore) IncrementStock(ctx context.Context, productID int, quantity int) (int, error) {
	v, ok := s.read(productID)
	if !ok {
		return 0, db.ErrProductNotFound
	}
	s.write(productID, v+quantity)
	return v + quantity, nil
}

func (s *racyStore) SetStock(ctx context.Context, productID int, quantity int) error {
	if _, ok := s.read(productID); !ok {
		return db.ErrProductNotFound
	}
	s.write(productID, quantity)
	return nil
}

func TestTryReserve_ConcurrentNeverNegative(t *testing.T) {
	store := newRacyStore(map[int]int{1: 10})
	inv := New(8)
	ctx := context.Background()

	var wg sync.WaitGroup
	var success atomic.Int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := inv.TryReserve(ctx, store, 1, 1); err == nil {
				success.Add(1)
			}
		}()
	}
	wg.Wait()

	stock, err := store.GetStock(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0, stock)
	require.EqualValues(t, 10, success.Load())
}

// 多商品購物車以不同順序重疊, 商品 1 是瓶頸, 成功數必須剛好等於它的庫存
func TestReserveAll_ConcurrentOverlappingCarts(t *testing.T) {
	store := newRacyStore(map[int]int{1: 25, 2: 1000, 3: 1000, 4: 1000})
	// 2 個分片讓不同商品互相搶同一把鎖
	inv := New(2)
	ctx := context.Background()

	carts := [][]Reservation{
		{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
		{{ProductID: 2, Quantity: 1}, {ProductID: 1, Quantity: 1}},
		{{ProductID: 4, Quantity: 1}, {ProductID: 3, Quantity: 3}, {ProductID: 1, Quantity: 1}},
		{{ProductID: 3, Quantity: 1}, {ProductID: 1, Quantity: 1}, {ProductID: 4, Quantity: 2}},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0
	reserved := map[int]int{}
	for i := 0; i < 200; i++ {
		cart := carts[i%len(carts)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := inv.ReserveAll(ctx, store, cart)
			if err != nil {
				assert.ErrorIs(t, err, db.ErrStockNotEnough)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			success++
			for _, r := range cart {
				reserved[r.ProductID] += r.Quantity
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("reservations did not finish, possible deadlock")
	}

	require.False(t, store.negative.Load())
	require.Equal(t, 25, success)
	for id, initial := range map[int]int{1: 25, 2: 1000, 3: 1000, 4: 1000} {
		stock, err := store.GetStock(ctx, id)
		require.NoError(t, err)
		require.Equal(t, initial-reserved[id], stock, "product %d", id)
	}
}

// 每個商品都稀缺, 失敗的購物車要把已扣的補回去
func TestReserveAll_ConcurrentScarceProducts(t *testing.T) {
	initial := map[int]int{1: 7, 2: 5, 3: 9}
	store := newRacyStore(map[int]int{1: 7, 2: 5, 3: 9})
	inv := New(DefaultStripes)
	ctx := context.Background()

	carts := [][]Reservation{
		{{ProductID: 3, Quantity: 1}, {ProductID: 1, Quantity: 1}},
		{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}, {ProductID: 3, Quantity: 1}},
		{{ProductID: 2, Quantity: 1}, {ProductID: 3, Quantity: 2}},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := map[int]int{}
	for i := 0; i < 120; i++ {
		cart := carts[i%len(carts)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := inv.ReserveAll(ctx, store, cart); err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, r := range cart {
				reserved[r.ProductID] += r.Quantity
			}
		}()
	}
	wg.Wait()

	require.False(t, store.negative.Load())
	for id, qty := range initial {
		stock, err := store.GetStock(ctx, id)
		require.NoError(t, err)
		require.GreaterOrEqual(t, stock, 0)
		require.Equal(t, qty-reserved[id], stock, "product %d", id)
	}
}

func TestReserveAll_AllOrNothing(t *testing.T) {
	store := newRacyStore(map[int]int{1: 5, 2: 0})
	inv := New(DefaultStripes)
	ctx := context.Background()

	err := inv.ReserveAll(ctx, store, []Reservation{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}})

	var shortage *ShortageError
	require.True(t, errors.As(err, &shortage))
	require.Equal(t, 2, shortage.ProductID)
	require.ErrorIs(t, err, db.ErrStockNotEnough)

	stock, _ := store.GetStock(ctx, 1)
	require.Equal(t, 5, stock)
}

func TestReserveAll_MergesSameProduct(t *testing.T) {
	store := newRacyStore(map[int]int{1: 3})
	inv := New(DefaultStripes)
	ctx := context.Background()

	err := inv.ReserveAll(ctx, store, []Reservation{{ProductID: 1, Quantity: 2}, {ProductID: 1, Quantity: 2}})
	require.ErrorIs(t, err, db.ErrStockNotEnough)

	require.NoError(t, inv.ReserveAll(ctx, store, []Reservation{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 2}}))
	stock, _ := store.GetStock(ctx, 1)
	require.Equal(t, 0, stock)

	require.ErrorIs(t, inv.ReserveAll(ctx, store, []Reservation{{ProductID: 1, Quantity: 0}}), ErrInvalidQuantity)
	require.NoError(t, inv.ReserveAll(ctx, store, nil))
}

func TestReserveAll_MissingProduct(t *testing.T) {
	store := newRacyStore(map[int]int{})
	inv := New(DefaultStripes)

	err := inv.TryReserve(context.Background(), store, 42, 1)
	require.ErrorIs(t, err, db.ErrProductNotFound)
}

func TestSetQuantityAndRelease(t *testing.T) {
	store := newRacyStore(map[int]int{1: 5})
	inv := New(DefaultStripes)
	ctx := context.Background()

	qty, err := inv.SetQuantity(ctx, store, 1, -3)
	require.NoError(t, err)
	require.Equal(t, 0, qty)

	qty, err = inv.Release(ctx, store, 1, 4)
	require.NoError(t, err)
	require.Equal(t, 4, qty)

	_, err = inv.Release(ctx, store, 1, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = inv.SetQuantity(ctx, store, 99, 1)
	require.ErrorIs(t, err, db.ErrProductNotFound)
}

func TestStripedLock_MultipleIDsSameStripe(t *testing.T) {
	l := newStripedLock(4)
	// 1 與 5 落在同一分片, 不可重複上鎖
	unlock := l.lock(5, 1, 2)
	unlock()

	unlock = l.lock(1)
	unlock()
}
