package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
)

const DefaultStripes = 64

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Reservation 單一商品的扣減需求
type Reservation struct {
	ProductID int
	Quantity  int
}

// ShortageError 指出哪個商品無法扣減
// Err 為 db.ErrStockNotEnough 或 db.ErrProductNotFound
type ShortageError struct {
	ProductID int
	Requested int
	Err       error
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("reserve product %d x%d failed: %v", e.ProductID, e.Requested, e.Err)
}

func (e *ShortageError) Unwrap() error {
	return e.Err
}

// Inventory 是 products.stock_quantity 唯一的寫入者
// 同一商品的寫入在 process 內以分片鎖序列化, 跨 process 由條件式 UPDATE 保證不為負
type Inventory struct {
	locks *stripedLock
}

func New(stripes int) *Inventory {
	return &Inventory{locks: newStripedLock(stripes)}
}

// TryReserve 扣減單一商品庫存
func (inv *Inventory) TryReserve(ctx context.Context, store db.IStockRepository, productID int, quantity int) error {
	return inv.ReserveAll(ctx, store, []Reservation{{ProductID: productID, Quantity: quantity}})
}

// ReserveAll 全部成功或全部不扣
// store 通常是 transaction 綁定的 repo, 失敗時也會補回已扣的數量
func (inv *Inventory) ReserveAll(ctx context.Context, store db.IStockRepository, reservations []Reservation) error {
	merged, err := mergeReservations(reservations)
	if err != nil {
		return err
	}
	if len(merged) == 0 {
		return nil
	}

	ids := make([]int, len(merged))
	for i, r := range merged {
		ids[i] = r.ProductID
	}
	unlock := inv.locks.lock(ids...)
	defer unlock()

	for i, r := range merged {
		if err := store.DecrementStock(ctx, r.ProductID, r.Quantity); err != nil {
			inv.compensate(ctx, store, merged[:i])
			if errors.Is(err, db.ErrStockNotEnough) || errors.Is(err, db.ErrProductNotFound) {
				return &ShortageError{ProductID: r.ProductID, Requested: r.Quantity, Err: err}
			}
			return fmt.Errorf("decrement stock of product %d: %w", r.ProductID, err)
		}
	}
	return nil
}

func (inv *Inventory) compensate(ctx context.Context, store db.IStockRepository, done []Reservation) {
	for _, r := range done {
		if _, err := store.IncrementStock(ctx, r.ProductID, r.Quantity); err != nil {
			log.Warn().Err(err).Int("product_id", r.ProductID).Int("quantity", r.Quantity).Msg("compensate reserved stock failed")
		}
	}
}

// Release 補回庫存, 回傳新的庫存量
func (inv *Inventory) Release(ctx context.Context, store db.IStockRepository, productID int, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	unlock := inv.locks.lock(productID)
	defer unlock()
	return store.IncrementStock(ctx, productID, quantity)
}

// SetQuantity 直接設定庫存, 負數視為 0
func (inv *Inventory) SetQuantity(ctx context.Context, store db.IStockRepository, productID int, quantity int) (int, error) {
	if quantity < 0 {
		quantity = 0
	}
	unlock := inv.locks.lock(productID)
	defer unlock()
	if err := store.SetStock(ctx, productID, quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}

// 相同商品合併, 依商品ID排序讓跨 process 的 row lock 順序一致
func mergeReservations(reservations []Reservation) ([]Reservation, error) {
	totals := make(map[int]int, len(reservations))
	for _, r := range reservations {
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d quantity %d", ErrInvalidQuantity, r.ProductID, r.Quantity)
		}
		totals[r.ProductID] += r.Quantity
	}

	merged := make([]Reservation, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, Reservation{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}
