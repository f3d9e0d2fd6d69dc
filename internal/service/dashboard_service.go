package service

import (
	"context"
	"reflect"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"golang.org/x/sync/errgroup"
)

type IDashboardService interface {
	// Dashboard 後台首頁統計, 各項查詢並行
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

type DashboardService struct {
	store db.UnifiedDB
	now   Clock
}

func NewDashboardService(store db.UnifiedDB) *DashboardService {
	if store == nil || reflect.ValueOf(store).IsNil() {
		panic("dashboard service initialization failed: store cannot be nil")
	}
	return &DashboardService{store: store, now: utcNow}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *DashboardService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	today := startOfDay(s.now())

	var (
		byStatus map[model.OrderStatus]int64
		buckets  model.StockBucketCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.store.CountActiveProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalOrders, err = s.store.CountOrders(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCustomers, err = s.store.CountUsersByRole(gctx, model.RoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.store.SumRevenue(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayOrders, err = s.store.CountOrders(gctx, &today)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayRevenue, err = s.store.SumRevenue(gctx, &today)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.store.CountOrdersByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		buckets, err = s.store.CountStockBuckets(gctx, constants.LowStockThreshold)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentOrders, err = s.store.GetRecentOrders(gctx, constants.DefaultRecentOrders)
		return err
	})
	g.Go(func() (err error) {
		stats.LowStockProducts, err = s.store.GetLowStockProducts(gctx, constants.LowStockThreshold, constants.DefaultLowStockListed)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, persistErr("load dashboard failed", err)
	}

	if byStatus == nil {
		byStatus = map[model.OrderStatus]int64{}
	}
	stats.OrdersByStatus = byStatus
	stats.PendingOrders = byStatus[model.OrderStatusPending]
	stats.ProcessingOrders = byStatus[model.OrderStatusProcessing]
	stats.ShippedOrders = byStatus[model.OrderStatusShipped]
	stats.CompletedOrders = byStatus[model.OrderStatusCompleted]
	stats.LowStockCount = buckets.LowStock
	stats.OutOfStockCount = buckets.OutOfStock
	if stats.RecentOrders == nil {
		stats.RecentOrders = []model.Order{}
	}
	if stats.LowStockProducts == nil {
		stats.LowStockProducts = []model.Product{}
	}
	return stats, nil
}

var _ IDashboardService = (*DashboardService)(nil)
