package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cartKey struct {
	userID    int
	productID int
}

type memState struct {
	products   map[int]model.Product
	categories map[int]model.Category
	cart       map[cartKey]model.CartItem
	orders     map[int]model.Order
	users      map[int]model.User
	nextID     int
}

func (s memState) clone() memState {
	c := memState{
		products:   make(map[int]model.Product, len(s.products)),
		categories: make(map[int]model.Category, len(s.categories)),
		cart:       make(map[cartKey]model.CartItem, len(s.cart)),
		orders:     make(map[int]model.Order, len(s.orders)),
		users:      make(map[int]model.User, len(s.users)),
		nextID:     s.nextID,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.cart {
		c.cart[k] = v
	}
	for k, v := range s.orders {
		v.OrderDetails = append([]model.OrderDetail(nil), v.OrderDetails...)
		c.orders[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// memStore 以 map 實作 db.UnifiedDB, transaction 失敗時還原快照
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	memState

	failCreateOrder error
	failClearCart   error
	failSearch      error
}

func newMemStore() *memStore {
	return &memStore{memState: memState{
		products:   map[int]model.Product{},
		categories: map[int]model.Category{},
		cart:       map[cartKey]model.CartItem{},
		orders:     map[int]model.Order{},
		users:      map[int]model.User{},
	}}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx db.UnifiedDB) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.memState.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.memState = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// ---- helpers for tests ----

func (m *memStore) addCategory(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.categories[id] = model.Category{CategoryID: id, Name: name, IsActive: true}
	return id
}

func (m *memStore) addProduct(name string, price string, stock int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	now := time.Now().UTC()
	p := model.Product{
		ProductID:     id,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	p.CreatedAt = now.Add(time.Duration(id) * time.Millisecond)
	m.products[id] = p
	return id
}

func (m *memStore) stock(productID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID].StockQuantity
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memStore) cartLen(userID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.cart {
		if k.userID == userID {
			n++
		}
	}
	return n
}

func (m *memStore) productCopy(id int) *model.Product {
	p, ok := m.products[id]
	if !ok {
		return nil
	}
	if c, ok := m.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return &p
}

// ---- IProductRepository ----

func (m *memStore) CreateProduct(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ProductID = m.id()
	p := *product
	p.Category = nil
	m.products[p.ProductID] = p
	return nil
}

func (m *memStore) GetProductByID(_ context.Context, productID int) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.productCopy(productID)
	if p == nil {
		return nil, db.ErrProductNotFound
	}
	return p, nil
}

func (m *memStore) UpdateProduct(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.products[product.ProductID]
	if !ok {
		return db.ErrProductNotFound
	}
	stock := cur.StockQuantity
	created := cur.CreatedAt
	cur = *product
	cur.Category = nil
	cur.StockQuantity = stock
	cur.CreatedAt = created
	m.products[product.ProductID] = cur
	return nil
}

func (m *memStore) SearchProducts(_ context.Context, q model.ProductQuery) ([]model.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSearch != nil {
		return nil, 0, m.failSearch
	}
	var all []model.Product
	for id := range m.products {
		p := *m.productCopy(id)
		if !q.IncludeInactive && !p.IsActive {
			continue
		}
		if q.CategoryID > 0 && p.CategoryID != q.CategoryID {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if q.InStockOnly && p.StockQuantity <= 0 {
			continue
		}
		if q.Search != "" {
			hay := strings.ToLower(p.Name + " " + p.Description + " " + p.Brand)
			if !strings.Contains(hay, q.Search) {
				continue
			}
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		var less bool
		switch q.SortBy {
		case model.ProductSortPrice:
			if !a.Price.Equal(b.Price) {
				less = a.Price.LessThan(b.Price)
				if q.SortDesc {
					less = !less
				}
				return less
			}
		case model.ProductSortName:
			if a.Name != b.Name {
				less = a.Name < b.Name
				if q.SortDesc {
					less = !less
				}
				return less
			}
		default:
			if a.IsFeatured != b.IsFeatured {
				return a.IsFeatured
			}
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		}
		return a.ProductID < b.ProductID
	})

	total := int64(len(all))
	start := (q.Page - 1) * q.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memStore) GetFeaturedProducts(_ context.Context, limit int) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Product
	for id, p := range m.products {
		if p.IsActive && p.IsFeatured && p.StockQuantity > 0 {
			out = append(out, *m.productCopy(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID > out[j].ProductID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetLowStockProducts(_ context.Context, threshold int, limit int) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Product
	for _, p := range m.products {
		if p.IsActive && p.StockQuantity < threshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StockQuantity != out[j].StockQuantity {
			return out[i].StockQuantity < out[j].StockQuantity
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CountActiveProducts(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountStockBuckets(_ context.Context, threshold int) (model.StockBucketCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c model.StockBucketCounts
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		switch {
		case p.StockQuantity <= 0:
			c.OutOfStock++
		case p.StockQuantity < threshold:
			c.LowStock++
		default:
			c.InStock++
		}
	}
	return c, nil
}

func (m *memStore) HasOrderHistory(_ context.Context, productID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		for _, d := range o.OrderDetails {
			if d.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memStore) DeactivateProduct(_ context.Context, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	p.IsActive = false
	p.IsFeatured = false
	m.products[productID] = p
	return nil
}

func (m *memStore) HardDeleteProduct(_ context.Context, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[productID]; !ok {
		return db.ErrProductNotFound
	}
	for k := range m.cart {
		if k.productID == productID {
			delete(m.cart, k)
		}
	}
	delete(m.products, productID)
	return nil
}

// ---- ICategoryRepository ----

func (m *memStore) CreateCategory(_ context.Context, category *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.CategoryID = m.id()
	m.categories[category.CategoryID] = *category
	return nil
}

func (m *memStore) GetCategoryByID(_ context.Context, categoryID int) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[categoryID]
	if !ok {
		return nil, db.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *memStore) ListCategories(_ context.Context, activeOnly bool) ([]model.CategoryWithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CategoryWithCount
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		var n int64
		for _, p := range m.products {
			if p.CategoryID == c.CategoryID && p.IsActive {
				n++
			}
		}
		out = append(out, model.CategoryWithCount{Category: c, ProductCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

// ---- IStockRepository ----

func (m *memStore) GetStock(_ context.Context, productID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return 0, db.ErrProductNotFound
	}
	return p.StockQuantity, nil
}

func (m *memStore) DecrementStock(_ context.Context, productID int, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	if p.StockQuantity < quantity {
		return db.ErrStockNotEnough
	}
	p.StockQuantity -= quantity
	m.products[productID] = p
	return nil
}

func (m *memStore) IncrementStock(_ context.Context, productID int, quantity int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return 0, db.ErrProductNotFound
	}
	p.StockQuantity += quantity
	m.products[productID] = p
	return p.StockQuantity, nil
}

func (m *memStore) SetStock(_ context.Context, productID int, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	p.StockQuantity = quantity
	m.products[productID] = p
	return nil
}

// ---- ICartRepository ----

func (m *memStore) GetCartItems(_ context.Context, userID int) ([]model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CartItem
	for k, item := range m.cart {
		if k.userID != userID {
			continue
		}
		item.Product = m.productCopy(item.ProductID)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].CartItemID > out[j].CartItemID
	})
	return out, nil
}

func (m *memStore) GetCartItem(_ context.Context, userID int, productID int) (*model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.cart[cartKey{userID, productID}]
	if !ok {
		return nil, db.ErrCartItemNotFound
	}
	item.Product = m.productCopy(productID)
	return &item, nil
}

func (m *memStore) CreateCartItem(_ context.Context, item *model.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := cartKey{item.UserID, item.ProductID}
	if _, ok := m.cart[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	item.CartItemID = m.id()
	c := *item
	c.Product = nil
	m.cart[key] = c
	return nil
}

func (m *memStore) UpdateCartItem(_ context.Context, item *model.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, c := range m.cart {
		if c.CartItemID == item.CartItemID {
			c.Quantity = item.Quantity
			c.UpdatedAt = item.UpdatedAt
			m.cart[k] = c
			return nil
		}
	}
	return db.ErrCartItemNotFound
}

func (m *memStore) DeleteCartItem(_ context.Context, userID int, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := cartKey{userID, productID}
	if _, ok := m.cart[key]; !ok {
		return db.ErrCartItemNotFound
	}
	delete(m.cart, key)
	return nil
}

func (m *memStore) ClearCart(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failClearCart != nil {
		return m.failClearCart
	}
	for k := range m.cart {
		if k.userID == userID {
			delete(m.cart, k)
		}
	}
	return nil
}

func (m *memStore) CountCartItems(_ context.Context, userID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, c := range m.cart {
		if k.userID == userID {
			n += c.Quantity
		}
	}
	return n, nil
}

// ---- IOrderRepository ----

func (m *memStore) CreateOrder(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateOrder != nil {
		return m.failCreateOrder
	}
	order.OrderID = m.id()
	for i := range order.OrderDetails {
		order.OrderDetails[i].OrderDetailID = m.id()
		order.OrderDetails[i].OrderID = order.OrderID
	}
	o := *order
	o.OrderDetails = append([]model.OrderDetail(nil), order.OrderDetails...)
	m.orders[o.OrderID] = o
	return nil
}

func (m *memStore) orderCopy(o model.Order) *model.Order {
	o.OrderDetails = append([]model.OrderDetail(nil), o.OrderDetails...)
	return &o
}

func (m *memStore) GetOrderByID(_ context.Context, orderID int) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, db.ErrOrderNotFound
	}
	return m.orderCopy(o), nil
}

func (m *memStore) GetUserOrder(_ context.Context, userID int, orderID int) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, db.ErrOrderNotFound
	}
	return m.orderCopy(o), nil
}

func (m *memStore) sortedOrders(filter func(model.Order) bool) []model.Order {
	var out []model.Order
	for _, o := range m.orders {
		if filter(o) {
			out = append(out, *m.orderCopy(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].OrderID > out[j].OrderID
	})
	return out
}

func (m *memStore) ListOrders(_ context.Context, q model.OrderQuery) ([]model.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedOrders(func(o model.Order) bool {
		if q.UserID > 0 && o.UserID != q.UserID {
			return false
		}
		if q.Status != "" && o.Status != q.Status {
			return false
		}
		if q.From != nil && o.OrderDate.Before(*q.From) {
			return false
		}
		if q.To != nil && !o.OrderDate.Before(*q.To) {
			return false
		}
		return true
	})
	total := int64(len(all))
	start := (q.Page - 1) * q.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memStore) GetRecentOrders(_ context.Context, limit int) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedOrders(func(model.Order) bool { return true })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[order.OrderID]
	if !ok {
		return db.ErrOrderNotFound
	}
	o.Status = order.Status
	o.ShippedDate = order.ShippedDate
	o.DeliveredDate = order.DeliveredDate
	m.orders[order.OrderID] = o
	return nil
}

func (m *memStore) CountOrdersByStatus(_ context.Context) (map[model.OrderStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.OrderStatus]int64, len(model.AllOrderStatuses))
	for _, s := range model.AllOrderStatuses {
		out[s] = 0
	}
	for _, o := range m.orders {
		out[o.Status]++
	}
	return out, nil
}

func (m *memStore) CountOrders(_ context.Context, since *time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if since == nil || !o.OrderDate.Before(*since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) SumRevenue(_ context.Context, since *time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, o := range m.orders {
		if o.Status == model.OrderStatusCancelled {
			continue
		}
		if since != nil && o.OrderDate.Before(*since) {
			continue
		}
		total = total.Add(o.GrandTotal())
	}
	return total, nil
}

// ---- IUserRepository ----

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == user.Email {
			return db.ErrDuplicateEmail
		}
	}
	user.UserID = m.id()
	m.users[user.UserID] = *user
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, userID int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return &u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (m *memStore) UpdateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.UserID]; !ok {
		return db.ErrUserNotFound
	}
	m.users[user.UserID] = *user
	return nil
}

func (m *memStore) CountUsersByRole(_ context.Context, role model.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

var _ db.UnifiedDB = (*memStore)(nil)
