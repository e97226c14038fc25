// Package memory is an in-process implementation of the ledger ports,
// used by service tests. Writes inside Execute are rolled back on error
// by restoring a snapshot, mirroring the transactional semantics of the
// Postgres store.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
	"github.com/shopspring/decimal"
)

type stockKey struct {
	productID int64
	branchID  int64
}

// Store holds all state behind one mutex. Execute serializes
// transactions, which is enough fidelity for tests: the Postgres store
// serializes per-row with FOR UPDATE instead.
type Store struct {
	mu sync.Mutex

	seq           int64
	stock         map[stockKey]*domain.StockEntry
	purchases     map[int64]*domain.Purchase
	sales         map[int64]*domain.Sale
	returns       map[int64]*domain.SaleReturn
	accounts      map[int64]*domain.LoyaltyAccount
	loyaltyTx     []domain.LoyaltyTransaction
	logs          []domain.InventoryLog
	notifications []domain.Notification

	products  map[int64]*domain.Product
	branches  map[int64]bool
	suppliers map[int64]bool
	customers map[int64]bool
}

func NewStore() *Store {
	return &Store{
		stock:     make(map[stockKey]*domain.StockEntry),
		purchases: make(map[int64]*domain.Purchase),
		sales:     make(map[int64]*domain.Sale),
		returns:   make(map[int64]*domain.SaleReturn),
		accounts:  make(map[int64]*domain.LoyaltyAccount),
		products:  make(map[int64]*domain.Product),
		branches:  make(map[int64]bool),
		suppliers: make(map[int64]bool),
		customers: make(map[int64]bool),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// Seed helpers register reference rows the transactional core checks.

func (s *Store) SeedBranch(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[id] = true
}

func (s *Store) SeedSupplier(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[id] = true
}

func (s *Store) SeedCustomer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[id] = true
}

func (s *Store) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID()
	}
	s.products[p.ID] = &p
}

// SeedStock sets an on-hand quantity directly, bypassing the ledger.
func (s *Store) SeedStock(productID, branchID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[stockKey{productID, branchID}] = &domain.StockEntry{
		ID:        s.nextID(),
		ProductID: productID,
		BranchID:  branchID,
		Quantity:  qty,
	}
}

// view is the ports.Store face of the data. held is true inside
// Execute, where the mutex is already taken.
type view struct {
	s    *Store
	held bool
}

func (v view) lock() func() {
	if v.held {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (s *Store) Stock() ports.StockLedger { return stockLedger{view{s, false}} }
func (s *Store) Purchases() ports.PurchaseStore { return purchaseStore{view{s, false}} }
func (s *Store) Sales() ports.SaleStore { return saleStore{view{s, false}} }
func (s *Store) Returns() ports.ReturnStore { return returnStore{view{s, false}} }
func (s *Store) Loyalty() ports.LoyaltyStore { return loyaltyStore{view{s, false}} }
func (s *Store) Logs() ports.InventoryLogStore { return logStore{view{s, false}} }
func (s *Store) Notifications() ports.NotificationStore { return notificationStore{view{s, false}} }
func (s *Store) Lookups() ports.Lookups { return lookups{view{s, false}} }

type txStore struct{ s *Store }

func (t txStore) Stock() ports.StockLedger { return stockLedger{view{t.s, true}} }
func (t txStore) Purchases() ports.PurchaseStore { return purchaseStore{view{t.s, true}} }
func (t txStore) Sales() ports.SaleStore { return saleStore{view{t.s, true}} }
func (t txStore) Returns() ports.ReturnStore { return returnStore{view{t.s, true}} }
func (t txStore) Loyalty() ports.LoyaltyStore { return loyaltyStore{view{t.s, true}} }
func (t txStore) Logs() ports.InventoryLogStore { return logStore{view{t.s, true}} }
func (t txStore) Notifications() ports.NotificationStore { return notificationStore{view{t.s, true}} }
func (t txStore) Lookups() ports.Lookups { return lookups{view{t.s, true}} }

// Execute runs fn against an unlocked view while holding the mutex. On
// error the pre-transaction snapshot is restored.
func (s *Store) Execute(ctx context.Context, fn func(ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(txStore{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	seq           int64
	stock         map[stockKey]*domain.StockEntry
	purchases     map[int64]*domain.Purchase
	sales         map[int64]*domain.Sale
	returns       map[int64]*domain.SaleReturn
	accounts      map[int64]*domain.LoyaltyAccount
	loyaltyTx     []domain.LoyaltyTransaction
	logs          []domain.InventoryLog
	notifications []domain.Notification
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		seq:           s.seq,
		stock:         make(map[stockKey]*domain.StockEntry, len(s.stock)),
		purchases:     make(map[int64]*domain.Purchase, len(s.purchases)),
		sales:         make(map[int64]*domain.Sale, len(s.sales)),
		returns:       make(map[int64]*domain.SaleReturn, len(s.returns)),
		accounts:      make(map[int64]*domain.LoyaltyAccount, len(s.accounts)),
		loyaltyTx:     append([]domain.LoyaltyTransaction(nil), s.loyaltyTx...),
		logs:          append([]domain.InventoryLog(nil), s.logs...),
		notifications: append([]domain.Notification(nil), s.notifications...),
	}
	for k, e := range s.stock {
		c := *e
		snap.stock[k] = &c
	}
	for k, p := range s.purchases {
		c := *p
		c.Items = append([]domain.PurchaseItem(nil), p.Items...)
		snap.purchases[k] = &c
	}
	for k, sl := range s.sales {
		c := *sl
		c.Items = append([]domain.SaleItem(nil), sl.Items...)
		snap.sales[k] = &c
	}
	for k, r := range s.returns {
		c := *r
		snap.returns[k] = &c
	}
	for k, a := range s.accounts {
		c := *a
		snap.accounts[k] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.seq = snap.seq
	s.stock = snap.stock
	s.purchases = snap.purchases
	s.sales = snap.sales
	s.returns = snap.returns
	s.accounts = snap.accounts
	s.loyaltyTx = snap.loyaltyTx
	s.logs = snap.logs
	s.notifications = snap.notifications
}

type stockLedger struct{ v view }

func (l stockLedger) Adjust(ctx context.Context, productID, branchID int64, delta int) (*domain.StockEntry, error) {
	defer l.v.lock()()
	s := l.v.s
	key := stockKey{productID, branchID}
	entry, ok := s.stock[key]
	if !ok {
		if delta < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID: productID,
				BranchID:  branchID,
				Available: 0,
				Requested: -delta,
			}
		}
		entry = &domain.StockEntry{
			ID:        s.nextID(),
			ProductID: productID,
			BranchID:  branchID,
			Quantity:  delta,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		s.stock[key] = entry
		c := *entry
		return &c, nil
	}
	next := entry.Quantity + delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			BranchID:  branchID,
			Available: entry.Quantity,
			Requested: -delta,
		}
	}
	entry.Quantity = next
	entry.UpdatedAt = time.Now()
	c := *entry
	return &c, nil
}

func (l stockLedger) Quantity(ctx context.Context, productID, branchID int64) (int, error) {
	defer l.v.lock()()
	if e, ok := l.v.s.stock[stockKey{productID, branchID}]; ok {
		return e.Quantity, nil
	}
	return 0, nil
}

func (l stockLedger) List(ctx context.Context, branchID *int64, limit int) ([]domain.StockEntry, error) {
	defer l.v.lock()()
	var items []domain.StockEntry
	for _, e := range l.v.s.stock {
		if branchID != nil && e.BranchID != *branchID {
			continue
		}
		items = append(items, *e)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

type purchaseStore struct{ v view }

func (r purchaseStore) Insert(ctx context.Context, p *domain.Purchase) error {
	defer r.v.lock()()
	s := r.v.s
	for _, other := range s.purchases {
		if other.InvoiceNo == p.InvoiceNo {
			return &domain.DuplicateInvoiceError{InvoiceNo: p.InvoiceNo}
		}
	}
	p.ID = s.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	for i := range p.Items {
		p.Items[i].ID = s.nextID()
		p.Items[i].PurchaseID = p.ID
	}
	c := *p
	c.Items = append([]domain.PurchaseItem(nil), p.Items...)
	s.purchases[p.ID] = &c
	return nil
}

func (r purchaseStore) Get(ctx context.Context, id int64) (*domain.Purchase, error) {
	defer r.v.lock()()
	p, ok := r.v.s.purchases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *p
	c.Items = append([]domain.PurchaseItem(nil), p.Items...)
	return &c, nil
}

func (r purchaseStore) List(ctx context.Context, branchID *int64, limit int) ([]domain.Purchase, error) {
	defer r.v.lock()()
	var items []domain.Purchase
	for _, p := range r.v.s.purchases {
		if branchID != nil && p.BranchID != *branchID {
			continue
		}
		c := *p
		c.Items = append([]domain.PurchaseItem(nil), p.Items...)
		items = append(items, c)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (r purchaseStore) AddItem(ctx context.Context, it *domain.PurchaseItem) error {
	defer r.v.lock()()
	s := r.v.s
	p, ok := s.purchases[it.PurchaseID]
	if !ok {
		return domain.ErrNotFound
	}
	it.ID = s.nextID()
	p.Items = append(p.Items, *it)
	return nil
}

func (r purchaseStore) RemoveItem(ctx context.Context, purchaseID, itemID int64) (*domain.PurchaseItem, error) {
	defer r.v.lock()()
	p, ok := r.v.s.purchases[purchaseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i, it := range p.Items {
		if it.ID == itemID {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r purchaseStore) SetTotals(ctx context.Context, id int64, total, grand decimal.Decimal) error {
	defer r.v.lock()()
	p, ok := r.v.s.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalAmount = total
	p.GrandTotal = grand
	p.UpdatedAt = time.Now()
	return nil
}

func (r purchaseStore) SetPaymentStatus(ctx context.Context, id int64, status domain.PurchasePaymentStatus) error {
	defer r.v.lock()()
	p, ok := r.v.s.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PaymentStatus = status
	p.UpdatedAt = time.Now()
	return nil
}

type saleStore struct{ v view }

func (r saleStore) Insert(ctx context.Context, sl *domain.Sale) error {
	defer r.v.lock()()
	s := r.v.s
	for _, other := range s.sales {
		if other.InvoiceNo == sl.InvoiceNo {
			return &domain.DuplicateInvoiceError{InvoiceNo: sl.InvoiceNo}
		}
	}
	sl.ID = s.nextID()
	sl.CreatedAt = time.Now()
	sl.UpdatedAt = sl.CreatedAt
	for i := range sl.Items {
		sl.Items[i].ID = s.nextID()
		sl.Items[i].SaleID = sl.ID
	}
	c := *sl
	c.Items = append([]domain.SaleItem(nil), sl.Items...)
	s.sales[sl.ID] = &c
	return nil
}

func (r saleStore) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	defer r.v.lock()()
	sl, ok := r.v.s.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *sl
	c.Items = append([]domain.SaleItem(nil), sl.Items...)
	return &c, nil
}

func (r saleStore) List(ctx context.Context, branchID *int64, limit int) ([]domain.Sale, error) {
	defer r.v.lock()()
	var items []domain.Sale
	for _, sl := range r.v.s.sales {
		if branchID != nil && sl.BranchID != *branchID {
			continue
		}
		c := *sl
		c.Items = append([]domain.SaleItem(nil), sl.Items...)
		items = append(items, c)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (r saleStore) AddItem(ctx context.Context, it *domain.SaleItem) error {
	defer r.v.lock()()
	s := r.v.s
	sl, ok := s.sales[it.SaleID]
	if !ok {
		return domain.ErrNotFound
	}
	it.ID = s.nextID()
	sl.Items = append(sl.Items, *it)
	return nil
}

func (r saleStore) RemoveItem(ctx context.Context, saleID, itemID int64) (*domain.SaleItem, error) {
	defer r.v.lock()()
	sl, ok := r.v.s.sales[saleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i, it := range sl.Items {
		if it.ID == itemID {
			sl.Items = append(sl.Items[:i], sl.Items[i+1:]...)
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r saleStore) SetTotals(ctx context.Context, id int64, total, grand decimal.Decimal) error {
	defer r.v.lock()()
	sl, ok := r.v.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sl.TotalAmount = total
	sl.GrandTotal = grand
	sl.UpdatedAt = time.Now()
	return nil
}

func (r saleStore) SetPayment(ctx context.Context, id int64, paid, due decimal.Decimal, status domain.SaleStatus) error {
	defer r.v.lock()()
	sl, ok := r.v.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sl.PaidAmount = paid
	sl.DueAmount = due
	sl.Status = status
	sl.UpdatedAt = time.Now()
	return nil
}

func (r saleStore) SetStatus(ctx context.Context, id int64, status domain.SaleStatus) error {
	defer r.v.lock()()
	sl, ok := r.v.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sl.Status = status
	sl.UpdatedAt = time.Now()
	return nil
}

type returnStore struct{ v view }

func (r returnStore) Insert(ctx context.Context, ret *domain.SaleReturn) error {
	defer r.v.lock()()
	s := r.v.s
	ret.ID = s.nextID()
	ret.CreatedAt = time.Now()
	ret.UpdatedAt = ret.CreatedAt
	c := *ret
	s.returns[ret.ID] = &c
	return nil
}

func (r returnStore) Get(ctx context.Context, id int64) (*domain.SaleReturn, error) {
	defer r.v.lock()()
	ret, ok := r.v.s.returns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *ret
	return &c, nil
}

func (r returnStore) ListBySale(ctx context.Context, saleID int64) ([]domain.SaleReturn, error) {
	defer r.v.lock()()
	var items []domain.SaleReturn
	for _, ret := range r.v.s.returns {
		if ret.SaleID == saleID {
			items = append(items, *ret)
		}
	}
	return items, nil
}

func (r returnStore) ReturnedQuantity(ctx context.Context, saleID, productID int64) (int, error) {
	defer r.v.lock()()
	total := 0
	for _, ret := range r.v.s.returns {
		if ret.SaleID == saleID && ret.ProductID == productID && ret.Status != domain.ReturnRejected {
			total += ret.Quantity
		}
	}
	return total, nil
}

func (r returnStore) SetStatus(ctx context.Context, id int64, status domain.ReturnStatus, processedBy *int64) error {
	defer r.v.lock()()
	ret, ok := r.v.s.returns[id]
	if !ok {
		return domain.ErrNotFound
	}
	ret.Status = status
	ret.ProcessedBy = processedBy
	ret.UpdatedAt = time.Now()
	return nil
}

func (r returnStore) Delete(ctx context.Context, id int64) error {
	defer r.v.lock()()
	if _, ok := r.v.s.returns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.v.s.returns, id)
	return nil
}

type loyaltyStore struct{ v view }

func (r loyaltyStore) Account(ctx context.Context, customerID int64) (*domain.LoyaltyAccount, error) {
	defer r.v.lock()()
	s := r.v.s
	if !s.customers[customerID] {
		return nil, &domain.ReferenceNotFoundError{Kind: "customer", ID: customerID}
	}
	a, ok := s.accounts[customerID]
	if !ok {
		a = &domain.LoyaltyAccount{
			ID:         s.nextID(),
			CustomerID: customerID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		s.accounts[customerID] = a
	}
	c := *a
	return &c, nil
}

func (r loyaltyStore) SaveAccount(ctx context.Context, a *domain.LoyaltyAccount) error {
	defer r.v.lock()()
	cur, ok := r.v.s.accounts[a.CustomerID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.PointsBalance = a.PointsBalance
	cur.TotalEarned = a.TotalEarned
	cur.TotalRedeemed = a.TotalRedeemed
	cur.UpdatedAt = time.Now()
	return nil
}

func (r loyaltyStore) AppendTransaction(ctx context.Context, t *domain.LoyaltyTransaction) error {
	defer r.v.lock()()
	s := r.v.s
	if t.Type == domain.PointsEarned && t.Ref.Kind == domain.RefSale {
		for _, prev := range s.loyaltyTx {
			if prev.Type == domain.PointsEarned && prev.Ref.Kind == domain.RefSale && prev.Ref.ID == t.Ref.ID {
				return &domain.ConflictError{Err: errors.New("earned entry already exists for sale")}
			}
		}
	}
	t.ID = s.nextID()
	t.CreatedAt = time.Now()
	s.loyaltyTx = append(s.loyaltyTx, *t)
	return nil
}

func (r loyaltyStore) Transactions(ctx context.Context, customerID int64, limit int) ([]domain.LoyaltyTransaction, error) {
	defer r.v.lock()()
	var items []domain.LoyaltyTransaction
	for i := len(r.v.s.loyaltyTx) - 1; i >= 0; i-- {
		t := r.v.s.loyaltyTx[i]
		if t.CustomerID != customerID {
			continue
		}
		items = append(items, t)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (r loyaltyStore) HasEarnedForSale(ctx context.Context, saleID int64) (bool, error) {
	defer r.v.lock()()
	for _, t := range r.v.s.loyaltyTx {
		if t.Type == domain.PointsEarned && t.Ref.Kind == domain.RefSale && t.Ref.ID == saleID {
			return true, nil
		}
	}
	return false, nil
}

type logStore struct{ v view }

func (r logStore) Append(ctx context.Context, l *domain.InventoryLog) error {
	defer r.v.lock()()
	l.ID = r.v.s.nextID()
	l.CreatedAt = time.Now()
	r.v.s.logs = append(r.v.s.logs, *l)
	return nil
}

func (r logStore) List(ctx context.Context, productID, branchID *int64, limit int) ([]domain.InventoryLog, error) {
	defer r.v.lock()()
	var items []domain.InventoryLog
	for i := len(r.v.s.logs) - 1; i >= 0; i-- {
		l := r.v.s.logs[i]
		if productID != nil && l.ProductID != *productID {
			continue
		}
		if branchID != nil && l.BranchID != *branchID {
			continue
		}
		items = append(items, l)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

type notificationStore struct{ v view }

func (r notificationStore) Insert(ctx context.Context, n *domain.Notification) error {
	defer r.v.lock()()
	n.ID = r.v.s.nextID()
	n.CreatedAt = time.Now()
	r.v.s.notifications = append(r.v.s.notifications, *n)
	return nil
}

// Notifications returns everything inserted so far, for assertions.
func (s *Store) NotificationsList() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notifications...)
}

type lookups struct{ v view }

func (l lookups) Product(ctx context.Context, id int64) (*domain.Product, error) {
	defer l.v.lock()()
	p, ok := l.v.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (l lookups) BranchExists(ctx context.Context, id int64) (bool, error) {
	defer l.v.lock()()
	return l.v.s.branches[id], nil
}

func (l lookups) SupplierExists(ctx context.Context, id int64) (bool, error) {
	defer l.v.lock()()
	return l.v.s.suppliers[id], nil
}

func (l lookups) CustomerExists(ctx context.Context, id int64) (bool, error) {
	defer l.v.lock()()
	return l.v.s.customers[id], nil
}
