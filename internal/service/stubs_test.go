package service

// In-memory repository stubs shared by the service unit tests. The stubs keep
// insertion order, so "created_at ASC" is append order.

import (
	"context"
	"errors"
	"strings"
	"time"

	"clubpos/internal/model"
	"clubpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errStubNotFound = errors.New("not found")

// ── Transactions ─────────────────────────────────────────────────────────────

// stubTx gives the stubs transactional semantics: writes made through the *Tx
// methods while a transaction is open register an undo, and undos run in
// reverse when the transaction function fails, mirroring the gorm rollback of
// the production path. A nil *stubTx means writes apply immediately.
type stubTx struct {
	open bool
	undo []func()
}

func (t *stubTx) noteUndo(fn func()) {
	if t != nil && t.open {
		t.undo = append(t.undo, fn)
	}
}

func (t *stubTx) run(fn func(tx *gorm.DB) error) error {
	t.open = true
	t.undo = nil
	err := fn(nil)
	if err != nil {
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
	}
	t.open = false
	t.undo = nil
	return err
}

// ── Movements ────────────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.InventoryMovement
	tx        *stubTx

	// failAfter injects a CreateTx failure after N successful inserts; -1
	// disables injection.
	failAfter int
	created   int
}

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{failAfter: -1}
}

func (r *stubMovementRepo) insert(m *model.InventoryMovement) {
	m.ID = uuid.New()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().Add(time.Duration(len(r.movements)) * time.Millisecond)
	}
	r.movements = append(r.movements, *m)
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.InventoryMovement) error {
	r.insert(m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	if r.failAfter >= 0 && r.created >= r.failAfter {
		return errors.New("injected insert failure")
	}
	r.created++
	r.insert(m)
	r.tx.noteUndo(func() { r.movements = r.movements[:len(r.movements)-1] })
	return nil
}

func (r *stubMovementRepo) ListIncoming(_ context.Context, productID uuid.UUID) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.ProductID != productID || m.Qty <= 0 {
			continue
		}
		if m.Type == model.MovementPurchase || m.Type == model.MovementAdjust {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) ListOutgoing(_ context.Context, productID uuid.UUID) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.ProductID != productID || m.Qty >= 0 {
			continue
		}
		if m.Type == model.MovementSale || m.Type == model.MovementAdjust {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) SumByProduct(_ context.Context, productID uuid.UUID) (int, error) {
	sum := 0
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += m.Qty
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) SumAll(_ context.Context) (map[uuid.UUID]int, error) {
	sums := make(map[uuid.UUID]int)
	for _, m := range r.movements {
		sums[m.ProductID] += m.Qty
	}
	return sums, nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]model.InventoryMovement, int64, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// ── Stock cache ──────────────────────────────────────────────────────────────

type stubStockRepo struct {
	stocks map[uuid.UUID]int
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{stocks: make(map[uuid.UUID]int)}
}

func (r *stubStockRepo) Upsert(_ context.Context, productID uuid.UUID, stock int) error {
	r.stocks[productID] = stock
	return nil
}

func (r *stubStockRepo) ListAll(_ context.Context) ([]model.InventoryStock, error) {
	out := make([]model.InventoryStock, 0, len(r.stocks))
	for id, stock := range r.stocks {
		out = append(out, model.InventoryStock{ProductID: id, Stock: stock})
	}
	return out, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(name string, salePrice string) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		SalePrice: decimal.RequireFromString(salePrice),
		Active:    true,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errStubNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, q string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	return r.List(context.Background(), "")
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errors.New("duplicate username")
		}
	}
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errStubNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	tx    *stubTx
	fail  bool
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if r.fail {
		return errors.New("injected sale insert failure")
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	for i := range s.Items {
		s.Items[i].ID = uuid.New()
		s.Items[i].SaleID = s.ID
	}
	copied := *s
	r.sales[s.ID] = &copied
	id := s.ID
	r.tx.noteUndo(func() { delete(r.sales, id) })
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errStubNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if !s.CreatedAt.Before(from) && !s.CreatedAt.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) SumTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	sales, _ := r.ListByDateRange(ctx, from, to)
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.Total)
	}
	return sum, nil
}

func (r *stubSaleRepo) ListItemsInRange(ctx context.Context, from, to time.Time) ([]model.SaleItem, error) {
	sales, _ := r.ListByDateRange(ctx, from, to)
	var items []model.SaleItem
	for _, s := range sales {
		items = append(items, s.Items...)
	}
	return items, nil
}

func (r *stubSaleRepo) TotalsByMethodInRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	sales, _ := r.ListByDateRange(ctx, from, to)
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, s := range sales {
		totals[s.PaymentMethodID] = totals[s.PaymentMethodID].Add(s.Total)
	}
	return totals, nil
}

func (r *stubSaleRepo) TopProductsInRange(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductQty, error) {
	items, _ := r.ListItemsInRange(ctx, from, to)
	byProduct := make(map[uuid.UUID]int)
	for _, item := range items {
		byProduct[item.ProductID] += item.Qty
	}
	var out []repository.ProductQty
	for id, qty := range byProduct {
		out = append(out, repository.ProductQty{ProductID: id, Qty: qty})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if r.tx == nil {
		return fn(nil)
	}
	return r.tx.run(fn)
}

// ── Payment methods ──────────────────────────────────────────────────────────

type stubPaymentRepo struct {
	methods map[uuid.UUID]*model.PaymentMethod
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{methods: make(map[uuid.UUID]*model.PaymentMethod)}
}

func (r *stubPaymentRepo) add(name, typ string) *model.PaymentMethod {
	m := &model.PaymentMethod{ID: uuid.New(), Name: name, Type: typ}
	r.methods[m.ID] = m
	return m
}

func (r *stubPaymentRepo) List(_ context.Context) ([]model.PaymentMethod, error) {
	out := make([]model.PaymentMethod, 0, len(r.methods))
	for _, m := range r.methods {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PaymentMethod, error) {
	m, ok := r.methods[id]
	if !ok {
		return nil, errStubNotFound
	}
	return m, nil
}

func (r *stubPaymentRepo) UpsertByType(_ context.Context, m *model.PaymentMethod) error {
	for _, existing := range r.methods {
		if existing.Type == m.Type {
			existing.Name = m.Name
			return nil
		}
	}
	m.ID = uuid.New()
	r.methods[m.ID] = m
	return nil
}

// ── Bookings ─────────────────────────────────────────────────────────────────

type stubBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
}

func (r *stubBookingRepo) Create(_ context.Context, b *model.Booking) error {
	b.ID = uuid.New()
	r.bookings[b.ID] = b
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, errStubNotFound
	}
	return b, nil
}

func (r *stubBookingRepo) Update(_ context.Context, b *model.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *stubBookingRepo) ListByDay(_ context.Context, from, to time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range r.bookings {
		if !b.StartAt.Before(from) && !b.StartAt.After(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *stubBookingRepo) SumChargedInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	charged, _ := r.ListChargedInRange(ctx, from, to)
	sum := decimal.Zero
	for _, b := range charged {
		if b.TotalPaid != nil {
			sum = sum.Add(*b.TotalPaid)
		}
	}
	return sum, nil
}

func (r *stubBookingRepo) ListChargedInRange(_ context.Context, from, to time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range r.bookings {
		if b.Status != model.BookingCharged || b.ChargedAt == nil {
			continue
		}
		if !b.ChargedAt.Before(from) && !b.ChargedAt.After(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ── Courts ───────────────────────────────────────────────────────────────────

type stubCourtRepo struct {
	courts map[uuid.UUID]*model.Court
}

func newStubCourtRepo() *stubCourtRepo {
	return &stubCourtRepo{courts: make(map[uuid.UUID]*model.Court)}
}

func (r *stubCourtRepo) add(name string, active bool) *model.Court {
	c := &model.Court{ID: uuid.New(), Name: name, Active: active}
	r.courts[c.ID] = c
	return c
}

func (r *stubCourtRepo) Create(_ context.Context, c *model.Court) error {
	c.ID = uuid.New()
	r.courts[c.ID] = c
	return nil
}

func (r *stubCourtRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Court, error) {
	c, ok := r.courts[id]
	if !ok {
		return nil, errStubNotFound
	}
	return c, nil
}

func (r *stubCourtRepo) ListActive(_ context.Context) ([]model.Court, error) {
	var out []model.Court
	for _, c := range r.courts {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}
