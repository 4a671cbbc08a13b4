package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/commission"
	"github.com/primake/primake-api/internal/domain/checkout"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/cache"
	"github.com/primake/primake-api/pkg/events"
	"github.com/primake/primake-api/pkg/pagination"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store unavailable")

// --- products ---

type fakeProductRepo struct {
	products     map[uuid.UUID]*entity.Product
	decrementErr error
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if strings.EqualFold(p.SKU, sku) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if p, ok := r.products[id]; ok {
		p.IsActive = active
	}
	return nil
}

func (r *fakeProductRepo) List(context.Context, *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	all, _ := r.ListActive(context.Background())
	return all, int64(len(all)), nil
}

func (r *fakeProductRepo) ListActive(context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProductRepo) GetLowStock(context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.IsActive && !p.IsBundle() && p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CountLowStock(ctx context.Context) (int64, error) {
	low, _ := r.GetLowStock(ctx)
	return int64(len(low)), nil
}

func (r *fakeProductRepo) ListBundles(context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.IsActive && p.IsBundle() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) SaveBundle(ctx context.Context, p *entity.Product) error {
	return r.Create(ctx, p)
}

func (r *fakeProductRepo) UpsertBySKU(ctx context.Context, p *entity.Product) (bool, error) {
	existing, _ := r.GetBySKU(ctx, p.SKU)
	if existing != nil {
		p.ID = existing.ID
		r.products[p.ID] = p
		return false, nil
	}
	return true, r.Create(ctx, p)
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	return true, nil
}

func (r *fakeProductRepo) AtomicDecrementQuantity(_ context.Context, id uuid.UUID, amount int) (bool, error) {
	if r.decrementErr != nil {
		return false, r.decrementErr
	}
	p, ok := r.products[id]
	if !ok || p.Stock < amount {
		return false, nil
	}
	p.Stock -= amount
	return true, nil
}

func (r *fakeProductRepo) AtomicDecrementVariation(_ context.Context, variationID uuid.UUID, amount int) (bool, error) {
	for _, p := range r.products {
		for i := range p.Variations {
			v := &p.Variations[i]
			if v.ID != variationID {
				continue
			}
			if v.Stock < amount {
				return false, nil
			}
			v.Stock -= amount
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) AddVariation(_ context.Context, v *entity.ProductVariation) error {
	p, ok := r.products[v.ProductID]
	if !ok {
		return errStoreDown
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	p.Variations = append(p.Variations, *v)
	return nil
}

func (r *fakeProductRepo) ListVariations(_ context.Context, productID uuid.UUID) ([]entity.ProductVariation, error) {
	if p, ok := r.products[productID]; ok {
		return p.Variations, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) DeleteVariation(_ context.Context, productID, variationID uuid.UUID) error {
	p, ok := r.products[productID]
	if !ok {
		return nil
	}
	for i := range p.Variations {
		if p.Variations[i].ID == variationID {
			p.Variations = append(p.Variations[:i], p.Variations[i+1:]...)
			break
		}
	}
	return nil
}

// --- sales ---

type fakeSaleRepo struct {
	sales     map[string]*entity.Sale
	createErr error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[string]*entity.Sale{}}
}

func (r *fakeSaleRepo) Create(_ context.Context, s *entity.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	return r.sales[id], nil
}

func (r *fakeSaleRepo) UpdateEditable(_ context.Context, s *entity.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) List(_ context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		if params.SellerID != nil && (s.SellerID == nil || *s.SellerID != *params.SellerID) {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListWithCursor(context.Context, *repository.SaleCursorFilterParams) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

// --- customers ---

type fakeCustomerRepo struct {
	customers   map[uuid.UUID]*entity.Customer
	purchaseErr error
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{}}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if c, ok := r.customers[id]; ok {
		c.IsActive = active
	}
	return nil
}

func (r *fakeCustomerRepo) List(context.Context, *pagination.PaginationParams, string, bool) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) RecordPurchase(_ context.Context, id uuid.UUID, amount int64, at time.Time) error {
	if r.purchaseErr != nil {
		return r.purchaseErr
	}
	c, ok := r.customers[id]
	if !ok {
		return nil
	}
	c.TotalSpent += amount
	c.LastPurchase = &at
	return nil
}

// --- cash register ---

type fakeCashRepo struct {
	registers map[uuid.UUID]*entity.CashRegister
	movements []entity.CashMovement
	addErr    error
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{registers: map[uuid.UUID]*entity.CashRegister{}}
}

func (r *fakeCashRepo) Open(_ context.Context, reg *entity.CashRegister, opening *entity.CashMovement) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	r.registers[reg.ID] = reg
	opening.RegisterID = reg.ID
	r.movements = append(r.movements, *opening)
	return nil
}

func (r *fakeCashRepo) GetOpen(context.Context) (*entity.CashRegister, error) {
	for _, reg := range r.registers {
		if reg.IsOpen() {
			return reg, nil
		}
	}
	return nil, nil
}

func (r *fakeCashRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.CashRegister, error) {
	return r.registers[id], nil
}

func (r *fakeCashRepo) Close(_ context.Context, reg *entity.CashRegister) error {
	r.registers[reg.ID] = reg
	return nil
}

func (r *fakeCashRepo) AddMovement(_ context.Context, m *entity.CashMovement) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeCashRepo) ListMovements(_ context.Context, registerID uuid.UUID) ([]entity.CashMovement, error) {
	var out []entity.CashMovement
	for _, m := range r.movements {
		if m.RegisterID == registerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) List(context.Context, *pagination.PaginationParams) ([]entity.CashRegister, int64, error) {
	var out []entity.CashRegister
	for _, reg := range r.registers {
		out = append(out, *reg)
	}
	return out, int64(len(out)), nil
}

// --- deliveries ---

type fakeDeliveryRepo struct {
	deliveries map[string]*entity.Delivery
	createErr  error
}

func newFakeDeliveryRepo(deliveries ...*entity.Delivery) *fakeDeliveryRepo {
	r := &fakeDeliveryRepo{deliveries: map[string]*entity.Delivery{}}
	for _, d := range deliveries {
		r.deliveries[d.ID] = d
	}
	return r
}

func (r *fakeDeliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.deliveries[d.ID] = d
	return nil
}

func (r *fakeDeliveryRepo) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	return r.deliveries[id], nil
}

func (r *fakeDeliveryRepo) Update(_ context.Context, d *entity.Delivery) error {
	r.deliveries[d.ID] = d
	return nil
}

func (r *fakeDeliveryRepo) Delete(_ context.Context, id string) error {
	delete(r.deliveries, id)
	return nil
}

func (r *fakeDeliveryRepo) List(_ context.Context, params *repository.DeliveryFilterParams) ([]entity.Delivery, error) {
	var out []entity.Delivery
	for _, d := range r.deliveries {
		if params.MotoboyName != nil && d.MotoboyName != *params.MotoboyName {
			continue
		}
		if len(params.Methods) > 0 && !containsMethod(params.Methods, d.Method) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func containsMethod(methods []enum.DeliveryMethod, m enum.DeliveryMethod) bool {
	for _, x := range methods {
		if x == m {
			return true
		}
	}
	return false
}

func (r *fakeDeliveryRepo) CountByStatus(_ context.Context, statuses ...enum.DeliveryStatus) (int64, error) {
	var n int64
	for _, d := range r.deliveries {
		for _, s := range statuses {
			if d.Status == s {
				n++
			}
		}
	}
	return n, nil
}

func (r *fakeDeliveryRepo) ListPayable(_ context.Context, status enum.PayoutStatus, motoboy string) ([]entity.Delivery, error) {
	var out []entity.Delivery
	for _, d := range r.deliveries {
		if d.Method != enum.DeliveryMotoboy || d.Status != enum.DeliveryEntregue || d.PayoutStatus != status {
			continue
		}
		if motoboy != "" && d.MotoboyName != motoboy {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDeliveryRepo) MarkPaid(ctx context.Context, motoboy string, at time.Time) (int64, error) {
	pending, _ := r.ListPayable(ctx, enum.PayoutPending, motoboy)
	for _, p := range pending {
		d := r.deliveries[p.ID]
		d.PayoutStatus = enum.PayoutPaid
		d.PaidAt = &at
	}
	return int64(len(pending)), nil
}

// --- settings ---

type fakeSettingsRepo struct {
	settings *entity.CompanySettings
}

func (r *fakeSettingsRepo) Get(context.Context) (*entity.CompanySettings, error) {
	return r.settings, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *entity.CompanySettings) error {
	r.settings = s
	return nil
}

// --- users and goals ---

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(context.Context, *pagination.PaginationParams, string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListActive(_ context.Context, roles ...enum.Role) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.users {
		if u.Active && (len(roles) == 0 || u.HasRole(roles...)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeGoalRepo struct {
	goals map[string]entity.SalesGoal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[string]entity.SalesGoal{}}
}

func goalKey(userID uuid.UUID, period string) string {
	return userID.String() + "|" + period
}

func (r *fakeGoalRepo) Upsert(_ context.Context, g *entity.SalesGoal) error {
	r.goals[goalKey(g.UserID, g.Period)] = *g
	return nil
}

func (r *fakeGoalRepo) ListByPeriod(_ context.Context, period string) ([]entity.SalesGoal, error) {
	var out []entity.SalesGoal
	for _, g := range r.goals {
		if g.Period == period {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) GetByUserPeriod(_ context.Context, userID uuid.UUID, period string) (*entity.SalesGoal, error) {
	if g, ok := r.goals[goalKey(userID, period)]; ok {
		return &g, nil
	}
	return nil, nil
}

// fakeAnalyticsRepo answers with fixed figures and counts the calls
type fakeAnalyticsRepo struct {
	storeRevenue  int64
	sellerRevenue map[uuid.UUID]int64
	salesCount    int64
	daily         []repository.DailySalesResult
	top           []repository.TopProductResult
	revenueCalls  int
}

func (r *fakeAnalyticsRepo) GetRevenue(_ context.Context, _, _ time.Time, sellerID *uuid.UUID) (int64, error) {
	r.revenueCalls++
	if sellerID != nil {
		return r.sellerRevenue[*sellerID], nil
	}
	return r.storeRevenue, nil
}

func (r *fakeAnalyticsRepo) CountSales(context.Context, time.Time, time.Time) (int64, error) {
	return r.salesCount, nil
}

func (r *fakeAnalyticsRepo) GetSalesBySeller(context.Context, time.Time, time.Time) ([]repository.SellerSalesResult, error) {
	var out []repository.SellerSalesResult
	for id, total := range r.sellerRevenue {
		out = append(out, repository.SellerSalesResult{SellerID: id, Total: total})
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) GetTopProducts(context.Context, time.Time, time.Time, int) ([]repository.TopProductResult, error) {
	return r.top, nil
}

func (r *fakeAnalyticsRepo) GetDailySales(context.Context, int) ([]repository.DailySalesResult, error) {
	return r.daily, nil
}

// --- events ---

type recordingPublisher struct {
	events []events.Event
	keys   []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, e events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// --- wiring ---

var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type saleFixture struct {
	products   *fakeProductRepo
	sales      *fakeSaleRepo
	customers  *fakeCustomerRepo
	cash       *fakeCashRepo
	deliveries *fakeDeliveryRepo
	publisher  *recordingPublisher
	register   *entity.CashRegister
	service    *SaleService
}

func newSaleFixture(products ...*entity.Product) *saleFixture {
	log := zap.NewNop()
	f := &saleFixture{
		products:   newFakeProductRepo(products...),
		sales:      newFakeSaleRepo(),
		customers:  newFakeCustomerRepo(),
		cash:       newFakeCashRepo(),
		deliveries: newFakeDeliveryRepo(),
		publisher:  &recordingPublisher{},
	}

	cashService := NewCashRegisterService(f.cash, log)
	cashService.now = fixedClock
	deliveryService := NewDeliveryService(f.deliveries, &fakeSettingsRepo{}, log)
	deliveryService.now = fixedClock

	f.service = NewSaleService(f.sales, f.products, NewCustomerService(f.customers), cashService,
		deliveryService, f.publisher, checkout.DefaultRules(), log)
	f.service.now = fixedClock
	return f
}

func (f *saleFixture) openRegister() {
	f.register = &entity.CashRegister{ID: uuid.New(), OpenedAt: fixedNow, Status: enum.RegisterOpen}
	f.cash.registers[f.register.ID] = f.register
}

func newGoalFixture(users ...*entity.User) (*GoalService, *fakeGoalRepo, *fakeAnalyticsRepo) {
	goals := newFakeGoalRepo()
	analytics := &fakeAnalyticsRepo{sellerRevenue: map[uuid.UUID]int64{}}
	svc := NewGoalService(newFakeUserRepo(users...), goals, analytics,
		cache.NewMemoryCache("test"), commission.DefaultRules(), zap.NewNop())
	svc.now = fixedClock
	return svc, goals, analytics
}

func product(name string, price int64, stock int) *entity.Product {
	return &entity.Product{
		ID:        uuid.New(),
		SKU:       strings.ToUpper(name),
		Name:      name,
		PriceSale: price,
		Stock:     stock,
		IsActive:  true,
	}
}

func floatPtr(v float64) *float64 { return &v }

func methodPtr(m enum.PaymentMethod) *enum.PaymentMethod { return &m }
