package di

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/Adyime/DadapperDaze-sub001/cache"
	"github.com/Adyime/DadapperDaze-sub001/repositorycache"
)

// Shopper is a value-typed model used to drive the container end to end.
type Shopper struct {
	ID    string `json:"id" bun:"id,pk"`
	Name  string `json:"name" bun:"name"`
	Email string `json:"email" bun:"email"`
}

// mockShopperRepository is an in-memory repository that counts calls so
// tests can tell cache hits from base reads.
type mockShopperRepository struct {
	mu        sync.RWMutex
	shoppers  map[string]Shopper
	callCount map[string]int
	failNext  error
}

func newMockShopperRepository() *mockShopperRepository {
	return &mockShopperRepository{
		shoppers:  make(map[string]Shopper),
		callCount: make(map[string]int),
	}
}

func (m *mockShopperRepository) trackCall(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[method]++
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockShopperRepository) getCallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount[method]
}

func (m *mockShopperRepository) setError(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

func (m *mockShopperRepository) sorted() []Shopper {
	out := make([]Shopper, 0, len(m.shoppers))
	for _, s := range m.shoppers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockShopperRepository) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (Shopper, error) {
	if err := m.trackCall("GetByID"); err != nil {
		return Shopper{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shoppers[id]
	if !ok {
		return Shopper{}, errors.New("shopper not found")
	}
	return s, nil
}

func (m *mockShopperRepository) Get(ctx context.Context, criteria ...repository.SelectCriteria) (Shopper, error) {
	if err := m.trackCall("Get"); err != nil {
		return Shopper{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sorted()
	if len(all) == 0 {
		return Shopper{}, errors.New("no shoppers found")
	}
	return all[0], nil
}

func (m *mockShopperRepository) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]Shopper, int, error) {
	if err := m.trackCall("List"); err != nil {
		return nil, 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sorted()
	return all, len(all), nil
}

func (m *mockShopperRepository) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	if err := m.trackCall("Count"); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.shoppers), nil
}

func (m *mockShopperRepository) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (Shopper, error) {
	if err := m.trackCall("GetByIdentifier"); err != nil {
		return Shopper{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shoppers {
		if s.Email == identifier {
			return s, nil
		}
	}
	return Shopper{}, errors.New("shopper not found")
}

func (m *mockShopperRepository) Create(ctx context.Context, s Shopper, criteria ...repository.InsertCriteria) (Shopper, error) {
	if err := m.trackCall("Create"); err != nil {
		return Shopper{}, err
	}
	m.mu.Lock()
	m.shoppers[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *mockShopperRepository) Update(ctx context.Context, s Shopper, criteria ...repository.UpdateCriteria) (Shopper, error) {
	if err := m.trackCall("Update"); err != nil {
		return Shopper{}, err
	}
	m.mu.Lock()
	m.shoppers[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *mockShopperRepository) Delete(ctx context.Context, s Shopper) error {
	if err := m.trackCall("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.shoppers, s.ID)
	m.mu.Unlock()
	return nil
}

func (m *mockShopperRepository) CreateTx(ctx context.Context, tx bun.IDB, record Shopper, criteria ...repository.InsertCriteria) (Shopper, error) {
	return m.Create(ctx, record, criteria...)
}
func (m *mockShopperRepository) CreateMany(ctx context.Context, records []Shopper, criteria ...repository.InsertCriteria) ([]Shopper, error) {
	for _, r := range records {
		if _, err := m.Create(ctx, r, criteria...); err != nil {
			return nil, err
		}
	}
	return records, nil
}
func (m *mockShopperRepository) CreateManyTx(ctx context.Context, tx bun.IDB, records []Shopper, criteria ...repository.InsertCriteria) ([]Shopper, error) {
	return m.CreateMany(ctx, records, criteria...)
}
func (m *mockShopperRepository) GetOrCreate(ctx context.Context, record Shopper) (Shopper, error) {
	if s, err := m.GetByID(ctx, record.ID); err == nil {
		return s, nil
	}
	return m.Create(ctx, record)
}
func (m *mockShopperRepository) GetOrCreateTx(ctx context.Context, tx bun.IDB, record Shopper) (Shopper, error) {
	return m.GetOrCreate(ctx, record)
}
func (m *mockShopperRepository) UpdateTx(ctx context.Context, tx bun.IDB, record Shopper, criteria ...repository.UpdateCriteria) (Shopper, error) {
	return m.Update(ctx, record, criteria...)
}
func (m *mockShopperRepository) UpdateMany(ctx context.Context, records []Shopper, criteria ...repository.UpdateCriteria) ([]Shopper, error) {
	for _, r := range records {
		if _, err := m.Update(ctx, r, criteria...); err != nil {
			return nil, err
		}
	}
	return records, nil
}
func (m *mockShopperRepository) UpdateManyTx(ctx context.Context, tx bun.IDB, records []Shopper, criteria ...repository.UpdateCriteria) ([]Shopper, error) {
	return m.UpdateMany(ctx, records, criteria...)
}
func (m *mockShopperRepository) Upsert(ctx context.Context, record Shopper, criteria ...repository.UpdateCriteria) (Shopper, error) {
	return m.Update(ctx, record, criteria...)
}
func (m *mockShopperRepository) UpsertTx(ctx context.Context, tx bun.IDB, record Shopper, criteria ...repository.UpdateCriteria) (Shopper, error) {
	return m.Update(ctx, record, criteria...)
}
func (m *mockShopperRepository) UpsertMany(ctx context.Context, records []Shopper, criteria ...repository.UpdateCriteria) ([]Shopper, error) {
	return m.UpdateMany(ctx, records, criteria...)
}
func (m *mockShopperRepository) UpsertManyTx(ctx context.Context, tx bun.IDB, records []Shopper, criteria ...repository.UpdateCriteria) ([]Shopper, error) {
	return m.UpdateMany(ctx, records, criteria...)
}
func (m *mockShopperRepository) DeleteTx(ctx context.Context, tx bun.IDB, record Shopper) error {
	return m.Delete(ctx, record)
}
func (m *mockShopperRepository) DeleteMany(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	if err := m.trackCall("DeleteMany"); err != nil {
		return err
	}
	m.mu.Lock()
	m.shoppers = make(map[string]Shopper)
	m.mu.Unlock()
	return nil
}
func (m *mockShopperRepository) DeleteManyTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	return m.DeleteMany(ctx, criteria...)
}
func (m *mockShopperRepository) DeleteWhere(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	return m.DeleteMany(ctx, criteria...)
}
func (m *mockShopperRepository) DeleteWhereTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	return m.DeleteMany(ctx, criteria...)
}
func (m *mockShopperRepository) ForceDelete(ctx context.Context, record Shopper) error {
	return m.Delete(ctx, record)
}
func (m *mockShopperRepository) ForceDeleteTx(ctx context.Context, tx bun.IDB, record Shopper) error {
	return m.Delete(ctx, record)
}
func (m *mockShopperRepository) GetTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (Shopper, error) {
	return m.Get(ctx, criteria...)
}
func (m *mockShopperRepository) GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (Shopper, error) {
	return m.GetByID(ctx, id, criteria...)
}
func (m *mockShopperRepository) ListTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]Shopper, int, error) {
	return m.List(ctx, criteria...)
}
func (m *mockShopperRepository) CountTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (int, error) {
	return m.Count(ctx, criteria...)
}
func (m *mockShopperRepository) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (Shopper, error) {
	return m.GetByIdentifier(ctx, identifier, criteria...)
}
func (m *mockShopperRepository) Raw(ctx context.Context, sql string, args ...any) ([]Shopper, error) {
	m.trackCall("Raw")
	return nil, nil
}
func (m *mockShopperRepository) RawTx(ctx context.Context, tx bun.IDB, sql string, args ...any) ([]Shopper, error) {
	return m.Raw(ctx, sql, args...)
}
func (m *mockShopperRepository) Handlers() repository.ModelHandlers[Shopper] {
	return repository.ModelHandlers[Shopper]{}
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	container, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("Failed to create DI container: %v", err)
	}
	t.Cleanup(func() { container.Close() })
	return container
}

func seedShoppers(t *testing.T, repo *mockShopperRepository, shoppers ...Shopper) {
	t.Helper()
	for _, s := range shoppers {
		if _, err := repo.Create(context.Background(), s); err != nil {
			t.Fatalf("Failed to seed shopper: %v", err)
		}
	}
	repo.mu.Lock()
	repo.callCount = make(map[string]int)
	repo.mu.Unlock()
}

func TestEndToEndCachedRepositoryFlow(t *testing.T) {
	container := newTestContainer(t)
	mockRepo := newMockShopperRepository()
	seedShoppers(t, mockRepo,
		Shopper{ID: "s-1", Name: "Ada", Email: "ada@example.com"},
		Shopper{ID: "s-2", Name: "Grace", Email: "grace@example.com"},
	)

	cachedRepo := NewCachedRepository(container, mockRepo)
	ctx := context.Background()

	if cachedRepo.Namespace() != "shopper" {
		t.Fatalf("expected namespace %q, got %q", "shopper", cachedRepo.Namespace())
	}

	for i := 0; i < 3; i++ {
		s, err := cachedRepo.GetByID(ctx, "s-1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if s.Name != "Ada" {
			t.Errorf("GetByID returned %+v", s)
		}
	}
	if n := mockRepo.getCallCount("GetByID"); n != 1 {
		t.Errorf("Expected base GetByID once, got %d", n)
	}

	for i := 0; i < 2; i++ {
		list, total, err := cachedRepo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 2 || total != 2 {
			t.Errorf("List returned %d records, total %d", len(list), total)
		}
	}
	if n := mockRepo.getCallCount("List"); n != 1 {
		t.Errorf("Expected base List once, got %d", n)
	}

	for i := 0; i < 2; i++ {
		count, err := cachedRepo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Count returned %d", count)
		}
	}
	if n := mockRepo.getCallCount("Count"); n != 1 {
		t.Errorf("Expected base Count once, got %d", n)
	}

	for i := 0; i < 2; i++ {
		s, err := cachedRepo.GetByIdentifier(ctx, "grace@example.com")
		if err != nil {
			t.Fatalf("GetByIdentifier failed: %v", err)
		}
		if s.ID != "s-2" {
			t.Errorf("GetByIdentifier returned %+v", s)
		}
	}
	if n := mockRepo.getCallCount("GetByIdentifier"); n != 1 {
		t.Errorf("Expected base GetByIdentifier once, got %d", n)
	}

	if keys := cachedRepo.TrackedKeys(); len(keys) != 4 {
		t.Errorf("Expected 4 tracked keys, got %v", keys)
	}
}

func TestWritesWithoutInvalidationServeStaleUntilExpiry(t *testing.T) {
	container := newTestContainer(t)
	mockRepo := newMockShopperRepository()
	seedShoppers(t, mockRepo, Shopper{ID: "s-1", Name: "Ada"})

	cachedRepo := NewCachedRepository(container, mockRepo)
	ctx := context.Background()

	if _, err := cachedRepo.GetByID(ctx, "s-1"); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if _, err := cachedRepo.Update(ctx, Shopper{ID: "s-1", Name: "Ada Lovelace"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if n := mockRepo.getCallCount("Update"); n != 1 {
		t.Errorf("Update should pass through to the base repository, got %d calls", n)
	}

	s, err := cachedRepo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if s.Name != "Ada" {
		t.Errorf("expected the cached record, got %+v", s)
	}

	if err := cachedRepo.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	s, err = cachedRepo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if s.Name != "Ada Lovelace" {
		t.Errorf("expected fresh record after Invalidate, got %+v", s)
	}
}

func TestWriteInvalidationFlow(t *testing.T) {
	container := newTestContainer(t)
	mockRepo := newMockShopperRepository()
	seedShoppers(t, mockRepo,
		Shopper{ID: "s-1", Name: "Ada"},
		Shopper{ID: "s-2", Name: "Grace"},
	)

	cachedRepo := NewCachedRepository(container, mockRepo, repositorycache.WithWriteInvalidation())
	ctx := context.Background()

	warm := func() {
		t.Helper()
		if _, err := cachedRepo.GetByID(ctx, "s-1"); err != nil {
			t.Fatalf("GetByID s-1 failed: %v", err)
		}
		if _, err := cachedRepo.GetByID(ctx, "s-2"); err != nil {
			t.Fatalf("GetByID s-2 failed: %v", err)
		}
		if _, _, err := cachedRepo.List(ctx); err != nil {
			t.Fatalf("List failed: %v", err)
		}
	}

	warm()
	if _, err := cachedRepo.Update(ctx, Shopper{ID: "s-1", Name: "Ada Lovelace"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	warm()

	if n := mockRepo.getCallCount("GetByID"); n != 3 {
		t.Errorf("expected s-1 refetched and s-2 served from cache (3 base reads), got %d", n)
	}
	if n := mockRepo.getCallCount("List"); n != 2 {
		t.Errorf("expected List refetched after Update, got %d base reads", n)
	}

	s, err := cachedRepo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if s.Name != "Ada Lovelace" {
		t.Errorf("expected updated record, got %+v", s)
	}

	if err := cachedRepo.DeleteMany(ctx); err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if _, err := cachedRepo.GetByID(ctx, "s-2"); err == nil {
		t.Error("expected s-2 to be gone after DeleteMany")
	}
}

func TestTTLExpiryWithRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Backend = cache.BackendRedis
	cfg.Redis.Addr = mr.Addr()
	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })

	mockRepo := newMockShopperRepository()
	seedShoppers(t, mockRepo, Shopper{ID: "s-1", Name: "Ada"})

	cachedRepo := NewCachedRepository(container, mockRepo, repositorycache.WithTTL(time.Minute))
	ctx := context.Background()

	if _, err := cachedRepo.GetByID(ctx, "s-1"); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if _, err := cachedRepo.GetByID(ctx, "s-1"); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if n := mockRepo.getCallCount("GetByID"); n != 1 {
		t.Fatalf("expected one base read before expiry, got %d", n)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cachedRepo.GetByID(ctx, "s-1"); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if n := mockRepo.getCallCount("GetByID"); n != 2 {
		t.Errorf("expected a base read after the TTL elapsed, got %d", n)
	}
}

func TestErrorPropagation(t *testing.T) {
	container := newTestContainer(t)
	mockRepo := newMockShopperRepository()
	seedShoppers(t, mockRepo, Shopper{ID: "s-1", Name: "Ada"})

	cachedRepo := NewCachedRepository(container, mockRepo)
	ctx := context.Background()

	boom := errors.New("database unavailable")
	mockRepo.setError(boom)

	if _, err := cachedRepo.GetByID(ctx, "s-1"); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}

	s, err := cachedRepo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("errors must not be cached: %v", err)
	}
	if s.Name != "Ada" {
		t.Errorf("unexpected record %+v", s)
	}
	if n := mockRepo.getCallCount("GetByID"); n != 2 {
		t.Errorf("expected 2 base reads, got %d", n)
	}
}

// Order is a second model sharing the container with Shopper.
type Order struct {
	ID         string `json:"id"`
	ShopperID  string `json:"shopper_id"`
	TotalCents int64  `json:"total_cents"`
}

func TestDifferentRepositoryTypes(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	shoppers := newMockShopperRepository()
	seedShoppers(t, shoppers, Shopper{ID: "1", Name: "Ada"})
	cachedShoppers := NewCachedRepository(container, shoppers, repositorycache.WithWriteInvalidation())

	orders := &mockOrderRepository{mockShopperRepository: newMockShopperRepository()}
	cachedOrders := NewCachedRepository[Order](container, orders)

	if cachedShoppers.Namespace() == cachedOrders.Namespace() {
		t.Fatalf("repositories must not share a namespace: %q", cachedShoppers.Namespace())
	}

	if _, err := cachedShoppers.GetByID(ctx, "1"); err != nil {
		t.Fatalf("shopper GetByID failed: %v", err)
	}
	if _, err := cachedOrders.GetByID(ctx, "1"); err != nil {
		t.Fatalf("order GetByID failed: %v", err)
	}

	// Invalidating shoppers leaves orders cached.
	if err := cachedShoppers.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := cachedOrders.GetByID(ctx, "1"); err != nil {
		t.Fatalf("order GetByID failed: %v", err)
	}
	if n := orders.orderReads; n != 1 {
		t.Errorf("expected orders to stay cached, got %d base reads", n)
	}
}

// mockOrderRepository serves a fixed order for any ID.
type mockOrderRepository struct {
	*mockShopperRepository
	orderReads int
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (Order, error) {
	m.orderReads++
	return Order{ID: id, ShopperID: "1", TotalCents: 4200}, nil
}
func (m *mockOrderRepository) Get(ctx context.Context, criteria ...repository.SelectCriteria) (Order, error) {
	return m.GetByID(ctx, "1")
}
func (m *mockOrderRepository) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (Order, error) {
	return m.GetByID(ctx, identifier)
}
func (m *mockOrderRepository) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]Order, int, error) {
	o, _ := m.GetByID(ctx, "1")
	return []Order{o}, 1, nil
}
func (m *mockOrderRepository) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	return 1, nil
}
func (m *mockOrderRepository) Create(ctx context.Context, o Order, criteria ...repository.InsertCriteria) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) Update(ctx context.Context, o Order, criteria ...repository.UpdateCriteria) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) Delete(ctx context.Context, o Order) error { return nil }
func (m *mockOrderRepository) CreateTx(ctx context.Context, tx bun.IDB, o Order, criteria ...repository.InsertCriteria) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) CreateMany(ctx context.Context, os []Order, criteria ...repository.InsertCriteria) ([]Order, error) {
	return os, nil
}
func (m *mockOrderRepository) CreateManyTx(ctx context.Context, tx bun.IDB, os []Order, criteria ...repository.InsertCriteria) ([]Order, error) {
	return os, nil
}
func (m *mockOrderRepository) GetOrCreate(ctx context.Context, o Order) (Order, error) { return o, nil }
func (m *mockOrderRepository) GetOrCreateTx(ctx context.Context, tx bun.IDB, o Order) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) UpdateTx(ctx context.Context, tx bun.IDB, o Order, criteria ...repository.UpdateCriteria) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) UpdateMany(ctx context.Context, os []Order, criteria ...repository.UpdateCriteria) ([]Order, error) {
	return os, nil
}
func (m *mockOrderRepository) UpdateManyTx(ctx context.Context, tx bun.IDB, os []Order, criteria ...repository.UpdateCriteria) ([]Order, error) {
	return os, nil
}
func (m *mockOrderRepository) Upsert(ctx context.Context, o Order, criteria ...repository.UpdateCriteria) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) UpsertTx(ctx context.Context, tx bun.IDB, o Order, criteria ...repository.UpdateCriteria) (Order, error) {
	return o, nil
}
func (m *mockOrderRepository) UpsertMany(ctx context.Context, os []Order, criteria ...repository.UpdateCriteria) ([]Order, error) {
	return os, nil
}
func (m *mockOrderRepository) UpsertManyTx(ctx context.Context, tx bun.IDB, os []Order, criteria ...repository.UpdateCriteria) ([]Order, error) {
	return os, nil
}
func (m *mockOrderRepository) DeleteTx(ctx context.Context, tx bun.IDB, o Order) error { return nil }
func (m *mockOrderRepository) ForceDelete(ctx context.Context, o Order) error          { return nil }
func (m *mockOrderRepository) ForceDeleteTx(ctx context.Context, tx bun.IDB, o Order) error {
	return nil
}
func (m *mockOrderRepository) GetTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (Order, error) {
	return m.Get(ctx)
}
func (m *mockOrderRepository) GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (Order, error) {
	return m.GetByID(ctx, id)
}
func (m *mockOrderRepository) ListTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]Order, int, error) {
	return m.List(ctx)
}
func (m *mockOrderRepository) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (Order, error) {
	return m.GetByID(ctx, identifier)
}
func (m *mockOrderRepository) Raw(ctx context.Context, sql string, args ...any) ([]Order, error) {
	return nil, nil
}
func (m *mockOrderRepository) RawTx(ctx context.Context, tx bun.IDB, sql string, args ...any) ([]Order, error) {
	return nil, nil
}
func (m *mockOrderRepository) Handlers() repository.ModelHandlers[Order] {
	return repository.ModelHandlers[Order]{}
}
