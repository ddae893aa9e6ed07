package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Adyime/DadapperDaze-sub001/cache"
	"github.com/Adyime/DadapperDaze-sub001/memo"
)

const (
	DefaultCategoryTTL = 30 * time.Minute
	DefaultProductTTL  = 5 * time.Minute

	categoryNamespace = "category"
	productNamespace  = "product"
)

// Deps are the collaborators a Service reads and writes through.
//
// Repos.Products should be a repositorycache decorator using the "product"
// namespace with write invalidation enabled, so product writes also drop
// the listings cached under "product:list".
type Deps struct {
	Store *Store
	Repos Repositories
	Cache cache.CacheService
	Keys  cache.KeySerializer
}

// Service implements the storefront catalog operations.
//
// Category reads are cached for the category TTL and never invalidated on
// write; an edited category becomes visible when its entry expires.
type Service struct {
	store *Store
	repos Repositories
	cache cache.CacheService
	keys  cache.KeySerializer

	categoryTTL time.Duration
	productTTL  time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithCategoryTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.categoryTTL = ttl
		}
	}
}

func WithProductTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.productTTL = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for coupon expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(deps Deps, opts ...Option) *Service {
	keys := deps.Keys
	if keys == nil {
		keys = cache.NewDefaultKeySerializer()
	}
	s := &Service{
		store:       deps.Store,
		repos:       deps.Repos,
		cache:       deps.Cache,
		keys:        keys,
		categoryTTL: DefaultCategoryTTL,
		productTTL:  DefaultProductTTL,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns every category with its product count. An empty
// catalog is cached like any other result.
func (s *Service) Categories(ctx context.Context) ([]CategoryWithCount, error) {
	key := s.keys.SerializeKey(categoryNamespace)
	return memo.Do(ctx, key, func(ctx context.Context) ([]CategoryWithCount, error) {
		return cache.GetOrFetch(ctx, s.cache, key, s.categoryTTL, s.store.ListWithCounts)
	})
}

// CategoryBySlug returns one category with its product count. Unknown
// slugs are not cached, so a category created later is found immediately.
// Rows live under "category:slug:<slug>" so no slug can land on the
// "category:all" listing.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*CategoryWithCount, error) {
	if slug == "" || !slugPattern.MatchString(slug) {
		return nil, ErrNotFound
	}

	key := s.keys.SerializeKey(categoryNamespace, "slug", slug)
	row, err := memo.Do(ctx, key, func(ctx context.Context) (*CategoryWithCount, error) {
		return cache.GetOrFetch(ctx, s.cache, key, s.categoryTTL,
			func(ctx context.Context) (*CategoryWithCount, error) {
				return s.store.GetBySlugWithCount(ctx, slug)
			},
			cache.CacheIf(cache.NotNil[CategoryWithCount]),
		)
	})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

// CategoryChart returns one point per category for the admin dashboard.
func (s *Service) CategoryChart(ctx context.Context) ([]ChartPoint, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	points := make([]ChartPoint, 0, len(categories))
	for _, c := range categories {
		points = append(points, ChartPoint{Label: c.Name, Value: c.ProductCount})
	}
	return points, nil
}

func (s *Service) CreateCategory(ctx context.Context, in Category) (*Category, error) {
	in.ID = uuid.New()
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repos.Categories.Create(ctx, &in)
	if err != nil {
		return nil, writeError("create category", err)
	}
	s.categoryChanged(ctx, "create", created.Slug)
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in Category) (*Category, error) {
	existing, err := s.repos.Categories.GetByID(ctx, id.String())
	if err != nil {
		return nil, notFound(err)
	}

	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.repos.Categories.Update(ctx, &in, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.ExcludeColumn("created_at")
	})
	if err != nil {
		return nil, writeError("update category", err)
	}
	s.categoryChanged(ctx, "update", updated.Slug)
	return updated, nil
}

// DeleteCategory removes an empty category. A category that still holds
// products is rejected with ErrConflict.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repos.Categories.GetByID(ctx, id.String())
	if err != nil {
		return notFound(err)
	}

	n, err := s.store.ProductCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category %q still has %d products", ErrConflict, existing.Slug, n)
	}
	if err := s.repos.Categories.Delete(ctx, existing); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.categoryChanged(ctx, "delete", existing.Slug)
	return nil
}

func (s *Service) categoryChanged(ctx context.Context, op, slug string) {
	s.logger.InfoContext(ctx, "category changed, cached reads refresh on expiry",
		"op", op, "slug", slug, "ttl", s.categoryTTL)
}

// Products lists products, optionally restricted to one category. Results
// are cached under "product:list:..." and dropped on any product write.
func (s *Service) Products(ctx context.Context, q ProductQuery) ([]*Product, error) {
	q = q.Normalize()
	key := s.keys.SerializeKey(productNamespace, "list", q.CategoryID, q.Limit, q.Offset)
	return memo.Do(ctx, key, func(ctx context.Context) ([]*Product, error) {
		return cache.GetOrFetch(ctx, s.cache, key, s.productTTL, func(ctx context.Context) ([]*Product, error) {
			return s.store.ListProducts(ctx, q)
		})
	})
}

// Product returns a product without its image bytes, whether it came from
// the cache or the database.
func (s *Service) Product(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repos.Products.GetByID(ctx, id.String())
	if err != nil {
		return nil, notFound(err)
	}
	out := *p
	out.Image = nil
	return &out, nil
}

func (s *Service) CreateProduct(ctx context.Context, in Product) (*Product, error) {
	in.ID = uuid.New()
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	created, err := s.repos.Products.Create(ctx, &in)
	if err != nil {
		return nil, writeError("create product", err)
	}
	return created, nil
}

// UpdateProduct replaces a product's fields. The stored image is kept
// unless in carries a new one.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, in Product) (*Product, error) {
	existing, err := s.repos.Products.GetByID(ctx, id.String())
	if err != nil {
		return nil, notFound(err)
	}

	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.CategoryID != existing.CategoryID {
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	keepImage := len(in.Image) == 0
	updated, err := s.repos.Products.Update(ctx, &in, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		q = q.ExcludeColumn("created_at")
		if keepImage {
			q = q.ExcludeColumn("image", "image_type")
		}
		return q
	})
	if err != nil {
		return nil, writeError("update product", err)
	}
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repos.Products.GetByID(ctx, id.String())
	if err != nil {
		return notFound(err)
	}
	if err := s.repos.Products.Delete(ctx, existing); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ProductImage returns a product's picture and its content type. Images are
// read from the database directly and never cached.
func (s *Service) ProductImage(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	data, contentType, err := s.store.ProductImage(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", ErrNotFound
	}
	return data, contentType, nil
}

func (s *Service) requireCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.Categories.GetByID(ctx, id.String()); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: category %s does not exist", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *Service) CreateCoupon(ctx context.Context, in Coupon) (*Coupon, error) {
	in.ID = uuid.New()
	in.Code = NormalizeCode(in.Code)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repos.Coupons.Create(ctx, &in)
	if err != nil {
		return nil, writeError("create coupon", err)
	}
	return created, nil
}

func (s *Service) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repos.Coupons.GetByID(ctx, id.String())
	if err != nil {
		return notFound(err)
	}
	return s.repos.Coupons.Delete(ctx, existing)
}

// CouponByCode looks a coupon up by code and checks that it can still
// be applied to an order.
func (s *Service) CouponByCode(ctx context.Context, code string) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrNotFound
	}
	c, err := s.repos.Coupons.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	switch {
	case !c.Active:
		return nil, ErrCouponInactive
	case !s.now().Before(c.ExpiresAt):
		return nil, ErrCouponExpired
	}
	return c, nil
}

func (s *Service) CreateUser(ctx context.Context, in User) (*User, error) {
	in.ID = uuid.New()
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = RoleCustomer
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repos.Users.Create(ctx, &in)
	if err != nil {
		return nil, writeError("create user", err)
	}
	return created, nil
}

// Addresses returns the addresses a user has saved.
func (s *Service) Addresses(ctx context.Context, userID uuid.UUID) ([]*Address, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, _, err := s.repos.Addresses.List(ctx, byUser(userID))
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if rows == nil {
		rows = []*Address{}
	}
	return rows, nil
}

func (s *Service) AddAddress(ctx context.Context, userID uuid.UUID, in Address) (*Address, error) {
	in.ID = uuid.New()
	in.UserID = userID
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	created, err := s.repos.Addresses.Create(ctx, &in)
	if err != nil {
		return nil, writeError("create address", err)
	}
	return created, nil
}

func byUser(userID uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.user_id = ?", userID).OrderExpr("?TableAlias.city ASC")
	}
}

func (s *Service) requireUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.Users.GetByID(ctx, id.String()); err != nil {
		return notFound(err)
	}
	return nil
}
