package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Models lists every table the catalog owns, in creation order.
func Models() []any {
	return []any{
		(*Category)(nil),
		(*Product)(nil),
		(*Coupon)(nil),
		(*User)(nil),
		(*Address)(nil),
	}
}

// Migrate creates the catalog tables and indexes when missing.
func Migrate(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model  any
		name   string
		column string
	}{
		{(*Product)(nil), "products_category_id_idx", "category_id"},
		{(*Address)(nil), "addresses_user_id_idx", "user_id"},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.column).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// Store runs the hand-written catalog queries: the category reads the
// cache sits in front of and the product reads the generic repositories
// cannot express.
type Store struct {
	db bun.IDB
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

func (s *Store) selectWithCounts(rows any) *bun.SelectQuery {
	count := s.db.NewSelect().
		Model((*Product)(nil)).
		ColumnExpr("COUNT(*)").
		Where("p.category_id = c.id")

	return s.db.NewSelect().
		Model(rows).
		ColumnExpr("c.*").
		ColumnExpr("(?) AS product_count", count)
}

// ListWithCounts returns every category ordered by name, each with its
// current product count. An empty catalog yields an empty, non-nil slice.
func (s *Store) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	rows := make([]CategoryWithCount, 0)
	if err := s.selectWithCounts(&rows).OrderExpr("c.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return rows, nil
}

// GetBySlugWithCount returns the category with slug, or nil when there is none.
func (s *Store) GetBySlugWithCount(ctx context.Context, slug string) (*CategoryWithCount, error) {
	row := new(CategoryWithCount)
	err := s.selectWithCounts(row).Where("c.slug = ?", slug).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	return row, nil
}

// ProductCount returns how many products reference categoryID.
func (s *Store) ProductCount(ctx context.Context, categoryID uuid.UUID) (int, error) {
	return s.db.NewSelect().Model((*Product)(nil)).Where("p.category_id = ?", categoryID).Count(ctx)
}

// Repositories bundles the generic CRUD repositories for the catalog models.
type Repositories struct {
	Categories repository.Repository[*Category]
	Products   repository.Repository[*Product]
	Coupons    repository.Repository[*Coupon]
	Users      repository.Repository[*User]
	Addresses  repository.Repository[*Address]
}

// NewRepositories builds go-repository-bun repositories over db.
func NewRepositories(db *bun.DB) Repositories {
	return Repositories{
		Categories: repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
			NewRecord:     func() *Category { return &Category{} },
			GetID:         func(c *Category) uuid.UUID { return c.ID },
			SetID:         func(c *Category, id uuid.UUID) { c.ID = id },
			GetIdentifier: func() string { return "slug" },
		}),
		Products: repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
			NewRecord:     func() *Product { return &Product{} },
			GetID:         func(p *Product) uuid.UUID { return p.ID },
			SetID:         func(p *Product, id uuid.UUID) { p.ID = id },
			GetIdentifier: func() string { return "slug" },
		}),
		Coupons: repository.NewRepository[*Coupon](db, repository.ModelHandlers[*Coupon]{
			NewRecord:     func() *Coupon { return &Coupon{} },
			GetID:         func(c *Coupon) uuid.UUID { return c.ID },
			SetID:         func(c *Coupon, id uuid.UUID) { c.ID = id },
			GetIdentifier: func() string { return "code" },
		}),
		Users: repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
			NewRecord:     func() *User { return &User{} },
			GetID:         func(u *User) uuid.UUID { return u.ID },
			SetID:         func(u *User, id uuid.UUID) { u.ID = id },
			GetIdentifier: func() string { return "email" },
		}),
		Addresses: repository.NewRepository[*Address](db, repository.ModelHandlers[*Address]{
			NewRecord:     func() *Address { return &Address{} },
			GetID:         func(a *Address) uuid.UUID { return a.ID },
			SetID:         func(a *Address, id uuid.UUID) { a.ID = id },
			GetIdentifier: func() string { return "id" },
		}),
	}
}

// ProductQuery filters and pages product listings.
type ProductQuery struct {
	CategoryID uuid.UUID
	Limit      int
	Offset     int
}

const (
	DefaultProductLimit = 50
	MaxProductLimit     = 200
)

// Normalize clamps paging to sane bounds.
func (q ProductQuery) Normalize() ProductQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultProductLimit
	}
	if q.Limit > MaxProductLimit {
		q.Limit = MaxProductLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// ListProducts returns products ordered by name without their image bytes.
func (s *Store) ListProducts(ctx context.Context, q ProductQuery) ([]*Product, error) {
	q = q.Normalize()
	products := make([]*Product, 0)
	query := s.db.NewSelect().
		Model(&products).
		ExcludeColumn("image").
		OrderExpr("p.name ASC").
		Limit(q.Limit).
		Offset(q.Offset)
	if q.CategoryID != uuid.Nil {
		query = query.Where("p.category_id = ?", q.CategoryID)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ProductImage returns the stored image bytes and content type.
func (s *Store) ProductImage(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	p := new(Product)
	err := s.db.NewSelect().
		Model(p).
		Column("image", "image_type").
		Where("p.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get product image: %w", err)
	}
	return p.Image, p.ImageType, nil
}
