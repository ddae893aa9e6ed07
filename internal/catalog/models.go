package catalog

import (
	"context"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Category groups products on the storefront.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c" json:"-" msgpack:"-"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// CategoryWithCount is a category plus the number of products in it at the
// time it was read.
type CategoryWithCount struct {
	Category     `bun:",extend"`
	ProductCount int `bun:"product_count,scanonly" json:"product_count"`
}

// Product is a sellable item. Image holds the raw bytes of the product
// picture; it is never rendered in JSON nor written to the cache, so reads
// fetch it through ProductImage.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p" json:"-" msgpack:"-"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Description string    `bun:"description" json:"description"`
	PriceCents  int64     `bun:"price_cents,notnull" json:"price_cents"`
	Stock       int       `bun:"stock,notnull" json:"stock"`
	CategoryID  uuid.UUID `bun:"category_id,type:uuid,notnull" json:"category_id"`
	Image       []byte    `bun:"image" json:"-" msgpack:"-"`
	ImageType   string    `bun:"image_type" json:"image_type,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// Coupon grants a percentage discount until it expires or is deactivated.
type Coupon struct {
	bun.BaseModel `bun:"table:coupons,alias:cp" json:"-" msgpack:"-"`

	ID              uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Code            string    `bun:"code,notnull,unique" json:"code"`
	DiscountPercent int       `bun:"discount_percent,notnull" json:"discount_percent"`
	ExpiresAt       time.Time `bun:"expires_at,notnull" json:"expires_at"`
	Active          bool      `bun:"active,notnull" json:"active"`
}

// User is a customer or an administrator.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-" msgpack:"-"`

	ID    uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email string    `bun:"email,notnull,unique" json:"email"`
	Name  string    `bun:"name,notnull" json:"name"`
	Role  string    `bun:"role,notnull" json:"role"`
}

// Address is a shipping address owned by a user.
type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a" json:"-" msgpack:"-"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	UserID     uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	Line1      string    `bun:"line1,notnull" json:"line1"`
	Line2      string    `bun:"line2" json:"line2,omitempty"`
	City       string    `bun:"city,notnull" json:"city"`
	PostalCode string    `bun:"postal_code,notnull" json:"postal_code"`
	Country    string    `bun:"country,notnull" json:"country"`
}

// ChartPoint is one bar of the admin dashboard chart.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var imageTypes = []any{"image/png", "image/jpeg", "image/gif", "image/webp"}

// requiredID rejects uuid.Nil; validation.Required treats any [16]byte as set.
var requiredID = validation.By(func(value any) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return validation.ErrRequired
	}
	return nil
})

func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Slug, validation.Required, validation.Length(1, 120), validation.Match(slugPattern)),
	)
}

func (p Product) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.Required, validation.Length(1, 200), validation.Match(slugPattern)),
		validation.Field(&p.PriceCents, validation.Min(int64(0))),
		validation.Field(&p.Stock, validation.Min(0)),
		validation.Field(&p.CategoryID, requiredID),
		validation.Field(&p.ImageType, validation.When(len(p.Image) > 0, validation.Required, validation.In(imageTypes...))),
	)
}

func (c Coupon) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Code, validation.Required, validation.Length(3, 32), is.Alphanumeric),
		validation.Field(&c.DiscountPercent, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.ExpiresAt, validation.Required),
	)
}

func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.EmailFormat),
		validation.Field(&u.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&u.Role, validation.Required, validation.In(RoleCustomer, RoleAdmin)),
	)
}

func (a Address) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.UserID, requiredID),
		validation.Field(&a.Line1, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.City, validation.Required),
		validation.Field(&a.PostalCode, validation.Required, validation.Length(2, 16)),
		validation.Field(&a.Country, validation.Required, validation.Length(2, 2), is.CountryCode2),
	)
}

// NormalizeCode upper-cases a coupon code the way it is stored.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var (
	_ bun.BeforeAppendModelHook = (*Category)(nil)
	_ bun.BeforeAppendModelHook = (*Product)(nil)
)

func (c *Category) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
	case *bun.UpdateQuery:
		c.UpdatedAt = now
	}
	return nil
}

func (p *Product) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
	case *bun.UpdateQuery:
		p.UpdatedAt = now
	}
	return nil
}
