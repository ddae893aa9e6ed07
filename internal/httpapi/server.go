// Package httpapi exposes the storefront catalog over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adyime/DadapperDaze-sub001/internal/catalog"
)

// Catalog is the part of catalog.Service the API serves.
type Catalog interface {
	Categories(ctx context.Context) ([]catalog.CategoryWithCount, error)
	CategoryBySlug(ctx context.Context, slug string) (*catalog.CategoryWithCount, error)
	CategoryChart(ctx context.Context) ([]catalog.ChartPoint, error)
	CreateCategory(ctx context.Context, in catalog.Category) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in catalog.Category) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Products(ctx context.Context, q catalog.ProductQuery) ([]*catalog.Product, error)
	Product(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	ProductImage(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	CreateProduct(ctx context.Context, in catalog.Product) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CouponByCode(ctx context.Context, code string) (*catalog.Coupon, error)
	CreateCoupon(ctx context.Context, in catalog.Coupon) (*catalog.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error

	CreateUser(ctx context.Context, in catalog.User) (*catalog.User, error)
	Addresses(ctx context.Context, userID uuid.UUID) ([]*catalog.Address, error)
	AddAddress(ctx context.Context, userID uuid.UUID, in catalog.Address) (*catalog.Address, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger, e.g. (*sql.DB).PingContext.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Config wires the server's dependencies. DB and Cache feed /healthz;
// Gatherer enables /metrics when set.
type Config struct {
	Catalog  Catalog
	DB       Pinger
	Cache    Pinger
	APIKey   string
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server routes storefront requests.
type Server struct {
	catalog  Catalog
	db       Pinger
	cache    Pinger
	apiKey   string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	handler  http.Handler
}

// New builds a Server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		catalog:  cfg.Catalog,
		db:       cfg.DB,
		cache:    cfg.Cache,
		apiKey:   cfg.APIKey,
		gatherer: cfg.Gatherer,
		logger:   cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = logRequests(withMemo(mux))
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("GET /api/categories", s.listCategories)
	mux.HandleFunc("GET /api/categories/{slug}", s.getCategory)
	mux.HandleFunc("GET /api/products", s.listProducts)
	mux.HandleFunc("GET /api/products/{id}", s.getProduct)
	mux.HandleFunc("GET /api/products/{id}/image", s.getProductImage)
	mux.HandleFunc("GET /api/coupons/{code}", s.getCoupon)

	admin := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, requireAPIKey(s.apiKey, h))
	}
	admin("POST /api/admin/categories", s.createCategory)
	admin("PUT /api/admin/categories/{id}", s.updateCategory)
	admin("DELETE /api/admin/categories/{id}", s.deleteCategory)
	admin("POST /api/admin/products", s.createProduct)
	admin("PUT /api/admin/products/{id}", s.updateProduct)
	admin("DELETE /api/admin/products/{id}", s.deleteProduct)
	admin("POST /api/admin/coupons", s.createCoupon)
	admin("DELETE /api/admin/coupons/{id}", s.deleteCoupon)
	admin("POST /api/admin/users", s.createUser)
	admin("GET /api/admin/users/{id}/addresses", s.listAddresses)
	admin("POST /api/admin/users/{id}/addresses", s.addAddress)
	admin("GET /api/admin/dashboard/chart", s.dashboardChart)
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Cache  string `json:"cache"`
}

// handleHealth fails only when the database is down. A broken cache is
// reported as degraded since reads fall through to the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", DB: "ok", Cache: "ok"}
	status := http.StatusOK

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "cache health check failed", "error", err)
			resp.Status, resp.Cache = "degraded", "unavailable"
		}
	}
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			s.logger.ErrorContext(ctx, "database health check failed", "error", err)
			resp.Status, resp.DB = "unavailable", "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}
