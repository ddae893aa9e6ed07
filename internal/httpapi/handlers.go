package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Adyime/DadapperDaze-sub001/internal/catalog"
)

const maxBodyBytes = 8 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.catalog.CategoryBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// listProducts accepts ?category= as either a category id or a slug.
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var q catalog.ProductQuery
	var err error
	if q.Limit, err = queryInt(r, "limit"); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Offset, err = queryInt(r, "offset"); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		if id, perr := uuid.Parse(raw); perr == nil {
			q.CategoryID = id
		} else {
			category, err := s.catalog.CategoryBySlug(r.Context(), raw)
			if err != nil {
				writeServiceError(w, r, s.logger, err)
				return
			}
			q.CategoryID = category.ID
		}
	}

	q = q.Normalize()
	products, err := s.catalog.Products(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	writePaginatedList(w, q.Limit, q.Offset, len(products), products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := s.catalog.Product(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) getProductImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, contentType, err := s.catalog.ProductImage(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) getCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := s.catalog.CouponByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.Category
	if !decodeJSON(w, r, &in) {
		return
	}
	created, err := s.catalog.CreateCategory(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in catalog.Category
	if !decodeJSON(w, r, &in) {
		return
	}
	updated, err := s.catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productRequest is the admin payload for products. Image travels as
// base64 in JSON, which encoding/json decodes into []byte.
type productRequest struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	CategoryID  uuid.UUID `json:"category_id"`
	Image       []byte    `json:"image"`
	ImageType   string    `json:"image_type"`
}

func (p productRequest) product() catalog.Product {
	return catalog.Product{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Image:       p.Image,
		ImageType:   p.ImageType,
	}
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in productRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	created, err := s.catalog.CreateProduct(r.Context(), in.product())
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in productRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	updated, err := s.catalog.UpdateProduct(r.Context(), id, in.product())
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createCoupon(w http.ResponseWriter, r *http.Request) {
	var in catalog.Coupon
	if !decodeJSON(w, r, &in) {
		return
	}
	created, err := s.catalog.CreateCoupon(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeleteCoupon(r.Context(), id); err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in catalog.User
	if !decodeJSON(w, r, &in) {
		return
	}
	created, err := s.catalog.CreateUser(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listAddresses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	addresses, err := s.catalog.Addresses(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, addresses)
}

func (s *Server) addAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in catalog.Address
	if !decodeJSON(w, r, &in) {
		return
	}
	created, err := s.catalog.AddAddress(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) dashboardChart(w http.ResponseWriter, r *http.Request) {
	points, err := s.catalog.CategoryChart(r.Context())
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
