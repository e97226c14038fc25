package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alamin00006/business-management/internal/cache"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const productCacheTTL = 30 * time.Second

type ProductHandler struct {
	Repo  repository.ProductRepository
	Cache cache.ProductListCache
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Get("/products/low-stock", h.lowStock)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.remove)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	limit := parseLimitQuery(r, 200)
	key := search + ":" + strconv.Itoa(limit)

	if items, ok, err := h.Cache.Get(r.Context(), key); err == nil && ok {
		writeJSON(w, http.StatusOK, productListPayload(items))
		return
	}

	items, err := h.Repo.List(r.Context(), search, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = h.Cache.Set(r.Context(), key, items, productCacheTTL)
	writeJSON(w, http.StatusOK, productListPayload(items))
}

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productPayload(*p))
}

func (h ProductHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Repo.LowStock(r.Context(), branchID, parseLimitQuery(r, 100))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"branchId":    it.BranchID,
			"quantity":    it.Quantity,
			"minStock":    it.MinStock,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type productRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	CategoryID *int64 `json:"categoryId"`
	BrandID    *int64 `json:"brandId"`
	Price      string `json:"price"`
	Cost       string `json:"cost"`
	MinStock   int    `json:"minStock"`
}

func (req productRequest) toInput() (repository.SaveProductInput, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return repository.SaveProductInput{}, &domain.ValidationError{Field: "price", Reason: "must be a decimal number"}
	}
	cost := decimal.Zero
	if req.Cost != "" {
		cost, err = decimal.NewFromString(req.Cost)
		if err != nil {
			return repository.SaveProductInput{}, &domain.ValidationError{Field: "cost", Reason: "must be a decimal number"}
		}
	}
	if req.Name == "" {
		return repository.SaveProductInput{}, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	return repository.SaveProductInput{
		Name:       req.Name,
		SKU:        req.SKU,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		Price:      price,
		Cost:       cost,
		MinStock:   req.MinStock,
	}, nil
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := h.Repo.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = h.Cache.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, productPayload(*p))
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := h.Repo.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = h.Cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, productPayload(*p))
}

func (h ProductHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.SoftDelete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	_ = h.Cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func productPayload(p domain.Product) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"sku":        p.SKU,
		"categoryId": p.CategoryID,
		"brandId":    p.BrandID,
		"price":      p.Price.String(),
		"cost":       p.Cost.String(),
		"minStock":   p.MinStock,
	}
}

func productListPayload(items []domain.Product) []map[string]any {
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, productPayload(p))
	}
	return resp
}
