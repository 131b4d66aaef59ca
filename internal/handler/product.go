package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Store *store.Store
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
}

type productPayload struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Unit     domain.UnitType `json:"unit" validate:"required,oneof=Piece KG L"`
	Stock    int             `json:"stock"`
	Image    string          `json:"image"`
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	items := h.Store.Products(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, toProductResponses(items))
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.Store.AddProduct(r.Context(), domain.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Unit:     req.Unit,
		Stock:    req.Stock,
		Image:    req.Image,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*p))
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.Store.UpdateProduct(r.Context(), domain.Product{
		ID:       chi.URLParam(r, "id"),
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Unit:     req.Unit,
		Stock:    req.Stock,
		Image:    req.Image,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func toProductResponses(items []domain.Product) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductResponse(p domain.Product) map[string]any {
	return map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"category":  p.Category,
		"price":     p.Price,
		"unit":      p.Unit,
		"stock":     p.Stock,
		"dateAdded": p.DateAdded,
		"image":     p.Image,
	}
}
