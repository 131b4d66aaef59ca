package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/abinashpathak707-web/kishore-general-store/internal/share"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	Store *store.Store
	Share share.Builder
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Post("/customers", h.create)
	r.Get("/customers/{id}", h.get)
	r.Get("/customers/{id}/ledger", h.ledger)
	r.Get("/customers/{id}/share", h.shareLink)
}

type customerPayload struct {
	Name    string `json:"name" validate:"required"`
	Mobile  string `json:"mobile" validate:"required"`
	Address string `json:"address"`
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	items := h.Store.Customers(r.URL.Query().Get("q"))
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.Store.AddCustomer(r.Context(), domain.Customer{
		Name:    req.Name,
		Mobile:  req.Mobile,
		Address: req.Address,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(*c))
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Store.Customer(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(*customer))
}

// ledger is the customer drill-down: every bill plus sale/paid/due rollups.
func (h CustomerHandler) ledger(w http.ResponseWriter, r *http.Request) {
	customer, bills, sum, err := h.Store.CustomerLedger(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	billResponses := make([]map[string]any, 0, len(bills))
	for _, b := range bills {
		billResponses = append(billResponses, toBillResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customer":  toCustomerResponse(*customer),
		"bills":     billResponses,
		"totalSale": sum.TotalSale,
		"totalPaid": sum.TotalPaid,
		"totalDue":  sum.TotalDue,
	})
}

func (h CustomerHandler) shareLink(w http.ResponseWriter, r *http.Request) {
	customer, _, sum, err := h.Store.CustomerLedger(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	message := h.Share.KhataMessage(*customer, sum)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"link":    h.Share.WhatsAppLink(customer.Mobile, message),
	})
}

func toCustomerResponse(c domain.Customer) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"name":    c.Name,
		"mobile":  c.Mobile,
		"address": c.Address,
	}
}
