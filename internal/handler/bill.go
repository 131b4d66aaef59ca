package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/billing"
	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/abinashpathak707-web/kishore-general-store/internal/share"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type BillHandler struct {
	Store *store.Store
	Share share.Builder
}

func (h BillHandler) RegisterRoutes(r chi.Router) {
	r.Post("/bills/draft", h.draft)
	r.Post("/bills", h.finalize)
	r.Get("/bills", h.list)
	r.Get("/bills/{id}", h.get)
	r.Delete("/bills/{id}", h.delete)
	r.Get("/bills/{id}/share", h.shareLink)
	r.Get("/bills/{id}/receipt", h.receipt)
}

// billLine is the wire form of a bill line: the product snapshot taken when
// the line was first added, plus its current quantity.
type billLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Unit      domain.UnitType `json:"unit"`
	Quantity  int64           `json:"quantity"`
}

type draftAction struct {
	Type        string `json:"type" validate:"required,oneof=add step set"`
	ProductID   string `json:"productId" validate:"required"`
	Direction   string `json:"direction" validate:"omitempty,oneof=plus minus"`
	Value       string `json:"value"`
	Granularity string `json:"granularity" validate:"omitempty,oneof=major minor"`
}

type draftPayload struct {
	Lines      []billLine      `json:"lines"`
	Action     draftAction     `json:"action"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

// draft applies one calculator action to a line set being built on screen
// and returns the new lines with running totals. Nothing is persisted; the
// bill exists only once finalize succeeds.
func (h BillHandler) draft(w http.ResponseWriter, r *http.Request) {
	var req draftPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req.Action); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines := toBillItems(req.Lines)
	switch req.Action.Type {
	case "add":
		product, err := h.Store.Product(req.Action.ProductID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		lines = billing.AddOrMergeLine(lines, *product)
	case "step":
		lines = billing.ApplyStep(lines, req.Action.ProductID, billing.Direction(req.Action.Direction))
	case "set":
		lines = billing.ApplyExactQuantity(lines, req.Action.ProductID, req.Action.Value, billing.Granularity(req.Action.Granularity))
	}

	totals := billing.Totals(lines, req.PaidAmount)
	writeJSON(w, http.StatusOK, map[string]any{
		"lines":       toLineResponses(lines),
		"totalAmount": totals.TotalAmount,
		"dueAmount":   totals.DueAmount,
		"status":      totals.Status,
	})
}

type billPayload struct {
	CustomerID string          `json:"customerId" validate:"required"`
	Items      []billLine      `json:"items"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

func (h BillHandler) finalize(w http.ResponseWriter, r *http.Request) {
	var req billPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bill, err := h.Store.FinalizeBill(r.Context(), req.CustomerID, toBillItems(req.Items), req.PaidAmount)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResponse(*bill))
}

func (h BillHandler) list(w http.ResponseWriter, r *http.Request) {
	bills := h.Store.Bills()
	resp := make([]map[string]any, 0, len(bills))
	for _, b := range bills {
		resp = append(resp, toBillResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BillHandler) get(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Store.Bill(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill))
}

type deletePayload struct {
	Pin string `json:"pin"`
}

func (h BillHandler) delete(w http.ResponseWriter, r *http.Request) {
	var req deletePayload
	if r.Body != nil {
		// PIN is optional when none is configured; ignore a missing body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Store.DeleteBill(r.Context(), chi.URLParam(r, "id"), req.Pin); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h BillHandler) shareLink(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Store.Bill(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	message := h.Share.BillMessage(*bill)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"link":    h.Share.WhatsAppLink(bill.CustomerMobile, message),
	})
}

// receipt renders the printable plain-text bill.
func (h BillHandler) receipt(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Store.Bill(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(h.Share.Receipt(*bill)))
}

func toBillItems(lines []billLine) []domain.BillItem {
	out := make([]domain.BillItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.BillItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			BasePrice: l.BasePrice,
			Unit:      l.Unit,
			Quantity:  l.Quantity,
			Price:     billing.LinePrice(l.BasePrice, l.Quantity, l.Unit),
		})
	}
	return out
}

func toLineResponses(lines []domain.BillItem) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]any{
			"productId":       l.ProductID,
			"name":            l.Name,
			"basePrice":       l.BasePrice,
			"unit":            l.Unit,
			"quantity":        l.Quantity,
			"quantityDisplay": billing.FormatQuantity(l.Quantity, l.Unit),
			"calculatedPrice": l.Price,
		})
	}
	return out
}

func toBillResponse(b domain.Bill) map[string]any {
	return map[string]any{
		"id":             b.ID,
		"billNumber":     b.BillNumber,
		"customerId":     b.CustomerID,
		"customerName":   b.CustomerName,
		"customerMobile": b.CustomerMobile,
		"items":          toLineResponses(b.Items),
		"totalAmount":    b.TotalAmount,
		"paidAmount":     b.PaidAmount,
		"dueAmount":      b.DueAmount,
		"date":           b.Date,
		"time":           b.Time,
		"status":         b.Status,
	}
}
