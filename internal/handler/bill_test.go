package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/abinashpathak707-web/kishore-general-store/internal/share"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStateStore struct {
	records map[string][]byte
}

func (m *memStateStore) Load(_ context.Context, key string, out any) error {
	raw, ok := m.records[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (m *memStateStore) Save(_ context.Context, key string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.records[key] = raw
	return nil
}

func (m *memStateStore) DeleteAll(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.records, k)
	}
	return nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *store.Store) {
	t.Helper()

	s := store.New(&memStateStore{records: make(map[string][]byte)},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Load(context.Background()))

	builder := share.Builder{StoreName: "Kishore General Store", Region: "IN"}
	r := chi.NewRouter()
	ProductHandler{Store: s}.RegisterRoutes(r)
	CustomerHandler{Store: s, Share: builder}.RegisterRoutes(r)
	BillHandler{Store: s, Share: builder}.RegisterRoutes(r)
	SettingsHandler{Store: s}.RegisterRoutes(r)
	return r, s
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func seedCustomer(t *testing.T, s *store.Store) *domain.Customer {
	t.Helper()
	c, err := s.AddCustomer(context.Background(), domain.Customer{Name: "Ramesh", Mobile: "9876543210"})
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, s *store.Store, name, price string, unit domain.UnitType) *domain.Product {
	t.Helper()
	p, err := s.AddProduct(context.Background(), domain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Unit:  unit,
	})
	require.NoError(t, err)
	return p
}

func TestDraft_AddAndStep(t *testing.T) {
	r, s := newTestRouter(t)
	p := seedProduct(t, s, "Chawal", "80", domain.UnitKG)

	rec := doJSON(t, r, http.MethodPost, "/bills/draft", map[string]any{
		"lines":  []any{},
		"action": map[string]any{"type": "add", "productId": p.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	lines := data["lines"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "1 KG", line["quantityDisplay"])
	assert.Equal(t, "80", data["totalAmount"])

	// Step the line down: one whole kilo halves to 500 grams.
	rec = doJSON(t, r, http.MethodPost, "/bills/draft", map[string]any{
		"lines":  lines,
		"action": map[string]any{"type": "step", "productId": p.ID, "direction": "minus"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data = decodeData(t, rec)
	line = data["lines"].([]any)[0].(map[string]any)
	assert.Equal(t, "500 gram", line["quantityDisplay"])
	assert.Equal(t, "40", data["totalAmount"])
}

func TestDraft_UnknownProduct(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/bills/draft", map[string]any{
		"action": map[string]any{"type": "add", "productId": "nope"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFinalizeBill_HTTP(t *testing.T) {
	r, s := newTestRouter(t)
	c := seedCustomer(t, s)
	p := seedProduct(t, s, "Chawal", "80", domain.UnitKG)

	rec := doJSON(t, r, http.MethodPost, "/bills", map[string]any{
		"customerId": c.ID,
		"items": []any{map[string]any{
			"productId": p.ID,
			"name":      p.Name,
			"basePrice": "80",
			"unit":      "KG",
			"quantity":  1500,
		}},
		"paidAmount": "100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.Equal(t, "101", data["billNumber"])
	assert.Equal(t, "120", data["totalAmount"])
	assert.Equal(t, "20", data["dueAmount"])
	assert.Equal(t, "Partial", data["status"])
}

func TestFinalizeBill_EmptyRejected(t *testing.T) {
	r, s := newTestRouter(t)
	c := seedCustomer(t, s)

	rec := doJSON(t, r, http.MethodPost, "/bills", map[string]any{
		"customerId": c.ID,
		"items":      []any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.Bills())
}

func TestDeleteBill_PinGateHTTP(t *testing.T) {
	r, s := newTestRouter(t)
	c := seedCustomer(t, s)
	ctx := context.Background()

	bill, err := s.FinalizeBill(ctx, c.ID, []domain.BillItem{{
		ProductID: "p1",
		Name:      "Chawal",
		BasePrice: decimal.RequireFromString("80"),
		Unit:      domain.UnitKG,
		Quantity:  1000,
	}}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, s.SetPIN(ctx, "1234", "1234"))

	rec := doJSON(t, r, http.MethodDelete, "/bills/"+bill.ID, map[string]any{"pin": "0000"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, s.Bills(), 1)

	rec = doJSON(t, r, http.MethodDelete, "/bills/"+bill.ID, map[string]any{"pin": "1234"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.Bills())
}

func TestBillShareLink(t *testing.T) {
	r, s := newTestRouter(t)
	c := seedCustomer(t, s)

	bill, err := s.FinalizeBill(context.Background(), c.ID, []domain.BillItem{{
		ProductID: "p1",
		Name:      "Chawal",
		BasePrice: decimal.RequireFromString("80"),
		Unit:      domain.UnitKG,
		Quantity:  1000,
	}}, decimal.Zero)
	require.NoError(t, err)

	rec := doJSON(t, r, http.MethodGet, "/bills/"+bill.ID+"/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	link := data["link"].(string)
	assert.Contains(t, link, "https://wa.me/919876543210?text=")
	assert.Contains(t, data["message"], "Bill #: 101")
}

func TestReceiptIsPlainText(t *testing.T) {
	r, s := newTestRouter(t)
	c := seedCustomer(t, s)

	bill, err := s.FinalizeBill(context.Background(), c.ID, []domain.BillItem{{
		ProductID: "p1",
		Name:      "Chawal",
		BasePrice: decimal.RequireFromString("80"),
		Unit:      domain.UnitKG,
		Quantity:  1000,
	}}, decimal.Zero)
	require.NoError(t, err)

	rec := doJSON(t, r, http.MethodGet, "/bills/"+bill.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Bill #101")
}

func TestCreateProduct_ValidationHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/products", map[string]any{
		"name": "Atta",
		"unit": "Dozen",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/products", map[string]any{
		"name":  "Atta",
		"unit":  "KG",
		"price": "45",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestWipe_PinGateHTTP(t *testing.T) {
	r, s := newTestRouter(t)
	seedCustomer(t, s)
	require.NoError(t, s.SetPIN(context.Background(), "1234", "1234"))

	rec := doJSON(t, r, http.MethodPost, "/settings/wipe", map[string]any{"pin": "9999"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/settings/wipe", map[string]any{"pin": "1234"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.Customers(""))
	assert.False(t, s.HasPIN())
}
