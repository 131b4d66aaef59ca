package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/abinashpathak707-web/kishore-general-store/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStateStore keeps records in a map, round-tripping through JSON the
// same way the Postgres-backed repository does.
type fakeStateStore struct {
	records map[string][]byte
	saves   int
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{records: make(map[string][]byte)}
}

func (f *fakeStateStore) Load(_ context.Context, key string, out any) error {
	raw, ok := f.records[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeStateStore) Save(_ context.Context, key string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	f.records[key] = raw
	f.saves++
	return nil
}

func (f *fakeStateStore) DeleteAll(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.records, k)
	}
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeStateStore) {
	t.Helper()
	repo := newFakeStateStore()
	s := New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Load(context.Background()))
	return s, repo
}

func addCustomer(t *testing.T, s *Store) *domain.Customer {
	t.Helper()
	c, err := s.AddCustomer(context.Background(), domain.Customer{Name: "Ramesh", Mobile: "9876543210"})
	require.NoError(t, err)
	return c
}

func kgLine(productID string, price string, qty int64) domain.BillItem {
	return domain.BillItem{
		ProductID: productID,
		Name:      "Chawal",
		BasePrice: decimal.RequireFromString(price),
		Unit:      domain.UnitKG,
		Quantity:  qty,
	}
}

func TestAddProduct_MirrorsToRepository(t *testing.T) {
	s, repo := newTestStore(t)

	p, err := s.AddProduct(context.Background(), domain.Product{
		Name:     "Atta",
		Category: "Grocery",
		Price:    decimal.RequireFromString("45"),
		Unit:     domain.UnitKG,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, p.DateAdded)
	assert.Contains(t, repo.records, repository.KeyProducts)
}

func TestAddProduct_RejectsNegativePrice(t *testing.T) {
	s, repo := newTestStore(t)

	_, err := s.AddProduct(context.Background(), domain.Product{
		Name:  "Atta",
		Price: decimal.RequireFromString("-1"),
		Unit:  domain.UnitKG,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Zero(t, repo.saves, "rejected add must not persist")
}

func TestProductSearch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddProduct(ctx, domain.Product{Name: "Basmati Chawal", Category: "Grocery", Price: decimal.RequireFromString("90"), Unit: domain.UnitKG})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, domain.Product{Name: "Doodh", Category: "Dairy", Price: decimal.RequireFromString("30"), Unit: domain.UnitL})
	require.NoError(t, err)

	assert.Len(t, s.Products(""), 2)
	assert.Len(t, s.Products("chawal"), 1)
	assert.Len(t, s.Products("DAIRY"), 1, "category matches are case-insensitive")
	assert.Empty(t, s.Products("sabun"))
}

func TestAddCustomer_DuplicateMobileRejected(t *testing.T) {
	s, _ := newTestStore(t)
	addCustomer(t, s)

	_, err := s.AddCustomer(context.Background(), domain.Customer{Name: "Suresh", Mobile: "9876543210"})
	assert.ErrorIs(t, err, ErrDuplicateMobile)
	assert.Len(t, s.Customers(""), 1)
}

func TestFinalizeBill(t *testing.T) {
	s, repo := newTestStore(t)
	c := addCustomer(t, s)

	bill, err := s.FinalizeBill(context.Background(), c.ID,
		[]domain.BillItem{kgLine("p1", "80", 1500)},
		decimal.RequireFromString("100"))
	require.NoError(t, err)

	assert.Equal(t, "101", bill.BillNumber)
	assert.Equal(t, c.Name, bill.CustomerName)
	assert.Equal(t, c.Mobile, bill.CustomerMobile)
	assert.True(t, bill.TotalAmount.Equal(decimal.RequireFromString("120")))
	assert.True(t, bill.DueAmount.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, domain.BillPartial, bill.Status)
	assert.Contains(t, repo.records, repository.KeyBills)

	second, err := s.FinalizeBill(context.Background(), c.ID,
		[]domain.BillItem{kgLine("p1", "80", 1000)},
		decimal.RequireFromString("80"))
	require.NoError(t, err)
	assert.Equal(t, "102", second.BillNumber)
	assert.Equal(t, domain.BillPaid, second.Status)
}

func TestFinalizeBill_Rejections(t *testing.T) {
	s, repo := newTestStore(t)
	c := addCustomer(t, s)

	_, err := s.FinalizeBill(context.Background(), c.ID, nil, decimal.Zero)
	assert.ErrorIs(t, err, ErrEmptyBill)

	_, err = s.FinalizeBill(context.Background(), "no-such-customer",
		[]domain.BillItem{kgLine("p1", "80", 1000)}, decimal.Zero)
	assert.ErrorIs(t, err, ErrNoCustomer)

	assert.Empty(t, s.Bills(), "rejected finalize must not create a bill")
	assert.NotContains(t, repo.records, repository.KeyBills)
}

func TestDeleteBill_PinGate(t *testing.T) {
	s, _ := newTestStore(t)
	c := addCustomer(t, s)
	ctx := context.Background()

	bill, err := s.FinalizeBill(ctx, c.ID, []domain.BillItem{kgLine("p1", "80", 1000)}, decimal.Zero)
	require.NoError(t, err)

	// No PIN configured: delete proceeds without one.
	require.NoError(t, s.DeleteBill(ctx, bill.ID, ""))

	bill, err = s.FinalizeBill(ctx, c.ID, []domain.BillItem{kgLine("p1", "80", 1000)}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, s.SetPIN(ctx, "1234", "1234"))

	assert.ErrorIs(t, s.DeleteBill(ctx, bill.ID, "0000"), ErrPinMismatch)
	assert.Len(t, s.Bills(), 1, "mismatched pin must not delete")
	require.NoError(t, s.DeleteBill(ctx, bill.ID, "1234"))
	assert.Empty(t, s.Bills())
}

func TestSetPIN_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SetPIN(ctx, "123", "123"), ErrPinFormat)
	assert.ErrorIs(t, s.SetPIN(ctx, "12ab", "12ab"), ErrPinFormat)
	assert.ErrorIs(t, s.SetPIN(ctx, "1234", "4321"), ErrPinConfirm)
	assert.False(t, s.HasPIN())

	require.NoError(t, s.SetPIN(ctx, "1234", "1234"))
	assert.True(t, s.HasPIN())
}

func TestCustomerLedger(t *testing.T) {
	s, _ := newTestStore(t)
	c := addCustomer(t, s)
	ctx := context.Background()

	_, err := s.FinalizeBill(ctx, c.ID, []domain.BillItem{kgLine("p1", "80", 1500)}, decimal.RequireFromString("100"))
	require.NoError(t, err)
	_, err = s.FinalizeBill(ctx, c.ID, []domain.BillItem{kgLine("p1", "80", 1000)}, decimal.Zero)
	require.NoError(t, err)

	customer, bills, sum, err := s.CustomerLedger(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, customer.ID)
	assert.Len(t, bills, 2)
	assert.True(t, sum.TotalSale.Equal(decimal.RequireFromString("200")))
	assert.True(t, sum.TotalPaid.Equal(decimal.RequireFromString("100")))
	assert.True(t, sum.TotalDue.Equal(decimal.RequireFromString("100")))
}

func TestWipe(t *testing.T) {
	s, repo := newTestStore(t)
	c := addCustomer(t, s)
	ctx := context.Background()

	_, err := s.FinalizeBill(ctx, c.ID, []domain.BillItem{kgLine("p1", "80", 1000)}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, s.SetPIN(ctx, "1234", "1234"))

	assert.ErrorIs(t, s.Wipe(ctx, "9999"), ErrPinMismatch)

	require.NoError(t, s.Wipe(ctx, "1234"))
	assert.Empty(t, s.Customers(""))
	assert.Empty(t, s.Bills())
	assert.False(t, s.HasPIN())
	assert.Empty(t, repo.records)
}

func TestStateRoundTrip(t *testing.T) {
	s, repo := newTestStore(t)
	c := addCustomer(t, s)
	ctx := context.Background()

	_, err := s.FinalizeBill(ctx, c.ID, []domain.BillItem{kgLine("p1", "80", 1500)}, decimal.RequireFromString("50"))
	require.NoError(t, err)

	// A second store hydrated from the same records sees identical state.
	reloaded := New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, reloaded.Load(ctx))

	bills := reloaded.Bills()
	require.Len(t, bills, 1)
	assert.Equal(t, "101", bills[0].BillNumber)
	assert.True(t, bills[0].TotalAmount.Equal(decimal.RequireFromString("120")))
	assert.Len(t, reloaded.Customers(""), 1)
}
