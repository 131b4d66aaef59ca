// Package store owns the application state the shopkeeper works against:
// product catalog, customer register, finalized bill log and the security
// PIN. State lives in memory and is mirrored to the state repository on
// every mutation, one record per store.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abinashpathak707-web/kishore-general-store/internal/billing"
	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/abinashpathak707-web/kishore-general-store/internal/ports"
	"github.com/abinashpathak707-web/kishore-general-store/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateMobile = errors.New("mobile number already exists")
	ErrEmptyBill       = errors.New("bill has no items")
	ErrNoCustomer      = errors.New("no customer selected")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidProduct  = errors.New("product name and unit are required")
	ErrPinFormat       = errors.New("pin must be exactly 4 digits")
	ErrPinConfirm      = errors.New("pin confirmation does not match")
	ErrPinMismatch     = errors.New("wrong pin")
)

// Bill display numbers start at 101.
const billNumberBase = 101

// Store is the single owner of all application state. The interaction model
// is single-actor, but the HTTP surface is not, so mutations are serialized
// behind one mutex.
type Store struct {
	mu     sync.Mutex
	repo   ports.StateStore
	logger *slog.Logger

	products  []domain.Product
	customers []domain.Customer
	bills     []domain.Bill
	pin       string
}

func New(repo ports.StateStore, logger *slog.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Load hydrates state from the persisted records. Missing keys hydrate to
// empty collections and no PIN.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Load(ctx, repository.KeyProducts, &s.products); err != nil {
		return err
	}
	if err := s.repo.Load(ctx, repository.KeyCustomers, &s.customers); err != nil {
		return err
	}
	if err := s.repo.Load(ctx, repository.KeyBills, &s.bills); err != nil {
		return err
	}
	if err := s.repo.Load(ctx, repository.KeyPIN, &s.pin); err != nil {
		return err
	}

	s.logger.Info("state loaded",
		"products", len(s.products),
		"customers", len(s.customers),
		"bills", len(s.bills),
		"pin_set", s.pin != "")
	return nil
}

// AddProduct registers a catalog entry and returns it with identity and
// creation date filled in.
func (s *Store) AddProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" || !p.Unit.Valid() {
		return nil, ErrInvalidProduct
	}
	if p.Price.Sign() < 0 {
		return nil, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.DateAdded = time.Now().Format("02/01/2006")
	s.products = append(s.products, p)

	if err := s.repo.Save(ctx, repository.KeyProducts, s.products); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces a catalog entry in place by id.
func (s *Store) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.Price.Sign() < 0 {
		return nil, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != p.ID {
			continue
		}
		p.DateAdded = s.products[i].DateAdded
		s.products[i] = p
		if err := s.repo.Save(ctx, repository.KeyProducts, s.products); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, ErrNotFound
}

// Products lists the catalog, filtered by a case-insensitive substring match
// against name and category when q is non-empty.
func (s *Store) Products(q string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// Product looks up a catalog entry by id.
func (s *Store) Product(id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// AddCustomer registers a customer. Mobile numbers are a uniqueness key.
func (s *Store) AddCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.customers {
		if existing.Mobile == c.Mobile {
			return nil, ErrDuplicateMobile
		}
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	s.customers = append(s.customers, c)

	if err := s.repo.Save(ctx, repository.KeyCustomers, s.customers); err != nil {
		return nil, err
	}
	return &c, nil
}

// Customers lists customers, filtered by name substring (case-insensitive)
// or mobile substring when q is non-empty.
func (s *Store) Customers(q string) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(c.Mobile, term) {
			out = append(out, c)
		}
	}
	return out
}

// Customer looks up a customer by id.
func (s *Store) Customer(id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerLocked(id)
}

func (s *Store) customerLocked(id string) (*domain.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// FinalizeBill turns a line set into an immutable bill. An empty line set or
// an unknown customer is rejected and nothing is persisted. Line prices are
// recomputed from the submitted snapshots (base price at add time), never
// from the current catalog.
func (s *Store) FinalizeBill(ctx context.Context, customerID string, lines []domain.BillItem, paid decimal.Decimal) (*domain.Bill, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyBill
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customerLocked(customerID)
	if err != nil {
		return nil, ErrNoCustomer
	}

	items := make([]domain.BillItem, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrEmptyBill
		}
		l.Price = billing.LinePrice(l.BasePrice, l.Quantity, l.Unit)
		items[i] = l
	}
	totals := billing.Totals(items, paid)

	now := time.Now()
	bill := domain.Bill{
		ID:             uuid.NewString(),
		BillNumber:     strconv.Itoa(len(s.bills) + billNumberBase),
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		CustomerMobile: customer.Mobile,
		Items:          items,
		TotalAmount:    totals.TotalAmount,
		PaidAmount:     paid,
		DueAmount:      totals.DueAmount,
		Date:           now.Format("02/01/2006"),
		Time:           now.Format("03:04 PM"),
		Status:         totals.Status,
		CreatedAt:      now,
	}
	s.bills = append(s.bills, bill)

	if err := s.repo.Save(ctx, repository.KeyBills, s.bills); err != nil {
		s.bills = s.bills[:len(s.bills)-1]
		return nil, err
	}
	return &bill, nil
}

// Bills returns the bill log in creation order.
func (s *Store) Bills() []domain.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Bill, len(s.bills))
	copy(out, s.bills)
	return out
}

// Bill looks up a bill by id.
func (s *Store) Bill(id string) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bills {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteBill removes a bill. When a PIN is configured the caller must supply
// it; the check is plain string equality, a deterrent rather than a security
// boundary.
func (s *Store) DeleteBill(ctx context.Context, id, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pin != "" && pin != s.pin {
		return ErrPinMismatch
	}

	for i, b := range s.bills {
		if b.ID != id {
			continue
		}
		s.bills = append(s.bills[:i], s.bills[i+1:]...)
		return s.repo.Save(ctx, repository.KeyBills, s.bills)
	}
	return ErrNotFound
}

// CustomerLedger returns a customer's bills with sale/paid/due rollups.
func (s *Store) CustomerLedger(id string) (*domain.Customer, []domain.Bill, domain.LedgerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customerLocked(id)
	if err != nil {
		return nil, nil, domain.LedgerSummary{}, err
	}

	var bills []domain.Bill
	sum := domain.LedgerSummary{
		TotalSale: decimal.Zero,
		TotalPaid: decimal.Zero,
		TotalDue:  decimal.Zero,
	}
	for _, b := range s.bills {
		if b.CustomerID != id {
			continue
		}
		bills = append(bills, b)
		sum.TotalSale = sum.TotalSale.Add(b.TotalAmount)
		sum.TotalPaid = sum.TotalPaid.Add(b.PaidAmount)
		sum.TotalDue = sum.TotalDue.Add(b.DueAmount)
	}
	return customer, bills, sum, nil
}

// Stats rolls up total sales and outstanding dues over all bills.
func (s *Store) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.Stats{TotalSales: decimal.Zero, TotalDues: decimal.Zero}
	for _, b := range s.bills {
		stats.TotalSales = stats.TotalSales.Add(b.TotalAmount)
		stats.TotalDues = stats.TotalDues.Add(b.DueAmount)
	}
	return stats
}

// SetPIN configures the destructive-action PIN: exactly 4 digits, entered
// twice.
func (s *Store) SetPIN(ctx context.Context, newPin, confirm string) error {
	if len(newPin) != 4 || !isDigits(newPin) {
		return ErrPinFormat
	}
	if newPin != confirm {
		return ErrPinConfirm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pin = newPin
	return s.repo.Save(ctx, repository.KeyPIN, s.pin)
}

// HasPIN reports whether a PIN has been configured.
func (s *Store) HasPIN() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pin != ""
}

// Wipe removes every persisted state key and resets in-memory state to the
// empty default. PIN-gated when a PIN is configured.
func (s *Store) Wipe(ctx context.Context, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pin != "" && pin != s.pin {
		return ErrPinMismatch
	}

	err := s.repo.DeleteAll(ctx,
		repository.KeyProducts,
		repository.KeyCustomers,
		repository.KeyBills,
		repository.KeyPIN,
	)
	if err != nil {
		return err
	}

	s.products = nil
	s.customers = nil
	s.bills = nil
	s.pin = ""
	s.logger.Warn("all application state wiped")
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
