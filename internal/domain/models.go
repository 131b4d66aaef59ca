package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	UnitPiece UnitType = "Piece"
	UnitKG    UnitType = "KG"
	UnitL     UnitType = "L"

	BillPaid    BillStatus = "Paid"
	BillPartial BillStatus = "Partial"
	BillUnpaid  BillStatus = "Unpaid"

	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type UnitType string
type BillStatus string
type ChatRole string

// IsBulk reports whether the unit is sold by mass or volume: priced per KG/L
// but tracked internally in grams/millilitres.
func (u UnitType) IsBulk() bool {
	return u == UnitKG || u == UnitL
}

// Valid reports whether u is one of the known unit kinds.
func (u UnitType) Valid() bool {
	return u == UnitPiece || u.IsBulk()
}

// Product is a catalog entry. Stock is a tracked counter only; it is never
// decremented on sale nor checked against a bill quantity.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Unit      UnitType        `json:"unit"`
	Stock     int             `json:"stock"`
	DateAdded string          `json:"dateAdded"`
	Image     string          `json:"image,omitempty"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BillItem is a snapshot of a product at the moment it was added to the bill.
// Quantity is a piece count for Piece units and a gram/millilitre count for
// bulk units; it must stay above zero or the line is removed entirely.
type BillItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Unit      UnitType        `json:"unit"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"calculatedPrice"`
}

// Bill is an immutable point-in-time receipt. Customer fields are copied at
// creation so historical bills stay readable if the customer record changes.
// Totals are never recomputed after creation.
type Bill struct {
	ID             string          `json:"id"`
	BillNumber     string          `json:"billNumber"`
	CustomerID     string          `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	CustomerMobile string          `json:"customerMobile"`
	Items          []BillItem      `json:"items"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	DueAmount      decimal.Decimal `json:"dueAmount"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Status         BillStatus      `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ChatMessage is one turn of the assistant conversation. Ephemeral: the
// transcript is not persisted across restarts.
type ChatMessage struct {
	ID   string   `json:"id"`
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Stats is the home-screen rollup over all bills.
type Stats struct {
	TotalSales decimal.Decimal
	TotalDues  decimal.Decimal
}

// LedgerSummary rolls up a single customer's bills.
type LedgerSummary struct {
	TotalSale decimal.Decimal
	TotalPaid decimal.Decimal
	TotalDue  decimal.Decimal
}
