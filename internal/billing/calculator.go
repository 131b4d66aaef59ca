// Package billing implements the quantity and pricing rules used while a bill
// is being built: line pricing, smart quantity stepping for bulk units, exact
// quantity entry and bill totals. Everything here is pure and deterministic;
// nothing is persisted until the bill store finalizes the line set.
package billing

import (
	"math"
	"strconv"

	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/shopspring/decimal"
)

// Bulk units are priced per whole unit of 1000 grams/millilitres.
const BulkUnitSize = 1000

const (
	Increment Direction = "plus"
	Decrement Direction = "minus"

	// GranularityMajor means a manual quantity was entered in KG/L (or
	// pieces); GranularityMinor means grams/millilitres.
	GranularityMajor Granularity = "major"
	GranularityMinor Granularity = "minor"
)

type Direction string
type Granularity string

var bulkDivisor = decimal.NewFromInt(BulkUnitSize)

// LinePrice computes the price of one bill line. Piece units are priced per
// piece; bulk units per 1000 minor units. No rounding happens here; display
// formatting rounds to one decimal.
func LinePrice(basePrice decimal.Decimal, quantity int64, unit domain.UnitType) decimal.Decimal {
	price := basePrice.Mul(decimal.NewFromInt(quantity))
	if unit.IsBulk() {
		return price.Div(bulkDivisor)
	}
	return price
}

// InitialQuantity is the quantity a product starts with when first added:
// one piece, or one whole kilogram/litre for bulk units.
func InitialQuantity(unit domain.UnitType) int64 {
	if unit.IsBulk() {
		return BulkUnitSize
	}
	return 1
}

// StepQuantity applies one smart-stepping move and reports whether the line
// survives. Piece units step by one. Bulk units increment by a whole unit;
// decrementing snaps anything above one unit down to exactly one unit, then
// floor-halves below that (1000, 500, 250, 125, 62, 31, 15, 7, 3, 1, gone).
// ok is false when the resulting quantity is zero or less, meaning the line
// must be removed from the bill rather than kept at zero.
func StepQuantity(current int64, unit domain.UnitType, dir Direction) (next int64, ok bool) {
	switch {
	case !unit.IsBulk():
		if dir == Increment {
			next = current + 1
		} else {
			next = current - 1
		}
	case dir == Increment:
		next = current + BulkUnitSize
	case current > BulkUnitSize:
		// Shopkeepers take a whole kilo off first.
		next = BulkUnitSize
	default:
		next = current / 2
	}
	if next <= 0 {
		return 0, false
	}
	return next, true
}

// ExactQuantity parses a manually entered quantity. Major granularity values
// for bulk units are entered in KG/L and scaled to minor units. A value that
// does not parse, is not finite, or is not positive is rejected and the
// caller keeps the existing quantity.
func ExactQuantity(raw string, unit domain.UnitType, g Granularity) (int64, bool) {
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val <= 0 {
		return 0, false
	}
	if unit.IsBulk() && g == GranularityMajor {
		val *= BulkUnitSize
	}
	qty := int64(math.Round(val))
	if qty <= 0 {
		return 0, false
	}
	return qty, true
}

// AddOrMergeLine adds a product to the line set. A product already on the
// bill gets one increment step instead of a second line; a new product is
// appended at its initial quantity.
func AddOrMergeLine(lines []domain.BillItem, p domain.Product) []domain.BillItem {
	for i := range lines {
		if lines[i].ProductID == p.ID {
			if qty, ok := StepQuantity(lines[i].Quantity, lines[i].Unit, Increment); ok {
				lines[i].Quantity = qty
				lines[i].Price = LinePrice(lines[i].BasePrice, qty, lines[i].Unit)
			}
			return lines
		}
	}
	qty := InitialQuantity(p.Unit)
	return append(lines, domain.BillItem{
		ProductID: p.ID,
		Name:      p.Name,
		BasePrice: p.Price,
		Unit:      p.Unit,
		Quantity:  qty,
		Price:     LinePrice(p.Price, qty, p.Unit),
	})
}

// ApplyStep steps the line for productID and drops it when the quantity
// reaches zero. Unknown productIDs leave the line set unchanged.
func ApplyStep(lines []domain.BillItem, productID string, dir Direction) []domain.BillItem {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
			continue
		}
		qty, ok := StepQuantity(l.Quantity, l.Unit, dir)
		if !ok {
			continue
		}
		l.Quantity = qty
		l.Price = LinePrice(l.BasePrice, qty, l.Unit)
		out = append(out, l)
	}
	return out
}

// ApplyExactQuantity sets an exact quantity on the line for productID.
// Rejected input leaves the line set unchanged.
func ApplyExactQuantity(lines []domain.BillItem, productID, raw string, g Granularity) []domain.BillItem {
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		qty, ok := ExactQuantity(raw, lines[i].Unit, g)
		if !ok {
			return lines
		}
		lines[i].Quantity = qty
		lines[i].Price = LinePrice(lines[i].BasePrice, qty, lines[i].Unit)
		return lines
	}
	return lines
}

// BillTotals is the derived money state of a line set.
type BillTotals struct {
	TotalAmount decimal.Decimal
	DueAmount   decimal.Decimal
	Status      domain.BillStatus
}

// Totals sums the stored line prices (quantities are never recomputed from
// the catalog, whose prices may have moved since the lines were added),
// floors the due amount at zero and derives the payment status.
func Totals(lines []domain.BillItem, paid decimal.Decimal) BillTotals {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price)
	}
	due := total.Sub(paid)

	status := domain.BillUnpaid
	switch {
	case due.Sign() <= 0:
		status = domain.BillPaid
	case paid.Sign() > 0:
		status = domain.BillPartial
	}
	if due.Sign() < 0 {
		due = decimal.Zero
	}
	return BillTotals{TotalAmount: total, DueAmount: due, Status: status}
}

// FormatQuantity renders a quantity the way the shopkeeper reads it:
// "2 pc", "1.5 KG", "250 gram".
func FormatQuantity(quantity int64, unit domain.UnitType) string {
	if !unit.IsBulk() {
		return strconv.FormatInt(quantity, 10) + " pc"
	}
	if quantity >= BulkUnitSize {
		return decimal.NewFromInt(quantity).Div(bulkDivisor).String() + " KG"
	}
	return strconv.FormatInt(quantity, 10) + " gram"
}
