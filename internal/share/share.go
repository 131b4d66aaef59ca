// Package share builds the outbound WhatsApp share links and the printable
// receipt text for bills and customer khata statements.
package share

import (
	"net/url"
	"strings"

	"github.com/abinashpathak707-web/kishore-general-store/internal/billing"
	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/ttacon/libphonenumber"
)

// Builder renders share messages for one shop. Region is the default phone
// region used to normalize locally-entered mobile numbers.
type Builder struct {
	StoreName string
	Region    string
}

const divider = "--------------------------"

// BillMessage is the WhatsApp receipt for a single bill.
func (b Builder) BillMessage(bill domain.Bill) string {
	var sb strings.Builder
	sb.WriteString("*" + b.StoreName + "*\n")
	sb.WriteString("Bill #: " + bill.BillNumber + "\n")
	sb.WriteString("Customer: " + bill.CustomerName + "\n")
	sb.WriteString(divider + "\n")
	for _, it := range bill.Items {
		sb.WriteString(it.Name + ": " + billing.FormatQuantity(it.Quantity, it.Unit) +
			" = ₹" + it.Price.StringFixed(1) + "\n")
	}
	sb.WriteString(divider + "\n")
	sb.WriteString("*TOTAL: ₹" + bill.TotalAmount.StringFixed(1) + "*\n")
	sb.WriteString("Paid: ₹" + bill.PaidAmount.String() + " | Due: ₹" + bill.DueAmount.String() + "\n\n")
	sb.WriteString("Dhanyawad! Phir aaiyega!")
	return sb.String()
}

// KhataMessage is the WhatsApp customer ledger statement.
func (b Builder) KhataMessage(customer domain.Customer, sum domain.LedgerSummary) string {
	var sb strings.Builder
	sb.WriteString("*" + b.StoreName + " - Customer Khata Statement*\n")
	sb.WriteString("Grahak: " + customer.Name + "\n")
	sb.WriteString("Mobile: " + customer.Mobile + "\n")
	sb.WriteString(divider + "\n")
	sb.WriteString("Total Kharidari: ₹" + sum.TotalSale.StringFixed(1) + "\n")
	sb.WriteString("Total Paid: ₹" + sum.TotalPaid.StringFixed(1) + "\n")
	sb.WriteString("*TOTAL DUES: ₹" + sum.TotalDue.StringFixed(1) + "*\n")
	sb.WriteString(divider + "\n")
	sb.WriteString("Namaste, ye aapka complete khata detail hai.")
	return sb.String()
}

// Receipt is the printable plain-text rendering of a bill. The print surface
// is the only export format produced.
func (b Builder) Receipt(bill domain.Bill) string {
	var sb strings.Builder
	sb.WriteString(b.StoreName + "\n")
	sb.WriteString("Bill #" + bill.BillNumber + "  " + bill.Date + " " + bill.Time + "\n")
	sb.WriteString("Customer: " + bill.CustomerName + " (" + bill.CustomerMobile + ")\n")
	sb.WriteString(divider + "\n")
	for _, it := range bill.Items {
		sb.WriteString(it.Name + "  " + billing.FormatQuantity(it.Quantity, it.Unit) +
			" @ ₹" + it.BasePrice.String() + "/" + string(it.Unit) +
			"  ₹" + it.Price.StringFixed(1) + "\n")
	}
	sb.WriteString(divider + "\n")
	sb.WriteString("TOTAL: ₹" + bill.TotalAmount.StringFixed(1) + "\n")
	sb.WriteString("Paid:  ₹" + bill.PaidAmount.StringFixed(1) + "\n")
	sb.WriteString("Due:   ₹" + bill.DueAmount.StringFixed(1) + "\n")
	sb.WriteString("Status: " + string(bill.Status) + "\n")
	return sb.String()
}

// WhatsAppLink builds a wa.me deep link with the message percent-encoded.
// The mobile is normalized to international digits when it parses; otherwise
// the raw digits are used as entered.
func (b Builder) WhatsAppLink(mobile, message string) string {
	return "https://wa.me/" + b.normalizeMobile(mobile) + "?text=" + url.QueryEscape(message)
}

func (b Builder) normalizeMobile(mobile string) string {
	region := b.Region
	if region == "" {
		region = "IN"
	}
	num, err := libphonenumber.Parse(mobile, region)
	if err == nil && libphonenumber.IsValidNumber(num) {
		return strings.TrimPrefix(libphonenumber.Format(num, libphonenumber.E164), "+")
	}

	var digits strings.Builder
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
