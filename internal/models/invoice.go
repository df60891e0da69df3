package models

import "time"

// InvoiceType enumerates the supported invoice types.
type InvoiceType string

const (
	InvoiceRetail    InvoiceType = "retail"
	InvoiceWholesale InvoiceType = "wholesale"
	InvoiceResale    InvoiceType = "resale"
	InvoiceCredit    InvoiceType = "credit"
)

// Invoice captures one sale (or credit) document. Payment is split between
// cash and electronic transfer; Paid flips once and never back.
type Invoice struct {
	ID             int64       `db:"id" json:"id"`
	CustomerID     int64       `db:"customer_id" json:"customerId"`
	CashAmount     float64     `db:"cash_amount" json:"cashAmount"`
	TransferAmount float64     `db:"transfer_amount" json:"transferAmount"`
	Paid           bool        `db:"paid" json:"paid"`
	Type           InvoiceType `db:"type" json:"type"`
	PaymentMethod  string      `db:"payment_method" json:"paymentMethod"`
	HomeDelivery   bool        `db:"home_delivery" json:"homeDelivery"`
	Discount       float64     `db:"discount" json:"discount"`
	IssuedBy       string      `db:"issued_by" json:"issuedBy"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	ModifiedAt     *time.Time  `db:"modified_at" json:"modifiedAt,omitempty"`
}

// Total returns the combined payment amount of the invoice.
func (i *Invoice) Total() float64 {
	return i.CashAmount + i.TransferAmount
}

// InvoiceLine is one product line of an invoice.
type InvoiceLine struct {
	ID        int64   `db:"id" json:"id"`
	InvoiceID int64   `db:"invoice_id" json:"invoiceId"`
	ProductID int64   `db:"product_id" json:"productId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// InvoiceRow is an invoice listing row enriched with the customer name.
type InvoiceRow struct {
	Invoice
	CustomerName string `db:"customer_name" json:"customerName"`
}

// InvoiceLineRow is an invoice line enriched with the product name,
// denormalized for display and ticket rendering.
type InvoiceLineRow struct {
	InvoiceLine
	ProductName string `db:"product_name" json:"productName"`
}

// FullInvoice bundles an invoice header with its customer and line items.
type FullInvoice struct {
	Invoice  InvoiceRow       `json:"invoice"`
	Customer Customer         `json:"customer"`
	Lines    []InvoiceLineRow `json:"lines"`
}

// Subtotal sums the line subtotals before discount.
func (f *FullInvoice) Subtotal() float64 {
	var sum float64
	for _, l := range f.Lines {
		sum += l.Subtotal
	}
	return sum
}
