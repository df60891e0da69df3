package models

import "time"

// IncomeType classifies an income record and ties it to its source invoice.
type IncomeType struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	InvoiceID int64  `db:"invoice_id" json:"invoiceId"`
}

// Income is a register income entry created when an invoice is paid.
type Income struct {
	ID           int64     `db:"id" json:"id"`
	IncomeTypeID int64     `db:"income_type_id" json:"incomeTypeId"`
	Amount       float64   `db:"amount" json:"amount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
