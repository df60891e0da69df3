package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ventapos/venta_api/internal/models"
)

func ticketFixture() *models.FullInvoice {
	return &models.FullInvoice{
		Invoice: models.InvoiceRow{
			Invoice: models.Invoice{
				ID:            42,
				Discount:      100,
				PaymentMethod: "cash",
				CreatedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			},
			CustomerName: "Ana Torres",
		},
		Customer: models.Customer{FirstName: "Ana", LastName: "Torres", Phone: "555-0101"},
		Lines: []models.InvoiceLineRow{
			{InvoiceLine: models.InvoiceLine{Quantity: 2, Subtotal: 2400}, ProductName: "Drill"},
			{InvoiceLine: models.InvoiceLine{Quantity: 1, Subtotal: 500}, ProductName: "Hammer"},
		},
	}
}

func TestRenderTicketTotals(t *testing.T) {
	out := RenderTicket(ticketFixture())

	for _, want := range []string{
		"Invoice #: 42",
		"Date     : 2026-03-14 10:30",
		"Customer : Ana Torres",
		"Phone    : 555-0101",
		"Subtotal     $   2900.00",
		"Discount     $    100.00",
		"TOTAL        $   2800.00",
		"Payment: cash",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ticket missing %q\n%s", want, out)
		}
	}
}

func TestRenderTicketTruncatesLongNames(t *testing.T) {
	f := ticketFixture()
	f.Lines = []models.InvoiceLineRow{
		{InvoiceLine: models.InvoiceLine{Quantity: 1, Subtotal: 300}, ProductName: "Industrial Angle Grinder XL"},
	}
	out := RenderTicket(f)

	if !strings.Contains(out, "Industrial Angle x1") {
		t.Errorf("long product name should be cut to column width\n%s", out)
	}
	if strings.Contains(out, "Grinder") {
		t.Errorf("overflowing name text must not appear\n%s", out)
	}
}

func TestRenderTicketTruncatesMultibyteNames(t *testing.T) {
	f := ticketFixture()
	f.Lines = []models.InvoiceLineRow{
		{InvoiceLine: models.InvoiceLine{Quantity: 1, Subtotal: 300}, ProductName: "Café Señorial Molido Premium"},
	}
	out := RenderTicket(f)

	if !utf8.ValidString(out) {
		t.Fatalf("ticket contains invalid UTF-8\n%s", out)
	}
	if !strings.Contains(out, "Café Señorial Mo x1") {
		t.Errorf("name should be cut at 16 runes, not bytes\n%s", out)
	}
}

func TestRenderTicketSkipsEmptyContactLines(t *testing.T) {
	f := ticketFixture()
	f.Customer.Phone = ""
	f.Customer.Address = ""
	out := RenderTicket(f)

	if strings.Contains(out, "Phone") || strings.Contains(out, "Address") {
		t.Errorf("empty contact fields must be omitted\n%s", out)
	}
}
