package service

import (
	"fmt"
	"strings"

	"github.com/ventapos/venta_api/internal/models"
)

const ticketRule = "----------------------------"
const ticketEdge = "============================"

// RenderTicket formats a sales ticket as plain text for printing or display.
func RenderTicket(f *models.FullInvoice) string {
	subtotal := f.Subtotal()
	total := subtotal - f.Invoice.Discount

	var b strings.Builder
	b.WriteString(ticketEdge + "\n")
	b.WriteString("        SALES TICKET\n")
	b.WriteString(ticketEdge + "\n")
	fmt.Fprintf(&b, "Invoice #: %d\n", f.Invoice.ID)
	fmt.Fprintf(&b, "Date     : %s\n", f.Invoice.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Customer : %s\n", f.Customer.FullName())
	if f.Customer.Phone != "" {
		fmt.Fprintf(&b, "Phone    : %s\n", f.Customer.Phone)
	}
	if f.Customer.Address != "" {
		fmt.Fprintf(&b, "Address  : %s\n", f.Customer.Address)
	}
	b.WriteString(ticketRule + "\n")
	b.WriteString("ITEM                TOTAL\n")
	b.WriteString(ticketRule + "\n")
	for _, l := range f.Lines {
		name := l.ProductName
		if r := []rune(name); len(r) > 16 {
			name = string(r[:16])
		}
		fmt.Fprintf(&b, "%-16s x%-2d $%9.2f\n", name, l.Quantity, l.Subtotal)
	}
	b.WriteString(ticketRule + "\n")
	fmt.Fprintf(&b, "Subtotal     $%10.2f\n", subtotal)
	fmt.Fprintf(&b, "Discount     $%10.2f\n", f.Invoice.Discount)
	b.WriteString(ticketRule + "\n")
	fmt.Fprintf(&b, "TOTAL        $%10.2f\n", total)
	b.WriteString(ticketRule + "\n")
	fmt.Fprintf(&b, "Payment: %s\n", f.Invoice.PaymentMethod)
	b.WriteString(ticketEdge + "\n")
	b.WriteString("  THANK YOU FOR YOUR PURCHASE!\n")
	b.WriteString(ticketEdge + "\n")
	return b.String()
}
