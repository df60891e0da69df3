package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrInvoiceNotFound    = errors.New("INVOICE_NOT_FOUND")
	ErrCustomerNotFound   = errors.New("CUSTOMER_NOT_FOUND")
	ErrInvoiceAlreadyPaid = errors.New("INVOICE_ALREADY_PAID")
	ErrCreditInvoice      = errors.New("CREDIT_INVOICE")
	ErrNoOpenRegister     = errors.New("NO_OPEN_REGISTER")
	ErrRegisterOpen       = errors.New("REGISTER_ALREADY_OPEN")
	ErrSameProduct        = errors.New("SAME_PRODUCT")
	ErrInsufficientStock  = errors.New("INSUFFICIENT_STOCK")
	ErrInvalidTier        = errors.New("INVALID_PRICE_TIER")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
)
