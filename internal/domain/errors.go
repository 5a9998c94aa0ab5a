package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrCardNotFound         = errors.New("card not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrCategoryRequired     = errors.New("category is required")
	ErrInvalidValue         = errors.New("value must be positive")
	ErrInvalidClosingDay    = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay        = errors.New("due day must be between 1 and 31")
	ErrInvalidInstallments  = errors.New("installments must be between 1 and 99")
	ErrInvalidInvoiceMonth  = errors.New("invoice month must be in YYYY-MM format")
	ErrSubscriptionInactive = errors.New("subscription is not active")

	// ErrPartialMaterialization is returned when a subscription's monthly
	// batch could not be written as a whole. The caller sees the operation
	// as a single failure and may retry; no sibling rows are left behind.
	ErrPartialMaterialization = errors.New("subscription materialization failed")
)

// Validation constants
const (
	MaxNameLength = 255
)
