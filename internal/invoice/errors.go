package invoice

import "errors"

var (
	ErrInvalidClosingDay   = errors.New("closing day must be between 1 and 31")
	ErrInvalidInstallments = errors.New("installments must be between 1 and 99")
)
