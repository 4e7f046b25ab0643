package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCartLineNotFound   = errors.New("product not in cart")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InsufficientStockError reports every cart line that cannot be fulfilled,
// whether detected by the pre-commit validation or by the conditional
// decrement at commit time.
type InsufficientStockError struct {
	Problems []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s", strings.Join(e.Problems, ", "))
}
