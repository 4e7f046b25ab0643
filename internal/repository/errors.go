package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateEmail   = errors.New("email already registered")
)

// InsufficientStockError is returned by CreateOrder when a conditional stock
// decrement matched zero rows. The whole transaction is rolled back before
// this error is returned.
type InsufficientStockError struct {
	ProductIDs []int64
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("insufficient stock for products: %s", strings.Join(ids, ", "))
}
