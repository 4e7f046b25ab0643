package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart holds the lines of one session's cart, keyed by product ID.
// It is persisted as JSON in the session store.
type Cart struct {
	Lines     map[int64]int `json:"lines"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewCart() *Cart {
	now := time.Now()
	return &Cart{
		Lines:     make(map[int64]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) Quantity(productID int64) int {
	return c.Lines[productID]
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// CartLine is one resolved cart entry: the product snapshot, the requested
// quantity and the line subtotal.
type CartLine struct {
	Product  *Product        `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the cart joined against the catalog. Lines whose product no
// longer resolves are absent from the view.
type CartView struct {
	Lines []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
