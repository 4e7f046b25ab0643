package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	ClientID    int64           `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	ClientEmail string          `json:"client_email,omitempty"`
	Status      OrderStatus     `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Shipping    Address         `json:"shipping_address"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItem captures quantity and unit price at order time; it never tracks
// later catalog price changes.
type OrderItem struct {
	ID          int64           `json:"id,omitempty"`
	OrderID     int64           `json:"order_id,omitempty"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
