package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkmeuns06/ministore/internal/domain"
)

// CreateOrder persists the order header, its lines and the stock decrements
// as one transaction. Each decrement is conditional on sufficient stock; if
// any decrement matches zero rows the transaction is rolled back and an
// InsufficientStockError listing the depleted products is returned. No
// partial order or stock change survives a failure.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `INSERT INTO orders (order_number, client_id, status, total,
	                    ship_street, ship_city, ship_postal_code, ship_country)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	                RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, headerQuery,
		order.OrderNumber,
		order.ClientID,
		order.Status,
		order.Total,
		order.Shipping.Street,
		order.Shipping.City,
		order.Shipping.PostalCode,
		order.Shipping.Country,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
	              VALUES ($1, $2, $3, $4, $5)`
	stockQuery := `UPDATE products SET stock = stock - $1
	               WHERE id = $2 AND active = TRUE AND stock >= $1`

	var depleted []int64
	for i := range items {
		item := &items[i]
		item.OrderID = order.ID

		if _, e2 := tx.ExecContext(ctx, itemQuery,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal); e2 != nil {
			return fmt.Errorf("insert order item: %w", e2)
		}

		res, e2 := tx.ExecContext(ctx, stockQuery, item.Quantity, item.ProductID)
		if e2 != nil {
			return fmt.Errorf("decrement stock: %w", e2)
		}
		affected, e2 := res.RowsAffected()
		if e2 != nil {
			return fmt.Errorf("decrement stock rows affected: %w", e2)
		}
		if affected == 0 {
			depleted = append(depleted, item.ProductID)
		}
	}

	if len(depleted) > 0 {
		// deferred Rollback discards the header and lines written above
		return &InsufficientStockError{ProductIDs: depleted}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

const orderColumns = `o.id, o.order_number, o.client_id, o.status, o.total,
	o.ship_street, o.ship_city, o.ship_postal_code, o.ship_country, o.created_at`

func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s, cl.first_name || ' ' || cl.last_name, cl.email
		FROM orders o
		JOIN clients cl ON o.client_id = cl.id
		WHERE o.id = $1`, orderColumns)

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.ClientID,
		&order.Status,
		&order.Total,
		&order.Shipping.Street,
		&order.Shipping.City,
		&order.Shipping.PostalCode,
		&order.Shipping.Country,
		&order.CreatedAt,
		&order.ClientName,
		&order.ClientEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByClient(ctx context.Context, clientID int64) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM orders o
		WHERE o.client_id = $1
		ORDER BY o.created_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("query orders by client: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.ClientID,
			&order.Status,
			&order.Total,
			&order.Shipping.Street,
			&order.Shipping.City,
			&order.Shipping.PostalCode,
			&order.Shipping.Country,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *Repository) GetOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `SELECT oi.id, oi.order_id, oi.product_id, p.name, p.image_url,
	                 oi.quantity, oi.unit_price, oi.subtotal
	          FROM order_items oi
	          JOIN products p ON oi.product_id = p.id
	          WHERE oi.order_id = $1
	          ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ImageURL,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}
