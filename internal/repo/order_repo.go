package repo

import (
	"context"
	"database/sql"
	"fmt"

	"deliciousbites/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Save одна вставка, заказ либо записан целиком, либо нет
func (r *OrderRepo) Save(ctx context.Context, order *models.Order) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}
	if order.Status == "" {
		order.Status = models.StatusPreparing
	}

	query := `
		INSERT INTO orders (order_id, customer_name, customer_address, customer_phone,
			items, total_amount, order_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query,
		order.OrderID, order.CustomerName, order.CustomerAddress, order.CustomerPhone,
		items, order.TotalAmount, order.Status, order.CreatedAt.UTC(),
	)
	if err != nil {
		return &models.PersistenceError{Op: "insert order " + order.OrderID, Err: err}
	}
	return nil
}

func (r *OrderRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT id, order_id, customer_name, customer_address, customer_phone,
			items, total_amount, order_status, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &models.PersistenceError{Op: "select orders", Err: err}
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		var items string
		err := rows.Scan(
			&order.ID, &order.OrderID, &order.CustomerName, &order.CustomerAddress,
			&order.CustomerPhone, &items, &order.TotalAmount, &order.Status, &order.CreatedAt,
		)
		if err != nil {
			return nil, &models.PersistenceError{Op: "scan order", Err: err}
		}
		if order.Items, err = decodeItems(items); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.OrderID, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Op: "iterate orders", Err: err}
	}
	return orders, nil
}

// UpdateStatus принимает любой статус и не проверяет, что заказ существует
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	query := `
		UPDATE orders
		SET order_status = $1
		WHERE order_id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, orderID); err != nil {
		return &models.PersistenceError{Op: "update order status " + orderID, Err: err}
	}
	return nil
}

// Stats выручка считается по всем заказам, отмененные тоже входят
func (r *OrderRepo) Stats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(CASE WHEN order_status = $1 THEN 1 ELSE 0 END), 0)
		FROM orders`

	var total, pending int
	var revenue float64
	if err := r.db.QueryRowContext(ctx, query, models.StatusPreparing).Scan(&total, &revenue, &pending); err != nil {
		return nil, &models.PersistenceError{Op: "select stats", Err: err}
	}

	stats := &models.Stats{
		TotalOrders: total,
		Revenue:     models.Round2(revenue),
		Pending:     pending,
	}
	if total > 0 {
		stats.AvgOrder = models.Round2(revenue / float64(total))
	}
	return stats, nil
}
