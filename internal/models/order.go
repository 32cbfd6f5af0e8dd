package models

import (
	"math"
	"time"
)

const (
	StatusPreparing = "Preparing"
	StatusReady     = "Ready"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// CartEntry копия позиции меню на момент добавления в корзину
type CartEntry struct {
	MenuItem
	AddedAt time.Time `json:"added_at"`
}

type Order struct {
	ID              int         `json:"id"`
	OrderID         string      `json:"order_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerAddress string      `json:"customer_address"`
	CustomerPhone   string      `json:"customer_phone"`
	Items           []CartEntry `json:"items"`
	TotalAmount     float64     `json:"total_amount"` // без округления
	Status          string      `json:"order_status"`
	CreatedAt       time.Time   `json:"created_at"`
}

type Stats struct {
	TotalOrders int     `json:"total_orders"`
	Revenue     float64 `json:"revenue"`
	AvgOrder    float64 `json:"avg_order"`
	Pending     int     `json:"pending"`
}

// CartTotal точная сумма цен, округление только при выводе
func CartTotal(items []CartEntry) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
