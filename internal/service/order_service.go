package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deliciousbites/internal/events"
	"deliciousbites/internal/metrics"
	"deliciousbites/internal/models"
	"deliciousbites/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderStore interface {
	Save(ctx context.Context, order *models.Order) error
	AllOrders(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
	Stats(ctx context.Context) (*models.Stats, error)
}

type Customer struct {
	Name    string
	Address string
	Phone   string
}

type OrderService struct {
	orders    OrderStore
	sessions  session.Store
	publisher events.Publisher
	metrics   *metrics.Registry
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(orders OrderStore, sessions session.Store, publisher events.Publisher,
	m *metrics.Registry, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		sessions:  sessions,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// NewOrderID ORD + время до секунды + случайный суффикс против совпадений в одну секунду
func NewOrderID(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD%s-%s", t.Format("20060102150405"), suffix)
}

// PlaceOrder сохраняет заказ из корзины сессии и чистит корзину.
// Если запись не удалась, корзина остается как была
func (s *OrderService) PlaceOrder(ctx context.Context, sessionID string, customer Customer) (*models.Order, error) {
	sessionID = session.NormalizeID(sessionID)

	var placed *models.Order
	err := s.sessions.Checkout(sessionID, func(cart []models.CartEntry) error {
		if len(cart) == 0 {
			return models.ErrEmptyCart
		}

		now := s.now()
		order := &models.Order{
			OrderID:         NewOrderID(now),
			CustomerName:    customer.Name,
			CustomerAddress: customer.Address,
			CustomerPhone:   customer.Phone,
			Items:           cart,
			TotalAmount:     models.CartTotal(cart),
			Status:          models.StatusPreparing,
			CreatedAt:       now.UTC(),
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		s.failed(err)
		s.log.Warn("order placement failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
	}
	s.log.Info("order placed",
		zap.String("order_id", placed.OrderID),
		zap.String("session_id", sessionID),
		zap.Int("items", len(placed.Items)),
		zap.Float64("total", placed.TotalAmount))

	s.publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderPlaced,
		OrderID:     placed.OrderID,
		Status:      placed.Status,
		TotalAmount: placed.TotalAmount,
		Items:       len(placed.Items),
		At:          placed.CreatedAt,
	})
	return placed, nil
}

// CancelOrder ставит Cancelled без проверки существования заказа
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) error {
	if err := s.orders.UpdateStatus(ctx, orderID, models.StatusCancelled); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.OrdersCancelled.Inc()
	}
	s.log.Info("order cancelled", zap.String("order_id", orderID))

	s.publish(ctx, events.OrderEvent{
		Type:    events.TypeOrderCancelled,
		OrderID: orderID,
		Status:  models.StatusCancelled,
		At:      s.now().UTC(),
	})
	return nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.AllOrders(ctx)
}

func (s *OrderService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.orders.Stats(ctx)
}

// publish событие не влияет на результат операции, ошибку только логируем
func (s *OrderService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("order event not published",
			zap.String("order_id", event.OrderID), zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *OrderService) failed(err error) {
	if s.metrics == nil {
		return
	}
	reason := "persistence"
	if errors.Is(err, models.ErrEmptyCart) {
		reason = "empty_cart"
	}
	s.metrics.OrderFailures.WithLabelValues(reason).Inc()
}
