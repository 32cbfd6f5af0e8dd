package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"deliciousbites/internal/chat"
	"deliciousbites/internal/metrics"
	"deliciousbites/internal/models"
	"deliciousbites/internal/service"
	"deliciousbites/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MenuLister interface {
	Categories(ctx context.Context) ([]models.Category, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type API struct {
	engine   *chat.Engine
	orders   *service.OrderService
	sessions session.Store
	menu     MenuLister
	db       Pinger
	metrics  *metrics.Registry
	log      *zap.Logger
	timeout  time.Duration
}

func NewAPI(engine *chat.Engine, orders *service.OrderService, sessions session.Store, menu MenuLister,
	db Pinger, m *metrics.Registry, log *zap.Logger, timeout time.Duration) *API {
	return &API{
		engine:   engine,
		orders:   orders,
		sessions: sessions,
		menu:     menu,
		db:       db,
		metrics:  m,
		log:      log,
		timeout:  timeout,
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Success      bool     `json:"success"`
	Response     string   `json:"response"`
	QuickReplies []string `json:"quick_replies"`
	Action       *string  `json:"action"`
}

type cartRequest struct {
	SessionID string `json:"session_id"`
}

type cartResponse struct {
	Success bool               `json:"success"`
	Cart    []models.CartEntry `json:"cart"`
	Total   float64            `json:"total"`
}

type placeOrderRequest struct {
	SessionID       string `json:"session_id"`
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerPhone   string `json:"customer_phone"`
}

type placeOrderResponse struct {
	Success bool    `json:"success"`
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
	Message string  `json:"message"`
}

type cancelOrderRequest struct {
	OrderID string `json:"order_id"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func (a *API) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}

	reply, err := a.engine.Process(r.Context(), req.SessionID, req.Message)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	resp := chatResponse{Success: true, Response: reply.Text, QuickReplies: reply.QuickReplies}
	if reply.Action != "" {
		resp.Action = &reply.Action
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *API) GetCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !a.decode(w, r, &req) {
		return
	}

	cart := a.sessions.Cart(req.SessionID)
	a.writeJSON(w, http.StatusOK, cartResponse{
		Success: true,
		Cart:    cart,
		Total:   models.Round2(models.CartTotal(cart)),
	})
}

func (a *API) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := validateCustomer(req); err != nil {
		a.writeError(w, r, err)
		return
	}

	order, err := a.orders.PlaceOrder(r.Context(), req.SessionID, service.Customer{
		Name:    strings.TrimSpace(req.CustomerName),
		Address: strings.TrimSpace(req.CustomerAddress),
		Phone:   strings.TrimSpace(req.CustomerPhone),
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, placeOrderResponse{
		Success: true,
		OrderID: order.OrderID,
		Total:   models.Round2(order.TotalAmount),
		Message: fmt.Sprintf("Order placed successfully! Order ID: %s", order.OrderID),
	})
}

func (a *API) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.ListOrders(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.orders.Stats(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

// CancelOrder успех даже для несуществующего номера
func (a *API) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.OrderID) == "" {
		a.writeError(w, r, models.ValidationError{Field: "order_id", Message: "order id is required"})
		return
	}

	if err := a.orders.CancelOrder(r.Context(), req.OrderID); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Order %s cancelled successfully", req.OrderID),
	})
}

func (a *API) Menu(w http.ResponseWriter, r *http.Request) {
	categories, err := a.menu.Categories(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"success": true, "categories": categories})
}

func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := a.db.PingContext(r.Context()); err != nil {
		a.log.Error("health check failed", zap.Error(err))
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	a.writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Routes http маршруты api
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", a.withLogging("chat", a.Chat))
	mux.HandleFunc("POST /api/get-cart", a.withLogging("get_cart", a.GetCart))
	mux.HandleFunc("POST /api/place-order", a.withLogging("place_order", a.PlaceOrder))
	mux.HandleFunc("GET /api/orders", a.withLogging("orders", a.ListOrders))
	mux.HandleFunc("GET /api/stats", a.withLogging("stats", a.Stats))
	mux.HandleFunc("POST /api/cancel-order", a.withLogging("cancel_order", a.CancelOrder))
	mux.HandleFunc("GET /api/menu", a.withLogging("menu", a.Menu))
	mux.HandleFunc("GET /health", a.HealthCheck)
	mux.Handle("GET /metrics", a.metrics.Handler())
	return withCORS(mux)
}

func validateCustomer(req placeOrderRequest) error {
	fields := []struct{ name, value string }{
		{"customer_name", req.CustomerName},
		{"customer_address", req.CustomerAddress},
		{"customer_phone", req.CustomerPhone},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return models.ValidationError{Field: f.name, Message: "is required"}
		}
	}
	return nil
}

// decode пустое тело = все поля по умолчанию
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	a.log.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
	a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "bad_request"})
	return false
}

// writeError переводит ошибку ядра в http статус и код
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr models.ValidationError
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Cart is empty", Code: "empty_cart"})
	case errors.As(err, &verr):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: "validation"})
	case errors.Is(err, models.ErrNotFound):
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	default:
		a.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: "internal"})
	}
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.log.Error("response encoding failed", zap.Error(err))
	}
}

// withLogging лог, метрики и таймаут на каждый запрос
func (a *API) withLogging(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
		defer cancel()
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		a.metrics.Requests.WithLabelValues(name, strconv.Itoa(rw.statusCode)).Inc()
		a.metrics.LatencyMS.WithLabelValues(name).Observe(float64(duration.Milliseconds()))
		a.log.Debug("request completed",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status_code", rw.statusCode),
			zap.Duration("duration", duration))
	}
}

// responseWriter запоминает код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
