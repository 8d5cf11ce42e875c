package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/artaee/shop-backend/internal/jwt-new/jwtmiddleware"
	"github.com/artaee/shop-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderItemRequest — позиция корзины во входном JSON
type OrderItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Size     *string         `json:"size,omitempty"`
}

// CreateOrderRequest — тело запроса POST /api/orders
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
	Notes *string            `json:"notes,omitempty"`
}

// CreateOrderHandler обрабатывает запрос POST /api/orders.
// userID берётся только из проверенного токена, не из тела запроса.
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}

		items := make([]service.NewOrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, service.NewOrderItem{
				Name:     it.Name,
				Price:    it.Price,
				Quantity: it.Quantity,
				Size:     it.Size,
			})
		}

		order, err := orderService.CreateOrder(r.Context(), identity.UserID, items, req.Notes)
		if err != nil {
			logger.Error("failed to create order", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, order)
	}
}

// ListOrdersHandler обрабатывает запрос GET /api/orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := orderService.ListOrdersForUser(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// GetOrderHandler обрабатывает запрос GET /api/orders/{id}.
// Нечисловой id, несуществующий заказ и чужой заказ дают одинаковый 404.
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			errorJSON(w, http.StatusNotFound, service.ErrOrderNotFound.Error())
			return
		}

		order, err := orderService.GetOrderByID(r.Context(), identity.UserID, orderID)
		if err != nil {
			logger.Warn("failed to get order", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}
