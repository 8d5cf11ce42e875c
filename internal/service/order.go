package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artaee/shop-backend/internal/domain/models"
	"github.com/artaee/shop-backend/internal/storage"
	"github.com/shopspring/decimal"
)

// NewOrderItem — позиция корзины, как её прислал клиент
type NewOrderItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Size     *string
}

// OrderService определяет операции над заказами.
type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, items []NewOrderItem, notes *string) (*models.Order, error)
	ListOrdersForUser(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID int64) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	db        *sql.DB
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage) OrderService {
	return &orderService{
		log:       log,
		db:        db,
		orderRepo: orderRepo,
	}
}

// CreateOrder создаёт заказ с позициями.
// Сумма считается в decimal до обращения к БД, шапка и позиции пишутся в одной транзакции:
// либо заказ сохранён целиком, либо в базе не остаётся ничего.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, items []NewOrderItem, notes *string) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int("items", len(items)))

	if len(items) == 0 {
		logger.Warn("empty cart")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	// валидация и подсчёт суммы до открытия транзакции
	total := decimal.Zero
	orderItems := make([]*models.OrderItem, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: item name is required: %w", op, ErrInvalidItem)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%s: item price must not be negative: %w", op, ErrInvalidItem)
		}
		quantity := it.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, fmt.Errorf("%s: item quantity must be positive: %w", op, ErrInvalidItem)
		}

		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(quantity))))
		orderItems = append(orderItems, &models.OrderItem{
			ProductName: name,
			Price:       it.Price,
			Quantity:    quantity,
			Size:        it.Size,
		})
	}

	logger.Info("starting order transaction", slog.String("total", total.StringFixed(2)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order, err := s.orderRepo.CreateOrderHeader(ctx, tx, userID, total, notes)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order header", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order header: %w", op, err)
	}

	for _, item := range orderItems {
		if err := s.orderRepo.CreateOrderItem(ctx, tx, order.ID, item); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to create order item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to create order item: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	// ответ отражает провалидированный ввод, из базы позиции заново не читаются
	order.Items = orderItems
	logger.Info("order created successfully", slog.Int64("orderID", order.ID))
	return order, nil
}

// ListOrdersForUser возвращает заказы вызывающего пользователя, новые сверху.
// Фильтр по владельцу стоит в самом запросе, чужие заказы сюда попасть не могут.
func (s *orderService) ListOrdersForUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrdersForUser"

	orders, err := s.orderRepo.GetOrdersWithItemsByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// GetOrderByID возвращает один заказ вызывающего пользователя.
// Несуществующий и чужой заказ для вызывающего неразличимы: в обоих случаях ErrOrderNotFound.
func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	const op = "service.OrderService.GetOrderByID"

	order, err := s.orderRepo.GetOrderWithItemsByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		s.log.Error("failed to get order", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	return order, nil
}
