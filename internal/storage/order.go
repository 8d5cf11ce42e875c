package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artaee/shop-backend/internal/domain/models"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrderHeader вставляет шапку заказа в рамках транзакции и возвращает её
	// с id, статусом и временем создания, присвоенными базой.
	CreateOrderHeader(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, notes *string) (*models.Order, error)
	// CreateOrderItem вставляет позицию заказа в рамках той же транзакции.
	CreateOrderItem(ctx context.Context, tx *sql.Tx, orderID int64, item *models.OrderItem) error
	// GetOrdersWithItemsByUserID возвращает заказы пользователя с позициями,
	// собранные из плоских строк LEFT JOIN.
	GetOrdersWithItemsByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	// GetOrderWithItemsByID возвращает один заказ; владелец входит в предикат запроса,
	// поэтому чужой заказ неотличим от несуществующего.
	GetOrderWithItemsByID(ctx context.Context, userID, orderID int64) (*models.Order, error)
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderHeader(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, notes *string) (*models.Order, error) {
	order := &models.Order{
		UserID: userID,
		Total:  total,
		Notes:  notes,
	}
	query := `INSERT INTO orders (user_id, total, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW())
	          RETURNING id, status, created_at, updated_at`
	err := tx.QueryRowContext(ctx, query, userID, total, notes).
		Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order header: %w", err)
	}
	return order, nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, tx *sql.Tx, orderID int64, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_name, price, quantity, size)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, orderID, item.ProductName, item.Price, item.Quantity, item.Size)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

// запрос общий для списка и для одного заказа, различается только предикат
const orderJoinQuery = `
		SELECT o.id, o.user_id, o.status, o.total, o.notes, o.created_at, o.updated_at,
		       oi.product_name, oi.price, oi.quantity, oi.size
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id`

func (r *orderRepository) GetOrdersWithItemsByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := orderJoinQuery + `
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, oi.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) GetOrderWithItemsByID(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	query := orderJoinQuery + `
		WHERE o.id = $1 AND o.user_id = $2
		ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, query, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// collectOrders собирает дерево заказов из плоских строк JOIN за один проход.
// Строки уже отсортированы по created_at DESC, порядок первого появления сохраняется.
// Заказ без позиций приходит одной строкой с NULL-полями позиции и получает пустой список.
func collectOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	byID := make(map[int64]*models.Order)

	for rows.Next() {
		var (
			order       models.Order
			productName sql.NullString
			price       decimal.NullDecimal
			quantity    sql.NullInt64
			size        sql.NullString
		)
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.Status, &order.Total, &order.Notes,
			&order.CreatedAt, &order.UpdatedAt,
			&productName, &price, &quantity, &size,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		current, ok := byID[order.ID]
		if !ok {
			order.Items = []*models.OrderItem{}
			current = &order
			byID[order.ID] = current
			orders = append(orders, current)
		}

		// NULL в product_name означает заказ без позиций, такую строку не превращаем в item
		if productName.Valid {
			item := &models.OrderItem{
				ProductName: productName.String,
				Price:       price.Decimal,
				Quantity:    int(quantity.Int64),
			}
			if size.Valid {
				item.Size = &size.String
			}
			current.Items = append(current.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
