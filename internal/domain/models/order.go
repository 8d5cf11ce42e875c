package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// статусы заказа; новый заказ всегда создается в статусе pending
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order представляет заказ пользователя вместе с позициями
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"` // фиксируется при создании, при чтении не пересчитывается
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Items     []*OrderItem    `json:"items"`
}

// OrderItem — позиция заказа, снимок товара на момент покупки.
// Название и цена денормализованы и не зависят от дальнейших изменений каталога.
type OrderItem struct {
	ID          int64           `json:"id,omitempty"`
	OrderID     int64           `json:"order_id,omitempty"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Size        *string         `json:"size,omitempty"`
}
