package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/artaee/shop-backend/internal/service"
	"github.com/artaee/shop-backend/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	headerQuery = regexp.QuoteMeta("INSERT INTO orders (user_id, total, notes, created_at, updated_at)")
	itemQuery   = regexp.QuoteMeta("INSERT INTO order_items (order_id, product_name, price, quantity, size)")
)

func newOrderService(t *testing.T) (service.OrderService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := storage.NewOrderRepository(db)
	svc := service.NewOrderService(logger, db, repo)
	return svc, mock, func() { db.Close() }
}

func TestCreateOrder_Success(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()
	now := time.Now()

	total := decimal.RequireFromString("25.50")

	mock.ExpectBegin()
	mock.ExpectQuery(headerQuery).
		WithArgs(int64(1), total, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(10, "pending", now, now))
	mock.ExpectExec(itemQuery).
		WithArgs(int64(10), "A", decimal.RequireFromString("10.00"), 2, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(itemQuery).
		WithArgs(int64(10), "B", decimal.RequireFromString("5.50"), 1, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	items := []service.NewOrderItem{
		{Name: "A", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{Name: "B", Price: decimal.RequireFromString("5.50"), Quantity: 1},
	}
	order, err := svc.CreateOrder(ctx, 1, items, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), order.ID)
	assert.Equal(t, "pending", order.Status)
	// сумма точная, с двумя знаками после запятой
	assert.Equal(t, "25.50", order.Total.StringFixed(2))
	// ответ отражает отправленные позиции, а не повторное чтение из БД
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "A", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_NoFloatDrift(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()
	now := time.Now()

	// 0.10 + 0.20 в decimal дают ровно 0.30, без двоичного дрейфа
	total := decimal.RequireFromString("0.30")

	mock.ExpectBegin()
	mock.ExpectQuery(headerQuery).
		WithArgs(int64(1), total, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(11, "pending", now, now))
	mock.ExpectExec(itemQuery).
		WithArgs(int64(11), "A", decimal.RequireFromString("0.10"), 1, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(itemQuery).
		WithArgs(int64(11), "B", decimal.RequireFromString("0.20"), 1, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	items := []service.NewOrderItem{
		{Name: "A", Price: decimal.RequireFromString("0.10"), Quantity: 1},
		{Name: "B", Price: decimal.RequireFromString("0.20"), Quantity: 1},
	}
	order, err := svc.CreateOrder(ctx, 1, items, nil)
	assert.NoError(t, err)
	assert.Equal(t, "0.30", order.Total.StringFixed(2))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()

	// Ни одного обращения к БД не ожидается.
	order, err := svc.CreateOrder(ctx, 1, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, service.ErrEmptyCart))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_InvalidItem(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()

	items := []service.NewOrderItem{
		{Name: "A", Price: decimal.RequireFromString("-1.00"), Quantity: 1},
	}
	order, err := svc.CreateOrder(ctx, 1, items, nil)
	assert.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, service.ErrInvalidItem))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_DefaultQuantity(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()
	now := time.Now()

	price := decimal.RequireFromString("7.00")

	mock.ExpectBegin()
	mock.ExpectQuery(headerQuery).
		WithArgs(int64(1), price, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(12, "pending", now, now))
	// нулевое количество в запросе превращается в 1
	mock.ExpectExec(itemQuery).
		WithArgs(int64(12), "A", price, 1, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	items := []service.NewOrderItem{{Name: "A", Price: price, Quantity: 0}}
	order, err := svc.CreateOrder(ctx, 1, items, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, "7.00", order.Total.StringFixed(2))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_ItemInsertFails_RollsBack(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()
	now := time.Now()

	total := decimal.RequireFromString("10.00")

	// Шапка записывается, вставка позиции падает — транзакция должна откатиться,
	// заказ без позиций не становится видимым.
	mock.ExpectBegin()
	mock.ExpectQuery(headerQuery).
		WithArgs(int64(1), total, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(13, "pending", now, now))
	mock.ExpectExec(itemQuery).
		WithArgs(int64(13), "A", total, 1, nil).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	items := []service.NewOrderItem{{Name: "A", Price: total, Quantity: 1}}
	order, err := svc.CreateOrder(ctx, 1, items, nil)
	assert.Error(t, err)
	assert.Nil(t, order)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_BeginFails(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	items := []service.NewOrderItem{{Name: "A", Price: decimal.RequireFromString("1.00"), Quantity: 1}}
	order, err := svc.CreateOrder(ctx, 1, items, nil)
	assert.Error(t, err)
	assert.Nil(t, order)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_NotFound(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "status", "total", "notes", "created_at", "updated_at",
		"product_name", "price", "quantity", "size",
	})
	mock.ExpectQuery(`WHERE o\.id = \$1 AND o\.user_id = \$2`).
		WithArgs(int64(99), int64(1)).WillReturnRows(rows)

	order, err := svc.GetOrderByID(ctx, 1, 99)
	assert.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, service.ErrOrderNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersForUser_Empty(t *testing.T) {
	svc, mock, closeDB := newOrderService(t)
	defer closeDB()
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "status", "total", "notes", "created_at", "updated_at",
		"product_name", "price", "quantity", "size",
	})
	mock.ExpectQuery(`WHERE o\.user_id = \$1`).
		WithArgs(int64(1)).WillReturnRows(rows)

	orders, err := svc.ListOrdersForUser(ctx, 1)
	assert.NoError(t, err)
	assert.NotNil(t, orders, "Empty result must be an empty slice, not nil")
	assert.Len(t, orders, 0)

	assert.NoError(t, mock.ExpectationsWereMet())
}
