package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/artaee/shop-backend/internal/domain/models"
)

// StockStorage описывает чтение таблицы наличия товаров.
type StockStorage interface {
	GetAllStock(ctx context.Context) ([]*models.StockEntry, error)
}

type stockRepository struct {
	db *sql.DB
}

func NewStockRepository(db *sql.DB) StockStorage {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetAllStock(ctx context.Context) ([]*models.StockEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT product_id, in_stock FROM stock")
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	var entries []*models.StockEntry
	for rows.Next() {
		entry := &models.StockEntry{}
		if err := rows.Scan(&entry.ProductID, &entry.InStock); err != nil {
			return nil, fmt.Errorf("failed to scan stock entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
