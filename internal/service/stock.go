package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artaee/shop-backend/internal/storage"
)

// StockService отдаёт проекцию наличия товаров.
type StockService interface {
	GetStockMap(ctx context.Context) (map[string]bool, error)
}

type stockService struct {
	log       *slog.Logger
	stockRepo storage.StockStorage
}

func NewStockService(log *slog.Logger, stockRepo storage.StockStorage) StockService {
	return &stockService{
		log:       log,
		stockRepo: stockRepo,
	}
}

// GetStockMap возвращает карту productID -> bool.
// В хранилище наличие лежит числом, любое ненулевое значение означает true.
func (s *stockService) GetStockMap(ctx context.Context) (map[string]bool, error) {
	const op = "service.StockService.GetStockMap"

	entries, err := s.stockRepo.GetAllStock(ctx)
	if err != nil {
		s.log.Error("failed to get stock", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get stock: %w", op, err)
	}

	stockMap := make(map[string]bool, len(entries))
	for _, entry := range entries {
		stockMap[entry.ProductID] = entry.InStock != 0
	}
	return stockMap, nil
}
