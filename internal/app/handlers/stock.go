package handlers

import (
	"log/slog"
	"net/http"

	"github.com/artaee/shop-backend/internal/service"
)

// StockHandler обрабатывает запрос GET /api/stock, авторизация не требуется
func StockHandler(log *slog.Logger, stockService service.StockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StockHandler"
		logger := log.With(slog.String("op", op))

		stockMap, err := stockService.GetStockMap(r.Context())
		if err != nil {
			logger.Error("failed to get stock", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, stockMap)
	}
}
