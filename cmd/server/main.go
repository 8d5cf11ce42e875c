package main

import (
	"context"
	"encoding/json"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artaee/shop-backend/internal/app"
	"github.com/artaee/shop-backend/internal/app/handlers"
	"github.com/artaee/shop-backend/internal/config"
	"github.com/artaee/shop-backend/internal/jwt-new/jwtmiddleware"
	"github.com/artaee/shop-backend/internal/lib/logger"
	"github.com/artaee/shop-backend/internal/lib/logger/handlers/urllog"
	"github.com/artaee/shop-backend/internal/service"
	"github.com/artaee/shop-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			log.Error("failed to close db pool", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	messageRepo := storage.NewMessageRepository(application.DB)
	stockRepo := storage.NewStockRepository(application.DB)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	orderService := service.NewOrderService(application.Logger, application.DB, orderRepo)
	messageService := service.NewMessageService(application.Logger, messageRepo)
	stockService := service.NewStockService(application.Logger, stockRepo)

	// публичные эндпоинты
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))
	router.Post("/api/messages", handlers.SubmitMessageHandler(application.Logger, messageService))
	router.Get("/api/stock", handlers.StockHandler(application.Logger, stockService))
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "time": time.Now()})
	})

	jwtMW := jwtmiddleware.NewJWTMiddleware()

	// эндпоинты, требующие аутентификации
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)
		r.Get("/api/auth/me", handlers.MeHandler(application.Logger, authService))
		r.Post("/api/orders", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/api/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/api/orders/{id}", handlers.GetOrderHandler(application.Logger, orderService))
	})

	// эндпоинты только для администратора
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)
		r.Use(jwtmiddleware.RequireAdmin())
		r.Get("/api/messages", handlers.ListMessagesHandler(application.Logger, messageService))
		r.Patch("/api/messages/{id}/read", handlers.MarkMessageReadHandler(application.Logger, messageService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
