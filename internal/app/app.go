package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/artaee/shop-backend/internal/config"
	_ "github.com/lib/pq"
)

// App держит общие ресурсы процесса: конфиг, логгер и пул соединений с БД.
// Пул создается явно здесь и передается в репозитории, глобального состояния нет.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
}

// NewApp создаёт новый экземпляр App
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is not set")
	}
	// реализуем подключение к БД через DSN
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User,
		dbPassword,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// таймауты пула: зависшее соединение должно вернуться ошибкой, а не висеть
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(30 * time.Second)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
	}

	return app, nil
}

// Shutdown закрывает пул соединений
func (a *App) Shutdown() error {
	return a.DB.Close()
}
