package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artaee/shop-backend/internal/domain/models"
	"github.com/artaee/shop-backend/internal/jwt-new/jwtmiddleware"
	"github.com/artaee/shop-backend/internal/service"
)

// RegisterRequest представляет структуру запроса регистрации с тегами валидации
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest представляет структуру запроса входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse представляет ответ с JWT-токеном и профилем пользователя
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterHandler – HTTP-обработчик для POST /api/auth/register
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}

		// Валидация структуры запроса с использованием validator
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "validation error")
			return
		}

		user, token, err := authService.Register(r.Context(), req.FullName, req.Email, req.Password)
		if err != nil {
			logger.Error("registration failed", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
	}
}

// LoginHandler – HTTP-обработчик для POST /api/auth/login
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "validation error")
			return
		}

		user, token, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Warn("login failed", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
	}
}

// MeHandler – HTTP-обработчик для GET /api/auth/me, профиль текущего пользователя
func MeHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MeHandler"
		logger := log.With(slog.String("op", op))

		identity, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := authService.Profile(r.Context(), identity.UserID)
		if err != nil {
			logger.Error("failed to get profile", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
