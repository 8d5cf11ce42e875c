package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/artaee/shop-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// SubmitMessageRequest — тело публичного запроса POST /api/messages
type SubmitMessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=2000"`
}

// OkResponse — ответ операций, у которых нет содержимого
type OkResponse struct {
	Ok bool `json:"ok"`
}

// SubmitMessageHandler обрабатывает запрос POST /api/messages, авторизация не требуется
func SubmitMessageHandler(log *slog.Logger, messageService service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitMessageHandler"
		logger := log.With(slog.String("op", op))

		var req SubmitMessageRequest
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

		if err := messageService.Submit(r.Context(), req.Name, req.Email, req.Message); err != nil {
			logger.Error("failed to submit message", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, OkResponse{Ok: true})
	}
}

// ListMessagesHandler обрабатывает запрос GET /api/messages, только для администратора
func ListMessagesHandler(log *slog.Logger, messageService service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListMessagesHandler"
		logger := log.With(slog.String("op", op))

		messages, err := messageService.ListAll(r.Context())
		if err != nil {
			logger.Error("failed to list messages", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, messages)
	}
}

// MarkMessageReadHandler обрабатывает запрос PATCH /api/messages/{id}/read, только для администратора
func MarkMessageReadHandler(log *slog.Logger, messageService service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MarkMessageReadHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid message id")
			return
		}

		if err := messageService.MarkRead(r.Context(), id); err != nil {
			logger.Error("failed to mark message read", slog.Any("error", err))
			serviceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, OkResponse{Ok: true})
	}
}
