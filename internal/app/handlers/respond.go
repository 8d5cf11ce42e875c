package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/artaee/shop-backend/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceError переводит ошибку бизнес-логики в HTTP-статус.
// Всё, что не распознано как ошибка клиента, уходит наружу обезличенным 500:
// текст внутренней ошибки клиенту не показывается.
func serviceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidMessage),
		errors.Is(err, service.ErrMessageTooLong):
		errorJSON(w, http.StatusBadRequest, unwrapMessage(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		errorJSON(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrEmailTaken):
		errorJSON(w, http.StatusConflict, service.ErrEmailTaken.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		errorJSON(w, http.StatusNotFound, service.ErrOrderNotFound.Error())
	case errors.Is(err, service.ErrUserNotFound):
		errorJSON(w, http.StatusNotFound, service.ErrUserNotFound.Error())
	default:
		logger.Error("internal error", slog.Any("error", err))
		errorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}

// unwrapMessage достаёт текст известной ошибки без префиксов операций
func unwrapMessage(err error) string {
	for _, known := range []error{
		service.ErrEmptyCart,
		service.ErrInvalidItem,
		service.ErrInvalidMessage,
		service.ErrMessageTooLong,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "bad request"
}
