package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artaee/shop-backend/internal/domain/models"
	"github.com/artaee/shop-backend/internal/storage"
)

const maxMessageLength = 2000

// MessageService определяет операции над сообщениями обратной связи.
type MessageService interface {
	Submit(ctx context.Context, name, email, message string) error
	ListAll(ctx context.Context) ([]*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
}

type messageService struct {
	log         *slog.Logger
	messageRepo storage.MessageStorage
}

func NewMessageService(log *slog.Logger, messageRepo storage.MessageStorage) MessageService {
	return &messageService{
		log:         log,
		messageRepo: messageRepo,
	}
}

// Submit принимает публичное сообщение: поля обрезаются, email приводится к нижнему регистру
func (s *messageService) Submit(ctx context.Context, name, email, message string) error {
	const op = "service.MessageService.Submit"

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	message = strings.TrimSpace(message)

	if name == "" || email == "" || message == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidMessage)
	}
	if len(message) > maxMessageLength {
		return fmt.Errorf("%s: %w", op, ErrMessageTooLong)
	}

	msg := &models.Message{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		s.log.Error("failed to create message", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to create message: %w", op, err)
	}
	return nil
}

func (s *messageService) ListAll(ctx context.Context) ([]*models.Message, error) {
	const op = "service.MessageService.ListAll"

	messages, err := s.messageRepo.GetAllMessages(ctx)
	if err != nil {
		s.log.Error("failed to get messages", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get messages: %w", op, err)
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return messages, nil
}

// MarkRead идемпотентна: по несуществующему id тоже возвращается успех
func (s *messageService) MarkRead(ctx context.Context, id int64) error {
	const op = "service.MessageService.MarkRead"

	if err := s.messageRepo.MarkMessageRead(ctx, id); err != nil {
		s.log.Error("failed to mark message read", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to mark message read: %w", op, err)
	}
	return nil
}
