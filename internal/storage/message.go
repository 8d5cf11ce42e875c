package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/artaee/shop-backend/internal/domain/models"
)

// MessageStorage описывает методы для работы с сообщениями обратной связи.
type MessageStorage interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	// GetAllMessages возвращает все сообщения, новые сверху.
	GetAllMessages(ctx context.Context) ([]*models.Message, error)
	// MarkMessageRead помечает сообщение прочитанным; отсутствие строки не считается ошибкой.
	MarkMessageRead(ctx context.Context, id int64) error
}

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageStorage {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `INSERT INTO messages (name, email, message, read, created_at)
	          VALUES ($1, $2, $3, FALSE, NOW())`
	_, err := r.db.ExecContext(ctx, query, msg.Name, msg.Email, msg.Message)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) GetAllMessages(ctx context.Context) ([]*models.Message, error) {
	query := `
		SELECT id, name, email, message, read, created_at
		FROM messages
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.Read, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkMessageRead(ctx context.Context, id int64) error {
	// идемпотентно: повторный вызов и несуществующий id дают тот же успешный результат
	_, err := r.db.ExecContext(ctx, "UPDATE messages SET read = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}
