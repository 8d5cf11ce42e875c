package service

import "errors"

// Ошибки бизнес-логики, по которым транспортный слой выбирает HTTP-статус.
// Детали инфраструктурных сбоев наружу не отдаются, только логируются.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidItem        = errors.New("invalid order item")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrMessageTooLong     = errors.New("message is too long")
)
