package payment

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payment client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("payment client: invalid response")

	// ErrIntentNotFound возвращается, когда платёжный сервис не знает такого намерения
	ErrIntentNotFound = errors.New("payment client: intent not found")

	// ErrRejected возвращается, когда платёжный сервис отклонил создание намерения оплаты
	ErrRejected = errors.New("payment client: intent rejected")
)
