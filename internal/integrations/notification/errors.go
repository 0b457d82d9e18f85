package notification

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("notification publisher: failed to connect")

	// ErrPublish возвращается при ошибке публикации сообщения
	ErrPublish = errors.New("notification publisher: failed to publish")
)
