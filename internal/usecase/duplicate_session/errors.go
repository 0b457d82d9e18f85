package duplicate_session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия-шаблон не найдена
	ErrSessionNotFound = errors.New("duplicate_session: session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому гиду
	ErrAccessDenied = errors.New("duplicate_session: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("duplicate_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("duplicate_session: internal error")
)
