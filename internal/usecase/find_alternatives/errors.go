package find_alternatives

import "errors"

var (
	// ErrSessionNotFound возвращается, когда исходная сессия не найдена
	ErrSessionNotFound = errors.New("find_alternatives: session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому гиду
	ErrAccessDenied = errors.New("find_alternatives: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_alternatives: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_alternatives: internal error")
)
