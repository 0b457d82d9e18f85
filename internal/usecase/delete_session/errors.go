package delete_session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("delete_session: session not found")

	// ErrTargetNotFound возвращается, когда сессия для переноса не найдена
	ErrTargetNotFound = errors.New("delete_session: target session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому гиду
	ErrAccessDenied = errors.New("delete_session: access denied")

	// ErrDifferentGuide возвращается, когда сессия для переноса принадлежит другому гиду
	ErrDifferentGuide = errors.New("delete_session: target session belongs to another guide")

	// ErrDispositionRequired возвращается, когда у сессии есть бронирования, а способ их обработки не указан
	ErrDispositionRequired = errors.New("delete_session: session has bookings, disposition required")

	// ErrDeletionAborted возвращается, когда хотя бы одно бронирование нельзя перенести.
	// Сессия и все бронирования остаются без изменений
	ErrDeletionAborted = errors.New("delete_session: deletion aborted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("delete_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("delete_session: internal error")
)

// MoveFailure бронирование, которое не помещается в целевую сессию
type MoveFailure struct {
	BookingID      int64
	ProductID      int64
	NumberOfPeople int
	Err            error
}

// AbortedError отказ в удалении с перечнем бронирований, которые нельзя перенести
type AbortedError struct {
	SessionID       int64
	TargetSessionID int64
	Failures        []MoveFailure
}

func (e *AbortedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("booking=%d: %v", f.BookingID, f.Err))
	}
	return fmt.Sprintf("%s: session=%d target=%d: %s",
		ErrDeletionAborted, e.SessionID, e.TargetSessionID, strings.Join(parts, "; "))
}

// Unwrap отдаёт только ErrDeletionAborted: внутренние причины не всплывают как ошибки вместимости
func (e *AbortedError) Unwrap() error {
	return ErrDeletionAborted
}
