package allocator

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия черновика не найдена
	ErrSessionNotFound = errors.New("allocator: session not found")

	// ErrVoucherNotFound возвращается, когда промокод удалён после расчёта цены
	ErrVoucherNotFound = errors.New("allocator: voucher not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("allocator: internal error")
)
