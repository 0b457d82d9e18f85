package paymentintent

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден или истёк TTL
	ErrDraftNotFound = errors.New("paymentintent.store: draft not found")

	// ErrAlreadyClaimed возвращается, когда черновик уже обрабатывается другим запросом
	ErrAlreadyClaimed = errors.New("paymentintent.store: draft already claimed")

	// ErrStore возвращается при ошибках redis
	ErrStore = errors.New("paymentintent.store: redis error")

	// ErrEncode возвращается при ошибке сериализации черновика
	ErrEncode = errors.New("paymentintent.store: encode error")
)
