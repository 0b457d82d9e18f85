package confirm_payment

import (
	"fmt"
	"math"
	"strings"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Handle) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("handle", "is required"))
	}
	return nil
}

// amountTolerance допустимое расхождение суммы из-за округления до центов
const amountTolerance = 0.005

// verifyIntent сверяет намерение оплаты с черновиком бронирования
func verifyIntent(intent *payment.Intent, draft *domain.BookingDraft) error {
	if !intent.IsSucceeded() {
		return fmt.Errorf("%w: intent status is %s", ErrPaymentNotVerified, intent.Status)
	}
	if math.Abs(intent.Amount-draft.AmountToCollectNow) > amountTolerance {
		return fmt.Errorf("%w: paid %.2f, expected %.2f", ErrPaymentNotVerified, intent.Amount, draft.AmountToCollectNow)
	}
	if draft.Currency != "" && !strings.EqualFold(intent.Currency, draft.Currency) {
		return fmt.Errorf("%w: currency %s, expected %s", ErrPaymentNotVerified, intent.Currency, draft.Currency)
	}
	return nil
}
