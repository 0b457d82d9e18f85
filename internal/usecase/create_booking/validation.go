package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID <= 0 {
		return invalid("sessionId", "must be positive")
	}

	if req.ProductID <= 0 {
		return invalid("productId", "must be positive")
	}

	if req.NumberOfPeople < domain.MinNumberOfPeople || req.NumberOfPeople > domain.MaxNumberOfPeople {
		return invalid("numberOfPeople", fmt.Sprintf("must be between %d and %d", domain.MinNumberOfPeople, domain.MaxNumberOfPeople))
	}

	if req.ShoeRentalCount < 0 || req.ShoeRentalCount > req.NumberOfPeople {
		return invalid("shoeRentalCount", "must be between 0 and numberOfPeople")
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return invalid("clientName", "is required")
	}
	if len(name) > domain.MaxClientNameLength {
		return invalid("clientName", fmt.Sprintf("must be at most %d characters", domain.MaxClientNameLength))
	}

	// Полная проверка адреса на стороне сервиса уведомлений
	email := strings.TrimSpace(req.ClientEmail)
	if email == "" || !strings.Contains(email, "@") {
		return invalid("clientEmail", "must be a valid email")
	}

	if req.VoucherCode != nil && len(strings.TrimSpace(*req.VoucherCode)) > domain.MaxVoucherCodeLength {
		return invalid("voucherCode", fmt.Sprintf("must be at most %d characters", domain.MaxVoucherCodeLength))
	}

	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, reason))
}

// voucherCode возвращает нормализованный код или пустую строку
func voucherCode(req *Request) string {
	if req.VoucherCode == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*req.VoucherCode))
}
