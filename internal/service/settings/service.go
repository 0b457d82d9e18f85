package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/guide-sessions/internal/domain"
	guideRepo "github.com/m04kA/guide-sessions/internal/infra/storage/guide"
	"github.com/m04kA/guide-sessions/internal/service/settings/models"
)

// Service сервис настроек оплаты гида
type Service struct {
	guideRepo GuideRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(guideRepo GuideRepository, logger Logger) *Service {
	return &Service{
		guideRepo: guideRepo,
		logger:    logger,
	}
}

// Get возвращает настройки оплаты гида
func (s *Service) Get(ctx context.Context, guideID int64) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for guide=%d", guideID)

	guide, err := s.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, guideRepo.ErrGuideNotFound) {
			s.logger.Warn("Get: guide=%d not found", guideID)
			return nil, ErrGuideNotFound
		}
		s.logger.Error("Get: repository error for guide=%d: %v", guideID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainGuide(guide), nil
}

// Update частично обновляет настройки оплаты гида
// Итоговые настройки валидируются целиком, а не только переданные поля
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for guide=%d", req.GuideID)

	// 1. Получаем текущие настройки
	guide, err := s.guideRepo.GetByID(ctx, req.GuideID)
	if err != nil {
		if errors.Is(err, guideRepo.ErrGuideNotFound) {
			s.logger.Warn("Update: guide=%d not found", req.GuideID)
			return nil, ErrGuideNotFound
		}
		s.logger.Error("Update: repository error for guide=%d: %v", req.GuideID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Применяем изменения и валидируем результат
	updated := req.Apply(guide.Settings)
	updated.Currency = strings.ToUpper(strings.TrimSpace(updated.Currency))
	if updated.Currency == "" {
		updated.Currency = domain.DefaultCurrency
	}

	if err := validateSettings(updated); err != nil {
		s.logger.Warn("Update: validation failed for guide=%d: %v", req.GuideID, err)
		return nil, err
	}

	// 3. Сохраняем
	if err := s.guideRepo.UpdateSettings(ctx, req.GuideID, updated); err != nil {
		if errors.Is(err, guideRepo.ErrGuideNotFound) {
			return nil, ErrGuideNotFound
		}
		s.logger.Error("Update: repository error for guide=%d: %v", req.GuideID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	guide.Settings = updated
	s.logger.Info("Update: successfully updated settings for guide=%d, mode=%s", req.GuideID, updated.PaymentMode)
	return models.FromDomainGuide(guide), nil
}

// validateSettings валидирует настройки оплаты
func validateSettings(st domain.PaymentSettings) error {
	if !st.PaymentMode.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("paymentMode", "unknown payment mode"))
	}

	if !st.DepositType.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("depositType", "must be percentage or fixed"))
	}

	if st.DepositAmount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("depositAmount", "must not be negative"))
	}

	if st.DepositType == domain.DepositPercentage && st.DepositAmount > 100 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("depositAmount", "percentage must not exceed 100"))
	}

	if len(st.Currency) != 3 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("currency", "must be a 3-letter code"))
	}

	return nil
}
