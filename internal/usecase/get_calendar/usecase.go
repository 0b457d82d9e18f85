package get_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	productRepo "github.com/m04kA/guide-sessions/internal/infra/storage/product"
)

// UseCase use case календаря доступности продукта
type UseCase struct {
	productRepo  ProductRepository
	sessionRepo  SessionRepository
	windowDays   int
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	productRepo ProductRepository,
	sessionRepo SessionRepository,
	windowDays int,
	logger Logger,
) *UseCase {
	if windowDays <= 0 {
		windowDays = domain.DefaultCalendarWindowDays
	}
	return &UseCase{
		productRepo:  productRepo,
		sessionRepo:  sessionRepo,
		windowDays:   windowDays,
		location:     time.UTC,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithLocation задаёт пояс, в котором считается текущая дата
func (uc *UseCase) WithLocation(loc *time.Location) *UseCase {
	if loc != nil {
		uc.location = loc
	}
	return uc
}

// Execute строит статус каждой даты окна для продукта
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: product=%d, days=%d", req.ProductID, req.Days)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	from := domain.DateOnly(now.In(uc.location))
	if req.From != nil {
		from = domain.CivilDate(*req.From, uc.location)
	}
	days := req.Days
	if days == 0 {
		days = uc.windowDays
	}
	to := from.AddDate(0, 0, days-1)

	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("GetCalendar: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("GetCalendar: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	sessions, err := uc.sessionRepo.List(ctx, domain.SessionFilter{
		GuideID:   product.GuideID,
		ProductID: &product.ID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		uc.logger.Error("GetCalendar: failed to list sessions for product id=%d: %v", product.ID, err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	byDate := groupByDate(sessions)

	resp := &Response{
		ProductID: product.ID,
		From:      from,
		Days:      make([]Day, 0, days),
	}
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d)
		resp.Days = append(resp.Days, aggregateDay(date, byDate[date.Format(domain.DateFormat)], product.ID, now))
	}

	uc.logger.Info("GetCalendar: product=%d, %d sessions over %d days", product.ID, len(sessions), days)
	return resp, nil
}
