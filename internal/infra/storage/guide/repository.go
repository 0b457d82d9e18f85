package guide

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/dbmetrics"
	"github.com/m04kA/guide-sessions/pkg/psqlbuilder"
)

// Repository репозиторий гидов и их настроек оплаты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория гидов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает гида вместе с настройками оплаты
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Guide, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"payment_mode",
		"deposit_type",
		"deposit_amount",
		"currency",
	).
		From("guides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var g domain.Guide
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&g.ID,
		&g.Name,
		&g.Settings.PaymentMode,
		&g.Settings.DepositType,
		&g.Settings.DepositAmount,
		&g.Settings.Currency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan guide: %w", ErrScanRow, err)
	}

	return &g, nil
}

// UpdateSettings обновляет настройки оплаты гида
func (r *Repository) UpdateSettings(ctx context.Context, id int64, settings domain.PaymentSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("guides").
		Set("payment_mode", settings.PaymentMode).
		Set("deposit_type", settings.DepositType).
		Set("deposit_amount", settings.DepositAmount).
		Set("currency", settings.Currency).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrGuideNotFound
	}

	return nil
}
