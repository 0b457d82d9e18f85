package voucher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/dbmetrics"
	"github.com/m04kA/guide-sessions/pkg/psqlbuilder"
)

// Repository репозиторий промокодов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория промокодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode ищет промокод гида без учёта регистра.
// В транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByCode(ctx context.Context, guideID int64, code string) (*domain.Voucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := getByCodeQuery(guideID, code, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %w", ErrBuildQuery, err)
	}

	var v domain.Voucher
	var maxUsages sql.NullInt64
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&v.GuideID,
		&v.Code,
		&v.Amount,
		&v.DiscountType,
		&v.MinOrderAmount,
		&maxUsages,
		&v.UsageCount,
		&v.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan voucher: %w", ErrScanRow, err)
	}

	if maxUsages.Valid {
		limit := int(maxUsages.Int64)
		v.MaxUsages = &limit
	}

	return &v, nil
}

// IncrementUsage увеличивает счётчик использований, не позволяя превысить max_usages
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("vouchers").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"max_usages": nil},
			squirrel.Expr("usage_count < max_usages"),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrUsageLimitReached
	}

	return nil
}

// getByCodeQuery сравнивает коды в верхнем регистре с обеих сторон.
// Запросу соответствует индекс uq_vouchers_guide_code
func getByCodeQuery(guideID int64, code string, forUpdate bool) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(
		"id",
		"guide_id",
		"code",
		"amount",
		"discount_type",
		"min_order_amount",
		"max_usages",
		"usage_count",
		"expires_at",
	).
		From("vouchers").
		Where(squirrel.Eq{"guide_id": guideID}).
		Where(squirrel.Expr("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))))

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}
	return selectBuilder
}
