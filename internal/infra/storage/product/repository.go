package product

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

// Columns колонки таблицы products в порядке Row.Dest
var Columns = []string{
	"id",
	"guide_id",
	"name",
	"max_capacity",
	"duration_minutes",
	"price_individual",
	"price_group_min",
	"price_group_price",
	"shoe_rental_price",
	"color",
}

// Row промежуточная структура сканирования продукта с nullable-колонками группового тарифа
type Row struct {
	product    domain.Product
	groupMin   sql.NullInt64
	groupPrice sql.NullFloat64
}

// Dest возвращает указатели для Scan в порядке Columns
func (r *Row) Dest() []interface{} {
	return []interface{}{
		&r.product.ID,
		&r.product.GuideID,
		&r.product.Name,
		&r.product.MaxCapacity,
		&r.product.DurationMinutes,
		&r.product.PriceIndividual,
		&r.groupMin,
		&r.groupPrice,
		&r.product.ShoeRentalPrice,
		&r.product.Color,
	}
}

// Product собирает доменный продукт после Scan
func (r *Row) Product() *domain.Product {
	p := r.product
	if r.groupMin.Valid && r.groupPrice.Valid {
		p.PriceGroup = &domain.PriceGroup{Min: int(r.groupMin.Int64), Price: r.groupPrice.Float64}
	}
	return &p
}

// Repository репозиторий продуктов гида
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория продуктов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает продукт по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(Columns...).
		From("products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var row Row
	err = executor.QueryRowContext(ctx, query, args...).Scan(row.Dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan product: %w", ErrScanRow, err)
	}

	return row.Product(), nil
}
