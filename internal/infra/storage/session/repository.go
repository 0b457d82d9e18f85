package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/guide-sessions/internal/domain"
	bookingRepo "github.com/m04kA/guide-sessions/internal/infra/storage/booking"
	productRepo "github.com/m04kA/guide-sessions/internal/infra/storage/product"
	"github.com/m04kA/guide-sessions/pkg/dbmetrics"
	"github.com/m04kA/guide-sessions/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"guide_id",
	"session_date",
	"time_slot",
	"start_time",
	"is_magic_rotation",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий сессий.
// Сессия загружается целиком: прикреплённые продукты и все бронирования (включая отменённые).
// session_date хранится как DATE и читается как полночь в поясе loc
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория сессий. nil loc означает UTC
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Create создает сессию вместе со списком прикреплённых продуктов
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"guide_id",
			"session_date",
			"time_slot",
			"start_time",
			"is_magic_rotation",
			"status",
		).
		Values(
			s.GuideID,
			s.Date.Format(domain.DateFormat),
			s.TimeSlot,
			s.StartTime,
			s.IsMagicRotation,
			s.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	if len(s.Products) == 0 {
		return s, nil
	}

	insert := psqlbuilder.Insert("session_products").
		Columns("session_id", "product_id", "position", "price_override", "status_override")
	for i, sp := range s.Products {
		insert = insert.Values(s.ID, sp.ProductID, i, sp.PriceOverride, sp.StatusOverride)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build products insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert products: %w", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает сессию с продуктами и бронированиями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	sessions, err := r.list(ctx, psqlbuilder.Select(columns...).
		From("sessions").
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	if len(sessions) == 0 {
		return nil, ErrSessionNotFound
	}

	return sessions[0], nil
}

// List возвращает сессии гида по фильтру, упорядоченные по дате, времени начала и ID
func (r *Repository) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From("sessions").
		Where(squirrel.Eq{"guide_id": filter.GuideID}).
		OrderBy("session_date", "start_time", "id")

	if filter.ProductID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM session_products sp WHERE sp.session_id = sessions.id AND sp.product_id = ?)",
			*filter.ProductID,
		))
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"session_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"session_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	sessions, err := r.list(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	return sessions, nil
}

// LockForUpdate блокирует строки сессий в порядке возрастания ID.
// Стабильный порядок блокировок исключает взаимоблокировки при переносах между сессиями
func (r *Repository) LockForUpdate(ctx context.Context, ids []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("sessions").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockForUpdate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LockForUpdate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	locked := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: LockForUpdate - scan id: %w", ErrScanRow, err)
		}
		locked[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: LockForUpdate - rows error: %w", ErrScanRow, err)
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return fmt.Errorf("%w: id=%d", ErrSessionNotFound, id)
		}
	}

	return nil
}

// Delete удаляет сессию. Бронирования и привязки продуктов удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// list выполняет выборку сессий и догружает продукты и бронирования двумя пакетными запросами
func (r *Repository) list(ctx context.Context, selectBuilder squirrel.SelectBuilder) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	byID := make(map[int64]*domain.Session)
	for rows.Next() {
		var s domain.Session
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(
			&s.ID,
			&s.GuideID,
			&s.Date,
			&s.TimeSlot,
			&s.StartTime,
			&s.IsMagicRotation,
			&s.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan session: %w", ErrScanRow, err)
		}
		s.Date = domain.CivilDate(s.Date, r.loc)
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		sessions = append(sessions, &s)
		byID[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]int64, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	if err := r.loadProducts(ctx, executor, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadBookings(ctx, executor, ids, byID); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *Repository) loadProducts(ctx context.Context, executor DBExecutor, ids []int64, byID map[int64]*domain.Session) error {
	cols := []string{"sp.session_id", "sp.position", "sp.price_override", "sp.status_override"}
	for _, c := range productRepo.Columns {
		cols = append(cols, "p."+c)
	}

	query, args, err := psqlbuilder.Select(cols...).
		From("session_products sp").
		Join("products p ON p.id = sp.product_id").
		Where(squirrel.Eq{"sp.session_id": ids}).
		OrderBy("sp.session_id", "sp.position").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build products query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: execute products query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID int64
		var sp domain.SessionProduct
		var row productRepo.Row

		dest := append([]interface{}{&sessionID, &sp.Position, &sp.PriceOverride, &sp.StatusOverride}, row.Dest()...)
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("%w: scan session product: %w", ErrScanRow, err)
		}

		sp.Product = row.Product()
		sp.ProductID = sp.Product.ID
		if s, ok := byID[sessionID]; ok {
			s.Products = append(s.Products, sp)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: products rows error: %w", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) loadBookings(ctx context.Context, executor DBExecutor, ids []int64, byID map[int64]*domain.Session) error {
	query, args, err := psqlbuilder.Select(bookingRepo.Columns...).
		From("bookings").
		Where(squirrel.Eq{"session_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build bookings query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: execute bookings query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := bookingRepo.ScanRow(rows)
		if err != nil {
			return fmt.Errorf("%w: scan booking: %w", ErrScanRow, err)
		}
		if s, ok := byID[b.SessionID]; ok {
			s.Bookings = append(s.Bookings, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: bookings rows error: %w", ErrScanRow, err)
	}

	return nil
}
