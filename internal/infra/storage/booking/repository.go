package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/dbmetrics"
	"github.com/m04kA/guide-sessions/pkg/psqlbuilder"
)

// Columns колонки таблицы bookings в порядке ScanRow
var Columns = []string{
	"id",
	"session_id",
	"product_id",
	"number_of_people",
	"status",
	"total_price",
	"discount_amount",
	"amount_paid",
	"voucher_id",
	"shoe_rental_count",
	"client_name",
	"client_email",
	"client_phone",
	"notes",
	"payment_reference",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри транзакции после повторной проверки вместимости
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"session_id",
			"product_id",
			"number_of_people",
			"status",
			"total_price",
			"discount_amount",
			"amount_paid",
			"voucher_id",
			"shoe_rental_count",
			"client_name",
			"client_email",
			"client_phone",
			"notes",
			"payment_reference",
		).
		Values(
			booking.SessionID,
			booking.ProductID,
			booking.NumberOfPeople,
			booking.Status,
			booking.TotalPrice,
			booking.DiscountAmount,
			booking.AmountPaid,
			booking.VoucherID,
			booking.ShoeRentalCount,
			booking.Client.Name,
			booking.Client.Email,
			booking.Client.Phone,
			booking.Notes,
			booking.PaymentReference,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// В транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(Columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := ScanRow(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListBySession возвращает все бронирования сессии, включая отменённые, в порядке ID
func (r *Repository) ListBySession(ctx context.Context, sessionID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(Columns...).
		From("bookings").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListDueReminders возвращает активные бронирования без отправленного напоминания
// на сессиях с датой в диапазоне [from, to]. Даты берутся в поясе переданных значений
func (r *Repository) ListDueReminders(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	prefixed := make([]string, 0, len(Columns))
	for _, c := range Columns {
		prefixed = append(prefixed, "b."+c)
	}

	query, args, err := psqlbuilder.Select(prefixed...).
		From("bookings b").
		Join("sessions s ON s.id = b.session_id").
		Where(squirrel.NotEq{"b.status": domain.StatusCancelled}).
		Where(squirrel.Eq{"b.reminder_sent_at": nil}).
		Where(squirrel.GtOrEq{"s.session_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"s.session_date": to.Format(domain.DateFormat)}).
		OrderBy("b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// MoveToSession переносит бронирование в другую сессию одним UPDATE.
// Цены и оплата не меняются
func (r *Repository) MoveToSession(ctx context.Context, id int64, sessionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("session_id", sessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MoveToSession - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MoveToSession", query, args)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// CancelBySession отменяет все активные бронирования сессии и возвращает их количество
func (r *Repository) CancelBySession(ctx context.Context, sessionID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"session_id": sessionID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBySession - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBySession - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBySession - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// MarkReminderSent фиксирует момент отправки напоминания
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("reminder_sent_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkReminderSent", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// RowScanner *sql.Row или *sql.Rows
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanRow сканирует строку, выбранную по Columns
func ScanRow(row RowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.SessionID,
		&booking.ProductID,
		&booking.NumberOfPeople,
		&booking.Status,
		&booking.TotalPrice,
		&booking.DiscountAmount,
		&booking.AmountPaid,
		&booking.VoucherID,
		&booking.ShoeRentalCount,
		&booking.Client.Name,
		&booking.Client.Email,
		&booking.Client.Phone,
		&booking.Notes,
		&booking.PaymentReference,
		&booking.ReminderSentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := ScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
