// Package memstore реализует репозитории и менеджер транзакций в памяти для тестов usecase.
// Транзакция сериализуется мьютексом и откатывает состояние при ошибке.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	bookingRepo "github.com/m04kA/guide-sessions/internal/infra/storage/booking"
	guideRepo "github.com/m04kA/guide-sessions/internal/infra/storage/guide"
	productRepo "github.com/m04kA/guide-sessions/internal/infra/storage/product"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	voucherRepo "github.com/m04kA/guide-sessions/internal/infra/storage/voucher"
)

type sessionRow struct {
	session  domain.Session // без бронирований
	products []domain.SessionProduct
}

type state struct {
	guides   map[int64]domain.Guide
	products map[int64]domain.Product
	sessions map[int64]sessionRow
	bookings map[int64]domain.Booking
	vouchers map[int64]domain.Voucher
	nextID   int64
}

// Store общее состояние всех репозиториев
type Store struct {
	txMu sync.Mutex // сериализует транзакции
	mu   sync.Mutex // защищает state
	st   state

	// Хуки для внедрения ошибок
	FailMoveBookingID int64
	FailSessionCreate error
	FailBookingCreate error

	Commits   int
	Rollbacks int
}

// New создает пустое хранилище
func New() *Store {
	return &Store{st: state{
		guides:   map[int64]domain.Guide{},
		products: map[int64]domain.Product{},
		sessions: map[int64]sessionRow{},
		bookings: map[int64]domain.Booking{},
		vouchers: map[int64]domain.Voucher{},
		nextID:   1000,
	}}
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// AddGuide добавляет гида
func (s *Store) AddGuide(g domain.Guide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.guides[g.ID] = g
}

// AddProduct добавляет продукт
func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// AddSession добавляет сессию с прикреплёнными продуктами и бронированиями
func (s *Store) AddSession(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := sess.Bookings
	sess.Bookings = nil
	products := make([]domain.SessionProduct, len(sess.Products))
	copy(products, sess.Products)
	for i := range products {
		products[i].Product = nil
	}
	sess.Products = nil
	s.st.sessions[sess.ID] = sessionRow{session: sess, products: products}
	for _, b := range bookings {
		cp := *b
		cp.SessionID = sess.ID
		s.st.bookings[cp.ID] = cp
	}
}

// AddBooking добавляет бронирование
func (s *Store) AddBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.bookings[b.ID] = b
}

// AddVoucher добавляет промокод
func (s *Store) AddVoucher(v domain.Voucher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.vouchers[v.ID] = v
}

// Booking возвращает копию бронирования
func (s *Store) Booking(id int64) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

// Voucher возвращает копию промокода
func (s *Store) Voucher(id int64) (domain.Voucher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.st.vouchers[id]
	return v, ok
}

// HasSession возвращает true, если сессия существует
func (s *Store) HasSession(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.st.sessions[id]
	return ok
}

// SessionCount количество сессий
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.sessions)
}

// BookingsOf возвращает копии бронирований сессии в порядке ID
func (s *Store) BookingsOf(sessionID int64) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Booking, 0)
	for _, b := range s.st.bookings {
		if b.SessionID == sessionID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// assemble собирает сессию целиком. Вызывать под s.mu
func (s *Store) assemble(row sessionRow) *domain.Session {
	sess := row.session
	sess.Products = make([]domain.SessionProduct, 0, len(row.products))
	for _, sp := range row.products {
		if p, ok := s.st.products[sp.ProductID]; ok {
			cp := p
			sp.Product = &cp
		}
		sess.Products = append(sess.Products, sp)
	}
	sess.Bookings = make([]*domain.Booking, 0)
	for _, b := range s.st.bookings {
		if b.SessionID == sess.ID {
			cp := b
			sess.Bookings = append(sess.Bookings, &cp)
		}
	}
	sort.Slice(sess.Bookings, func(i, j int) bool { return sess.Bookings[i].ID < sess.Bookings[j].ID })
	return &sess
}

func (s *Store) snapshot() state {
	cp := state{
		guides:   make(map[int64]domain.Guide, len(s.st.guides)),
		products: make(map[int64]domain.Product, len(s.st.products)),
		sessions: make(map[int64]sessionRow, len(s.st.sessions)),
		bookings: make(map[int64]domain.Booking, len(s.st.bookings)),
		vouchers: make(map[int64]domain.Voucher, len(s.st.vouchers)),
		nextID:   s.st.nextID,
	}
	for k, v := range s.st.guides {
		cp.guides[k] = v
	}
	for k, v := range s.st.products {
		cp.products[k] = v
	}
	for k, v := range s.st.sessions {
		products := make([]domain.SessionProduct, len(v.products))
		copy(products, v.products)
		cp.sessions[k] = sessionRow{session: v.session, products: products}
	}
	for k, v := range s.st.bookings {
		cp.bookings[k] = v
	}
	for k, v := range s.st.vouchers {
		cp.vouchers[k] = v
	}
	return cp
}

// TxManager менеджер транзакций в памяти
type TxManager struct {
	s *Store
}

// Tx возвращает менеджер транзакций
func (s *Store) Tx() *TxManager {
	return &TxManager{s: s}
}

type txKey struct{}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	saved := m.s.snapshot()
	m.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.mu.Lock()
		m.s.st = saved
		m.s.Rollbacks++
		m.s.mu.Unlock()
		return err
	}

	m.s.mu.Lock()
	m.s.Commits++
	m.s.mu.Unlock()
	return nil
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// Sessions репозиторий сессий
type Sessions struct{ s *Store }

// Sessions возвращает репозиторий сессий
func (s *Store) Sessions() *Sessions { return &Sessions{s: s} }

// Create создает сессию
func (r *Sessions) Create(_ context.Context, sess *domain.Session) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailSessionCreate != nil {
		return nil, r.s.FailSessionCreate
	}
	sess.ID = r.s.id()
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt
	row := sessionRow{session: *sess, products: make([]domain.SessionProduct, len(sess.Products))}
	row.session.Products = nil
	row.session.Bookings = nil
	copy(row.products, sess.Products)
	for i := range row.products {
		row.products[i].Product = nil
		row.products[i].Position = i
	}
	r.s.st.sessions[sess.ID] = row
	return sess, nil
}

// GetByID получает сессию
func (r *Sessions) GetByID(_ context.Context, id int64) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.st.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return r.s.assemble(row), nil
}

// List возвращает сессии по фильтру
func (r *Sessions) List(_ context.Context, f domain.SessionFilter) ([]*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Session, 0)
	for _, row := range r.s.st.sessions {
		sess := row.session
		if sess.GuideID != f.GuideID {
			continue
		}
		if f.ExcludeID != nil && sess.ID == *f.ExcludeID {
			continue
		}
		// сравнение как у DATE в postgres: по календарной дате без пояса
		day := sess.Date.Format(domain.DateFormat)
		if f.StartDate != nil && day < f.StartDate.Format(domain.DateFormat) {
			continue
		}
		if f.EndDate != nil && day > f.EndDate.Format(domain.DateFormat) {
			continue
		}
		if f.ProductID != nil {
			found := false
			for _, sp := range row.products {
				if sp.ProductID == *f.ProductID {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, r.s.assemble(row))
	}
	domain.SortSessions(result)
	return result, nil
}

// LockForUpdate проверяет существование сессий
func (r *Sessions) LockForUpdate(_ context.Context, ids []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.s.st.sessions[id]; !ok {
			return sessionRepo.ErrSessionNotFound
		}
	}
	return nil
}

// Delete удаляет сессию с каскадным удалением бронирований
func (r *Sessions) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.sessions[id]; !ok {
		return sessionRepo.ErrSessionNotFound
	}
	delete(r.s.st.sessions, id)
	for bid, b := range r.s.st.bookings {
		if b.SessionID == id {
			delete(r.s.st.bookings, bid)
		}
	}
	return nil
}

// Bookings репозиторий бронирований
type Bookings struct{ s *Store }

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *Bookings { return &Bookings{s: s} }

// Create создает бронирование
func (r *Bookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailBookingCreate != nil {
		return nil, r.s.FailBookingCreate
	}
	b.ID = r.s.id()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.s.st.bookings[b.ID] = *b
	return b, nil
}

// GetByID получает бронирование
func (r *Bookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

// ListBySession возвращает бронирования сессии
func (r *Bookings) ListBySession(_ context.Context, sessionID int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.s.BookingsOf(sessionID) {
		cp := b
		result = append(result, &cp)
	}
	return result, nil
}

// ListDueReminders возвращает активные бронирования без напоминания на сессиях в диапазоне дат
func (r *Bookings) ListDueReminders(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range r.s.st.bookings {
		row, ok := r.s.st.sessions[b.SessionID]
		if !ok || !b.IsActive() || b.ReminderSentAt != nil {
			continue
		}
		day := row.session.Date.Format(domain.DateFormat)
		if day < from.Format(domain.DateFormat) || day > to.Format(domain.DateFormat) {
			continue
		}
		cp := b
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MoveToSession переносит бронирование
func (r *Bookings) MoveToSession(_ context.Context, id int64, sessionID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if r.s.FailMoveBookingID == id {
		return bookingRepo.ErrExecQuery
	}
	b.SessionID = sessionID
	r.s.st.bookings[id] = b
	return nil
}

// UpdateStatus обновляет статус
func (r *Bookings) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	r.s.st.bookings[id] = b
	return nil
}

// CancelBySession отменяет активные бронирования сессии
func (r *Bookings) CancelBySession(_ context.Context, sessionID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, b := range r.s.st.bookings {
		if b.SessionID == sessionID && b.IsActive() {
			b.Status = domain.StatusCancelled
			r.s.st.bookings[id] = b
			n++
		}
	}
	return n, nil
}

// MarkReminderSent отмечает отправку напоминания
func (r *Bookings) MarkReminderSent(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.ReminderSentAt = &at
	r.s.st.bookings[id] = b
	return nil
}

// Products репозиторий продуктов
type Products struct{ s *Store }

// Products возвращает репозиторий продуктов
func (s *Store) Products() *Products { return &Products{s: s} }

// GetByID получает продукт
func (r *Products) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, productRepo.ErrProductNotFound
	}
	return &p, nil
}

// Guides репозиторий гидов
type Guides struct{ s *Store }

// Guides возвращает репозиторий гидов
func (s *Store) Guides() *Guides { return &Guides{s: s} }

// GetByID получает гида
func (r *Guides) GetByID(_ context.Context, id int64) (*domain.Guide, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.st.guides[id]
	if !ok {
		return nil, guideRepo.ErrGuideNotFound
	}
	return &g, nil
}

// UpdateSettings обновляет настройки оплаты
func (r *Guides) UpdateSettings(_ context.Context, id int64, settings domain.PaymentSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.st.guides[id]
	if !ok {
		return guideRepo.ErrGuideNotFound
	}
	g.Settings = settings
	r.s.st.guides[id] = g
	return nil
}

// Vouchers репозиторий промокодов
type Vouchers struct{ s *Store }

// Vouchers возвращает репозиторий промокодов
func (s *Store) Vouchers() *Vouchers { return &Vouchers{s: s} }

// GetByCode ищет промокод гида
func (r *Vouchers) GetByCode(_ context.Context, guideID int64, code string) (*domain.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.st.vouchers {
		if v.GuideID == guideID && strings.EqualFold(v.Code, strings.TrimSpace(code)) {
			cp := v
			return &cp, nil
		}
	}
	return nil, voucherRepo.ErrVoucherNotFound
}

// IncrementUsage увеличивает счётчик использований
func (r *Vouchers) IncrementUsage(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.st.vouchers[id]
	if !ok {
		return voucherRepo.ErrVoucherNotFound
	}
	if v.MaxUsages != nil && v.UsageCount >= *v.MaxUsages {
		return voucherRepo.ErrUsageLimitReached
	}
	v.UsageCount++
	r.s.st.vouchers[id] = v
	return nil
}
