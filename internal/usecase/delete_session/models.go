package delete_session

// Disposition способ обработки бронирований удаляемой сессии
type Disposition string

const (
	DispositionNone               Disposition = ""
	DispositionDeleteWithBookings Disposition = "delete_with_bookings"
	DispositionMoveTo             Disposition = "move_to"
)

// IsValid проверяет, что способ известен
func (d Disposition) IsValid() bool {
	return d == DispositionNone || d == DispositionDeleteWithBookings || d == DispositionMoveTo
}

// Request модель запроса удаления сессии
type Request struct {
	GuideID         int64
	SessionID       int64
	Disposition     Disposition
	TargetSessionID *int64 // для move_to
}

// Response модель ответа
type Response struct {
	SessionID         int64
	Disposition       Disposition
	CancelledBookings int
	MovedBookingIDs   []int64
	TargetSessionID   *int64
}
