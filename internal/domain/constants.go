package domain

// Значения по умолчанию
const (
	DefaultCalendarWindowDays = 60
	DefaultCurrency           = "EUR"
)

// Ограничения бизнес-валидации
const (
	MinNumberOfPeople       = 1
	MaxNumberOfPeople       = 100
	MaxCalendarWindowDays   = 366
	MaxDuplicationDates     = 366
	MaxPercentage           = 100
	MaxClientNameLength     = 200
	MaxVoucherCodeLength    = 64
	MaxShoeRentalPerBooking = MaxNumberOfPeople
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
