package duplicate_session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// 2026-06-01 - понедельник
var monday = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func date(offset int) time.Time {
	return monday.AddDate(0, 0, offset)
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestGenerateDates_WeekendOverTwoWeeks(t *testing.T) {
	dates, err := GenerateDates(ModeWeekend, ptrTime(monday), ptrTime(date(13)), nil, monday)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{date(5), date(6), date(12), date(13)}, dates)
}

func TestGenerateDates_DailyExcludesTemplate(t *testing.T) {
	dates, err := GenerateDates(ModeDaily, ptrTime(monday), ptrTime(date(3)), nil, date(1))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{date(0), date(2), date(3)}, dates)
}

func TestGenerateDates_CustomDedupAndSort(t *testing.T) {
	custom := []time.Time{
		date(9).Add(15 * time.Hour),
		date(2),
		date(9),
		monday,
	}

	dates, err := GenerateDates(ModeCustom, nil, nil, custom, monday)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{date(2), date(9)}, dates)
}

func TestGenerateDates_Empty(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		start  *time.Time
		end    *time.Time
		custom []time.Time
	}{
		{"inverted range", ModeDaily, ptrTime(date(5)), ptrTime(date(1)), nil},
		{"missing range", ModeWeekend, nil, ptrTime(date(5)), nil},
		{"weekdays only", ModeWeekend, ptrTime(date(1)), ptrTime(date(4)), nil},
		{"only template date", ModeDaily, ptrTime(monday), ptrTime(monday), nil},
		{"empty custom", ModeCustom, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateDates(tt.mode, tt.start, tt.end, tt.custom, monday)
			assert.True(t, errors.Is(err, domain.ErrEmptyDateSet))
		})
	}
}

func TestGenerateDates_RangeTooLong(t *testing.T) {
	_, err := GenerateDates(ModeDaily, ptrTime(monday), ptrTime(monday.AddDate(2, 0, 0)), nil, monday)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
