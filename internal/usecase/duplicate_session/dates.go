package duplicate_session

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// GenerateDates строит отсортированный набор дат без повторов и без даты шаблона.
// Пустой набор - domain.ErrEmptyDateSet
func GenerateDates(mode Mode, start, end *time.Time, custom []time.Time, template time.Time) ([]time.Time, error) {
	var candidates []time.Time

	switch mode {
	case ModeDaily, ModeWeekend:
		if start == nil || end == nil {
			return nil, domain.ErrEmptyDateSet
		}
		from, to := domain.DateOnly(*start), domain.DateOnly(*end)
		if from.After(to) {
			return nil, domain.ErrEmptyDateSet
		}
		if span := daysBetween(from, to) + 1; span > domain.MaxDuplicationDates {
			return nil, domain.NewValidationError("endDate", fmt.Sprintf("range must not exceed %d days", domain.MaxDuplicationDates))
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if mode == ModeWeekend && !isWeekend(d) {
				continue
			}
			candidates = append(candidates, d)
		}
	case ModeCustom:
		if len(custom) > domain.MaxDuplicationDates {
			return nil, domain.NewValidationError("dates", fmt.Sprintf("must contain at most %d dates", domain.MaxDuplicationDates))
		}
		for _, d := range custom {
			candidates = append(candidates, domain.DateOnly(d))
		}
	default:
		return nil, domain.NewValidationError("mode", "must be one of daily, weekend, custom")
	}

	seen := make(map[string]struct{}, len(candidates))
	result := make([]time.Time, 0, len(candidates))
	for _, d := range candidates {
		if domain.SameDay(d, template) {
			continue
		}
		key := d.Format(domain.DateFormat)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, d)
	}

	if len(result) == 0 {
		return nil, domain.ErrEmptyDateSet
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
