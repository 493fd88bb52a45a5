package services

import (
	"fmt"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/validation"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	settings       Settings
	punchValidator *validation.PunchValidator
}

// NewTimeService creates a new TimeService instance
func NewTimeService(settings Settings) TimeService {
	return &timeServiceImpl{
		settings:       settings.withDefaults(),
		punchValidator: validation.NewPunchValidator(),
	}
}

// Now returns the current time in the configured zone
func (t *timeServiceImpl) Now() time.Time {
	return t.settings.Now().In(t.settings.Location)
}

// Location returns the configured zone
func (t *timeServiceImpl) Location() *time.Location {
	return t.settings.Location
}

// Today returns midnight of the current day
func (t *timeServiceImpl) Today() time.Time {
	return t.StartOfDay(t.Now())
}

// IsToday checks if a given time falls on the current day
func (t *timeServiceImpl) IsToday(timeValue time.Time) bool {
	return domain.DayKey(timeValue.In(t.settings.Location)) == domain.DayKey(t.Now())
}

// StartOfDay returns midnight of the day containing timeValue
func (t *timeServiceImpl) StartOfDay(timeValue time.Time) time.Time {
	timeValue = timeValue.In(t.settings.Location)
	y, m, d := timeValue.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.settings.Location)
}

// ParseDay accepts the same date spellings the punch log does, such as
// 2024-01-05, 2024/1/5 and 2024.01.05.
func (t *timeServiceImpl) ParseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-1-2", domain.NormalizeDate(s), t.settings.Location)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("date", s, "expected YYYY-MM-DD")
	}
	return day, nil
}

// ResolveRange turns a history query into a day range ending no later than
// today. Without explicit bounds the configured look-back applies.
func (t *timeServiceImpl) ResolveRange(q HistoryQuery) (DateRange, error) {
	today := t.Today()

	if q.From != nil || q.To != nil {
		from, to := today, today
		if q.From != nil {
			from = t.StartOfDay(*q.From)
		}
		if q.To != nil {
			to = t.StartOfDay(*q.To)
		}
		if err := t.punchValidator.ValidateHistoryRange(from, to); err != nil {
			return DateRange{}, errors.NewValidationError("invalid history range", err)
		}
		return DateRange{From: from, To: to}, nil
	}

	days := q.Days
	if days == 0 {
		days = t.settings.HistoryDays
	}
	if err := t.punchValidator.ValidateDays(days); err != nil {
		return DateRange{}, errors.NewValidationError("invalid history window", err)
	}
	return DateRange{From: today.AddDate(0, 0, -(days - 1)), To: today}, nil
}

// BuildOptions returns interval options for the configured window at now
func (t *timeServiceImpl) BuildOptions(mode domain.OpenSessionMode) domain.BuildOptions {
	return domain.BuildOptions{
		Window:          t.settings.Window,
		Mode:            mode,
		Now:             t.Now(),
		DefaultPosition: t.settings.DefaultPosition,
	}
}

// FormatDuration formats a duration into human-readable string
func (t *timeServiceImpl) FormatDuration(duration time.Duration) string {
	if duration < 0 {
		return "0m"
	}
	return domain.FormatMinutes(int(duration / time.Minute))
}

func formatDayRange(r DateRange) string {
	return fmt.Sprintf("%s..%s", domain.DayKey(r.From), domain.DayKey(r.To))
}
