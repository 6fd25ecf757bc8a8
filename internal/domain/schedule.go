package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

var (
	// ErrInvalidDayConfig возвращается при некорректной конфигурации дня недели
	ErrInvalidDayConfig = errors.New("domain: invalid day config")

	// ErrInvalidScheduleConfig возвращается при некорректной конфигурации расписания
	ErrInvalidScheduleConfig = errors.New("domain: invalid schedule config")
)

// DayConfig describes working hours for a single weekday
type DayConfig struct {
	Enabled   bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Validate checks the open < close invariant for enabled days
func (d DayConfig) Validate() error {
	if !d.Enabled {
		return nil
	}
	if err := d.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidDayConfig, err)
	}
	if err := d.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidDayConfig, err)
	}
	if !d.OpenTime.IsBefore(d.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s",
			ErrInvalidDayConfig, d.OpenTime, d.CloseTime)
	}
	return nil
}

// ScheduleConfig describes the school's bookable hours.
// Days are keyed by time.Weekday explicitly - a weekday absent from the
// map behaves as a disabled day.
type ScheduleConfig struct {
	Days                  map[time.Weekday]DayConfig
	LessonDurationMinutes int
	BufferTimeMinutes     int

	// VacationDays keyed by date in YYYY-MM-DD format
	VacationDays map[string]struct{}
}

// DefaultScheduleConfig returns the fallback configuration used when
// no schedule has been persisted yet
func DefaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		Days:                  map[time.Weekday]DayConfig{},
		LessonDurationMinutes: DefaultLessonDurationMinutes,
		BufferTimeMinutes:     DefaultBufferTimeMinutes,
		VacationDays:          map[string]struct{}{},
	}
}

// DayFor returns the configuration for the weekday of the given date
func (c *ScheduleConfig) DayFor(date time.Time) DayConfig {
	day, ok := c.Days[date.Weekday()]
	if !ok {
		return DayConfig{Enabled: false}
	}
	return day
}

// IsVacation returns true if the date is a configured vacation day
func (c *ScheduleConfig) IsVacation(date time.Time) bool {
	_, ok := c.VacationDays[date.Format(DateFormat)]
	return ok
}

// Validate checks all invariants of the schedule configuration
func (c *ScheduleConfig) Validate() error {
	if c.LessonDurationMinutes < MinLessonDurationMinutes || c.LessonDurationMinutes > MaxLessonDurationMinutes {
		return fmt.Errorf("%w: lesson duration must be in [%d, %d] minutes",
			ErrInvalidScheduleConfig, MinLessonDurationMinutes, MaxLessonDurationMinutes)
	}
	if c.BufferTimeMinutes < MinBufferMinutes || c.BufferTimeMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer time must be in [%d, %d] minutes",
			ErrInvalidScheduleConfig, MinBufferMinutes, MaxBufferMinutes)
	}
	for weekday, day := range c.Days {
		if err := day.Validate(); err != nil {
			return fmt.Errorf("%v: %w", weekday, err)
		}
	}
	for day := range c.VacationDays {
		if _, err := time.Parse(DateFormat, day); err != nil {
			return fmt.Errorf("%w: vacation day %q is not a valid date", ErrInvalidScheduleConfig, day)
		}
	}
	return nil
}
