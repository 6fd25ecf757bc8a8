package create_booking

import (
	"fmt"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}

	if !domain.IsKnownLessonType(req.LessonType) {
		return fmt.Errorf("%w: unknown lesson type %q", ErrInvalidInput, req.LessonType)
	}

	// Нулевая длительность допустима - подставится из конфигурации
	if req.DurationMinutes != 0 {
		if req.DurationMinutes < domain.MinLessonDurationMinutes || req.DurationMinutes > domain.MaxLessonDurationMinutes {
			return fmt.Errorf("%w: duration must be in [%d, %d] minutes",
				ErrInvalidInput, domain.MinLessonDurationMinutes, domain.MaxLessonDurationMinutes)
		}
	}

	if len(req.Location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
