package domain

// Default configuration values
const (
	DefaultLessonDurationMinutes = 60
	DefaultBufferTimeMinutes     = 30

	DefaultBufferMinMinutes = 15
	DefaultBufferMaxMinutes = 60
)

// Business validation constants
const (
	MinLessonDurationMinutes = 30
	MaxLessonDurationMinutes = 240 // 4 hours

	MinBufferMinutes = 0
	MaxBufferMinutes = 180

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxLocationLength           = 200

	// MinutesPerQuotaHour перевод длительности урока в часы квоты
	MinutesPerQuotaHour = 60.0
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется при выборке занятых интервалов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledBySchool,
	StatusNoShow,
}

// ActiveStatuses список статусов активных бронирований
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// KnownLessonTypes список поддерживаемых типов уроков
var KnownLessonTypes = []LessonType{
	LessonStandard,
	LessonCityDriving,
	LessonHighway,
	LessonTestPreparation,
	LessonExam,
}

// IsKnownLessonType returns true for a recognised lesson type
func IsKnownLessonType(t LessonType) bool {
	for _, known := range KnownLessonTypes {
		if known == t {
			return true
		}
	}
	return false
}
