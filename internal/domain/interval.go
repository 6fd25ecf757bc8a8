package domain

import "github.com/avmakarov/DrivingSchool-BookingService/pkg/types"

// IntervalSource identifies where a busy interval came from
type IntervalSource string

const (
	SourceBooking    IntervalSource = "booking"
	SourceAdminEvent IntervalSource = "admin-event"
)

// BusyInterval represents time already occupied on the calendar -
// a confirmed lesson booking or an externally blocked admin event.
// Immutable once created.
type BusyInterval struct {
	Start  types.TimeString
	End    types.TimeString
	Source IntervalSource
	Label  string
}

// BusyIntervalFromBooking converts an active booking into a busy interval
func BusyIntervalFromBooking(b *Booking) (BusyInterval, error) {
	end, err := b.EndTime()
	if err != nil {
		return BusyInterval{}, err
	}
	return BusyInterval{
		Start:  b.StartTime,
		End:    end,
		Source: SourceBooking,
		Label:  "Забронированный урок",
	}, nil
}
