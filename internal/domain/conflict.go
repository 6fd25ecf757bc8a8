package domain

import (
	"fmt"

	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// ConflictKind classifies a conflict finding
type ConflictKind string

const (
	ConflictOverlap            ConflictKind = "overlap"
	ConflictInsufficientBuffer ConflictKind = "insufficient_buffer"
	ConflictBackToBack         ConflictKind = "back_to_back"
)

// ConflictSeverity ranks conflict findings
type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "high"
	SeverityMedium ConflictSeverity = "medium"
	SeverityLow    ConflictSeverity = "low"
)

// Interval is a proposed [Start, End) time range within one day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewInterval builds an interval from a start time and duration
func NewInterval(start types.TimeString, durationMinutes int) (Interval, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// ConflictFinding is a single diagnostic produced by CheckConflicts.
// Zero findings means the proposed interval is bookable.
type ConflictFinding struct {
	Kind     ConflictKind
	Severity ConflictSeverity

	// With is the label of the conflicting busy interval
	With string

	Message    string
	Suggestion string
}

// IsBlocking returns true for findings that must reject a booking attempt.
// Back-to-back is a soft warning only.
func (f ConflictFinding) IsBlocking() bool {
	return f.Kind == ConflictOverlap || f.Kind == ConflictInsufficientBuffer
}

// CheckConflicts evaluates a proposed interval against every busy interval
// independently and returns all findings in busy-interval order.
//
// Per pair:
//   - raw [start, end) intersection  -> overlap (high), buffer checks for
//     that pair are skipped;
//   - 0 < gap < bufferMinutes        -> insufficient_buffer (medium);
//   - gap == 0                       -> back_to_back (low, informational).
//
// Boundary cases: a lesson ending exactly where another starts is NOT an
// overlap (strict inequalities), it is back-to-back.
func CheckConflicts(proposed Interval, existing []BusyInterval, bufferMinutes int) []ConflictFinding {
	findings := make([]ConflictFinding, 0)

	for _, busy := range existing {
		// Пересечение по строгим неравенствам: границы, совпадающие
		// точно, пересечением не считаются
		if busy.Start.IsBefore(proposed.End) && busy.End.IsAfter(proposed.Start) {
			findings = append(findings, ConflictFinding{
				Kind:     ConflictOverlap,
				Severity: SeverityHigh,
				With:     labelOrDefault(busy),
				Message: fmt.Sprintf("время %s–%s пересекается с «%s» (%s–%s)",
					proposed.Start, proposed.End, labelOrDefault(busy), busy.Start, busy.End),
				Suggestion: "выберите другое время",
			})
			// Для пары с пересечением проверки буфера не выполняются
			continue
		}

		gap, after, err := gapMinutes(proposed, busy)
		if err != nil {
			// Некорректный интервал - пропускаем пару
			continue
		}

		switch {
		case gap == 0:
			findings = append(findings, ConflictFinding{
				Kind:     ConflictBackToBack,
				Severity: SeverityLow,
				With:     labelOrDefault(busy),
				Message: fmt.Sprintf("урок примыкает вплотную к «%s» (%s–%s)",
					labelOrDefault(busy), busy.Start, busy.End),
			})

		case gap > 0 && gap < bufferMinutes:
			shortfall := bufferMinutes - gap
			direction := "позже"
			if after {
				// Занятый интервал идёт после предложенного -
				// двигаться нужно в обратную сторону
				direction = "раньше"
			}
			findings = append(findings, ConflictFinding{
				Kind:     ConflictInsufficientBuffer,
				Severity: SeverityMedium,
				With:     labelOrDefault(busy),
				Message: fmt.Sprintf("интервал до «%s» составляет %d мин при требуемом буфере %d мин",
					labelOrDefault(busy), gap, bufferMinutes),
				Suggestion: fmt.Sprintf("сдвиньте начало на %d мин %s", shortfall, direction),
			})
		}
	}

	return findings
}

// HasBlocking returns true if any finding must reject the proposal
func HasBlocking(findings []ConflictFinding) bool {
	for _, f := range findings {
		if f.IsBlocking() {
			return true
		}
	}
	return false
}

// FirstBlocking returns the highest-severity blocking finding, overlaps first
func FirstBlocking(findings []ConflictFinding) *ConflictFinding {
	for _, f := range findings {
		if f.Kind == ConflictOverlap {
			return &f
		}
	}
	for _, f := range findings {
		if f.Kind == ConflictInsufficientBuffer {
			return &f
		}
	}
	return nil
}

// gapMinutes returns the gap between two non-overlapping intervals and
// whether the busy interval lies after the proposed one
func gapMinutes(proposed Interval, busy BusyInterval) (int, bool, error) {
	if !busy.Start.IsBefore(proposed.End) {
		// Занятый интервал после предложенного
		gap, err := busy.Start.Sub(proposed.End)
		return gap, true, err
	}
	// Занятый интервал до предложенного
	gap, err := proposed.Start.Sub(busy.End)
	return gap, false, err
}

func labelOrDefault(busy BusyInterval) string {
	if busy.Label != "" {
		return busy.Label
	}
	return UnavailableReasonDefault
}
