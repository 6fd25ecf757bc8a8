package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

func interval(t *testing.T, start string, durationMinutes int) Interval {
	t.Helper()
	iv, err := NewInterval(types.TimeString(start), durationMinutes)
	require.NoError(t, err)
	return iv
}

func busy(start, end, label string) BusyInterval {
	return BusyInterval{
		Start:  types.TimeString(start),
		End:    types.TimeString(end),
		Source: SourceBooking,
		Label:  label,
	}
}

func TestCheckConflicts_NoBusyIntervals(t *testing.T) {
	findings := CheckConflicts(interval(t, "10:00", 60), nil, 30)
	assert.Empty(t, findings)
}

func TestCheckConflicts_Overlap(t *testing.T) {
	// Предложенный урок целиком внутри занятого интервала
	existing := []BusyInterval{busy("13:30", "15:30", "Занятие с инструктором")}

	findings := CheckConflicts(interval(t, "14:00", 60), existing, 30)

	require.Len(t, findings, 1)
	assert.Equal(t, ConflictOverlap, findings[0].Kind)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Занятие с инструктором", findings[0].With)
	assert.True(t, findings[0].IsBlocking())
}

func TestCheckConflicts_PartialOverlap(t *testing.T) {
	existing := []BusyInterval{busy("10:00", "11:00", "Урок")}

	// Начало до занятого, конец внутри
	findings := CheckConflicts(interval(t, "09:30", 60), existing, 0)
	require.Len(t, findings, 1)
	assert.Equal(t, ConflictOverlap, findings[0].Kind)

	// Начало внутри занятого, конец после
	findings = CheckConflicts(interval(t, "10:30", 60), existing, 0)
	require.Len(t, findings, 1)
	assert.Equal(t, ConflictOverlap, findings[0].Kind)
}

func TestCheckConflicts_ExactTouchIsBackToBack(t *testing.T) {
	// Границы совпадают точно: это не пересечение, а примыкание
	existing := []BusyInterval{busy("11:00", "12:00", "Урок")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 0)

	require.Len(t, findings, 1)
	assert.Equal(t, ConflictBackToBack, findings[0].Kind)
	assert.Equal(t, SeverityLow, findings[0].Severity)
	assert.False(t, findings[0].IsBlocking())
}

func TestCheckConflicts_BackToBackBothSides(t *testing.T) {
	existing := []BusyInterval{
		busy("09:00", "10:00", "Урок до"),
		busy("11:00", "12:00", "Урок после"),
	}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 0)

	require.Len(t, findings, 2)
	assert.Equal(t, ConflictBackToBack, findings[0].Kind)
	assert.Equal(t, "Урок до", findings[0].With)
	assert.Equal(t, ConflictBackToBack, findings[1].Kind)
	assert.Equal(t, "Урок после", findings[1].With)
}

func TestCheckConflicts_InsufficientBuffer(t *testing.T) {
	// Зазор 15 минут до следующего урока при требуемом буфере 30
	existing := []BusyInterval{busy("11:15", "12:15", "Урок")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 30)

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, ConflictInsufficientBuffer, f.Kind)
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.True(t, f.IsBlocking())
	// Занятый интервал после предложенного - двигать начало раньше
	assert.Equal(t, "сдвиньте начало на 15 мин раньше", f.Suggestion)
}

func TestCheckConflicts_InsufficientBufferBefore(t *testing.T) {
	// Занятый интервал заканчивается за 10 минут до предложенного начала
	existing := []BusyInterval{busy("09:00", "09:50", "Урок")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 30)

	require.Len(t, findings, 1)
	assert.Equal(t, ConflictInsufficientBuffer, findings[0].Kind)
	assert.Equal(t, "сдвиньте начало на 20 мин позже", findings[0].Suggestion)
}

func TestCheckConflicts_GapEqualToBufferIsClean(t *testing.T) {
	// Зазор ровно в размер буфера - конфликта нет
	existing := []BusyInterval{busy("11:30", "12:30", "Урок")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 30)
	assert.Empty(t, findings)
}

func TestCheckConflicts_OverlapSuppressesBufferForPair(t *testing.T) {
	// Для пары с пересечением проверки буфера не выполняются:
	// одна находка на пару, а не две
	existing := []BusyInterval{busy("10:30", "11:30", "Урок")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 30)

	require.Len(t, findings, 1)
	assert.Equal(t, ConflictOverlap, findings[0].Kind)
}

func TestCheckConflicts_IndependentPerPair(t *testing.T) {
	// Каждый занятый интервал проверяется независимо:
	// пересечение с одним не подавляет находки по другим
	existing := []BusyInterval{
		busy("10:30", "11:30", "Пересекающийся"),
		busy("12:15", "13:00", "Близкий"),
	}

	findings := CheckConflicts(interval(t, "10:00", 120), existing, 30)

	require.Len(t, findings, 2)
	assert.Equal(t, ConflictOverlap, findings[0].Kind)
	assert.Equal(t, "Пересекающийся", findings[0].With)
	assert.Equal(t, ConflictInsufficientBuffer, findings[1].Kind)
	assert.Equal(t, "Близкий", findings[1].With)
}

func TestCheckConflicts_EmptyLabelFallsBack(t *testing.T) {
	existing := []BusyInterval{busy("10:00", "11:00", "")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 0)

	require.Len(t, findings, 1)
	assert.Equal(t, UnavailableReasonDefault, findings[0].With)
}

func TestCheckConflicts_ZeroBufferDisablesBufferFindings(t *testing.T) {
	existing := []BusyInterval{busy("11:10", "12:10", "Урок")}

	findings := CheckConflicts(interval(t, "10:00", 60), existing, 0)
	assert.Empty(t, findings)
}

func TestHasBlocking(t *testing.T) {
	assert.False(t, HasBlocking(nil))
	assert.False(t, HasBlocking([]ConflictFinding{{Kind: ConflictBackToBack}}))
	assert.True(t, HasBlocking([]ConflictFinding{
		{Kind: ConflictBackToBack},
		{Kind: ConflictInsufficientBuffer},
	}))
}

func TestFirstBlocking_OverlapWins(t *testing.T) {
	findings := []ConflictFinding{
		{Kind: ConflictBackToBack, With: "a"},
		{Kind: ConflictInsufficientBuffer, With: "b"},
		{Kind: ConflictOverlap, With: "c"},
	}

	blocking := FirstBlocking(findings)
	require.NotNil(t, blocking)
	assert.Equal(t, ConflictOverlap, blocking.Kind)
	assert.Equal(t, "c", blocking.With)
}

func TestFirstBlocking_NoBlocking(t *testing.T) {
	assert.Nil(t, FirstBlocking([]ConflictFinding{{Kind: ConflictBackToBack}}))
	assert.Nil(t, FirstBlocking(nil))
}

func TestCheckConflicts_Deterministic(t *testing.T) {
	existing := []BusyInterval{
		busy("09:00", "10:00", "a"),
		busy("11:10", "12:00", "b"),
	}

	first := CheckConflicts(interval(t, "10:00", 60), existing, 30)
	second := CheckConflicts(interval(t, "10:00", 60), existing, 30)

	assert.Equal(t, first, second)
}
