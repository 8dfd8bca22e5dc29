package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify_Upcoming(t *testing.T) {
	// administered 2024-01-01, due 2024-07-01, checked 2024-06-01
	status, err := Classify(date(2024, 7, 1), date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, ScheduleUpcoming, status)
}

func TestClassify_Overdue(t *testing.T) {
	status, err := Classify(date(2024, 7, 1), date(2024, 8, 1))
	require.NoError(t, err)
	assert.Equal(t, ScheduleOverdue, status)
}

func TestClassify_DueExactlyNow_IsUpcoming(t *testing.T) {
	now := date(2024, 7, 1)
	status, err := Classify(now, now)
	require.NoError(t, err)
	assert.Equal(t, ScheduleUpcoming, status)
}

func TestClassify_ZeroDueDate_Rejected(t *testing.T) {
	_, err := Classify(time.Time{}, date(2024, 7, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestNextDueDate_Units(t *testing.T) {
	administered := date(2024, 1, 1)

	got, err := NextDueDate(administered, BoosterInterval{Value: 2, Unit: "weeks"})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 15), got)

	got, err = NextDueDate(administered, BoosterInterval{Value: 6, Unit: "months"})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 7, 1), got)

	got, err = NextDueDate(administered, BoosterInterval{Value: 1, Unit: "years"})
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), got)
}

func TestNextDueDate_InvalidInterval(t *testing.T) {
	_, err := NextDueDate(date(2024, 1, 1), BoosterInterval{Value: 0, Unit: "months"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRequest))

	_, err = NextDueDate(date(2024, 1, 1), BoosterInterval{Value: 3, Unit: "fortnights"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRequest))
}
