package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("22:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(22*3600), c)
	assert.Equal(t, "22:00", c.String())
	assert.Equal(t, "22:00:00", c.SQL())

	c, err = ParseClockTime("06:30:15")
	require.NoError(t, err)
	assert.Equal(t, "06:30:15", c.String())

	for _, bad := range []string{
		"", "25:00", "12", "12:60", "a:b",
		"10:30junk", "10:30:00 extra", "1:5", "+9:-0", "9:05", " 10:30", "06:30:15.250",
	} {
		_, err := ParseClockTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateCompare(t *testing.T) {
	jan31 := Date{2025, time.January, 31}
	feb1 := Date{2025, time.February, 1}
	assert.True(t, jan31.Before(feb1))
	assert.True(t, feb1.After(jan31))
	assert.Equal(t, 0, jan31.Compare(jan31))

	d, err := ParseDate("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, feb1, d)
	assert.Equal(t, "2025-02-01", d.String())

	_, err = ParseDate("02/01/2025")
	assert.Error(t, err)
}

func TestDateOfUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	instant := time.Date(2025, time.January, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, Date{2025, time.January, 31}, DateOf(instant))
	assert.Equal(t, Date{2025, time.February, 1}, DateOf(instant.In(tokyo)))
}

func TestWeekdays(t *testing.T) {
	w, err := ParseWeekdays("Mon, fri,SUNDAY")
	require.NoError(t, err)
	assert.True(t, w.Contains(time.Monday))
	assert.True(t, w.Contains(time.Friday))
	assert.True(t, w.Contains(time.Sunday))
	assert.False(t, w.Contains(time.Tuesday))
	assert.Equal(t, "Mon,Fri,Sun", w.String())

	empty, err := ParseWeekdays("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParseWeekdays("Mon,Funday")
	assert.Error(t, err)

	b, err := json.Marshal(NewWeekdays(time.Tuesday, time.Monday))
	require.NoError(t, err)
	assert.JSONEq(t, `["Mon","Tue"]`, string(b))
}

func TestScheduleValidate(t *testing.T) {
	start := ClockTime(8 * 3600)
	base := Schedule{Name: "Lobby", LayoutID: 3, Priority: 50}
	require.NoError(t, base.Validate())

	s := base
	s.Priority = 101
	assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)

	s = base
	s.StartTime = &start
	assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)

	s = base
	s.StartDate = &Date{2025, time.February, 1}
	s.EndDate = &Date{2025, time.January, 1}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)
}
