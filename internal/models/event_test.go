package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityHigh.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityLow.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())
}

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 3, PriorityHigh.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 1, Priority("unknown").Weight())
}

func TestEventOverlapsIsSymmetric(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	cases := []struct {
		name string
		a, b Event
		want bool
	}{
		{
			name: "partial overlap",
			a:    Event{StartTime: base, EndTime: base.Add(time.Hour)},
			b:    Event{StartTime: base.Add(30 * time.Minute), EndTime: base.Add(90 * time.Minute)},
			want: true,
		},
		{
			name: "containment",
			a:    Event{StartTime: base, EndTime: base.Add(4 * time.Hour)},
			b:    Event{StartTime: base.Add(time.Hour), EndTime: base.Add(2 * time.Hour)},
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    Event{StartTime: base, EndTime: base.Add(time.Hour)},
			b:    Event{StartTime: base.Add(time.Hour), EndTime: base.Add(2 * time.Hour)},
			want: false,
		},
		{
			name: "disjoint",
			a:    Event{StartTime: base, EndTime: base.Add(time.Hour)},
			b:    Event{StartTime: base.Add(3 * time.Hour), EndTime: base.Add(4 * time.Hour)},
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestParseEventTimeAcceptsISOForms(t *testing.T) {
	parsed, err := ParseEventTime("2025-03-10T09:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local), parsed)

	parsed, err = ParseEventTime("2025-03-10T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 9, parsed.UTC().Hour())

	_, err = ParseEventTime("10/03/2025 09:30")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local), parsed)

	_, err = ParseDate("03-10-2025")
	require.Error(t, err)
}

func TestSameOrBetweenDates(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local)
	end := time.Date(2025, 3, 12, 1, 0, 0, 0, time.Local)

	assert.True(t, SameOrBetweenDates(start, end, time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)))
	assert.True(t, SameOrBetweenDates(start, end, time.Date(2025, 3, 11, 12, 0, 0, 0, time.Local)))
	assert.True(t, SameOrBetweenDates(start, end, time.Date(2025, 3, 12, 23, 59, 0, 0, time.Local)))
	assert.False(t, SameOrBetweenDates(start, end, time.Date(2025, 3, 9, 12, 0, 0, 0, time.Local)))
	assert.False(t, SameOrBetweenDates(start, end, time.Date(2025, 3, 13, 0, 0, 0, 0, time.Local)))
}
