package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terry-li-hm/lustro/internal/state"
)

var noon = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestDailyCap(t *testing.T) {
	l := New(3, time.Nanosecond)
	st := &state.AlertState{}

	for i := 0; i < 3; i++ {
		at := noon.Add(time.Duration(i) * time.Hour)
		require.Equal(t, Admitted, l.Admit(st, at), "alert %d", i+1)
	}
	assert.Equal(t, 3, st.AlertsToday)

	// Fourth alert the same day is rejected regardless of cooldown state.
	assert.Equal(t, DeniedDailyCap, l.Admit(st, noon.Add(10*time.Hour)))
	assert.Equal(t, 3, st.AlertsToday, "denied alert must not consume a slot")
}

func TestCooldown(t *testing.T) {
	l := New(3, 60*time.Minute)
	st := &state.AlertState{}

	require.Equal(t, Admitted, l.Admit(st, noon))
	assert.Equal(t, DeniedCooldown, l.Admit(st, noon.Add(10*time.Minute)))

	st2 := &state.AlertState{}
	require.Equal(t, Admitted, l.Admit(st2, noon))
	assert.Equal(t, Admitted, l.Admit(st2, noon.Add(61*time.Minute)))
}

func TestDayRollover(t *testing.T) {
	l := New(3, 60*time.Minute)
	yesterday := noon.Add(-24 * time.Hour)
	last := yesterday.Add(2 * time.Hour)
	st := &state.AlertState{
		AlertsToday: 3,
		DayMarker:   yesterday.Format("2006-01-02"),
		LastAlertAt: &last,
	}

	// Counter resets before guard evaluation, then the admit consumes a slot.
	assert.Equal(t, Admitted, l.Admit(st, noon))
	assert.Equal(t, 1, st.AlertsToday)
	assert.Equal(t, "2026-08-30", st.DayMarker)
}

func TestCooldownSurvivesDayRollover(t *testing.T) {
	// Rollover clears the counter but not the cooldown timer.
	l := New(3, 60*time.Minute)
	lateNight := time.Date(2026, 8, 29, 23, 40, 0, 0, time.UTC)
	st := &state.AlertState{
		AlertsToday: 1,
		DayMarker:   "2026-08-29",
		LastAlertAt: &lateNight,
	}

	justAfterMidnight := time.Date(2026, 8, 30, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, DeniedCooldown, l.Admit(st, justAfterMidnight))
	assert.Equal(t, 0, st.AlertsToday)
	assert.Equal(t, "2026-08-30", st.DayMarker)
}

func TestAdmitSetsLastAlertAt(t *testing.T) {
	l := New(3, 60*time.Minute)
	st := &state.AlertState{}

	require.Equal(t, Admitted, l.Admit(st, noon))
	require.NotNil(t, st.LastAlertAt)
	assert.True(t, st.LastAlertAt.Equal(noon))
}

func TestAllowDoesNotConsume(t *testing.T) {
	l := New(3, 60*time.Minute)
	st := &state.AlertState{}

	assert.Equal(t, Admitted, l.Allow(st, noon))
	assert.Equal(t, Admitted, l.Allow(st, noon))
	assert.Equal(t, 0, st.AlertsToday)
	assert.Nil(t, st.LastAlertAt)
}

func TestFirstUseDefaults(t *testing.T) {
	l := New(3, 60*time.Minute)
	st := &state.AlertState{}

	assert.Equal(t, Admitted, l.Allow(st, noon))
	assert.Equal(t, "2026-08-30", st.DayMarker, "reconcile stamps the marker on first use")
}
