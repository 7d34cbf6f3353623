// Package ratelimit gates outbound alerts behind a daily cap and a cooldown
// window.
package ratelimit

import (
	"time"

	"github.com/terry-li-hm/lustro/internal/state"
)

// Decision explains why an alert was or was not admitted.
type Decision int

const (
	Admitted Decision = iota
	DeniedDailyCap
	DeniedCooldown
)

func (d Decision) String() string {
	switch d {
	case Admitted:
		return "admitted"
	case DeniedDailyCap:
		return "daily cap reached"
	case DeniedCooldown:
		return "cooldown active"
	}
	return "unknown"
}

// Limiter evaluates alert admission against an AlertState. All decisions are
// wall-clock driven at call time; there is no background reset.
type Limiter struct {
	MaxPerDay int
	Cooldown  time.Duration
}

// New creates a limiter with the given daily cap and cooldown window.
func New(maxPerDay int, cooldown time.Duration) *Limiter {
	return &Limiter{MaxPerDay: maxPerDay, Cooldown: cooldown}
}

// Reconcile resets the daily counter when the current date differs from the
// day marker, advancing the marker. It runs before every guard evaluation.
func Reconcile(st *state.AlertState, now time.Time) {
	today := now.UTC().Format("2006-01-02")
	if st.DayMarker != today {
		st.AlertsToday = 0
		st.DayMarker = today
	}
}

// Allow reports whether an alert could be admitted right now, without
// mutating the counter. The day rollover is still applied to st.
func (l *Limiter) Allow(st *state.AlertState, now time.Time) Decision {
	Reconcile(st, now)
	if st.AlertsToday >= l.MaxPerDay {
		return DeniedDailyCap
	}
	if st.LastAlertAt != nil && now.Sub(*st.LastAlertAt) < l.Cooldown {
		return DeniedCooldown
	}
	return Admitted
}

// Admit evaluates the guards and, on admission, consumes one alert slot:
// the counter increments and the cooldown timer restarts. The caller must
// persist st before dispatching the alert so a crash between the two errs
// toward under-alerting.
func (l *Limiter) Admit(st *state.AlertState, now time.Time) Decision {
	decision := l.Allow(st, now)
	if decision != Admitted {
		return decision
	}
	st.AlertsToday++
	at := now
	st.LastAlertAt = &at
	return Admitted
}
