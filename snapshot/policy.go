package snapshot

import (
	"time"

	"coinscope/market"
)

// Refresh decides which optional snapshot sections must be rebuilt for a
// horizon: the history arrays and the long-horizon stats. It is a pure
// function of the previous persisted state, the clock and the override
// flags; callers own loading prev and persisting the new state.
//
// Force flags win over everything, a forced daily refresh implies the
// hourly one, and a missing previous state refreshes everything. With a
// previous state, history refreshes when a granularity bucket boundary
// was crossed since the last run and long stats when the calendar date
// changed.
func Refresh(prev *State, now time.Time, granularity string, forceHourly, forceDaily bool) (includeHistory, includeLongStats bool) {
	switch {
	case forceHourly && forceDaily:
		return true, true
	case forceHourly:
		return true, false
	case forceDaily:
		return true, true
	}

	if prev == nil || prev.RunAt.IsZero() {
		return true, true
	}

	last := prev.RunAt.UTC()
	now = now.UTC()
	return crossedBucket(last, now, granularity), dateChanged(last, now)
}

// crossedBucket reports whether a granularity bucket boundary lies
// between the two instants. Unknown granularities use the hourly rule.
func crossedBucket(last, now time.Time, granularity string) bool {
	switch granularity {
	case market.Granularity4h:
		return last.Hour()/4 != now.Hour()/4 || dateChanged(last, now)
	case market.Granularity1d:
		return dateChanged(last, now)
	default:
		return last.Hour() != now.Hour() || dateChanged(last, now)
	}
}

func dateChanged(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay != by || am != bm || ad != bd
}
