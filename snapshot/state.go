package snapshot

import "time"

// State is the per-horizon freshness record persisted between runs. It
// is created on the first run for a horizon and overwritten on every
// subsequent one; the core never deletes it.
type State struct {
	// RunAt is when the horizon was last processed.
	RunAt time.Time `json:"run_timestamp"`
	// HistoryAt is when the history arrays were last rebuilt.
	HistoryAt *time.Time `json:"history_last_updated,omitempty"`
	// LongStatsAt is when the long-horizon stats were last rebuilt.
	LongStatsAt *time.Time `json:"long_stats_last_updated,omitempty"`
}
