// Package exporter writes computed indicator reports to files and
// databases.
package exporter

import (
	"context"
	"sort"
	"time"

	"coinscope/indicators"
	"coinscope/signals"
)

// Report is one horizon's computed output, handed to every enabled
// exporter.
type Report struct {
	RunID        string
	Horizon      string
	Granularity  string
	GeneratedAt  time.Time
	LookbackDays int

	Frames  map[string]*indicators.Frame
	Signals map[string]signals.Set
}

// Assets returns the report's asset identifiers in stable order.
func (r *Report) Assets() []string {
	names := make([]string, 0, len(r.Frames))
	for name := range r.Frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exporter writes a report to one output format.
type Exporter interface {
	Name() string
	Export(ctx context.Context, r *Report) error
}
