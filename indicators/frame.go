package indicators

import (
	"fmt"

	"coinscope/market"
)

// Frame is a series plus named indicator columns aligned to it. Every
// column has exactly Series.Len() slots; leading warm-up slots are
// undefined Values.
type Frame struct {
	Series *market.Series

	cols  map[string][]Value
	order []string
}

func NewFrame(s *market.Series) *Frame {
	return &Frame{
		Series: s,
		cols:   make(map[string][]Value),
	}
}

// Add attaches a column. Adding a misaligned column is a programming
// error, not a data error.
func (f *Frame) Add(name string, col []Value) {
	if len(col) != f.Series.Len() {
		panic(fmt.Sprintf("indicators: column %s has %d slots for %d candles", name, len(col), f.Series.Len()))
	}
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = col
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.order...)
}

// Column returns the named column, or nil if it was not computed.
func (f *Frame) Column(name string) []Value {
	return f.cols[name]
}

// At returns the value of a column at index i. Missing columns and
// out-of-range indices read as undefined.
func (f *Frame) At(name string, i int) Value {
	col, ok := f.cols[name]
	if !ok || i < 0 || i >= len(col) {
		return Value{}
	}
	return col[i]
}

// Latest returns the last value of a column.
func (f *Frame) Latest(name string) Value {
	return f.At(name, f.Series.Len()-1)
}
