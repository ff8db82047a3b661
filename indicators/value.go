package indicators

// Value is one slot in an indicator column. The zero value is the
// undefined marker used for warm-up gaps and zero-denominator cases; it
// is distinct from a computed zero.
type Value struct {
	F       float64
	Defined bool
}

// Def wraps f as a defined value.
func Def(f float64) Value {
	return Value{F: f, Defined: true}
}

// Ptr returns the value as *float64, nil when undefined. Exporters use
// this to emit JSON null for warm-up gaps.
func (v Value) Ptr() *float64 {
	if !v.Defined {
		return nil
	}
	f := v.F
	return &f
}
