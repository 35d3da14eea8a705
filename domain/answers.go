package domain

import "maps"

// Value is a validated answer. Numeric answers are always parsed.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
}

func NumberValue(n float64) Value {
	return Value{Kind: Numeric, Number: n}
}

func TextValue(s string) Value {
	return Value{Kind: Categorical, Text: s}
}

// Any returns the float64 or string carried by the value.
func (v Value) Any() any {
	if v.Kind == Numeric {
		return v.Number
	}
	return v.Text
}

// Answers maps a field name to its validated value.
type Answers map[string]Value

func (a Answers) Number(name string) (float64, bool) {
	v, ok := a[name]
	if !ok || v.Kind != Numeric {
		return 0, false
	}
	return v.Number, true
}

func (a Answers) Text(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v.Kind != Categorical {
		return "", false
	}
	return v.Text, true
}

func (a Answers) Clone() Answers {
	return maps.Clone(a)
}

// Plain flattens the answers for storage and display.
func (a Answers) Plain() map[string]any {
	out := make(map[string]any, len(a))
	for name, v := range a {
		out[name] = v.Any()
	}
	return out
}
