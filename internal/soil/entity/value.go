package entity

import (
	"strconv"
)

type Kind int

const (
	KindMissing Kind = iota
	KindInt
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Numeric reports whether cells of this kind hold numbers.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Value is a single table cell. The zero Value is missing.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func Missing() Value { return Value{} }

func Int(v int64) Value { return Value{kind: KindInt, i: v} }

func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

func Text(v string) Value { return Value{kind: KindText, s: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

func (v Value) Int() int64 { return v.i }

func (v Value) Float() float64 { return v.f }

func (v Value) Text() string { return v.s }

// Number returns the cell as float64 when it is numeric.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// String renders the cell for display and grouping. Missing cells render empty.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return ""
	}
}

// Interface returns a JSON-friendly form; missing cells become nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	default:
		return nil
	}
}
