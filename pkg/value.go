package cqexpr

import "strconv"

type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueBool
	ValueText
)

// Value is the result of evaluating an expression. Comparisons produce
// booleans, which behave as 1 and 0 in arithmetic. Text only comes out of
// bare identifiers and is passed through untouched.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

func NewNumber(v float64) Value {
	return Value{kind: ValueNumber, num: v}
}

func NewBool(b bool) Value {
	if b {
		return Value{kind: ValueBool, num: 1}
	}

	return Value{kind: ValueBool}
}

func NewText(s string) Value {
	return Value{kind: ValueText, text: s}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNumber() bool {
	return v.kind == ValueNumber
}

func (v Value) IsBool() bool {
	return v.kind == ValueBool
}

func (v Value) IsText() bool {
	return v.kind == ValueText
}

// AsFloat returns the numeric value. ok is false for text.
func (v Value) AsFloat() (f float64, ok bool) {
	if v.kind == ValueText {
		return 0, false
	}

	return v.num, true
}

func (v Value) AsBool() bool {
	if v.kind == ValueText {
		return v.text != ""
	}

	return v.num != 0
}

func (v Value) AsText() string {
	return v.text
}

// AsInterface returns float64, bool or string depending on the kind.
func (v Value) AsInterface() interface{} {
	switch v.kind {
	case ValueBool:
		return v.num != 0
	case ValueText:
		return v.text
	default:
		return v.num
	}
}

func (v Value) String() string {
	switch v.kind {
	case ValueBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case ValueText:
		return strconv.Quote(v.text)
	default:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
}
