package dataset

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindMap
)

// Value is a single scalar cell of a query result row. Keeping the shape
// closed (number/text/bool/null/nested record) lets the rule evaluators be
// exhaustive over it.
type Value struct {
	kind Kind
	num  decimal.Decimal
	str  string
	b    bool
	rec  *Record
}

func Null() Value {
	return Value{kind: KindNull}
}

func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

func NumberFromInt(n int64) Value {
	return Number(decimal.NewFromInt(n))
}

func NumberFromFloat(f float64) Value {
	return Number(decimal.NewFromFloat(f))
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Nested(r *Record) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindMap, rec: r}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Decimal{}, false
	}
	return v.num, true
}

func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) Record() (*Record, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.rec, true
}

// String renders the value the way it appears in rule messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindMap:
		b, err := json.Marshal(v.rec)
		if err != nil {
			return "{}"
		}
		return string(b)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber:
		return v.num.MarshalJSON()
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	case KindMap:
		return json.Marshal(v.rec)
	}
	return []byte("null"), nil
}

// FromDriverValue converts a database/sql scan result into a Value.
// Byte slices and timestamps become text; the coercion helper parses text
// into a decimal when a rule needs it numerically.
func FromDriverValue(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case int64:
		return NumberFromInt(x)
	case int32:
		return NumberFromInt(int64(x))
	case int:
		return NumberFromInt(int64(x))
	case float64:
		return NumberFromFloat(x)
	case float32:
		return NumberFromFloat(float64(x))
	case bool:
		return Bool(x)
	case []byte:
		return String(string(x))
	case string:
		return String(x)
	case time.Time:
		return String(x.Format("2006-01-02 15:04:05"))
	default:
		return String(fmt.Sprintf("%v", x))
	}
}
