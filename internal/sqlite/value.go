package sqlite

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/orsinium-labs/enum"
)

// ValueType is the dynamic type of a single cell. SQLite assigns it per value,
// not per column, so the same column can hold different types across rows.
//
// https://www.sqlite.org/datatype3.html
type ValueType enum.Member[string]

var (
	TypeInteger = ValueType{Value: "integer"}
	TypeFloat   = ValueType{Value: "float"}
	TypeText    = ValueType{Value: "text"}
	TypeBlob    = ValueType{Value: "blob"}
	TypeNull    = ValueType{Value: "null"}

	valueTypes = enum.New(TypeInteger, TypeFloat, TypeText, TypeBlob, TypeNull)
)

// String returns the lower case name of the type.
func (t ValueType) String() string {
	return t.Value
}

// ParseValueType returns the ValueType with the given name (integer, float,
// text, blob or null).
func ParseValueType(name string) (ValueType, error) {
	t := valueTypes.Parse(strings.ToLower(strings.TrimSpace(name)))
	if t == nil {
		return ValueType{}, fmt.Errorf("unknown value type %q", name)
	}
	return *t, nil
}

// Value is a single cell as returned by the engine, tagged with its dynamic
// type. The zero Value is NULL.
type Value struct {
	typ ValueType
	i   int64
	f   float64
	s   string
	b   []byte
}

// IntegerValue returns an integer Value.
func IntegerValue(v int64) Value { return Value{typ: TypeInteger, i: v} }

// FloatValue returns a floating point Value.
func FloatValue(v float64) Value { return Value{typ: TypeFloat, f: v} }

// TextValue returns a text Value.
func TextValue(v string) Value { return Value{typ: TypeText, s: v} }

// BlobValue returns a blob Value holding a copy of v.
func BlobValue(v []byte) Value {
	b := make([]byte, len(v))
	copy(b, v)
	return Value{typ: TypeBlob, b: b}
}

// NullValue returns a NULL Value.
func NullValue() Value { return Value{typ: TypeNull} }

// fromDriverValue maps what go-sqlite3 hands back for a cell to a Value.
// Only the storage classes of the engine are accepted: a driver value of any
// other Go type means the driver converted the cell on its own.
func fromDriverValue(v driver.Value) (Value, error) {
	switch val := v.(type) {
	case nil:
		return NullValue(), nil
	case int64:
		return IntegerValue(val), nil
	case float64:
		return FloatValue(val), nil
	case string:
		return TextValue(val), nil
	case []byte:
		// The driver hands out a fresh copy per row already.
		return Value{typ: TypeBlob, b: val}, nil
	}
	return Value{}, fmt.Errorf("%w: driver returned %T instead of a stored value", ErrTypeMismatch, v)
}

// Type returns the dynamic type of the value.
func (v Value) Type() ValueType {
	if v.typ.Value == "" {
		return TypeNull
	}
	return v.typ
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.Type() == TypeNull
}

// Int returns the value as int64.
//
// Floats are truncated toward zero and clamped to the int64 range, text is
// parsed for a leading integer (0 if there is none). Blobs are not converted.
func (v Value) Int() (int64, error) {
	switch v.Type() {
	case TypeInteger:
		return v.i, nil
	case TypeFloat:
		return floatToInt(v.f), nil
	case TypeText:
		return parseIntPrefix(v.s), nil
	case TypeBlob:
		return 0, fmt.Errorf("%w: blob as integer", ErrTypeMismatch)
	}
	return 0, ErrNullValue
}

// Float returns the value as float64.
//
// Integers are widened, text is parsed for its longest numeric prefix (0 if
// there is none). Blobs are not converted.
func (v Value) Float() (float64, error) {
	switch v.Type() {
	case TypeInteger:
		return float64(v.i), nil
	case TypeFloat:
		return v.f, nil
	case TypeText:
		return parseFloatPrefix(v.s), nil
	case TypeBlob:
		return 0, fmt.Errorf("%w: blob as float", ErrTypeMismatch)
	}
	return 0, ErrNullValue
}

// String returns the value as text, formatting numbers the way SQLite does.
// Blobs are not converted.
func (v Value) String() (string, error) {
	switch v.Type() {
	case TypeInteger:
		return strconv.FormatInt(v.i, 10), nil
	case TypeFloat:
		return formatFloat(v.f), nil
	case TypeText:
		return v.s, nil
	case TypeBlob:
		return "", fmt.Errorf("%w: blob as text", ErrTypeMismatch)
	}
	return "", ErrNullValue
}

// Blob returns a copy of the raw bytes of the value. Numbers are returned as
// the bytes of their text form, NULL as nil.
func (v Value) Blob() []byte {
	switch v.Type() {
	case TypeBlob:
		b := make([]byte, len(v.b))
		copy(b, v.b)
		return b
	case TypeText:
		return []byte(v.s)
	case TypeInteger, TypeFloat:
		s, _ := v.String()
		return []byte(s)
	}
	return nil
}

// Text returns a display form of the value that never fails: NULL is the
// empty string and blobs are returned as their raw bytes.
func (v Value) Text() string {
	switch v.Type() {
	case TypeNull:
		return ""
	case TypeBlob:
		return string(v.b)
	}
	s, _ := v.String()
	return s
}

// Any returns the value as the Go type matching its dynamic type: int64,
// float64, string, []byte or nil.
func (v Value) Any() any {
	switch v.Type() {
	case TypeInteger:
		return v.i
	case TypeFloat:
		return v.f
	case TypeText:
		return v.s
	case TypeBlob:
		return v.Blob()
	}
	return nil
}

// floatToInt mirrors SQLite's doubleToInt64.
func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= math.MinInt64:
		return math.MinInt64
	case f >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(f)
}

// parseIntPrefix mirrors sqlite3Atoi64: optional leading spaces and sign,
// then as many digits as there are. Overflow clamps.
func parseIntPrefix(s string) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}

	var u uint64
	overflow := false
	for ; i < len(s) && isDigit(s[i]); i++ {
		if overflow {
			continue
		}
		d := uint64(s[i] - '0')
		if u > (math.MaxUint64-d)/10 {
			overflow = true
			continue
		}
		u = u*10 + d
	}

	if neg {
		if overflow || u > uint64(math.MaxInt64)+1 {
			return math.MinInt64
		}
		return -int64(u)
	}
	if overflow || u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

// parseFloatPrefix mirrors sqlite3AtoF: the longest prefix that reads as a
// decimal number with optional fraction and exponent.
func parseFloatPrefix(s string) float64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i

	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}

	f, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0
	}
	return f
}

// formatFloat mirrors SQLite's "%!.15g" rendering of REAL values: fifteen
// significant digits, and always a decimal point.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}

	s := strconv.FormatFloat(f, 'g', 15, 64)
	mantissa, exponent, hasExp := strings.Cut(s, "e")
	if strings.Contains(mantissa, ".") {
		return s
	}
	if hasExp {
		return mantissa + ".0e" + exponent
	}
	return mantissa + ".0"
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
