package format

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

const nan = "NaN"

// floatNumberText renders f in shortest round-trip form: integers without a
// fraction, exponent notation outside [1e-6, 1e21), -0 kept.
func floatNumberText(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return nan
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bits)
		mant, exp, ok := strings.Cut(s, "e")
		if !ok || exp == "" {
			return s
		}
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// numberText converts v like Number(v) would and renders the result.
func numberText(v any) string {
	if v == nil {
		return "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return "1"
		}
		return "0"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return floatNumberText(rv.Float(), 32)
	case reflect.Float64:
		return floatNumberText(rv.Float(), 64)
	case reflect.String:
		return floatNumberText(parseNumber(rv.String()), 64)
	default:
		return nan
	}
}

// integerText converts v like parseInt(String(v)) would.
func integerText(v any) string {
	if v == nil {
		return nan
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return leadingInteger(floatNumberText(rv.Float(), 32))
	case reflect.Float64:
		return leadingInteger(floatNumberText(rv.Float(), 64))
	case reflect.String:
		return leadingInteger(rv.String())
	default:
		if s, ok := methodText(v); ok {
			return leadingInteger(s)
		}
		return nan
	}
}

// floatText converts v like parseFloat(String(v)) would.
func floatText(v any) string {
	if v == nil {
		return nan
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return floatNumberText(rv.Float(), 32)
	case reflect.Float64:
		return floatNumberText(rv.Float(), 64)
	case reflect.String:
		return leadingFloat(rv.String())
	default:
		if s, ok := methodText(v); ok {
			return leadingFloat(s)
		}
		return nan
	}
}

// parseNumber implements the string-to-number conversion of Number(s).
func parseNumber(s string) float64 {
	s = strings.TrimFunc(s, unicode.IsSpace)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(u)
		}
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// leadingInteger parses the longest integer prefix of s (parseInt semantics).
func leadingInteger(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return nan
	}
	u, err := strconv.ParseUint(s[:end], base, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(s[:end], 64)
		if base != 10 || math.IsInf(f, 0) {
			f = math.Inf(1)
		}
		if neg {
			f = -f
		}
		return floatNumberText(f, 64)
	}
	if neg {
		if u == 0 {
			return "-0"
		}
		return "-" + strconv.FormatUint(u, 10)
	}
	return strconv.FormatUint(u, 10)
}

// leadingFloat parses the longest decimal literal prefix of s (parseFloat semantics).
func leadingFloat(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return "-Infinity"
		}
		return "Infinity"
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
		return nan
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:i], "."), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return nan
		}
	}
	return floatNumberText(f, 64)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}
