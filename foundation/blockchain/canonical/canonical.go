// Package canonical produces the byte form that block hashes are computed
// over. The output matches Python's json.dumps(value, sort_keys=True) so nodes
// written in either language agree on every block hash.
package canonical

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Marshal returns the canonical encoding of the value. Supported values are
// nil, bool, string, the integer kinds, float64, json.Number, []any and
// map[string]any, nested to any depth.
func Marshal(value any) ([]byte, error) {
	var b strings.Builder
	if err := encode(&b, value); err != nil {
		return nil, err
	}

	return []byte(b.String()), nil
}

// =============================================================================

func encode(b *strings.Builder, value any) error {
	switch v := value.(type) {
	case nil:
		b.WriteString("null")

	case bool:
		if v {
			b.WriteString("true")
			return nil
		}
		b.WriteString("false")

	case string:
		writeString(b, v)

	case int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))

	case float64:
		b.WriteString(Float(v))

	case json.Number:
		s, err := Number(v)
		if err != nil {
			return err
		}
		b.WriteString(s)

	case []any:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := encode(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')

	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeString(b, key)
			b.WriteString(": ")
			if err := encode(b, v[key]); err != nil {
				return err
			}
		}
		b.WriteByte('}')

	default:
		return fmt.Errorf("canonical: unsupported type %T", value)
	}

	return nil
}

// Float renders a float the way Python's repr does: shortest round-trip
// digits, always with a fractional part or an exponent.
func Float(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	// The exponent of the shortest representation decides the notation.
	// Python switches to scientific form below 1e-4 and from 1e16 up.
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil {
		return e
	}

	if exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

// Number renders a JSON number literal. Integer literals are kept verbatim,
// anything with a fraction or exponent is rendered as a Python float.
func Number(n json.Number) (string, error) {
	s := string(n)
	if s == "" {
		return "", fmt.Errorf("canonical: empty number")
	}

	if !strings.ContainsAny(s, ".eE") {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", fmt.Errorf("canonical: invalid number %q", s)
		}
		if s == "-0" {
			return "0", nil
		}
		return s, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("canonical: invalid number %q", s)
	}

	return Float(f), nil
}

// =============================================================================

const hex = "0123456789abcdef"

// writeString quotes the string with ASCII-only output. Everything outside
// the printable ASCII range is written as a \uXXXX escape, using surrogate
// pairs above the basic multilingual plane.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				writeEscape(b, r1)
				writeEscape(b, r2)
			default:
				writeEscape(b, r)
			}
		}
	}

	b.WriteByte('"')
}

func writeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hex[(r>>12)&0xf])
	b.WriteByte(hex[(r>>8)&0xf])
	b.WriteByte(hex[(r>>4)&0xf])
	b.WriteByte(hex[r&0xf])
}
