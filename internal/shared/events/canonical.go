package events

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// CanonicalJSON renders v (after round-tripping it through encoding/json so
// structs and typed slices become the map[string]any/[]any/float64 shape
// this package knows how to walk) as canonical JSON: sorted object keys,
// fixed float precision, no insignificant whitespace.
func CanonicalJSON(v any) ([]byte, error) {
	return canonicalJSON(normalizeJSONValue(v))
}

// HashCanonical returns the SHA-256 hash of v's canonical JSON encoding.
// Projectors use this to compute snapshot state hashes; the gateway and the
// projector framework use ComputePayloadHash/VerifyPayloadHash instead,
// which pin the hash to the payload field specifically.
func HashCanonical(v any) (string, error) {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON renders v as UTF-8 JSON with map keys sorted lexicographically
// at every depth, no insignificant whitespace, and float64 values rounded to
// a fixed decimal precision so the same semantic payload always hashes the
// same way regardless of which platform produced it.
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const floatPrecision = 10

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		writeCanonicalString(buf, val)
	case float64:
		writeCanonicalFloat(buf, val)
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case map[string]any:
		return writeCanonicalObject(buf, val)
	case []any:
		return writeCanonicalArray(buf, val)
	default:
		return fmt.Errorf("canonical json: unsupported type %T", v)
	}
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := writeCanonical(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalArray(buf *bytes.Buffer, a []any) error {
	buf.WriteByte('[')
	for i, item := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// writeCanonicalFloat rounds to floatPrecision decimal places before
// formatting so the same semantic value never drifts across platforms.
func writeCanonicalFloat(buf *bytes.Buffer, f float64) {
	if math.Trunc(f) == f && !math.IsInf(f, 0) {
		fmt.Fprintf(buf, "%d", int64(f))
		return
	}
	scale := math.Pow(10, floatPrecision)
	rounded := math.Round(f*scale) / scale
	s := fmt.Sprintf("%.*f", floatPrecision, rounded)
	s = trimTrailingZeros(s)
	buf.WriteString(s)
}

func trimTrailingZeros(s string) string {
	if !bytes.ContainsRune([]byte(s), '.') {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
