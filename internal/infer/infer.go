// Package infer implements per-value type classification and column-level
// type resolution for tabular datasets whose cells arrive as raw text.
//
// The package is responsible for:
//   - Classifying one raw cell into a storage type tag (Classify)
//   - Resolving a single tag per column from a bounded, deterministic
//     sample of its values (Resolve)
//
// Design constraints:
//   - Classification is pure and deterministic; repeated calls on the same
//     input always return the same tag.
//   - Resolution draws its sample with a fixed seed so reruns over an
//     unmodified column produce identical results.
//   - Ambiguity between tags is never an error; it is settled by a fixed
//     priority policy.
package infer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TypeTag is the resolved storage classification of a value or column.
type TypeTag string

const (
	TypeText      TypeTag = "TEXT"
	TypeInteger   TypeTag = "INTEGER"
	TypeFloat     TypeTag = "FLOAT"
	TypeTimestamp TypeTag = "TIMESTAMP"
)

// datePrefix matches an ISO-style calendar prefix: four digits, hyphen,
// two digits, hyphen, two digits, anchored at the start of the value.
var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Classify maps one raw cell to a TypeTag.
//
// The second result is false when the cell is uninformative (missing or blank
// after trimming); callers must exclude such cells from column voting rather
// than treating them as TEXT.
//
// The rule order is a heuristic, not a grammar. Leading-zero and long-digit
// checks deliberately pre-empt numeric and date parsing so that zero-padded
// codes (postal codes, EANs) and long non-date digit strings survive as TEXT
// instead of being corrupted by numeric coercion.
func Classify(raw string) (TypeTag, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}

	dateLike := datePrefix.MatchString(v)

	if strings.HasPrefix(v, "0") && !dateLike {
		return TypeText, true
	}
	if len(v) >= 8 && !dateLike {
		return TypeText, true
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		switch {
		case strings.ContainsAny(v, ".eE"):
			return TypeFloat, true
		case math.IsInf(f, 0) || math.IsNaN(f):
			return TypeFloat, true
		case f == math.Trunc(f):
			return TypeInteger, true
		default:
			return TypeFloat, true
		}
	}

	if t, ok := parseTimeLoose(v); ok {
		if y := t.Year(); y >= 1900 && y <= 2100 {
			return TypeTimestamp, true
		}
	}

	return TypeText, true
}

// timeLayouts is the set of layouts tried, in order, by the loose time
// parse. Values of eight bytes or more only reach the parse when they carry
// an ISO date prefix, so the long layouts are ISO. Shorter values can arrive
// in compact local forms like "1/2/24" or "Jan 5", so a few of those are
// accepted too.
var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04",
	"1/2/06",
	"1-2-06",
	"Jan 2",
	"2 Jan",
}

func parseTimeLoose(s string) (time.Time, bool) {
	for _, lay := range timeLayouts {
		t, err := time.Parse(lay, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			// Layouts without a year component parse into year zero; a bare
			// day-and-month value means the current year.
			t = t.AddDate(time.Now().Year(), 0, 0)
		}
		return t, true
	}
	return time.Time{}, false
}
