package infer

import (
	"math/rand"
	"strings"
)

// DefaultSampleCap bounds how many values are classified per column.
const DefaultSampleCap = 500

// sampleSeed fixes the sampling order so resolution is reproducible.
const sampleSeed = 42

// ColumnType pairs a sanitized column name with its resolved tag. Order is
// significant: it mirrors the dataset's column order and drives both DDL
// construction and insert statements.
type ColumnType struct {
	Name string
	Tag  TypeTag
}

// Resolve determines the storage tag for one column's values.
//
// Uninformative cells are dropped, a deterministic sample of at most limit
// values is drawn, and each sampled value is classified. The distinct tag set
// is then collapsed by a fixed priority:
//
//   - empty set           -> TEXT
//   - any TEXT in the set -> TEXT (a value that failed the narrower parses
//     would be rejected at load time)
//   - otherwise INTEGER > FLOAT > TIMESTAMP
//
// Resolution is idempotent for a fixed limit and unchanged column.
func Resolve(cells []string, limit int) TypeTag {
	if limit <= 0 {
		limit = DefaultSampleCap
	}

	informative := make([]string, 0, len(cells))
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			informative = append(informative, c)
		}
	}

	tags := make(map[TypeTag]struct{}, 4)
	for _, v := range sampleValues(informative, limit) {
		if tag, ok := Classify(v); ok {
			tags[tag] = struct{}{}
		}
	}

	if len(tags) == 0 {
		return TypeText
	}
	if _, ok := tags[TypeText]; ok {
		return TypeText
	}
	for _, tag := range []TypeTag{TypeInteger, TypeFloat, TypeTimestamp} {
		if _, ok := tags[tag]; ok {
			return tag
		}
	}
	return TypeText
}

// sampleValues draws at most limit values from vals using a fixed-seed shuffle
// of the index space. When the column is small enough the whole column is the
// sample.
func sampleValues(vals []string, limit int) []string {
	if len(vals) <= limit {
		return vals
	}

	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	r := rand.New(rand.NewSource(sampleSeed))
	r.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = vals[idx[i]]
	}
	return out
}
