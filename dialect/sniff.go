package dialect

import (
	"github.com/shapestone/csvdialect/internal/fastparser"
)

// sniffCandidates are the delimiters Sniff trials, in order of preference
// when two score equally.
var sniffCandidates = []byte{',', '\t', ';', '|'}

// Sniff makes a best-effort guess at the dialect of sample, a prefix of a
// CSV stream, and returns a Format built from that guess. It never inspects
// the whole input: callers pass a bounded prefix (a few KB is typical).
//
// Sniff is not invoked implicitly anywhere in this package; callers opt
// into it explicitly when the dialect of an input is not already known.
// The guess always quotes with '"', detects the header from the first
// record, and trims no surrounding whitespace; callers wanting something
// different should take the returned Format's Builder and override it.
func Sniff(sample []byte) (Format, error) {
	bestDelim := sniffCandidates[0]
	bestScore := -1

	for _, delim := range sniffCandidates {
		records, err := fastparser.ParseDialect(sample, delim, '"')
		if err != nil || len(records) == 0 {
			continue
		}
		score := consistencyScore(records)
		if score > bestScore {
			bestScore = score
			bestDelim = delim
		}
	}

	return NewBuilder().
		Delimiter(string(bestDelim)).
		AutoHeader().
		Get()
}

// consistencyScore rewards more fields per record and penalizes records
// whose field count disagrees with the first record's, so a delimiter that
// happens to appear inside unquoted free text (producing a ragged field
// count) loses to the delimiter that actually separates columns.
func consistencyScore(records [][]string) int {
	if len(records) == 0 || len(records[0]) < 2 {
		return 0
	}
	want := len(records[0])
	score := want * len(records)
	for _, rec := range records[1:] {
		if len(rec) != want {
			score -= want
		}
	}
	return score
}
