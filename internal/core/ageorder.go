package core

import (
	"math"
	"regexp"
	"sort"
	"unicode"
)

// AgeSentinel is the sort key for labels without a usable number.
// It is larger than any real age so such labels sort last.
const AgeSentinel = 999

// ageDigits matches the first run of two or more decimal digits in any
// script ("13-19세" → "13", "２０대" → "２０").
var ageDigits = regexp.MustCompile(`\p{Nd}{2,}`)

// AgeSortKey derives a display-order key from an age-group label.
//
//	AgeSortKey("13-19세") == 13
//	AgeSortKey("20대")    == 20
//	AgeSortKey("기타")    == AgeSentinel
//
// The key is for ordering only; two labels sharing a key are still distinct groups.
func AgeSortKey(label string) int {
	m := ageDigits.FindString(label)
	if m == "" {
		return AgeSentinel
	}
	n := 0
	for _, r := range m {
		d := digitValue(r)
		if n > (math.MaxInt-d)/10 {
			return math.MaxInt
		}
		n = n*10 + d
	}
	return n
}

// digitValue returns the value of a Unicode decimal digit.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	// Decimal digits come in contiguous runs of ten, each starting at zero.
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}

// SortAgeLabels returns a sorted copy of labels ordered by AgeSortKey,
// ties broken lexically. The input is not modified and nothing is merged.
func SortAgeLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := AgeSortKey(out[i]), AgeSortKey(out[j])
		if ki != kj {
			return ki < kj
		}
		return out[i] < out[j]
	})
	return out
}
