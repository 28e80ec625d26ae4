package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgeSortKey(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"13-19세", 13},
		{"20대", 20},
		{"70세 이상", 70},
		{"만 60세 이상", 60},
		{"기타", AgeSentinel},
		{"", AgeSentinel},
		{"9세", AgeSentinel},
		{"100세 이상", 100},
		{"12345", 12345},
		{"1234세", 1234},
		{"２０대", 20},
		{"６０세 이상", 60},
		{"٣٥", 35},
		{"99999999999999999999999", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeSortKey(tt.label))
		})
	}
}

func TestSortAgeLabels(t *testing.T) {
	in := []string{"기타", "20대", "70세 이상", "13-19세", "20-29세", "무응답"}

	got := SortAgeLabels(in)

	assert.Equal(t, []string{"13-19세", "20-29세", "20대", "70세 이상", "기타", "무응답"}, got)
	// Input untouched and nothing merged.
	assert.Equal(t, "기타", in[0])
	assert.Len(t, got, len(in))
}

func TestSortAgeLabels_FullWidthDigits(t *testing.T) {
	got := SortAgeLabels([]string{"３０대", "기타", "２０대", "25-29세"})

	assert.Equal(t, []string{"２０대", "25-29세", "３０대", "기타"}, got)
}
