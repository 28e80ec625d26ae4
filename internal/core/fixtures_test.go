package core

import (
	"testing"

	"github.com/JonMunkholm/ottdash/internal/schema"
	"github.com/stretchr/testify/require"
)

var wideHeader = []string{"연도", "구분1", "구분2", "사례수", "YouTube", "Netflix", "TVING", "Wavve", "Disney+"}

var wideRows = [][]string{
	{"2023", "전체", "전체", "6000", "79.8", "42.6", "22.6", "9.9", "5.5"},
	{"2023", "성별", "남성", "3000", "80.1", "40.2", "20.0", "10.5", "5.1"},
	{"2023", "성별", "여성", "3000", "79.5", "45.0", "25.3", "N/A", "6.0"},
	{"2023", "연령별", "20대", "1000", "92.3", "60.1", "35.2", "12.0", "9.8"},
	{"2023", "연령별", "13-19세", "800", "95.0", "55.4", "30.1", "8.2", "11.0"},
	{"2023", "연령별", "70세 이상", "600", "41.2", "5.3", "-", "2.1", "0.4"},
	{"2023", "연령별", "기타", "50", "", "", "", "", ""},
}

func wideTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("test:wide", wideHeader, wideRows)
	require.NoError(t, err)
	return tbl
}

var longHeader = []string{"연도", "성별", "연령", "서비스명", "이용비율"}

var longRows = [][]string{
	{"2023", "남성", "전체", "YouTube", "80.1"},
	{"2023", "여성", "전체", "YouTube", "79.5"},
	{"2023", "전체", "20대", "YouTube", "92.3"},
	{"2023", "남성", "20대", "YouTube", "93.0"},
	{"2023", "전체", "전체", "YouTube", "79.8"},
	{"2023", "남성", "전체", "Netflix", "40.2"},
}

func longTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("test:long", longHeader, longRows)
	require.NoError(t, err)
	return tbl
}

func wideDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Prepare(wideTable(t), schema.Default())
	require.NoError(t, err)
	return ds
}
