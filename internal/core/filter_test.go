package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAll(t *testing.T) {
	for _, v := range []string{"", " ", "ALL", "all", "All", "전체", " 전체 "} {
		assert.True(t, IsAll(v), "IsAll(%q)", v)
	}
	for _, v := range []string{"남성", "20대", "allow"} {
		assert.False(t, IsAll(v), "IsAll(%q)", v)
	}
}

func TestFilter_SpecificValue(t *testing.T) {
	ds := wideDataset(t)

	got := Filter(ds.Records, Criteria{Dimension: DimensionSex, Value: "남성", Services: []string{"YouTube"}})

	require.Len(t, got, 1)
	assert.Equal(t, "YouTube", got[0].ServiceName)
	assert.Equal(t, "남성", got[0].GroupValue)
	assert.True(t, got[0].Percent.Valid)
	assert.InDelta(t, 80.1, got[0].Percent.Float64, 1e-9)
}

func TestFilter_AllKeepsEveryGroup(t *testing.T) {
	ds := wideDataset(t)

	for _, all := range []string{AllValue, "all", "전체", ""} {
		got := Filter(ds.Records, Criteria{Dimension: DimensionAge, Value: all})
		assert.Len(t, got, 4*5, "value %q", all)
		assert.ElementsMatch(t,
			DistinctGroupValues(ds.Records, DimensionAge),
			DistinctGroupValues(got, DimensionAge))
	}
}

func TestFilter_EmptyServicesMeansAll(t *testing.T) {
	ds := wideDataset(t)

	withNil := Filter(ds.Records, Criteria{Dimension: DimensionSex, Value: "여성"})
	withEmpty := Filter(ds.Records, Criteria{Dimension: DimensionSex, Value: "여성", Services: []string{}})

	assert.Len(t, withNil, 5)
	assert.Equal(t, withNil, withEmpty)
}

func TestFilter_NoMatchIsEmptyNotError(t *testing.T) {
	ds := wideDataset(t)

	tests := []struct {
		name string
		c    Criteria
	}{
		{"unknown group", Criteria{Dimension: DimensionSex, Value: "없음"}},
		{"unknown service", Criteria{Dimension: DimensionSex, Value: AllValue, Services: []string{"Hulu"}}},
		{"group from other dimension", Criteria{Dimension: DimensionAge, Value: "남성"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(ds.Records, tt.c)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestFilter_KeepsInputOrder(t *testing.T) {
	ds := wideDataset(t)

	got := Filter(ds.Records, Criteria{Dimension: DimensionSex, Value: AllValue, Services: []string{"Netflix", "YouTube"}})

	var order []string
	for _, r := range got {
		order = append(order, r.GroupValue+"/"+r.ServiceName)
	}
	assert.Equal(t, []string{"남성/YouTube", "남성/Netflix", "여성/YouTube", "여성/Netflix"}, order)
}

func TestDistinctGroupValues(t *testing.T) {
	ds := wideDataset(t)

	assert.Equal(t, []string{"남성", "여성"}, DistinctGroupValues(ds.Records, DimensionSex))
	assert.Equal(t, []string{"20대", "13-19세", "70세 이상", "기타"}, DistinctGroupValues(ds.Records, DimensionAge))
	assert.Nil(t, DistinctGroupValues(nil, DimensionSex))
}

func TestParseDimension(t *testing.T) {
	d, ok := ParseDimension("age")
	assert.True(t, ok)
	assert.Equal(t, DimensionAge, d)

	_, ok = ParseDimension("region")
	assert.False(t, ok)
}
