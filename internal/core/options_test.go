package core

import (
	"testing"

	"github.com/JonMunkholm/ottdash/internal/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveOptions_Wide(t *testing.T) {
	ds := wideDataset(t)

	want := FilterOptions{
		SexValues:       []string{"남성", "여성"},
		AgeValues:       []string{"13-19세", "20대", "70세 이상", "기타"},
		SexChoices:      []string{"전체", "남성", "여성"},
		AgeChoices:      []string{"전체", "13-19세", "20대", "70세 이상", "기타"},
		Services:        []string{"YouTube", "Netflix", "TVING", "Wavve", "Disney+"},
		DefaultServices: []string{"YouTube", "Netflix", "TVING", "Wavve"},
	}
	if diff := cmp.Diff(want, ds.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveOptions_NoSexRows(t *testing.T) {
	tbl, err := NewTable("t", []string{"구분1", "구분2", "YouTube"}, [][]string{
		{"연령별", "30대", "85.0"},
		{"연령별", "20대", "92.3"},
	})
	require.NoError(t, err)

	ds, err := Prepare(tbl, schema.Default())
	require.NoError(t, err)

	assert.NotNil(t, ds.Options.SexValues)
	assert.Empty(t, ds.Options.SexValues)
	assert.Equal(t, []string{"전체"}, ds.Options.SexChoices)
	assert.Equal(t, []string{"20대", "30대"}, ds.Options.AgeValues)
}

func TestDeriveOptions_FewerServicesThanDefault(t *testing.T) {
	tbl, err := NewTable("t", []string{"구분1", "구분2", "YouTube", "Netflix"}, [][]string{
		{"성별", "남성", "80.1", "40.2"},
	})
	require.NoError(t, err)

	ds, err := Prepare(tbl, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"YouTube", "Netflix"}, ds.Options.DefaultServices)
}

func TestDeriveOptions_Long(t *testing.T) {
	ds, err := Prepare(longTable(t), schema.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"YouTube", "Netflix"}, ds.Options.Services)
	assert.Equal(t, []string{"남성", "여성"}, ds.Options.SexValues)
	assert.Equal(t, []string{"20대"}, ds.Options.AgeValues)
}

func TestFilterOptions_Selected(t *testing.T) {
	opts := FilterOptions{Services: []string{"YouTube", "Netflix", "TVING"}}

	assert.Equal(t, []string{"YouTube", "TVING"}, opts.Selected([]string{"TVING", "Hulu", "YouTube"}))
	assert.Empty(t, opts.Selected(nil))
}
