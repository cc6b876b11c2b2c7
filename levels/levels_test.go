package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllLevels(t *testing.T) {
	all, err := All()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "Bumpy Flats", all[0].Name)
	assert.Equal(t, 10, all[0].TargetScore)
	assert.Equal(t, 10, all[0].LineMinBlocks)
	assert.Len(t, all[0].TerrainPoints, 17)
	assert.Equal(t, Rect{X: 200, Y: 76, W: 880, H: 600}, all[0].ScanArea)

	assert.Equal(t, "Jagged Peaks", all[1].Name)
	assert.Equal(t, 20, all[1].TargetScore)
	assert.Equal(t, 6, all[1].LineMinBlocks)
}

func TestLoadByName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"01_bumpy_flats.yaml", "Bumpy Flats"},
		{"levels/02_jagged_peaks.yaml", "Jagged Peaks"},
		{"02_jagged_peaks", "Jagged Peaks"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lvl, err := Load(c.name)
			require.NoError(t, err)
			assert.Equal(t, c.want, lvl.Name)
		})
	}

	_, err := Load("missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseDefaultsAndValidation(t *testing.T) {
	doc := `
name: Flat
target_score: 5
terrain_points: [{x: 0, y: 0}, {x: 100, y: 0}]
scan_area: {x: 0, y: 0, w: 100, h: 50}
`
	lvl, err := Parse("flat.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, DefaultLineMinBlocks, lvl.LineMinBlocks)

	cases := []struct {
		name string
		doc  string
	}{
		{"no_name", "target_score: 1\nterrain_points: [{x: 0, y: 0}, {x: 1, y: 0}]\nscan_area: {w: 1, h: 1}"},
		{"no_target", "name: a\nterrain_points: [{x: 0, y: 0}, {x: 1, y: 0}]\nscan_area: {w: 1, h: 1}"},
		{"one_point", "name: a\ntarget_score: 1\nterrain_points: [{x: 0, y: 0}]\nscan_area: {w: 1, h: 1}"},
		{"empty_scan", "name: a\ntarget_score: 1\nterrain_points: [{x: 0, y: 0}, {x: 1, y: 0}]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.name, []byte(c.doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestRowY(t *testing.T) {
	r := Rect{X: 200, Y: 100, W: 880, H: 500}
	assert.InDelta(t, 100, r.RowY(0, 20), 1e-9)
	assert.InDelta(t, 125, r.RowY(1, 20), 1e-9)
	assert.InDelta(t, 575, r.RowY(19, 20), 1e-9)
	assert.InDelta(t, 100, r.RowY(3, 0), 1e-9)
}

func TestIndex(t *testing.T) {
	i, err := Index("02_jagged_peaks")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = Index("levels/01_bumpy_flats.yaml")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = Index("99_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
