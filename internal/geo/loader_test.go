package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := `# id,unique_id,lat,lon,name
1,1,45.5,13.25,sheraton inn
2, 1 ,45.5001,13.2501,sheraton inn
0x10,,1,2
`
	pts, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 3)

	assert.Equal(t, Point{ID: 1, UniqueID: 1, Lat: 45.5, Lon: 13.25, Label: "sheraton inn"}, pts[0])
	assert.Equal(t, int64(1), pts[1].UniqueID)
	assert.Equal(t, Point{ID: 16, Lat: 1, Lon: 2}, pts[2])
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"ShortRow", "1,1,2\n", "line 1"},
		{"BadLat", "1,1,2,3\n1,1,x,3\n", "line 2: lat"},
		{"BadID", "z,1,2,3\n", "line 1: id"},
		{"NaN", "1,1,NaN,3\n", "not finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReadNDJSON(t *testing.T) {
	in := `{"id":1,"unique_id":1,"lat":0,"lon":0.5,"label":"a"}

{"lat":1,"lon":2}
`
	pts, err := ReadNDJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, Point{ID: 1, UniqueID: 1, Lon: 0.5, Label: "a"}, pts[0])
	assert.Equal(t, Point{Lat: 1, Lon: 2}, pts[1])

	_, err = ReadNDJSON(strings.NewReader(`{"lat":1}`))
	assert.ErrorContains(t, err, "line 1")

	_, err = ReadNDJSON(strings.NewReader("{\"lat\":1,\"lon\":1}\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestLoadDetectsFormat(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "points.csv")
	jsonPath := filepath.Join(dir, "points.ndjson")
	require.NoError(t, os.WriteFile(csvPath, []byte("1,1,1,2,x\n"), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"lat":1,"lon":2}`+"\n"), 0o644))

	pts, err := Load(csvPath, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []Point{{ID: 1, UniqueID: 1, Lat: 1, Lon: 2, Label: "x"}}, pts)

	pts, err = Load(jsonPath, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Lat: 1, Lon: 2}}, pts)

	_, err = Load(filepath.Join(dir, "missing.csv"), FormatCSV)
	assert.Error(t, err)

	_, err = Load(csvPath, Format("xml"))
	assert.ErrorContains(t, err, "unknown format")
}
