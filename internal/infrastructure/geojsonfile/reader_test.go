package geojsonfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/config"
)

var defaultKeys = config.FeatureProperties{
	ID:        "id",
	Name1:     "nam",
	Name2:     "fna",
	Name3:     "gna",
	RegionTag: "region",
}

func TestReader_ReadFile(t *testing.T) {
	r := NewReader(defaultKeys, zap.NewNop())

	col, err := r.ReadFile("testdata/barrios.geojson")
	require.NoError(t, err)

	assert.Equal(t, 5, col.Total)
	require.Len(t, col.Features, 2)
	require.Len(t, col.Errors, 3)

	palermo := col.Features[0]
	assert.Equal(t, "ar-caba-palermo", palermo.Record.ExternalID)
	assert.Equal(t, "Comuna 14", palermo.Record.Name1)
	assert.Equal(t, "Palermo", palermo.Record.Name2)
	assert.Equal(t, "Ciudad Autónoma de Buenos Aires", palermo.Record.Name3)
	assert.Equal(t, "ciudad autonoma de buenos aires", palermo.Record.RegionTag)
	assert.Equal(t, 4, palermo.Record.Boundary.Len())
	require.NotNil(t, palermo.Centroid)
	assert.InDelta(t, -58.415, palermo.Centroid.Lng, 1e-9)
	assert.InDelta(t, -34.575, palermo.Centroid.Lat, 1e-9)

	tolosa := col.Features[1]
	assert.Equal(t, "1064", tolosa.Record.ExternalID)
	assert.Equal(t, [2]float64{-57.98, -34.90}, tolosa.Record.Boundary[0])
	assert.Equal(t, 4, tolosa.Record.Boundary.Len())
	require.NotNil(t, tolosa.Centroid)
	assert.InDelta(t, -57.97, tolosa.Centroid.Lng, 1e-9)

	assert.Equal(t, "ar-point", col.Errors[0].ExternalID)
	assert.Contains(t, col.Errors[0].Reason, "Point")
	assert.Equal(t, 3, col.Errors[1].Index)
	assert.Equal(t, "missing id", col.Errors[1].Reason)
	assert.Equal(t, "missing geometry", col.Errors[2].Reason)
}

func TestReader_ConfigurableKeys(t *testing.T) {
	keys := config.FeatureProperties{ID: "gid", Name2: "barrio", Name3: "provincia"}
	r := NewReader(keys, zap.NewNop())

	col, err := r.Parse([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"gid":"x-1","barrio":" Belgrano ","provincia":"CABA"},
		 "geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2]]]}}
	]}`))
	require.NoError(t, err)
	require.Len(t, col.Features, 1)
	assert.Equal(t, "x-1", col.Features[0].Record.ExternalID)
	assert.Equal(t, "Belgrano", col.Features[0].Record.Name2)
	assert.Empty(t, col.Features[0].Record.Name1)
}

func TestReader_FeatureLevelID(t *testing.T) {
	r := NewReader(defaultKeys, zap.NewNop())

	col, err := r.Parse([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"top-1","properties":{"fna":"Nuñez"},
		 "geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2]]]}}
	]}`))
	require.NoError(t, err)
	require.Len(t, col.Features, 1)
	assert.Equal(t, "top-1", col.Features[0].Record.ExternalID)
}

func TestReader_InvalidDocument(t *testing.T) {
	r := NewReader(defaultKeys, zap.NewNop())

	for _, in := range []string{`not json`, `{"type":"Feature"}`, `{"type":"FeatureCollection"}`, `[]`} {
		_, err := r.Parse([]byte(in))
		assert.ErrorIs(t, err, ErrNotFeatureCollection, "input %q", in)
	}

	_, err := r.ReadFile("testdata/missing.geojson")
	assert.Error(t, err)
}

func TestReader_MalformedGeometryIsPerFeature(t *testing.T) {
	r := NewReader(defaultKeys, zap.NewNop())

	col, err := r.Parse([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"id":"bad"},"geometry":{"type":"Polygon","coordinates":"oops"}},
		{"type":"Feature","properties":{"id":"ok"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2]]]}}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, col.Total)
	require.Len(t, col.Errors, 1)
	assert.Equal(t, "bad", col.Errors[0].ExternalID)
	require.Len(t, col.Features, 1)
}
