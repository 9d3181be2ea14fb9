package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mappertrip/geosync/internal/domain"
)

var square = orb.Ring{{0, 0}, {4, 0}, {4, 2}, {0, 2}, {0, 0}}
var hole = orb.Ring{{1, 1}, {2, 1}, {2, 1.5}, {1, 1}}
var far = orb.Ring{{10, 10}, {11, 10}, {11, 11}, {10, 10}}

func TestOuterRing_Polygon(t *testing.T) {
	ring, ok := OuterRing(orb.Polygon{square, hole})
	require.True(t, ok)
	assert.Equal(t, domain.Ring{{0, 0}, {4, 0}, {4, 2}, {0, 2}, {0, 0}}, ring)
}

func TestOuterRing_MultiPolygon(t *testing.T) {
	ring, ok := OuterRing(orb.MultiPolygon{{square, hole}, {far}})
	require.True(t, ok)
	assert.Len(t, ring, len(square))
	assert.Equal(t, [2]float64{4, 2}, ring[2])
}

func TestOuterRing_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
	}{
		{"point", orb.Point{1, 2}},
		{"line string", orb.LineString{{0, 0}, {1, 1}}},
		{"nil", nil},
		{"empty polygon", orb.Polygon{}},
		{"empty multipolygon", orb.MultiPolygon{}},
		{"polygon with empty ring", orb.Polygon{orb.Ring{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring, ok := OuterRing(tt.geom)
			assert.False(t, ok)
			assert.Nil(t, ring)
		})
	}
}

func TestCentroid_BareRing(t *testing.T) {
	p, ok := Centroid([]byte(`[[0,0],[4,0],[4,2],[0,2]]`))
	require.True(t, ok)
	assert.InDelta(t, 2.0, p.Lng, 1e-9)
	assert.InDelta(t, 1.0, p.Lat, 1e-9)
}

func TestCentroid_GeometryWrapper(t *testing.T) {
	t.Run("wrapper with ring", func(t *testing.T) {
		p, ok := Centroid([]byte(`{"type":"Ring","coordinates":[[-58.4,-34.6],[-58.2,-34.6],[-58.3,-34.4]]}`))
		require.True(t, ok)
		assert.InDelta(t, -58.3, p.Lng, 1e-9)
		assert.InDelta(t, -34.5333333, p.Lat, 1e-6)
	})

	t.Run("polygon wrapper uses first ring", func(t *testing.T) {
		p, ok := Centroid([]byte(`{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2]],[[100,100],[101,101]]]}`))
		require.True(t, ok)
		assert.InDelta(t, 1.0, p.Lng, 1e-9)
		assert.InDelta(t, 1.0, p.Lat, 1e-9)
	})

	t.Run("multipolygon wrapper uses first ring of first polygon", func(t *testing.T) {
		p, ok := Centroid([]byte(`{"type":"MultiPolygon","coordinates":[[[[0,0],[4,0],[4,4],[0,4]]],[[[50,50],[51,51]]]]}`))
		require.True(t, ok)
		assert.InDelta(t, 2.0, p.Lng, 1e-9)
		assert.InDelta(t, 2.0, p.Lat, 1e-9)
	})
}

func TestCentroid_SkipsMalformedVertices(t *testing.T) {
	p, ok := Centroid([]byte(`[[0,0],"bad",[1],null,["x",2],[2,4]]`))
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.Lng, 1e-9)
	assert.InDelta(t, 2.0, p.Lat, 1e-9)
}

func TestCentroid_NoValidPairs(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`[]`,
		`{"coordinates":[]}`,
		`[["a","b"],[1]]`,
		`{"type":"Point"}`,
		`not json`,
	}
	for _, in := range inputs {
		_, ok := Centroid([]byte(in))
		assert.False(t, ok, "input %q", in)
	}
}

func TestRingCentroid_MatchesRawCentroid(t *testing.T) {
	ring := domain.Ring{{-58.45, -34.58}, {-58.40, -34.57}, {-58.41, -34.60}, {-58.45, -34.58}}

	fromRing, ok := RingCentroid(ring)
	require.True(t, ok)

	raw, err := ring.Value()
	require.NoError(t, err)
	fromRaw, ok := Centroid([]byte(raw.(string)))
	require.True(t, ok)

	assert.InDelta(t, fromRing.Lng, fromRaw.Lng, 1e-12)
	assert.InDelta(t, fromRing.Lat, fromRaw.Lat, 1e-12)
}

func TestRingCentroid_Empty(t *testing.T) {
	_, ok := RingCentroid(nil)
	assert.False(t, ok)
}
