package geospatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentroidArithmeticMean(t *testing.T) {
	c, err := Centroid([]Point{{0, 0}, {0, 2}, {2, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, c.Lat, 1e-9)
	assert.InDelta(t, 2.0/3.0, c.Lng, 1e-9)
}

func TestCentroidIsNotAreaWeighted(t *testing.T) {
	// A thin sliver with many vertices clustered near one end. The vertex
	// mean is pulled toward the cluster; the true area centroid would not be.
	poly := []Point{{0, 0}, {0, 10}, {0.1, 10}, {0.1, 9.9}, {0.1, 9.8}, {0.1, 0}}
	c, err := Centroid(poly)
	require.NoError(t, err)
	assert.InDelta(t, 0.4/6.0, c.Lat, 1e-9)
	assert.InDelta(t, (10+10+9.9+9.8)/6.0, c.Lng, 1e-9)
}

func TestCentroidEmpty(t *testing.T) {
	_, err := Centroid(nil)
	assert.Error(t, err)
}

func TestBoundingBoxAtEquator(t *testing.T) {
	box, err := BoundingBox(0, 0, 2)
	require.NoError(t, err)

	span := 1.0 / 111.0
	assert.InDelta(t, -span, box.MinLng, 1e-9)
	assert.InDelta(t, -span, box.MinLat, 1e-9)
	assert.InDelta(t, span, box.MaxLng, 1e-9)
	assert.InDelta(t, span, box.MaxLat, 1e-9)
}

func TestBoundingBoxLongitudeScaling(t *testing.T) {
	// cos(60 deg) = 0.5, so the longitude half-span doubles the latitude one.
	box, err := BoundingBox(60, 10, 4)
	require.NoError(t, err)

	latSpan := box.MaxLat - 60
	lngSpan := box.MaxLng - 10
	assert.InDelta(t, 2*latSpan, lngSpan, 1e-9)
	assert.True(t, box.MinLng < box.MaxLng)
	assert.True(t, box.MinLat < box.MaxLat)
}

func TestBoundingBoxPoleGuard(t *testing.T) {
	_, err := BoundingBox(90, 0, 2)
	assert.Error(t, err)
	_, err = BoundingBox(-90, 0, 2)
	assert.Error(t, err)
}

func TestBoundingBoxZeroRadius(t *testing.T) {
	_, err := BoundingBox(0, 0, 0)
	assert.Error(t, err)
}

func TestPointInPolygonUnitSquare(t *testing.T) {
	square := []Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	assert.True(t, PointInPolygon(Point{0.5, 0.5}, square))
	assert.False(t, PointInPolygon(Point{1.5, 0.5}, square))
	assert.False(t, PointInPolygon(Point{-0.1, -0.1}, square))
	assert.False(t, PointInPolygon(Point{0, 0}, square))
}

func TestPointInPolygonBoundary(t *testing.T) {
	square := []Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	// Every vertex counts as outside.
	for _, v := range square {
		assert.False(t, PointInPolygon(v, square), v)
	}

	// Points on an edge count as outside.
	assert.False(t, PointInPolygon(Point{0, 0.5}, square))
	assert.False(t, PointInPolygon(Point{0.5, 1}, square))
	assert.False(t, PointInPolygon(Point{1, 0.5}, square))

	// Just inside the boundary still counts.
	assert.True(t, PointInPolygon(Point{0.001, 0.5}, square))
}

func TestPointInPolygonDegenerate(t *testing.T) {
	assert.False(t, PointInPolygon(Point{0, 0}, []Point{{1, 1}, {2, 2}}))
	assert.False(t, PointInPolygon(Point{0, 0}, nil))
}

func TestPointInPolygonConcave(t *testing.T) {
	// L-shaped polygon; the notch must be outside.
	l := []Point{{0, 0}, {0, 2}, {1, 2}, {1, 1}, {2, 1}, {2, 0}}
	assert.True(t, PointInPolygon(Point{0.5, 0.5}, l))
	assert.True(t, PointInPolygon(Point{0.5, 1.5}, l))
	assert.False(t, PointInPolygon(Point{1.5, 1.5}, l))
}

func TestColorDistance(t *testing.T) {
	assert.Equal(t, 0.0, ColorDistance(RGB{10, 20, 30}, RGB{10, 20, 30}))
	assert.InDelta(t, math.Sqrt(3), ColorDistance(RGB{0, 0, 0}, RGB{1, 1, 1}), 1e-9)
}

func TestClosestLegendBand(t *testing.T) {
	bands := Palettes["ndvi"]

	// Exact palette color.
	band, ok := ClosestLegendBand(RGB{26, 150, 65}, bands)
	require.True(t, ok)
	assert.Equal(t, "Excellent", band.Label)

	// Slightly off a band still matches.
	band, ok = ClosestLegendBand(RGB{210, 30, 30}, bands)
	require.True(t, ok)
	assert.Equal(t, "Poor", band.Label)

	// Far from every band: no match past the fixed threshold.
	_, ok = ClosestLegendBand(RGB{255, 255, 255}, bands)
	assert.False(t, ok)
}

func TestPalettesHaveFourBands(t *testing.T) {
	for index, bands := range Palettes {
		assert.Len(t, bands, 4, index)
	}
}
