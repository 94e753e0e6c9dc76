package geospatial

import (
	"errors"
	"math"
)

const (
	// Kilometres per degree of latitude, and per degree of longitude at the
	// equator. Longitude shrinks by cos(lat) away from the equator.
	kmPerDegree = 111.0

	// LegendMatchThreshold is the maximum Euclidean RGB distance for a pixel
	// to be attributed to a legend band.
	LegendMatchThreshold = 150.0
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Box is an axis-aligned bounding rectangle in lng/lat space.
type Box struct {
	MinLng float64 `json:"minLng"`
	MinLat float64 `json:"minLat"`
	MaxLng float64 `json:"maxLng"`
	MaxLat float64 `json:"maxLat"`
}

// Centroid returns the arithmetic mean of the vertices. This is deliberately
// not the area-weighted polygon centroid; for the roughly convex field shapes
// drawn in the app the two agree closely enough.
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, errors.New("centroid of empty point list")
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}

	n := float64(len(points))
	return Point{Lat: sumLat / n, Lng: sumLng / n}, nil
}

// BoundingBox returns a square box centred on (lat, lng) whose sides span
// radiusKm, using the flat-earth degrees-per-km approximation.
func BoundingBox(lat, lng, radiusKm float64) (Box, error) {
	if math.Abs(lat) >= 90 {
		return Box{}, errors.New("latitude too close to a pole for a planar bounding box")
	}
	if radiusKm <= 0 {
		return Box{}, errors.New("radius must be positive")
	}

	halfKm := radiusKm / 2
	latSpan := halfKm / kmPerDegree
	lngSpan := halfKm / (kmPerDegree * math.Cos(lat*math.Pi/180))

	return Box{
		MinLng: lng - lngSpan,
		MinLat: lat - latSpan,
		MaxLng: lng + lngSpan,
		MaxLat: lat + latSpan,
	}, nil
}

// PointInPolygon reports whether p lies strictly inside poly using ray
// casting. Points on an edge or vertex are not inside. It runs on every
// hover event, so it must stay allocation-free.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if onSegment(p, pi, pj) {
			return false
		}
		if (pi.Lat > p.Lat) != (pj.Lat > p.Lat) {
			x := (pj.Lng-pi.Lng)*(p.Lat-pi.Lat)/(pj.Lat-pi.Lat) + pi.Lng
			if p.Lng < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b Point) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if cross != 0 {
		return false
	}
	return p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat) &&
		p.Lng >= math.Min(a.Lng, b.Lng) && p.Lng <= math.Max(a.Lng, b.Lng)
}

// RGB is a sampled pixel color.
type RGB struct {
	R, G, B float64
}

// LegendBand is one entry of a vegetation-index color legend.
type LegendBand struct {
	Label string
	Color RGB
}

// ColorDistance returns the Euclidean distance between two colors in RGB space.
func ColorDistance(a, b RGB) float64 {
	dr := a.R - b.R
	dg := a.G - b.G
	db := a.B - b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ClosestLegendBand matches a sampled pixel against a legend palette. The
// second return is false when no band is within LegendMatchThreshold.
func ClosestLegendBand(c RGB, bands []LegendBand) (LegendBand, bool) {
	best := LegendBand{}
	bestDist := math.MaxFloat64
	for _, band := range bands {
		if d := ColorDistance(c, band.Color); d < bestDist {
			bestDist = d
			best = band
		}
	}
	if bestDist >= LegendMatchThreshold {
		return LegendBand{}, false
	}
	return best, true
}

// Palettes holds the per-index legend colors rendered by the map overlay.
// The hover tooltip matches sampled pixels against these exact values, so
// they must stay in sync with the heatmap colormap used by the model service.
var Palettes = map[string][]LegendBand{
	"ndvi": {
		{Label: "Poor", Color: RGB{215, 25, 28}},
		{Label: "Moderate", Color: RGB{253, 174, 97}},
		{Label: "Good", Color: RGB{166, 217, 106}},
		{Label: "Excellent", Color: RGB{26, 150, 65}},
	},
	"ndre": {
		{Label: "Low Nitrogen", Color: RGB{202, 0, 32}},
		{Label: "Below Average", Color: RGB{244, 165, 130}},
		{Label: "Adequate", Color: RGB{146, 197, 222}},
		{Label: "High Nitrogen", Color: RGB{5, 113, 176}},
	},
	"savi": {
		{Label: "Bare Soil", Color: RGB{166, 97, 26}},
		{Label: "Sparse", Color: RGB{223, 194, 125}},
		{Label: "Moderate", Color: RGB{128, 205, 193}},
		{Label: "Dense", Color: RGB{1, 133, 113}},
	},
	"evi": {
		{Label: "Stressed", Color: RGB{123, 50, 148}},
		{Label: "Low Vigor", Color: RGB{194, 165, 207}},
		{Label: "Healthy", Color: RGB{166, 219, 160}},
		{Label: "Very Healthy", Color: RGB{0, 136, 55}},
	},
}
