package imagery

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"agrivision/farm-portal-backend/pkg/geospatial"
)

// supported vegetation index types, lowercased as the model service expects.
var supportedIndexes = map[string]bool{
	"ndvi": true,
	"ndre": true,
	"savi": true,
	"evi":  true,
}

// TileSource fetches imagery for a bounding box.
type TileSource interface {
	Authenticate(ctx context.Context) error
	FetchTile(ctx context.Context, box geospatial.Box) ([]byte, error)
}

// Inferrer runs an index model over an imagery tile.
type Inferrer interface {
	Infer(ctx context.Context, tiff []byte, modelType string) (*InferenceResult, error)
}

// Service orchestrates the token -> imagery -> inference chain.
type Service struct {
	tiles    TileSource
	inferrer Inferrer
	logger   *zap.Logger
}

// NewService creates a new imagery analysis service.
func NewService(tiles TileSource, inferrer Inferrer, logger *zap.Logger) *Service {
	return &Service{tiles: tiles, inferrer: inferrer, logger: logger}
}

// AnalysisResult is the pipeline output relayed to the caller.
type AnalysisResult struct {
	ModelUsed     string           `json:"model_used"`
	HeatmapBase64 string           `json:"heatmap_base64"`
	Statistics    any              `json:"statistics"`
	Bounds        AnalysisBounds   `json:"bounds"`
}

// AnalysisBounds is the WGS84 extent of the heatmap image. The key names are
// part of the wire contract with the map overlay renderer.
type AnalysisBounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// ValidIndexType reports whether the requested index maps to a known model.
func ValidIndexType(indexType string) bool {
	return supportedIndexes[strings.ToLower(indexType)]
}

// AnalyzeRegion runs the full pipeline for a point and radius. The steps are
// strictly sequential because each step's output feeds the next; the first
// failure aborts the whole chain with no partial result.
func (s *Service) AnalyzeRegion(ctx context.Context, lat, lng float64, indexType string, radiusKm float64) (*AnalysisResult, error) {
	modelType := strings.ToLower(indexType)
	if !supportedIndexes[modelType] {
		return nil, fmt.Errorf("unsupported index type: %s", indexType)
	}

	box, err := geospatial.BoundingBox(lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("invalid region: %w", err)
	}

	if err := s.tiles.Authenticate(ctx); err != nil {
		return nil, err
	}

	tiff, err := s.tiles.FetchTile(ctx, box)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Fetched imagery tile",
		zap.String("index", modelType),
		zap.Int("tiff_bytes", len(tiff)))

	inference, err := s.inferrer.Infer(ctx, tiff, modelType)
	if err != nil {
		return nil, err
	}

	var stats any
	if len(inference.Statistics) > 0 {
		stats = inference.Statistics
	}

	return &AnalysisResult{
		ModelUsed:     inference.ModelUsed,
		HeatmapBase64: inference.HeatmapBase64,
		Statistics:    stats,
		Bounds: AnalysisBounds{
			MinLat: box.MinLat,
			MaxLat: box.MaxLat,
			MinLng: box.MinLng,
			MaxLng: box.MaxLng,
		},
	}, nil
}
