package fields

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"agrivision/farm-portal-backend/pkg/geospatial"
)

// Service provides field business logic
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new field service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ProcessRegion validates a drawn polygon, derives its centroid and area, and
// persists the field for the owning user.
func (s *Service) ProcessRegion(ctx context.Context, req ProcessRegionRequest) (*ProcessRegionResponse, error) {
	if len(req.PolygonCoord) < 3 {
		return nil, errors.New("polygon must have at least 3 vertices")
	}

	centroid, err := geospatial.Centroid(req.PolygonCoord)
	if err != nil {
		return nil, fmt.Errorf("failed to compute centroid: %w", err)
	}

	areaHa, err := polygonAreaHectares(req.PolygonCoord)
	if err != nil {
		return nil, fmt.Errorf("invalid polygon geometry: %w", err)
	}

	boundary, err := json.Marshal(req.PolygonCoord)
	if err != nil {
		return nil, fmt.Errorf("failed to encode boundary: %w", err)
	}

	field := &Field{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Name:         req.Name,
		CropName:     req.CropName,
		SowingDate:   req.SowingDate,
		Lat:          centroid.Lat,
		Lng:          centroid.Lng,
		AreaHectares: areaHa,
		Boundary:     boundary,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.CreateField(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to store field: %w", err)
	}

	s.logger.Info("Field region processed",
		zap.String("field_id", field.ID.String()),
		zap.String("user_id", req.UserID),
		zap.Float64("area_ha", areaHa))

	return &ProcessRegionResponse{
		Message:  "Region processed successfully",
		FieldID:  field.ID,
		Centroid: centroid,
		AreaHa:   areaHa,
	}, nil
}

// ListFields returns the user's fields, newest first.
func (s *Service) ListFields(ctx context.Context, userID string) ([]Field, error) {
	return s.repo.ListFieldsByUser(ctx, userID)
}

// DeleteField removes a field owned by the user.
func (s *Service) DeleteField(ctx context.Context, userID string, fieldID uuid.UUID) error {
	return s.repo.DeleteField(ctx, userID, fieldID)
}

// ErrFieldNotFound is returned when a field does not exist or belongs to a
// different user.
var ErrFieldNotFound = errors.New("field not found")

// FieldBoundary loads a field owned by the user and returns its boundary as a
// GeoJSON feature.
func (s *Service) FieldBoundary(ctx context.Context, userID string, fieldID uuid.UUID) (*geojson.Feature, error) {
	field, err := s.repo.GetFieldByID(ctx, fieldID)
	if err != nil {
		return nil, ErrFieldNotFound
	}
	if field.UserID != userID {
		return nil, ErrFieldNotFound
	}
	return BoundaryFeature(field)
}

// BoundaryFeature exposes a stored boundary as a GeoJSON feature for map
// clients.
func BoundaryFeature(field *Field) (*geojson.Feature, error) {
	var points []geospatial.Point
	if err := json.Unmarshal(field.Boundary, &points); err != nil {
		return nil, fmt.Errorf("failed to decode boundary: %w", err)
	}

	ring, err := toRing(points)
	if err != nil {
		return nil, err
	}

	feature := geojson.NewFeature(orb.Polygon{ring})
	feature.Properties["fieldId"] = field.ID.String()
	feature.Properties["name"] = field.Name
	return feature, nil
}

// polygonAreaHectares computes the geodesic area of the drawn polygon.
func polygonAreaHectares(points []geospatial.Point) (float64, error) {
	ring, err := toRing(points)
	if err != nil {
		return 0, err
	}
	return convertToHectares(geo.Area(orb.Polygon{ring})), nil
}

func toRing(points []geospatial.Point) (orb.Ring, error) {
	if len(points) < 3 {
		return nil, errors.New("ring needs at least 3 points")
	}

	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

// convertToHectares converts square meters to hectares
func convertToHectares(sqMeters float64) float64 {
	if sqMeters < 0 {
		sqMeters = -sqMeters
	}
	return sqMeters / 10000
}
