package fields

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrivision/farm-portal-backend/pkg/geospatial"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateField(ctx context.Context, field *Field) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

func (m *MockRepository) ListFieldsByUser(ctx context.Context, userID string) ([]Field, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Field), args.Error(1)
}

func (m *MockRepository) GetFieldByID(ctx context.Context, id uuid.UUID) (*Field, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Field), args.Error(1)
}

func (m *MockRepository) DeleteField(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func TestProcessRegion(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	req := ProcessRegionRequest{
		UserID: "user-1",
		PolygonCoord: []geospatial.Point{
			{Lat: 18.50, Lng: 73.80},
			{Lat: 18.50, Lng: 73.82},
			{Lat: 18.52, Lng: 73.82},
			{Lat: 18.52, Lng: 73.80},
		},
		Name:     "North plot",
		CropName: "wheat",
	}

	mockRepo.On("CreateField", ctx, mock.AnythingOfType("*fields.Field")).Return(nil)

	resp, err := service.ProcessRegion(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Region processed successfully", resp.Message)
	assert.InDelta(t, 18.51, resp.Centroid.Lat, 1e-9)
	assert.InDelta(t, 73.81, resp.Centroid.Lng, 1e-9)
	assert.Greater(t, resp.AreaHa, 0.0)

	mockRepo.AssertExpectations(t)
}

func TestProcessRegionTooFewVertices(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	_, err := service.ProcessRegion(context.Background(), ProcessRegionRequest{
		UserID:       "user-1",
		PolygonCoord: []geospatial.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateField")
}

func TestProcessRegionStoresCentroidOnField(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	var stored *Field
	mockRepo.On("CreateField", mock.Anything, mock.AnythingOfType("*fields.Field")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*Field) }).
		Return(nil)

	_, err := service.ProcessRegion(context.Background(), ProcessRegionRequest{
		UserID: "user-2",
		PolygonCoord: []geospatial.Point{
			{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 2, Lng: 0},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user-2", stored.UserID)
	// Arithmetic vertex mean, not the area-weighted centroid.
	assert.InDelta(t, 2.0/3.0, stored.Lat, 1e-9)
	assert.InDelta(t, 2.0/3.0, stored.Lng, 1e-9)
	assert.NotEmpty(t, stored.Boundary)
}

func TestBoundaryFeatureRoundTrip(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	var stored *Field
	mockRepo.On("CreateField", mock.Anything, mock.AnythingOfType("*fields.Field")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*Field) }).
		Return(nil)

	_, err := service.ProcessRegion(context.Background(), ProcessRegionRequest{
		UserID: "user-3",
		PolygonCoord: []geospatial.Point{
			{Lat: 10, Lng: 20}, {Lat: 10, Lng: 21}, {Lat: 11, Lng: 21},
		},
	})
	require.NoError(t, err)

	feature, err := BoundaryFeature(stored)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), feature.Properties["fieldId"])
}

func TestFieldBoundaryScopedToOwner(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	boundary, err := json.Marshal([]geospatial.Point{
		{Lat: 10, Lng: 20}, {Lat: 10, Lng: 21}, {Lat: 11, Lng: 21},
	})
	require.NoError(t, err)

	fieldID := uuid.New()
	mockRepo.On("GetFieldByID", mock.Anything, fieldID).Return(&Field{
		ID:       fieldID,
		UserID:   "user-4",
		Name:     "East plot",
		Boundary: boundary,
	}, nil)

	feature, err := service.FieldBoundary(context.Background(), "user-4", fieldID)
	require.NoError(t, err)
	assert.Equal(t, fieldID.String(), feature.Properties["fieldId"])

	// Another user cannot read the same field.
	_, err = service.FieldBoundary(context.Background(), "user-5", fieldID)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestFieldBoundaryMissingField(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	fieldID := uuid.New()
	mockRepo.On("GetFieldByID", mock.Anything, fieldID).Return(nil, errors.New("record not found"))

	_, err := service.FieldBoundary(context.Background(), "user-4", fieldID)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}
