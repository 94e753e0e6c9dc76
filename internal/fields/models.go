package fields

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"agrivision/farm-portal-backend/pkg/geospatial"
)

// Field is a farmer-drawn monitoring region. The boundary polygon is stored
// as a JSON array of {lat,lng} vertices; the centroid is derived from it on
// creation and overwritten in place on save.
type Field struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string         `json:"userId" gorm:"index;not null"`
	Name         string         `json:"name"`
	CropName     string         `json:"cropName"`
	SowingDate   *time.Time     `json:"sowingDate,omitempty"`
	Lat          float64        `json:"lat"`
	Lng          float64        `json:"lng"`
	AreaHectares float64        `json:"area"`
	Boundary     datatypes.JSON `json:"coordinates"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ProcessRegionRequest is the payload for POST /field/process-region.
type ProcessRegionRequest struct {
	UserID       string            `json:"userId" binding:"required"`
	PolygonCoord []geospatial.Point `json:"polygon_coords" binding:"required"`
	Name         string            `json:"name"`
	CropName     string            `json:"cropName"`
	SowingDate   *time.Time        `json:"sowingDate"`
}

// ProcessRegionResponse echoes the derived centroid back to the caller.
type ProcessRegionResponse struct {
	Message  string           `json:"message"`
	FieldID  uuid.UUID        `json:"fieldId"`
	Centroid geospatial.Point `json:"centroid"`
	AreaHa   float64          `json:"area"`
}
