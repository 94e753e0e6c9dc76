package fields

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for field operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new fields handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers field routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	fieldGroup := r.Group("/field")
	{
		fieldGroup.POST("/process-region", h.processRegion)
		fieldGroup.GET("/:userId", h.listFields)
		fieldGroup.GET("/:userId/:fieldId/boundary", h.fieldBoundary)
		fieldGroup.DELETE("/:userId/:fieldId", h.deleteField)
	}
}

// processRegion handles POST /field/process-region
func (h *Handler) processRegion(c *gin.Context) {
	var req ProcessRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "polygon_coords and userId are required"})
		return
	}

	if len(req.PolygonCoord) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "polygon must have at least 3 vertices"})
		return
	}

	resp, err := h.service.ProcessRegion(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to process region", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listFields handles GET /field/:userId
func (h *Handler) listFields(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	result, err := h.service.ListFields(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list fields", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": result})
}

// fieldBoundary handles GET /field/:userId/:fieldId/boundary
func (h *Handler) fieldBoundary(c *gin.Context) {
	userID := c.Param("userId")
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field id"})
		return
	}

	feature, err := h.service.FieldBoundary(c.Request.Context(), userID, fieldID)
	if err != nil {
		if errors.Is(err, ErrFieldNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		h.logger.Error("Failed to load field boundary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, feature)
}

// deleteField handles DELETE /field/:userId/:fieldId
func (h *Handler) deleteField(c *gin.Context) {
	userID := c.Param("userId")
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field id"})
		return
	}

	if err := h.service.DeleteField(c.Request.Context(), userID, fieldID); err != nil {
		h.logger.Error("Failed to delete field", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Field deleted"})
}
