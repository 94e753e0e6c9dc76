package imagery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for vegetation-index analysis
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new imagery handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers imagery routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/analyze-ndvi", h.analyzeRegion)
}

// AnalyzeRequest is the payload for POST /api/analyze-ndvi. Lat/Lng are
// pointers so 0 is distinguishable from absent.
type AnalyzeRequest struct {
	Lat       *float64 `json:"lat" binding:"required"`
	Lng       *float64 `json:"lng" binding:"required"`
	IndexType string   `json:"indexType" binding:"required"`
	Radius    float64  `json:"radius"`
}

// analyzeRegion handles POST /api/analyze-ndvi
func (h *Handler) analyzeRegion(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat, lng and indexType are required"})
		return
	}

	if !ValidIndexType(req.IndexType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported index type: " + req.IndexType})
		return
	}

	radius := req.Radius
	if radius <= 0 {
		radius = 2 // km, matches the default imagery window around a field
	}

	result, err := h.service.AnalyzeRegion(c.Request.Context(), *req.Lat, *req.Lng, req.IndexType, radius)
	if err != nil {
		h.logger.Error("Index analysis failed",
			zap.Error(err),
			zap.String("index", req.IndexType))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"model_used":     result.ModelUsed,
		"heatmap_base64": result.HeatmapBase64,
		"statistics":     result.Statistics,
		"bounds":         result.Bounds,
	})
}
