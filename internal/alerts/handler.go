package alerts

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for alert forecasts
type Handler struct {
	service *Service
	hub     *Hub
	logger  *zap.Logger
}

// NewHandler creates a new alerts handler
func NewHandler(service *Service, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{service: service, hub: hub, logger: logger}
}

// RegisterRoutes registers alert routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	alertGroup := api.Group("/alerts")
	{
		alertGroup.GET("/ws", h.subscribe)
		alertGroup.GET("/:userId/:fieldId", h.getAlerts)
		alertGroup.POST("/:userId/:fieldId/refresh", h.refresh)
	}
}

// getAlerts handles GET /api/alerts/:userId/:fieldId
func (h *Handler) getAlerts(c *gin.Context) {
	userID := c.Param("userId")
	fieldID := c.Param("fieldId")

	lat, lng, ok := parseLocation(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	bundle, cached, err := h.service.GetAlerts(c.Request.Context(), userID, fieldID, lat, lng)
	if err != nil {
		h.logger.Error("Failed to get alerts", zap.Error(err), zap.String("field_id", fieldID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cached":  cached,
		"alerts":  bundle,
	})
}

// refresh handles POST /api/alerts/:userId/:fieldId/refresh
func (h *Handler) refresh(c *gin.Context) {
	userID := c.Param("userId")
	fieldID := c.Param("fieldId")

	lat, lng, ok := parseLocation(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	bundle, err := h.service.Refresh(c.Request.Context(), userID, fieldID, lat, lng)
	if err != nil {
		h.logger.Error("Failed to refresh alerts", zap.Error(err), zap.String("field_id", fieldID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cached":  false,
		"alerts":  bundle,
	})
}

// subscribe handles GET /api/alerts/ws
func (h *Handler) subscribe(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	if err := h.hub.HandleConnection(c.Writer, c.Request, userID); err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
	}
}

func parseLocation(c *gin.Context) (lat, lng float64, ok bool) {
	var err error
	if lat, err = strconv.ParseFloat(c.Query("lat"), 64); err != nil {
		return 0, 0, false
	}
	if lng, err = strconv.ParseFloat(c.Query("lng"), 64); err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
