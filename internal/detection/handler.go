package detection

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for image-based prediction proxies
type Handler struct {
	disease *Client
	pest    *Client
	logger  *zap.Logger
}

// NewHandler creates a new detection handler
func NewHandler(disease, pest *Client, logger *zap.Logger) *Handler {
	return &Handler{disease: disease, pest: pest, logger: logger}
}

// RegisterRoutes registers prediction proxy routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/disease/predict", h.predictWith(h.disease, "disease"))
	api.POST("/pest/predict", h.predictWith(h.pest, "pest"))
}

// predictWith relays a multipart image upload to one upstream model. Every
// failure collapses to the same generic 500, matching what callers expect.
func (h *Handler) predictWith(client *Client, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy server error"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Error("Failed to open upload", zap.Error(err), zap.String("model", kind))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy server error"})
			return
		}
		defer file.Close()

		result, err := client.Predict(c.Request.Context(), fileHeader.Filename, file)
		if err != nil {
			h.logger.Error("Prediction proxy failed", zap.Error(err), zap.String("model", kind))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy server error"})
			return
		}

		c.Data(http.StatusOK, "application/json", result.Payload)
	}
}
