package advisor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the generative assistant
type Handler struct {
	generator  Generator
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewHandler creates a new advisor handler
func NewHandler(generator Generator, aggregator *Aggregator, logger *zap.Logger) *Handler {
	return &Handler{generator: generator, aggregator: aggregator, logger: logger}
}

// RegisterRoutes registers assistant routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	ai := api.Group("/ai")
	{
		ai.POST("/generate", h.generate)
		ai.POST("/alert-descriptions", h.alertDescriptions)
	}
}

// GenerateRequest is the payload for POST /api/ai/generate.
type GenerateRequest struct {
	Message string `json:"message"`
}

// generate handles POST /api/ai/generate
func (h *Handler) generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	response, err := h.generator.Generate(c.Request.Context(), req.Message)
	if err != nil {
		h.logger.Error("Chat generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}

// metricsPayload mirrors the loose client-side metric bundle.
type metricsPayload struct {
	NDVI        MetricValue `json:"ndvi"`
	Moisture    MetricValue `json:"moisture"`
	DiseaseRisk MetricValue `json:"diseaseRisk"`
	PestRisk    MetricValue `json:"pestRisk"`
	StressIndex MetricValue `json:"stressIndex"`
}

// DescriptionsRequest is the payload for POST /api/ai/alert-descriptions.
type DescriptionsRequest struct {
	Metrics         *metricsPayload `json:"metrics"`
	AdvisoryActions []string        `json:"advisoryActions"`
}

// alertDescriptions handles POST /api/ai/alert-descriptions
func (h *Handler) alertDescriptions(c *gin.Context) {
	var req DescriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Metrics == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metrics are required"})
		return
	}

	descriptions := h.aggregator.Describe(c.Request.Context(), req.Metrics.toMetrics(), req.AdvisoryActions)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"descriptions": descriptions,
	})
}

func (p *metricsPayload) toMetrics() Metrics {
	return Metrics{
		NDVI:        p.NDVI.ptr(),
		Moisture:    p.Moisture.ptr(),
		DiseaseRisk: p.DiseaseRisk.ptr(),
		PestRisk:    p.PestRisk.ptr(),
		StressIndex: p.StressIndex.ptr(),
	}
}

func (v MetricValue) ptr() *float64 {
	if !v.Present {
		return nil
	}
	value := v.Value
	return &value
}
