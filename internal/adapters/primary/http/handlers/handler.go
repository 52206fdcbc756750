package handlers

import (
	"agri-ml-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry      *services.ModelRegistry
	copraSvc      *services.CopraService
	irrigationSvc *services.IrrigationService
}

func New(
	registry *services.ModelRegistry,
	copraSvc *services.CopraService,
	irrigationSvc *services.IrrigationService,
) *Handler {
	useJSONFieldNames()
	return &Handler{
		registry:      registry,
		copraSvc:      copraSvc,
		irrigationSvc: irrigationSvc,
	}
}

// RegisterRoutes mounts the prediction and health routes under r, which is
// normally the /api group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Irrigation
	irrigation := r.Group("/irrigation")
	irrigation.POST("/predict", h.PredictIrrigation)

	// Copra
	copra := r.Group("/copra")
	copra.POST("/predict-drying-time", h.PredictDryingTime)
	copra.POST("/predict-oil-yield", h.PredictOilYield)

	// Health
	health := r.Group("/health")
	health.GET("/health", h.Health)
}
