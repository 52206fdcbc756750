package handlers

import (
	"errors"
	"net/http"

	"agri-ml-service/internal/adapters/primary/http/dto"
	"agri-ml-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Health forces a load attempt of every model group and reports whether all
// artifacts are available.
func (h *Handler) Health(c *gin.Context) {
	st := h.registry.Status(c.Request.Context())

	resp := dto.HealthResponse{
		Status:       dto.StatusHealthy,
		ModelsLoaded: st.Irrigation,
		Copra:        st.Copra,
	}
	if st.Healthy() {
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.Status = dto.StatusUnhealthy
	if err := errors.Join(st.Errors[domain.GroupIrrigation], st.Errors[domain.GroupCopra]); err != nil {
		resp.Error = err.Error()
	}
	log.WithField("error", resp.Error).Warn("health check failed")
	c.JSON(http.StatusServiceUnavailable, resp)
}
