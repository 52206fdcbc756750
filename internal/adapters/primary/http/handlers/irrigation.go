package handlers

import (
	"net/http"

	"agri-ml-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) PredictIrrigation(c *gin.Context) {
	input, ok := bindRecord(c, &dto.IrrigationRequest{})
	if !ok {
		return
	}

	result, err := h.irrigationSvc.Predict(c.Request.Context(), input)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIrrigationResponse(result))
}
