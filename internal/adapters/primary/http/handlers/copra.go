package handlers

import (
	"net/http"

	"agri-ml-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) PredictDryingTime(c *gin.Context) {
	input, ok := bindRecord(c, &dto.DryingTimeRequest{})
	if !ok {
		return
	}

	result, err := h.copraSvc.PredictDryingTime(c.Request.Context(), input)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDryingTimeResponse(result))
}

func (h *Handler) PredictOilYield(c *gin.Context) {
	input, ok := bindRecord(c, &dto.OilYieldRequest{})
	if !ok {
		return
	}

	result, err := h.copraSvc.PredictOilYield(c.Request.Context(), input)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOilYieldResponse(result))
}
