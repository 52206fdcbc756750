package dto

import (
	"math"

	"agri-ml-service/internal/core/domain"
)

// ============================================================================
// Copra DTOs
// ============================================================================

// DryingTimeRequest validates the drying-time request body. Predictions are
// computed from the decoded domain.FeatureRecord so the input can be echoed
// back unchanged.
type DryingTimeRequest struct {
	MoistureLevel *float64 `json:"moistureLevel" binding:"required"`
	Temperature   *float64 `json:"temperature" binding:"required"`
	Humidity      *float64 `json:"humidity" binding:"required"`
}

type OilYieldRequest struct {
	DryingTimeRequest
	DryingTime *float64 `json:"dryingTime" binding:"required"`
}

type DryingTimeResponse struct {
	DryingTime    float64              `json:"dryingTime"`
	Unit          string               `json:"unit"`
	InputFeatures domain.FeatureRecord `json:"inputFeatures"`
}

type OilYieldResponse struct {
	OilYield      float64              `json:"oilYield"`
	Unit          string               `json:"unit"`
	InputFeatures domain.FeatureRecord `json:"inputFeatures"`
}

const (
	UnitHours     = "hours"
	UnitKilograms = "kg"
)

func ToDryingTimeResponse(p *domain.DryingTimePrediction) DryingTimeResponse {
	return DryingTimeResponse{
		DryingTime:    Round2(p.DryingTime),
		Unit:          UnitHours,
		InputFeatures: p.InputFeatures,
	}
}

func ToOilYieldResponse(p *domain.OilYieldPrediction) OilYieldResponse {
	return OilYieldResponse{
		OilYield:      Round2(p.OilYield),
		Unit:          UnitKilograms,
		InputFeatures: p.InputFeatures,
	}
}

// Round2 rounds v to two decimal places, halves away from zero. Magnitudes
// of 1e15 and above carry no fractional digits and are returned unchanged.
func Round2(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*100) / 100
}
