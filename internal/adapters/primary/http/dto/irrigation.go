package dto

import (
	"agri-ml-service/internal/core/domain"
)

// ============================================================================
// Irrigation DTOs
// ============================================================================

type IrrigationRequest struct {
	SoilType     *string  `json:"soilType" binding:"required"`
	SoilMoisture *float64 `json:"soilMoisture" binding:"required"`
	Temperature  *float64 `json:"temperature" binding:"required"`
	Humidity     *float64 `json:"humidity" binding:"required"`
}

// WaterProbabilities names the classifier's probability vector. Position i
// is the probability of class i, so the field order here is fixed by the
// class indices assigned in training.
type WaterProbabilities struct {
	NoWater       float64 `json:"noWater"`
	HighWater     float64 `json:"highWater"`
	ModerateWater float64 `json:"moderateWater"`
	LowWater      float64 `json:"lowWater"`
}

type IrrigationResponse struct {
	Prediction     int                  `json:"prediction"`
	WaterNeedRange string               `json:"waterNeedRange"`
	Probabilities  WaterProbabilities   `json:"probabilities"`
	InputFeatures  domain.FeatureRecord `json:"inputFeatures"`
}

var waterLevelRanges = map[int]string{
	0: "0L (None)",
	1: "50-100L (High)",
	2: "30-50L (Moderate)",
	3: "10-30L (Low)",
}

// WaterLevelRange maps a water-need class to its volume range label.
func WaterLevelRange(category int) string {
	if r, ok := waterLevelRanges[category]; ok {
		return r
	}
	return "Unknown"
}

func ToIrrigationResponse(p *domain.IrrigationPrediction) IrrigationResponse {
	at := func(i int) float64 {
		if i < len(p.Probabilities) {
			return p.Probabilities[i]
		}
		return 0
	}
	return IrrigationResponse{
		Prediction:     p.Prediction,
		WaterNeedRange: WaterLevelRange(p.Prediction),
		Probabilities: WaterProbabilities{
			NoWater:       at(0),
			HighWater:     at(1),
			ModerateWater: at(2),
			LowWater:      at(3),
		},
		InputFeatures: p.InputFeatures,
	}
}
