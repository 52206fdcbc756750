package testutil

import (
	"github.com/stretchr/testify/mock"

	"agri-ml-service/internal/core/estimator"
)

// ConstantRegressor returns a regressor that predicts v for any three or
// four column row.
func ConstantRegressor(width int, v float64) *estimator.LinearRegressor {
	return &estimator.LinearRegressor{
		Coefficients: make([]float64, width),
		Intercept:    v,
	}
}

// PositionalRegressor weights column i by 10^i, so any reordering of the
// input row changes the prediction.
func PositionalRegressor(width int) *estimator.LinearRegressor {
	coef := make([]float64, width)
	w := 1.0
	for i := range coef {
		coef[i] = w
		w *= 10
	}
	return &estimator.LinearRegressor{Coefficients: coef}
}

// IrrigationClassifier is a four-class tree that splits on the scaled soil
// moisture column: dry plots need high water, wet plots need none.
func IrrigationClassifier() *estimator.TreeClassifier {
	return &estimator.TreeClassifier{
		NClass: 4,
		Tree: estimator.Tree{Nodes: []estimator.TreeNode{
			{Feature: 1, Threshold: 0, Left: 1, Right: 2},
			{Left: -1, Right: -1, Value: []float64{0, 7, 2, 1}},
			{Left: -1, Right: -1, Value: []float64{6, 0, 1, 3}},
		}},
	}
}

// IrrigationScaler centers soil moisture on 40%.
func IrrigationScaler() *estimator.StandardScaler {
	return &estimator.StandardScaler{
		Mean:  []float64{0, 40, 0, 0},
		Scale: []float64{1, 10, 1, 1},
	}
}

func SoilTypeMapping() *estimator.CategoryMapping {
	return &estimator.CategoryMapping{Values: map[string]int{"Clay": 0, "Loam": 1, "Sandy": 2}}
}

// LoadedArtifacts programs loader to serve a full, valid artifact set.
func LoadedArtifacts(loader *MockArtifactLoader, dryingTime, oilYield estimator.Regressor) {
	loader.On("LoadClassifier", mock.Anything, "irrigation/best_model").Return(IrrigationClassifier(), nil)
	loader.On("LoadScaler", mock.Anything, "irrigation/scaler").Return(IrrigationScaler(), nil)
	loader.On("LoadMapping", mock.Anything, "irrigation/soil_type_mapping").Return(SoilTypeMapping(), nil)
	loader.On("LoadRegressor", mock.Anything, "copra/best_drying_time_model").Return(dryingTime, nil)
	loader.On("LoadRegressor", mock.Anything, "copra/best_oil_yield_predictor").Return(oilYield, nil)
}
