package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agri-ml-service/internal/core/domain"
	"agri-ml-service/internal/core/estimator"
	"agri-ml-service/internal/core/services"
	"agri-ml-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(loader *testutil.MockArtifactLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := services.NewModelRegistry(loader, nil)
	copraSvc := services.NewCopraService(registry, nil)
	irrigationSvc := services.NewIrrigationService(registry, nil)

	h := New(registry, copraSvc, irrigationSvc)
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return r
}

func setupLoadedRouter(dryingTime, oilYield estimator.Regressor) *gin.Engine {
	loader := new(testutil.MockArtifactLoader)
	testutil.LoadedArtifacts(loader, dryingTime, oilYield)
	return setupRouter(loader)
}

func setupEmptyRouter() *gin.Engine {
	loader := new(testutil.MockArtifactLoader)
	loader.On("LoadClassifier", mock.Anything, mock.Anything).Return(nil, domain.ErrArtifactNotFound)
	loader.On("LoadRegressor", mock.Anything, mock.Anything).Return(nil, domain.ErrArtifactNotFound)
	return setupRouter(loader)
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, ok := resp["error"].(string)
	require.True(t, ok, "response missing string field \"error\": %s", w.Body.String())
	return msg
}

// ---------------------------------------------------------------------------
// Copra
// ---------------------------------------------------------------------------

func TestPredictDryingTime(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 12.345), testutil.ConstantRegressor(4, 0))

	w := post(r, "/api/copra/predict-drying-time", `{"moistureLevel": 25, "temperature": 30, "humidity": 70}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"dryingTime": 12.35, "unit": "hours", "inputFeatures": {"moistureLevel": 25, "temperature": 30, "humidity": 70}}`,
		w.Body.String())
}

func TestPredictDryingTime_EchoesExtraFields(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 3), testutil.ConstantRegressor(4, 0))

	w := post(r, "/api/copra/predict-drying-time",
		`{"moistureLevel": 25.5, "temperature": 30, "humidity": 70, "batch": "A-7"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"dryingTime": 3, "unit": "hours", "inputFeatures": {"moistureLevel": 25.5, "temperature": 30, "humidity": 70, "batch": "A-7"}}`,
		w.Body.String())
}

func TestPredictOilYield(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 0), testutil.ConstantRegressor(4, 41.006))

	w := post(r, "/api/copra/predict-oil-yield",
		`{"moistureLevel": 25, "temperature": 30, "humidity": 70, "dryingTime": 12}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"oilYield": 41.01, "unit": "kg", "inputFeatures": {"moistureLevel": 25, "temperature": 30, "humidity": 70, "dryingTime": 12}}`,
		w.Body.String())
}

func TestPredictDryingTime_MissingField(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/copra/predict-drying-time", `{"moistureLevel": 25, "temperature": 30}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decodeError(t, w)
	assert.Contains(t, msg, domain.ErrMissingField.Error())
	assert.Contains(t, msg, "humidity")
}

func TestPredictOilYield_NullField(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/copra/predict-oil-yield",
		`{"moistureLevel": 25, "temperature": 30, "humidity": 70, "dryingTime": null}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "dryingTime")
}

func TestPredictOilYield_NonNumericField(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/copra/predict-oil-yield",
		`{"moistureLevel": 25, "temperature": 30, "humidity": 70, "dryingTime": "twelve"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decodeError(t, w)
	assert.Contains(t, msg, domain.ErrNonNumericField.Error())
	assert.Contains(t, msg, "dryingTime")
}

func TestPredictDryingTime_MalformedBody(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	for _, body := range []string{`{"moistureLevel": `, `[25, 30, 70]`, `null`, ``} {
		w := post(r, "/api/copra/predict-drying-time", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.NotEmpty(t, decodeError(t, w))
	}
}

func TestPredictDryingTime_ModelsMissing(t *testing.T) {
	r := setupEmptyRouter()

	w := post(r, "/api/copra/predict-drying-time", `{"moistureLevel": 25, "temperature": 30, "humidity": 70}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decodeError(t, w), domain.ErrArtifactNotFound.Error())
}

func TestPredictDryingTime_EchoesLargeIntegersExactly(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 3), testutil.ConstantRegressor(4, 0))

	w := post(r, "/api/copra/predict-drying-time",
		`{"moistureLevel": 25, "temperature": 30, "humidity": 70, "batchId": 9007199254740993}`)

	assert.Equal(t, http.StatusOK, w.Code)
	// Compared as text: float64 decoding would turn the id into ...992.
	assert.Contains(t, w.Body.String(), `"batchId":9007199254740993`)
	assert.Contains(t, w.Body.String(), `"moistureLevel":25`)
}

func TestPredictDryingTime_NonFinitePrediction(t *testing.T) {
	overflow := &estimator.LinearRegressor{Coefficients: []float64{10, 0, 0}}
	r := setupLoadedRouter(overflow, testutil.ConstantRegressor(4, 0))

	w := post(r, "/api/copra/predict-drying-time", `{"moistureLevel": 1e308, "temperature": 30, "humidity": 70}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w), domain.ErrInference.Error())
}

func TestPredictDryingTime_HugePrediction(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1e307), testutil.ConstantRegressor(4, 0))

	w := post(r, "/api/copra/predict-drying-time", `{"moistureLevel": 25, "temperature": 30, "humidity": 70}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"dryingTime": 1e307, "unit": "hours", "inputFeatures": {"moistureLevel": 25, "temperature": 30, "humidity": 70}}`,
		w.Body.String())
}

func TestPredictOilYield_InferenceError(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(2, 1))

	w := post(r, "/api/copra/predict-oil-yield",
		`{"moistureLevel": 25, "temperature": 30, "humidity": 70, "dryingTime": 12}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w), domain.ErrInference.Error())
}

// ---------------------------------------------------------------------------
// Irrigation
// ---------------------------------------------------------------------------

func TestPredictIrrigation(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/irrigation/predict",
		`{"soilType": "Sandy", "soilMoisture": 18, "temperature": 33, "humidity": 55}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"prediction": 1,
		"waterNeedRange": "50-100L (High)",
		"probabilities": {"noWater": 0, "highWater": 0.7, "moderateWater": 0.2, "lowWater": 0.1},
		"inputFeatures": {"soilType": "Sandy", "soilMoisture": 18, "temperature": 33, "humidity": 55}
	}`, w.Body.String())
}

func TestPredictIrrigation_UnknownSoilType(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/irrigation/predict",
		`{"soilType": "Peat", "soilMoisture": 18, "temperature": 33, "humidity": 55}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Peat")
}

func TestPredictIrrigation_NonStringSoilType(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/irrigation/predict",
		`{"soilType": 2, "soilMoisture": 18, "temperature": 33, "humidity": 55}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decodeError(t, w)
	assert.Contains(t, msg, domain.ErrNonStringField.Error())
	assert.Contains(t, msg, "soilType")
}

func TestPredictIrrigation_MissingField(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	w := post(r, "/api/irrigation/predict", `{"soilType": "Loam", "temperature": 33, "humidity": 55}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "soilMoisture")
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealth_Healthy(t *testing.T) {
	r := setupLoadedRouter(testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	req, _ := http.NewRequest("GET", "/api/health/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy", "models_loaded": true, "copra": true}`, w.Body.String())
}

func TestHealth_Unhealthy(t *testing.T) {
	r := setupEmptyRouter()

	req, _ := http.NewRequest("GET", "/api/health/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, false, resp["models_loaded"])
	assert.Equal(t, false, resp["copra"])
	assert.Contains(t, resp["error"], domain.ErrArtifactNotFound.Error())
}

func TestHealth_PartiallyLoaded(t *testing.T) {
	loader := new(testutil.MockArtifactLoader)
	loader.On("LoadClassifier", mock.Anything, mock.Anything).Return(testutil.IrrigationClassifier(), nil)
	loader.On("LoadScaler", mock.Anything, mock.Anything).Return(testutil.IrrigationScaler(), nil)
	loader.On("LoadMapping", mock.Anything, mock.Anything).Return(testutil.SoilTypeMapping(), nil)
	loader.On("LoadRegressor", mock.Anything, services.DryingTimeModelArtifact).Return(testutil.ConstantRegressor(3, 1), nil)
	loader.On("LoadRegressor", mock.Anything, services.OilYieldModelArtifact).Return(nil, domain.ErrArtifactDecode)
	r := setupRouter(loader)

	req, _ := http.NewRequest("GET", "/api/health/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, true, resp["models_loaded"])
	assert.Equal(t, false, resp["copra"])
}
