package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payeqcli/internal/config"
	apierrors "payeqcli/internal/errors"
	"payeqcli/internal/services"
	"payeqcli/pkg/contracts/domain"
)

func testAnalysisHandler() *AnalysisHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := services.NewAnalysisService(config.Default().Analysis, logger)
	return NewAnalysisHandler(service, apierrors.NewErrorHandler(logger, false), logger)
}

func analysisBody(t *testing.T) []byte {
	t.Helper()
	req := domain.AnalysisRequest{
		Parameters: domain.ParametersDTO{
			ReferenceMonth: 6,
			ReferenceYear:  2020,
			FemaleSpec:     "F",
			MaleSpec:       "M",
		},
		Records: []domain.RecordDTO{
			{ID: "1", Sex: "F", Age: "40", Entry: "10", Salary: 5000},
			{ID: "2", Sex: "F", Age: "40", Entry: "10", Salary: 5200},
			{ID: "3", Sex: "M", Age: "40", Entry: "10", Salary: 5500},
			{ID: "4", Sex: "M", Age: "40", Entry: "10", Salary: 5300},
		},
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	return payload
}

func TestAnalysisHandlerRun(t *testing.T) {
	handler := testAnalysisHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analysis", bytes.NewReader(analysisBody(t)))
	handler.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 4, resp.RecordsOriginal)
	assert.InDelta(t, -0.0559, resp.KennedyGap, 1e-3)
	assert.Equal(t, "no determinable effect", resp.Significance.LevelText)
}

func TestAnalysisHandlerMalformedJSON(t *testing.T) {
	handler := testAnalysisHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader("{"))
	handler.Run(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/validation")
}

func TestAnalysisHandlerInsufficientData(t *testing.T) {
	handler := testAnalysisHandler()

	req := domain.AnalysisRequest{
		Parameters: domain.ParametersDTO{
			ReferenceMonth: 6,
			ReferenceYear:  2020,
			FemaleSpec:     "F",
			MaleSpec:       "M",
		},
		Records: []domain.RecordDTO{
			{ID: "1", Sex: "X", Age: "40", Entry: "10", Salary: 5000},
		},
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Run(rec, httptest.NewRequest(http.MethodPost, "/api/analysis", bytes.NewReader(payload)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/analysis/insufficient-data")
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler().HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body domain.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}
