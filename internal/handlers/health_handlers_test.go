package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func runHealth(t *testing.T, h *HealthHandlers, handler func(*HealthHandlers, echo.Context) error) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, handler(h, c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  error
		wantCode   int
		wantStatus string
	}{
		{"All healthy", nil, nil, http.StatusOK, "healthy"},
		{"Cache down", nil, errors.New("redis down"), http.StatusOK, "degraded"},
		{"Database down", errors.New("pg down"), nil, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandlers(stubPinger{tt.db}, stubPinger{tt.cache}, "test")
			rec, body := runHealth(t, h, (*HealthHandlers).HealthCheck)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, "test", body["version"])
		})
	}
}

func TestReadinessCheck(t *testing.T) {
	rec, body := runHealth(t, NewHealthHandlers(stubPinger{}, stubPinger{}, "test"), (*HealthHandlers).ReadinessCheck)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	rec, body = runHealth(t, NewHealthHandlers(stubPinger{errors.New("down")}, stubPinger{}, "test"), (*HealthHandlers).ReadinessCheck)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}
