package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asume21/codetune/enhancer"
	"github.com/asume21/codetune/logger"
	"github.com/asume21/codetune/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	enh := enhancer.NewEnhancer(nil, theory.New(), log, time.Second, 40, 220)
	h := NewHealthHandler(log, enh)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"server": true, "enhancer": false}`, rec.Body.String())
}

func TestHealthHandlerPattern(t *testing.T) {
	assert.Equal(t, "/health", (&HealthHandler{}).Pattern())
}
