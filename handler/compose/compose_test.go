package compose

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asume21/codetune/drums"
	"github.com/asume21/codetune/engine"
	"github.com/asume21/codetune/enhancer"
	"github.com/asume21/codetune/logger"
	"github.com/asume21/codetune/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func newHandler(p enhancer.Provider) *ComposeHandler {
	log, _ := logger.NewTestLogger()
	registry := theory.New()
	eng := engine.New(registry, drums.Seeded)
	enh := enhancer.NewEnhancer(p, registry, log, time.Second, 40, 220)
	return NewComposeHandler(log, eng, enh)
}

func postCompose(t *testing.T, h *ComposeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestComposeHandler(t *testing.T) {
	h := newHandler(nil)
	rec := postCompose(t, h, `{"code":"x = 1\nfor i in x:\n    pass\n","language":"python","genre":"house","variation":1}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComposeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.False(t, resp.Enhanced)
	assert.Len(t, resp.Music.Chords, 4)
	assert.Equal(t, "house", resp.Music.Metadata.Genre)
	assert.NotEmpty(t, resp.Music.Timeline)
}

func TestComposeHandlerMethodNotAllowed(t *testing.T) {
	h := newHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/compose", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestComposeHandlerBadBody(t *testing.T) {
	h := newHandler(nil)
	rec := postCompose(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComposeHandlerEnhanceDisabled(t *testing.T) {
	h := newHandler(nil)
	rec := postCompose(t, h, `{"code":"x = 1","genre":"house","enhance":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ComposeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Enhanced)
}

func TestComposeHandlerEnhanced(t *testing.T) {
	h := newHandler(&stubProvider{
		response: `{"chords":["Am","F","C","G"],"melody":[{"pitch":69,"start":0,"duration":0.5,"velocity":90,"instrument":"piano"}]}`,
	})
	rec := postCompose(t, h, `{"code":"x = 1","genre":"house","enhance":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ComposeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Enhanced)
	assert.Equal(t, []string{"Am", "F", "C", "G"}, resp.Music.Chords)
	require.Len(t, resp.Music.Melody, 1)
	assert.Equal(t, 69, resp.Music.Melody[0].Pitch)
}

func TestComposeHandlerEnhancerFailureFallsBack(t *testing.T) {
	h := newHandler(&stubProvider{err: errors.New("provider down")})
	rec := postCompose(t, h, `{"code":"x = 1","genre":"hiphop","enhance":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ComposeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Enhanced)
	assert.Equal(t, "hiphop", resp.Music.Metadata.Genre)
	assert.Len(t, resp.Music.Chords, 4)
}

func TestComposeHandlerPattern(t *testing.T) {
	assert.Equal(t, "/compose", (&ComposeHandler{}).Pattern())
}
