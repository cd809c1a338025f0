package compose

import (
	"encoding/json"
	"net/http"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/engine"
	"github.com/asume21/codetune/enhancer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ComposeHandler turns source code into a symbolic arrangement.
type ComposeHandler struct {
	log      *zap.SugaredLogger
	engine   *engine.Engine
	enhancer *enhancer.Enhancer
}

func (*ComposeHandler) Pattern() string {
	return "/compose"
}

// NewComposeHandler builds a new ComposeHandler.
func NewComposeHandler(log *zap.SugaredLogger, eng *engine.Engine, enh *enhancer.Enhancer) *ComposeHandler {
	return &ComposeHandler{
		log:      log,
		engine:   eng,
		enhancer: enh,
	}
}

type ComposeRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	Genre     string `json:"genre"`
	BPM       int    `json:"bpm"`
	Variation int    `json:"variation"`
	Enhance   bool   `json:"enhance"`
}

type ComposeResponse struct {
	ID       string             `json:"id"`
	Enhanced bool               `json:"enhanced"`
	Music    codetune.MusicData `json:"music"`
}

// Compose source code into music
// @Summary Compose music from code
// @Description Parse a source snippet and generate a full symbolic arrangement for the requested genre
// @Tags Compose
// @Accept json
// @Produce json
// @Param request body ComposeRequest true "Composition request"
// @Success 200 {object} ComposeResponse
// @Router /compose [post]
func (h *ComposeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Infow("compose request",
		"language", req.Language,
		"genre", req.Genre,
		"bpm", req.BPM,
		"variation", req.Variation,
		"enhance", req.Enhance,
	)

	music := h.engine.Compose(engine.Request{
		Code:      req.Code,
		Language:  req.Language,
		Genre:     req.Genre,
		BPM:       req.BPM,
		Variation: req.Variation,
	})

	resp := ComposeResponse{
		ID:    uuid.New().String(),
		Music: music,
	}

	// The enhancer is best-effort: any failure keeps the deterministic
	// result and the request still succeeds.
	if req.Enhance && h.enhancer.Enabled() {
		parsed := h.engine.Parse(req.Code, req.Language)
		enh, err := h.enhancer.Enhance(r.Context(), parsed, music.Metadata.Genre, music.Metadata.BPM)
		if err != nil {
			h.log.Warnw("enhancer rejected, using deterministic output", "error", err)
		} else {
			resp.Music = enhancer.Apply(music, enh)
			resp.Enhanced = true
		}
	}

	json.NewEncoder(w).Encode(resp)
}
