package health

import (
	"encoding/json"
	"net/http"

	"github.com/asume21/codetune/enhancer"
	"go.uber.org/zap"
)

// HealthHandler reports service liveness and enhancer availability.
type HealthHandler struct {
	log      *zap.SugaredLogger
	enhancer *enhancer.Enhancer
}

func (*HealthHandler) Pattern() string {
	return "/health"
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(log *zap.SugaredLogger, enh *enhancer.Enhancer) *HealthHandler {
	return &HealthHandler{
		log:      log,
		enhancer: enh,
	}
}

type Response struct {
	Server   bool `json:"server"`
	Enhancer bool `json:"enhancer"`
}

// ServeHTTP handles an HTTP request to the /health endpoint.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp Response

	h.log.Info("health check")

	resp.Server = true
	resp.Enhancer = h.enhancer.Enabled()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
