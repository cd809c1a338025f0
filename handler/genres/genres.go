package genres

import (
	"encoding/json"
	"net/http"

	"github.com/asume21/codetune/theory"
	"go.uber.org/zap"
)

// GenresHandler lists the genres the registry can compose in.
type GenresHandler struct {
	log      *zap.SugaredLogger
	registry *theory.Registry
}

func (*GenresHandler) Pattern() string {
	return "/genres"
}

// NewGenresHandler builds a new GenresHandler.
func NewGenresHandler(log *zap.SugaredLogger, registry *theory.Registry) *GenresHandler {
	return &GenresHandler{
		log:      log,
		registry: registry,
	}
}

type Genre struct {
	ID           string   `json:"id"`
	BPMMin       int      `json:"bpm_min"`
	BPMMax       int      `json:"bpm_max"`
	BPMDefault   int      `json:"bpm_default"`
	Instruments  []string `json:"instruments"`
	Scales       []string `json:"scales"`
	RhythmicFeel string   `json:"rhythmic_feel"`
}

type GenresResponse struct {
	Genres []Genre  `json:"genres"`
	Scales []string `json:"scales"`
}

// List available genres
// @Summary List genres
// @Description List all genre profiles with their tempo windows and instrument sets
// @Tags Genres
// @Produce json
// @Success 200 {object} GenresResponse
// @Router /genres [get]
func (h *GenresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var resp GenresResponse
	for _, id := range h.registry.Genres() {
		p := h.registry.Genre(id)
		resp.Genres = append(resp.Genres, Genre{
			ID:           p.ID,
			BPMMin:       p.BPM.Min,
			BPMMax:       p.BPM.Max,
			BPMDefault:   p.BPM.Default,
			Instruments:  []string{p.Instruments.Melody, p.Instruments.Bass, p.Instruments.Pad},
			Scales:       p.Scales,
			RhythmicFeel: p.RhythmicFeel,
		})
	}
	resp.Scales = h.registry.ScaleNames()

	json.NewEncoder(w).Encode(resp)
}
