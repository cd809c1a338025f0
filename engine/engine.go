// Package engine is the composition root of the deterministic pipeline:
// parser, theory registry, note mapper, melodic layers, drums and the
// arrangement are combined into one MusicData artifact. The pipeline is a
// pure function of its inputs; calls for independent inputs may run
// concurrently without synchronization.
package engine

import (
	"math"

	"github.com/asume21/codetune/arrange"
	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/config"
	"github.com/asume21/codetune/drums"
	"github.com/asume21/codetune/mapper"
	"github.com/asume21/codetune/melody"
	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
)

// Request is the input contract for one generation call.
type Request struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	Genre     string `json:"genre"`
	BPM       int    `json:"bpm"`
	Variation int    `json:"variation"`
}

// Engine wires the deterministic pipeline together.
type Engine struct {
	registry *theory.Registry
	melody   *melody.Generator
	drums    *drums.Generator
	arrange  *arrange.Generator
}

// New builds an Engine against a registry with the given humanization mode.
func New(registry *theory.Registry, mode drums.HumanizeMode) *Engine {
	return &Engine{
		registry: registry,
		melody:   melody.NewGenerator(registry),
		drums:    drums.NewGenerator(mode),
		arrange:  arrange.NewGenerator(registry, mode),
	}
}

// Registry exposes the theory registry the engine was built with.
func (e *Engine) Registry() *theory.Registry {
	return e.registry
}

// Parse runs the code parser with the engine's rules. Exposed so callers
// can summarize code for the enhancer without composing.
func (e *Engine) Parse(code, language string) parser.ParsedCode {
	return parser.Parse(code, language)
}

// Compose generates the full symbolic arrangement for a request. It never
// fails: every lookup has a total fallback and empty code still yields a
// structurally complete result with a four-chord progression.
func (e *Engine) Compose(req Request) codetune.MusicData {
	parsed := parser.Parse(req.Code, req.Language)
	genre := e.registry.Genre(req.Genre)
	bpm := genre.BPM.Clamp(req.BPM)

	progression := e.registry.ProgressionForMood(genre.ID, parsed.Mood, req.Variation)
	scaleName := melody.ScaleFor(genre.ID, parsed.Mood)

	sections := arrange.Sections(parsed, scaleName)
	totalDuration := arrange.TotalDuration(sections)

	spans := chordSpans(progression, bpm, totalDuration)
	layers := e.melody.Generate(parsed, spans, genre, bpm, req.Variation, melody.StylePhrased)
	drumResult := e.drums.Generate(parsed, genre, bpm, totalDuration, req.Variation)

	profile := arrange.ProfileFor(parsed)
	order := arrange.OrderFixed
	if req.Variation != 0 {
		order = arrange.OrderShuffled
	}
	timeline := e.arrange.Layout(sections, profile, progression, bpm, req.Variation, order)

	chords := make([]string, len(progression))
	for i, c := range progression {
		chords[i] = c.Name
	}

	return codetune.MusicData{
		Timeline: timeline,
		Chords:   chords,
		Melody:   layers.Melody,
		Bass:     layers.Bass,
		Pads:     layers.Pads,
		Drums:    drumResult.Hits,
		Fills:    drumResult.Fills,
		Sections: sections,
		Metadata: codetune.Metadata{
			BPM:       bpm,
			Key:       theory.Key(progression),
			Genre:     genre.ID,
			Variation: req.Variation,
			Duration:  totalDuration,
			Seed:      mapper.Seed(req.Code, req.Variation),
		},
	}
}

// chordSpans tiles the progression bar by bar across the composition.
func chordSpans(progression []theory.ChordDefinition, bpm int, totalDuration float64) []melody.ChordSpan {
	barDur := 4 * 60.0 / float64(bpm)
	bars := int(math.Ceil(totalDuration / barDur))
	if bars < len(progression) {
		bars = len(progression)
	}
	spans := make([]melody.ChordSpan, bars)
	for i := 0; i < bars; i++ {
		spans[i] = melody.ChordSpan{
			Chord:    progression[i%len(progression)],
			Start:    float64(i) * barDur,
			Duration: barDur,
		}
	}
	return spans
}

// ProvideEngine provides the engine configured from the environment.
func ProvideEngine(cfg config.Config, registry *theory.Registry) *Engine {
	return New(registry, drums.ParseHumanizeMode(cfg.HumanizeMode))
}

var Options = ProvideEngine
