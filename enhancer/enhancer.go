// Package enhancer is the optional LLM collaborator. It may propose an
// alternate chords/melody/bassline payload for a composition; anything it
// returns must pass the same validation contract as the deterministic
// path before being accepted, and any failure falls back to the core
// output unmodified.
package enhancer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/config"
	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// maxNotes caps enhancer note arrays; oversized responses are rejected.
const maxNotes = 2048

// Enhancement is the payload an enhancer may substitute into a
// composition. The shape mirrors the deterministic output layers.
type Enhancement struct {
	Chords   []string              `json:"chords"`
	Melody   []codetune.MelodyNote `json:"melody"`
	Bassline []codetune.MelodyNote `json:"bassline,omitempty"`
	BPM      int                   `json:"bpm,omitempty"`
}

// Provider produces a raw enhancement document for a prompt.
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

// OpenAIProvider implements Provider using the OpenAI chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider builds an OpenAI-backed provider.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const systemPrompt = `You are a music arranger. Given a structural summary of source code and a musical genre, respond with a single JSON object of the form {"chords": ["Am","F","C","G"], "melody": [{"pitch":69,"start":0,"duration":0.5,"velocity":90,"instrument":"piano"}], "bassline": [...]}. Use only chord names from the provided vocabulary. Respond with JSON only, no prose.`

// Enhancer coordinates the provider call, timeout and validation.
type Enhancer struct {
	provider Provider
	registry *theory.Registry
	log      *zap.SugaredLogger
	timeout  time.Duration
	bpmMin   int
	bpmMax   int
}

// NewEnhancer builds an Enhancer. A nil provider yields a disabled
// enhancer whose Enhance always errors.
func NewEnhancer(provider Provider, registry *theory.Registry, log *zap.SugaredLogger, timeout time.Duration, bpmMin, bpmMax int) *Enhancer {
	return &Enhancer{
		provider: provider,
		registry: registry,
		log:      log,
		timeout:  timeout,
		bpmMin:   bpmMin,
		bpmMax:   bpmMax,
	}
}

// Enabled reports whether a provider is configured.
func (e *Enhancer) Enabled() bool {
	return e != nil && e.provider != nil
}

// Enhance asks the provider for an alternate arrangement and validates it.
// The call carries an explicit timeout; on any failure the caller keeps
// the deterministic output.
func (e *Enhancer) Enhance(ctx context.Context, parsed parser.ParsedCode, genreID string, bpm int) (*Enhancement, error) {
	if !e.Enabled() {
		return nil, errors.New("enhancer not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	genre := e.registry.Genre(genreID)
	vocabulary := make([]string, 0, len(genre.Chords))
	for _, c := range genre.Chords {
		vocabulary = append(vocabulary, c.Name)
	}

	prompt := fmt.Sprintf(
		"Genre: %s. BPM: %d. Chord vocabulary: %s. Code summary: language=%s elements=%d complexity=%d mood=%s.",
		genre.ID, bpm, strings.Join(vocabulary, ", "),
		parsed.Language, len(parsed.Elements), parsed.Complexity, parsed.Mood,
	)

	e.log.Debugw("enhancer request", "provider", e.provider.Name(), "genre", genre.ID, "bpm", bpm)

	raw, err := e.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	enh, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := e.Validate(enh, genre.ID, bpm); err != nil {
		return nil, err
	}
	return enh, nil
}

// Decode parses a provider response, tolerating markdown code fences.
func Decode(raw string) (*Enhancement, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var enh Enhancement
	if err := json.Unmarshal([]byte(raw), &enh); err != nil {
		return nil, fmt.Errorf("malformed enhancer response: %w", err)
	}
	return &enh, nil
}

// Validate enforces the acceptance contract: required fields present,
// chord names known to the genre, note values in range, arrays bounded,
// bpm inside the configured band. Any violation is a hard reject.
func (e *Enhancer) Validate(enh *Enhancement, genreID string, bpm int) error {
	if enh == nil {
		return errors.New("nil enhancement")
	}
	if len(enh.Chords) < 4 {
		return fmt.Errorf("chords must have at least 4 entries, got %d", len(enh.Chords))
	}
	for _, name := range enh.Chords {
		if _, ok := e.registry.ChordByName(genreID, name); !ok {
			return fmt.Errorf("unknown chord %q for genre %q", name, genreID)
		}
	}
	if enh.Melody == nil {
		return errors.New("melody is required")
	}
	if len(enh.Melody) > maxNotes || len(enh.Bassline) > maxNotes {
		return fmt.Errorf("note array exceeds %d entries", maxNotes)
	}
	if err := validateNotes("melody", enh.Melody); err != nil {
		return err
	}
	if err := validateNotes("bassline", enh.Bassline); err != nil {
		return err
	}
	effectiveBPM := bpm
	if enh.BPM != 0 {
		effectiveBPM = enh.BPM
	}
	if effectiveBPM < e.bpmMin || effectiveBPM > e.bpmMax {
		return fmt.Errorf("bpm %d outside band [%d, %d]", effectiveBPM, e.bpmMin, e.bpmMax)
	}
	return nil
}

func validateNotes(layer string, notes []codetune.MelodyNote) error {
	for i, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			return fmt.Errorf("%s[%d]: pitch %d out of range", layer, i, n.Pitch)
		}
		if n.Velocity < 0 || n.Velocity > 127 {
			return fmt.Errorf("%s[%d]: velocity %d out of range", layer, i, n.Velocity)
		}
		if n.Start < 0 {
			return fmt.Errorf("%s[%d]: negative start %f", layer, i, n.Start)
		}
		if n.Duration <= 0 {
			return fmt.Errorf("%s[%d]: non-positive duration %f", layer, i, n.Duration)
		}
	}
	return nil
}

// Apply merges an accepted enhancement into a composition, replacing only
// the layers the enhancer supplied. There is no partial merge within a
// layer: validation already guaranteed the whole payload.
func Apply(data codetune.MusicData, enh *Enhancement) codetune.MusicData {
	data.Chords = enh.Chords
	data.Melody = enh.Melody
	if enh.Bassline != nil {
		data.Bass = enh.Bassline
	}
	if enh.BPM != 0 {
		data.Metadata.BPM = enh.BPM
	}
	return data
}

// ProvideEnhancer provides the enhancer; without an API key it is built
// disabled and compositions always use the deterministic path.
func ProvideEnhancer(cfg config.Config, log *zap.SugaredLogger, registry *theory.Registry) *Enhancer {
	var provider Provider
	if cfg.OpenAIKey != "" {
		provider = NewOpenAIProvider(cfg.OpenAIKey, cfg.EnhancerModel)
	}
	return NewEnhancer(
		provider,
		registry,
		log,
		time.Duration(cfg.EnhancerTimeoutSec)*time.Second,
		cfg.EnhancerBPMMin,
		cfg.EnhancerBPMMax,
	)
}

var Options = ProvideEnhancer
