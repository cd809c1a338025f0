// Package arrange partitions a composition into named sections and lays
// the final ordered event timeline across them.
package arrange

import (
	"math/rand"
	"sort"
	"time"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/drums"
	"github.com/asume21/codetune/mapper"
	"github.com/asume21/codetune/melody"
	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/asume21/codetune/util"
)

// RhythmProfile governs event timing and placement within sections.
type RhythmProfile struct {
	Legato       float64
	Quantization int
	Swing        float64
	Syncopation  float64
}

// ProfileFor derives the global rhythmic profile from code structure.
func ProfileFor(parsed parser.ParsedCode) RhythmProfile {
	legato := 1.0 - float64(parsed.Complexity)/15.0
	if legato < 0.1 {
		legato = 0.1
	}
	quantization := 8
	if len(parsed.Elements) > 20 {
		quantization = 16
	}
	swing := float64(parsed.Complexity) / 50.0
	if swing > 0.3 {
		swing = 0.3
	}
	syncopation := parsed.AvgNesting() / 10.0
	if syncopation > 0.8 {
		syncopation = 0.8
	}
	return RhythmProfile{
		Legato:       legato,
		Quantization: quantization,
		Swing:        swing,
		Syncopation:  syncopation,
	}
}

// Order selects the chord-progression order strategy for layout.
type Order int

const (
	// OrderFixed walks the progression in registry order.
	OrderFixed Order = iota
	// OrderShuffled rotates the progression by the variation seed.
	OrderShuffled
)

// Sections partitions the composition by fixed rules. Sections are always
// contiguous: each starts exactly where the previous one ends.
func Sections(parsed parser.ParsedCode, scaleMode string) []codetune.MusicalSection {
	elementCount := len(parsed.Elements)
	scaleFactor := util.Clamp(float64(elementCount)/30.0, 0.5, 2.0)

	var sections []codetune.MusicalSection
	cursor := 0.0
	push := func(s codetune.MusicalSection) {
		s.Start = cursor
		cursor += s.Duration
		sections = append(sections, s)
	}

	introCount := parsed.CountKind(parser.KindImport) + parsed.CountKind(parser.KindVariable)
	if introCount > 0 {
		push(codetune.MusicalSection{
			Name:             "Intro",
			Duration:         util.Clamp(float64(introCount)*0.5, 4, 12),
			Intensity:        0.3,
			InstrumentLayers: []string{"pad", "sub-bass"},
			ScaleMode:        scaleMode,
		})
	}

	push(codetune.MusicalSection{
		Name:             "Verse",
		Duration:         16 * scaleFactor,
		Intensity:        0.6,
		InstrumentLayers: []string{"melody", "bass", "drums"},
		ScaleMode:        scaleMode,
	})

	chorusMode := scaleMode
	if parsed.Complexity > 5 {
		chorusMode = "lydian"
	}
	push(codetune.MusicalSection{
		Name:             "Chorus",
		Duration:         16 * scaleFactor,
		Intensity:        0.9,
		InstrumentLayers: []string{"melody", "bass", "drums", "pad"},
		ScaleMode:        chorusMode,
	})

	if parsed.CountKind(parser.KindConditional) > 0 {
		push(codetune.MusicalSection{
			Name:             "Bridge",
			Duration:         8 * scaleFactor,
			Intensity:        0.7,
			InstrumentLayers: []string{"glitch", "syncopated-bass"},
			ScaleMode:        "phrygian",
		})
	}

	push(codetune.MusicalSection{
		Name:             "Outro",
		Duration:         util.Clamp(8*scaleFactor, 4, 16),
		Intensity:        0.25,
		InstrumentLayers: []string{"pad"},
		ScaleMode:        scaleMode,
	})

	return sections
}

// TotalDuration sums the section durations.
func TotalDuration(sections []codetune.MusicalSection) float64 {
	total := 0.0
	for _, s := range sections {
		total += s.Duration
	}
	return total
}

// Generator lays out timeline events over arranged sections.
type Generator struct {
	registry *theory.Registry
	mode     drums.HumanizeMode
}

// NewGenerator builds a Generator.
func NewGenerator(registry *theory.Registry, mode drums.HumanizeMode) *Generator {
	return &Generator{registry: registry, mode: mode}
}

func (g *Generator) rng(section string, variation int) *rand.Rand {
	if g.mode == drums.Live {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(mapper.Seed("arrange-"+section, variation)))
}

// percussive layers carry a fixed pitch instead of a scale degree
var layerPitches = map[string]int{
	"drums":  36,
	"glitch": 42,
}

// bass-register layers sound two octaves down
var bassLayers = map[string]bool{
	"bass":            true,
	"sub-bass":        true,
	"syncopated-bass": true,
}

// Layout places one event per instrument layer per quantized step across
// every section, applying swing, syncopation and intensity-biased degree
// selection. The progression order strategy is explicit: fixed registry
// order, or rotation by the variation seed.
func (g *Generator) Layout(
	sections []codetune.MusicalSection,
	profile RhythmProfile,
	progression []theory.ChordDefinition,
	bpm, variation int,
	order Order,
) []codetune.TimelineEvent {
	events := []codetune.TimelineEvent{}
	if len(sections) == 0 || len(progression) == 0 || profile.Quantization <= 0 {
		return events
	}

	if order == OrderShuffled {
		progression = rotate(progression, variation)
	}

	beat := 60.0 / float64(bpm)
	barDur := beat * 4
	stepLen := barDur / float64(profile.Quantization)

	for _, section := range sections {
		rng := g.rng(section.Name, variation)
		scale := g.registry.Scale(section.ScaleMode)

		stepCount := int(section.Duration / stepLen)
		for i := 0; i < stepCount; i++ {
			start := section.Start + float64(i)*stepLen

			if profile.Syncopation > 0 && rng.Float64() < profile.Syncopation {
				start += stepLen * 0.25
			}
			if i%2 == 1 {
				start += stepLen * profile.Swing * 0.5
			}

			bar := int((start - section.Start) / barDur)
			chord := progression[((bar%len(progression))+len(progression))%len(progression)]

			// intensity biases the degree window upward
			degree := rng.Intn(len(scale)) + int(section.Intensity*7)
			pitch := melody.DegreeToPitch(scale, chord.Root, degree)

			velocity := util.ClampInt(int(60+section.Intensity*50)+rng.Intn(11)-5, 0, 127)
			duration := stepLen * profile.Legato
			if duration <= 0 {
				duration = stepLen * 0.1
			}

			for _, layer := range section.InstrumentLayers {
				eventPitch := pitch
				if fixed, ok := layerPitches[layer]; ok {
					eventPitch = fixed
				} else if bassLayers[layer] {
					eventPitch = util.ClampInt(chord.Tones[0]-24, 0, 127)
				}
				events = append(events, codetune.TimelineEvent{
					Section:    section.Name,
					Instrument: layer,
					Pitch:      eventPitch,
					Start:      start,
					Duration:   duration,
					Velocity:   velocity,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Start < events[j].Start })
	return events
}

func rotate(progression []theory.ChordDefinition, variation int) []theory.ChordDefinition {
	n := len(progression)
	shift := ((variation % n) + n) % n
	out := make([]theory.ChordDefinition, n)
	for i := range progression {
		out[i] = progression[(i+shift)%n]
	}
	return out
}
