// Package melody expands parsed code elements into the melodic layers of a
// composition: lead melody, bass line and harmonic pads.
package melody

import (
	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/mapper"
	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/asume21/codetune/util"
)

// ChordSpan is one chord's active window on the timeline.
type ChordSpan struct {
	Chord    theory.ChordDefinition
	Start    float64
	Duration float64
}

// Style selects how melody pitches are chosen.
type Style int

const (
	// StyleMapped emits one chord-tone note per element via the note
	// mapper. Every pitch belongs to the active chord.
	StyleMapped Style = iota
	// StylePhrased expands each element into a scale-constrained phrase
	// shaped by the contour derived from the code structure.
	StylePhrased
)

// Result bundles the three melodic layers.
type Result struct {
	Melody []codetune.MelodyNote
	Bass   []codetune.MelodyNote
	Pads   []codetune.MelodyNote
}

// Generator builds melodic layers against the theory registry.
type Generator struct {
	registry *theory.Registry
}

// NewGenerator builds a Generator.
func NewGenerator(registry *theory.Registry) *Generator {
	return &Generator{registry: registry}
}

// ScaleFor selects the scale for a genre and mood. Genre overrides win;
// otherwise the mood decides.
func ScaleFor(genreID string, mood codetune.Mood) string {
	switch genreID {
	case "blues":
		return "blues"
	case "jazz", "lofi":
		return "dorian"
	case "hiphop":
		if mood == codetune.MoodSad {
			return "minor"
		}
		return "pentatonic-minor"
	case "techno":
		return "phrygian"
	}
	switch mood {
	case codetune.MoodSad:
		return "minor"
	case codetune.MoodEnergetic:
		return "mixolydian"
	case codetune.MoodHappy:
		return "pentatonic-major"
	}
	return "major"
}

// genre-specific beat-length sequences; complexity decides when the genre
// has no override
var genreRhythms = map[string][]float64{
	"house":  {0.5, 0.5, 1, 0.5, 0.5, 1},
	"techno": {0.25, 0.25, 0.5, 0.25, 0.25, 0.5},
	"trance": {0.25, 0.25, 0.25, 0.25, 0.5, 0.5},
	"hiphop": {0.5, 0.25, 0.25, 1, 0.5, 0.5},
	"jazz":   {0.75, 0.25, 0.5, 0.5, 1},
	"lofi":   {1, 0.5, 0.5, 1},
	"blues":  {0.66, 0.34, 0.66, 0.34, 1},
}

// RhythmFor returns the beat-length sequence for a genre and complexity.
func RhythmFor(genreID string, complexity int) []float64 {
	if r, ok := genreRhythms[genreID]; ok {
		return r
	}
	switch {
	case complexity <= 3:
		return []float64{1, 1, 2}
	case complexity <= 6:
		return []float64{0.5, 0.5, 1, 1}
	default:
		return []float64{0.25, 0.25, 0.5, 0.5, 0.5}
	}
}

// contour tables: fixed sequences of scale-degree deltas
var contours = map[string][]int{
	"ascending": {1, 1, 2, 1},
	"stepwise":  {1, -1, 1, -1},
	"wave":      {2, -1, 2, -2, 1, -1},
	"pendulum":  {3, -3, 4, -4},
	"arch":      {2, 2, 1, -1, -2, -2},
	"leaps":     {4, -3, 5, -4},
}

// contourRuleThreshold is the element count at which a structural rule
// claims the contour.
const contourRuleThreshold = 3

// ContourFor derives the contour name from structural statistics. Rules
// are evaluated in fixed priority order; the first match wins.
func ContourFor(parsed parser.ParsedCode) string {
	switch {
	case parsed.CountKind(parser.KindFunction) >= contourRuleThreshold:
		return "wave"
	case parsed.CountKind(parser.KindLoop) >= contourRuleThreshold:
		return "pendulum"
	case parsed.CountKind(parser.KindConditional) >= contourRuleThreshold:
		return "arch"
	case parsed.Complexity > 7:
		return "leaps"
	case parsed.Complexity < 3:
		return "stepwise"
	default:
		return "ascending"
	}
}

// phraseLength is the number of notes an element expands into.
func phraseLength(kind parser.ElementKind) int {
	switch kind {
	case parser.KindClass:
		return 8
	case parser.KindFunction:
		return 6
	case parser.KindLoop:
		return 4
	case parser.KindConditional:
		return 3
	case parser.KindVariable:
		return 2
	case parser.KindReturn:
		return 2
	case parser.KindImport:
		return 1
	}
	return 2
}

// degreeOffset shifts the phrase's starting scale degree per kind.
func degreeOffset(kind parser.ElementKind) int {
	switch kind {
	case parser.KindClass:
		return 0
	case parser.KindFunction:
		return 2
	case parser.KindVariable:
		return 4
	case parser.KindLoop:
		return 1
	case parser.KindConditional:
		return 3
	case parser.KindImport:
		return 5
	case parser.KindReturn:
		return 0
	}
	return 0
}

const (
	minDegree = -7
	maxDegree = 14
	// melodic pitches stay within octaves 3-6 (MIDI 48-95)
	minPitch = 48
	maxPitch = 95
)

// DegreeToPitch converts a scale degree to a MIDI pitch rooted at the
// given pitch class around octave 4, folded into the configured octave
// range.
func DegreeToPitch(scale []int, rootPC, degree int) int {
	n := len(scale)
	idx := ((degree % n) + n) % n
	octShift := degree / n
	if degree < 0 && degree%n != 0 {
		octShift--
	}
	pitch := 60 + rootPC + scale[idx] + 12*octShift
	for pitch < minPitch {
		pitch += 12
	}
	for pitch > maxPitch {
		pitch -= 12
	}
	return pitch
}

// Generate expands the element stream into melody, bass and pad layers.
// All layers are deterministic for fixed inputs. The returned slices are
// never nil.
func (g *Generator) Generate(parsed parser.ParsedCode, spans []ChordSpan, genre theory.GenreProfile, bpm, variation int, style Style) Result {
	res := Result{
		Melody: []codetune.MelodyNote{},
		Bass:   []codetune.MelodyNote{},
		Pads:   []codetune.MelodyNote{},
	}
	if len(spans) == 0 {
		return res
	}

	if len(parsed.Elements) > 0 {
		if style == StyleMapped {
			res.Melody = g.mappedMelody(parsed, spans, bpm, variation)
		} else {
			res.Melody = g.phrasedMelody(parsed, spans, genre, bpm, variation)
		}
	}
	res.Bass = g.bassLine(parsed, spans, genre, bpm)
	res.Pads = g.padLayer(parsed, spans, genre)
	return res
}

// chordAt returns the span covering time t, cycling past the last span.
func chordAt(spans []ChordSpan, t float64) ChordSpan {
	total := spans[len(spans)-1].Start + spans[len(spans)-1].Duration
	if total <= 0 {
		return spans[0]
	}
	for t >= total {
		t -= total
	}
	for _, s := range spans {
		if t < s.Start+s.Duration {
			return s
		}
	}
	return spans[len(spans)-1]
}

func (g *Generator) mappedMelody(parsed parser.ParsedCode, spans []ChordSpan, bpm, variation int) []codetune.MelodyNote {
	beat := 60.0 / float64(bpm)
	notes := make([]codetune.MelodyNote, 0, len(parsed.Elements))
	t := 0.0
	for _, el := range parsed.Elements {
		note := mapper.MapNote(el, chordAt(spans, t).Chord, variation, mapper.ModeIntelligent)
		note.Start = t
		notes = append(notes, note)
		t += beat
	}
	return notes
}

func (g *Generator) phrasedMelody(parsed parser.ParsedCode, spans []ChordSpan, genre theory.GenreProfile, bpm, variation int) []codetune.MelodyNote {
	beat := 60.0 / float64(bpm)
	scaleName := ScaleFor(genre.ID, parsed.Mood)
	scale := g.registry.Scale(scaleName)
	rhythm := RhythmFor(genre.ID, parsed.Complexity)
	contour := contours[ContourFor(parsed)]

	var notes []codetune.MelodyNote
	t := 0.0
	rhythmIdx := 0

	for _, el := range parsed.Elements {
		key := el.Key()
		h := mapper.Hash(key)
		base := mapper.MapNote(el, chordAt(spans, t).Chord, variation, mapper.ModeIntelligent)
		rootPC := chordAt(spans, t).Chord.Root

		length := phraseLength(el.Kind)
		degree := int(h%7) + degreeOffset(el.Kind)

		var phrase []codetune.MelodyNote
		for i := 0; i < length; i++ {
			if i > 0 {
				step := contour[int((h+uint64(i))%uint64(len(contour)))]
				degree = util.ClampInt(degree+step, minDegree, maxDegree)
			}
			dur := rhythm[rhythmIdx%len(rhythm)] * beat
			rhythmIdx++

			phrase = append(phrase, codetune.MelodyNote{
				Pitch:      DegreeToPitch(scale, rootPC, degree),
				Start:      t,
				Duration:   dur,
				Velocity:   base.Velocity,
				Instrument: genre.Instruments.Melody,
				SourceTag:  key,
			})
			t += dur
		}

		shapeVelocities(phrase)
		notes = append(notes, phrase...)
		notes = append(notes, g.graceNotes(phrase, parsed.Complexity, h)...)
	}
	return notes
}

// shapeVelocities accents phrase boundaries and downbeats.
func shapeVelocities(phrase []codetune.MelodyNote) {
	for i := range phrase {
		v := float64(phrase[i].Velocity)
		if i == 0 || i == len(phrase)-1 {
			v *= 1.2
		}
		if i%2 == 0 {
			v *= 1.1
		}
		phrase[i].Velocity = util.ClampInt(int(v), 0, 127)
	}
}

const (
	graceLead          = 0.05 // seconds
	graceVelocityRatio = 0.7
)

// graceNotes ornaments a phrase. Dense code gets more ornaments; simple
// code gets none.
func (g *Generator) graceNotes(phrase []codetune.MelodyNote, complexity int, h uint64) []codetune.MelodyNote {
	if complexity < 5 {
		return nil
	}
	window := uint64(20) // ~5%
	if complexity > 7 {
		window = 10 // ~10%
	}

	var graces []codetune.MelodyNote
	for i, n := range phrase {
		if (h+uint64(i*31))%window != 0 {
			continue
		}
		start := n.Start - graceLead
		if start < 0 {
			continue
		}
		graces = append(graces, codetune.MelodyNote{
			Pitch:      util.ClampInt(n.Pitch-1, minPitch, maxPitch),
			Start:      start,
			Duration:   graceLead,
			Velocity:   util.ClampInt(int(float64(n.Velocity)*graceVelocityRatio), 0, 127),
			Instrument: n.Instrument,
			SourceTag:  n.SourceTag,
		})
	}
	return graces
}

// bassLine places one note per beat under every chord span: the root,
// except beat three which takes the fifth in sufficiently complex code.
// Loop-heavy code gets driving eighth-note root repeats.
func (g *Generator) bassLine(parsed parser.ParsedCode, spans []ChordSpan, genre theory.GenreProfile, bpm int) []codetune.MelodyNote {
	beat := 60.0 / float64(bpm)
	loopHeavy := parsed.CountKind(parser.KindLoop) >= 2
	notes := []codetune.MelodyNote{}

	for _, span := range spans {
		beats := int(span.Duration/beat + 0.5)
		root := span.Chord.Tones[0] - 24
		for b := 0; b < beats; b++ {
			pitch := root
			if b == 2 && parsed.Complexity > 5 && len(span.Chord.Tones) >= 3 {
				pitch = span.Chord.Tones[2] - 24
			}
			start := span.Start + float64(b)*beat
			notes = append(notes, codetune.MelodyNote{
				Pitch:      pitch,
				Start:      start,
				Duration:   beat * 0.9,
				Velocity:   90,
				Instrument: genre.Instruments.Bass,
			})
			if loopHeavy {
				notes = append(notes, codetune.MelodyNote{
					Pitch:      root,
					Start:      start + beat/2,
					Duration:   beat * 0.4,
					Velocity:   75,
					Instrument: genre.Instruments.Bass,
				})
			}
		}
	}
	return notes
}

const (
	padVelocity          = 50
	padVelocityEnergetic = 70
	padSustainRatio      = 0.95
)

// padLayer sustains every chord tone for nearly the full chord duration.
func (g *Generator) padLayer(parsed parser.ParsedCode, spans []ChordSpan, genre theory.GenreProfile) []codetune.MelodyNote {
	velocity := padVelocity
	if parsed.Mood == codetune.MoodEnergetic {
		velocity = padVelocityEnergetic
	}

	notes := []codetune.MelodyNote{}
	for _, span := range spans {
		for _, tone := range span.Chord.Tones {
			notes = append(notes, codetune.MelodyNote{
				Pitch:      tone,
				Start:      span.Start,
				Duration:   span.Duration * padSustainRatio,
				Velocity:   velocity,
				Instrument: genre.Instruments.Pad,
			})
		}
	}
	return notes
}
