// Package mapper turns individual code elements into concrete notes.
// Every decision is derived from a content-addressed hash of the element,
// so identical inputs always map to identical notes.
package mapper

import (
	"hash/fnv"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/asume21/codetune/util"
)

// Mode selects the tone-picking strategy.
type Mode int

const (
	// ModeHashed always derives the chord tone from the element hash.
	ModeHashed Mode = iota
	// ModeIntelligent uses the per-kind preferred chord tone when
	// variation is zero, making variation 0 the canonical rendering.
	ModeIntelligent
)

// BaseDuration is the reference note length in seconds before the per-kind
// multiplier is applied.
const BaseDuration = 0.5

// Hash is the order-sensitive FNV-1a hash used for all content-addressed
// decisions in the pipeline.
func Hash(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

// Seed derives the deterministic humanization seed for an element key and
// variation.
func Seed(key string, variation int) int64 {
	return int64(Hash(key)) + int64(variation)
}

// durationMultiplier scales the base note length per element kind.
func durationMultiplier(kind parser.ElementKind) float64 {
	switch kind {
	case parser.KindClass:
		return 2.0
	case parser.KindFunction:
		return 1.5
	case parser.KindVariable:
		return 0.5
	case parser.KindLoop:
		return 1.0
	case parser.KindConditional:
		return 0.75
	case parser.KindImport:
		return 0.5
	case parser.KindReturn:
		return 1.0
	}
	return 1.0
}

// velocityBoost offsets the base velocity of 80 per element kind.
func velocityBoost(kind parser.ElementKind) int {
	switch kind {
	case parser.KindClass:
		return 20
	case parser.KindFunction:
		return 10
	case parser.KindVariable:
		return 0
	case parser.KindLoop:
		return 15
	case parser.KindConditional:
		return 5
	case parser.KindImport:
		return -10
	case parser.KindReturn:
		return 8
	}
	return 0
}

// Instrument names the instrument tag for an element kind.
func Instrument(kind parser.ElementKind) string {
	switch kind {
	case parser.KindClass:
		return "piano"
	case parser.KindFunction:
		return "epiano"
	case parser.KindVariable:
		return "pluck"
	case parser.KindLoop:
		return "synth-lead"
	case parser.KindConditional:
		return "strings"
	case parser.KindImport:
		return "bell"
	case parser.KindReturn:
		return "piano"
	}
	return "piano"
}

// preferredToneIndex is the musically intentional chord tone per kind:
// root for structural anchors, third for flow constructs, fifth for data.
func preferredToneIndex(kind parser.ElementKind) int {
	switch kind {
	case parser.KindClass, parser.KindLoop, parser.KindReturn:
		return 0
	case parser.KindFunction, parser.KindConditional:
		return 1
	case parser.KindVariable, parser.KindImport:
		return 2
	}
	return 0
}

const baseVelocity = 80

// MapNote maps one element onto a note drawn from the current chord.
// The note's Start is zero; callers place it on the timeline.
func MapNote(el parser.CodeElement, chord theory.ChordDefinition, variation int, mode Mode) codetune.MelodyNote {
	toneIdx := int((Hash(el.Key()) + uint64(variation)) % uint64(len(chord.Tones)))
	if mode == ModeIntelligent && variation == 0 {
		toneIdx = preferredToneIndex(el.Kind) % len(chord.Tones)
	}

	nestingScale := 1.0 - float64(el.Nesting)*0.1
	if nestingScale < 0.5 {
		nestingScale = 0.5
	}

	return codetune.MelodyNote{
		Pitch:      chord.Tones[toneIdx],
		Duration:   BaseDuration * durationMultiplier(el.Kind) * nestingScale,
		Velocity:   util.ClampInt(baseVelocity+velocityBoost(el.Kind), 0, 127),
		Instrument: Instrument(el.Kind),
		SourceTag:  el.Key(),
	}
}
