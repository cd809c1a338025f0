package util

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// Clamp constrains v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt constrains v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDINoteName converts a MIDI note number to scientific pitch notation.
// Middle C (60) is C4.
func MIDINoteName(midi int) string {
	octave := midi/12 - 1
	return fmt.Sprintf("%s%d", noteNames[((midi%12)+12)%12], octave)
}

// PitchClassName returns the note name for a pitch class 0-11 (0 = C).
func PitchClassName(pc int) string {
	return noteNames[((pc%12)+12)%12]
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
