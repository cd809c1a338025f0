package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.2, 0.5, 2))
	assert.Equal(t, 2.0, Clamp(3, 0.5, 2))
	assert.Equal(t, 1.0, Clamp(1, 0.5, 2))

	assert.Equal(t, 0, ClampInt(-5, 0, 127))
	assert.Equal(t, 127, ClampInt(300, 0, 127))
	assert.Equal(t, 64, ClampInt(64, 0, 127))
}

func TestMIDINoteName(t *testing.T) {
	assert.Equal(t, "C4", MIDINoteName(60))
	assert.Equal(t, "A4", MIDINoteName(69))
	assert.Equal(t, "C#4", MIDINoteName(61))
	assert.Equal(t, "B3", MIDINoteName(59))
	assert.Equal(t, "C0", MIDINoteName(12))
}

func TestPitchClassName(t *testing.T) {
	assert.Equal(t, "C", PitchClassName(0))
	assert.Equal(t, "A", PitchClassName(9))
	assert.Equal(t, "C", PitchClassName(12))
	assert.Equal(t, "B", PitchClassName(-1))
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}
