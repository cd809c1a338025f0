package mapper

import (
	"testing"

	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/stretchr/testify/assert"
)

var cMajor = theory.ChordDefinition{
	Name:  "C",
	Root:  0,
	Tones: []int{60, 64, 67},
}

func TestHashStable(t *testing.T) {
	assert.Equal(t, Hash("class-Foo-1"), Hash("class-Foo-1"))
	assert.NotEqual(t, Hash("class-Foo-1"), Hash("class-Foo-2"))
	// order-sensitive, not a bag of characters
	assert.NotEqual(t, Hash("ab"), Hash("ba"))
}

func TestSeedVariationOffset(t *testing.T) {
	assert.Equal(t, Seed("drums", 0)+3, Seed("drums", 3))
	assert.NotEqual(t, Seed("drums", 0), Seed("arrange", 0))
}

func TestMapNoteDeterministic(t *testing.T) {
	el := parser.CodeElement{Kind: parser.KindFunction, Name: "play", Line: 3}

	a := MapNote(el, cMajor, 1, ModeHashed)
	b := MapNote(el, cMajor, 1, ModeHashed)
	assert.Equal(t, a, b)
}

func TestMapNoteIntelligentPreference(t *testing.T) {
	class := parser.CodeElement{Kind: parser.KindClass, Name: "Box", Line: 1}
	variable := parser.CodeElement{Kind: parser.KindVariable, Name: "x", Line: 2}
	function := parser.CodeElement{Kind: parser.KindFunction, Name: "f", Line: 3}

	// variation 0 in intelligent mode pins the per-kind chord tone
	assert.Equal(t, 60, MapNote(class, cMajor, 0, ModeIntelligent).Pitch)
	assert.Equal(t, 64, MapNote(function, cMajor, 0, ModeIntelligent).Pitch)
	assert.Equal(t, 67, MapNote(variable, cMajor, 0, ModeIntelligent).Pitch)
}

func TestMapNoteVariationShiftsTone(t *testing.T) {
	el := parser.CodeElement{Kind: parser.KindLoop, Name: "loop", Line: 8}

	pitches := map[int]bool{}
	for v := 0; v < 3; v++ {
		pitches[MapNote(el, cMajor, v, ModeHashed).Pitch] = true
	}
	// three consecutive variations walk all three chord tones
	assert.Len(t, pitches, 3)
}

func TestMapNoteDuration(t *testing.T) {
	class := parser.CodeElement{Kind: parser.KindClass, Name: "Box", Line: 1}
	imp := parser.CodeElement{Kind: parser.KindImport, Name: "import", Line: 1}

	assert.InDelta(t, 1.0, MapNote(class, cMajor, 0, ModeHashed).Duration, 1e-9)
	assert.InDelta(t, 0.25, MapNote(imp, cMajor, 0, ModeHashed).Duration, 1e-9)
}

func TestMapNoteNestingShortensAndFloors(t *testing.T) {
	shallow := parser.CodeElement{Kind: parser.KindLoop, Name: "loop", Line: 1, Nesting: 0}
	deep := parser.CodeElement{Kind: parser.KindLoop, Name: "loop", Line: 1, Nesting: 3}
	deepest := parser.CodeElement{Kind: parser.KindLoop, Name: "loop", Line: 1, Nesting: 20}

	assert.InDelta(t, 0.5, MapNote(shallow, cMajor, 0, ModeHashed).Duration, 1e-9)
	assert.InDelta(t, 0.35, MapNote(deep, cMajor, 0, ModeHashed).Duration, 1e-9)
	// scale never drops below half
	assert.InDelta(t, 0.25, MapNote(deepest, cMajor, 0, ModeHashed).Duration, 1e-9)
}

func TestMapNoteVelocityAndInstrument(t *testing.T) {
	class := parser.CodeElement{Kind: parser.KindClass, Name: "Box", Line: 1}
	imp := parser.CodeElement{Kind: parser.KindImport, Name: "import", Line: 1}

	classNote := MapNote(class, cMajor, 0, ModeHashed)
	assert.Equal(t, 100, classNote.Velocity)
	assert.Equal(t, "piano", classNote.Instrument)

	impNote := MapNote(imp, cMajor, 0, ModeHashed)
	assert.Equal(t, 70, impNote.Velocity)
	assert.Equal(t, "bell", impNote.Instrument)
}

func TestMapNoteSourceTag(t *testing.T) {
	el := parser.CodeElement{Kind: parser.KindReturn, Name: "return", Line: 9}
	assert.Equal(t, "return-return-9", MapNote(el, cMajor, 0, ModeHashed).SourceTag)
}
