package drums

import (
	"testing"

	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePatternFallback(t *testing.T) {
	assert.Equal(t, BasePattern("electronic"), BasePattern("polka"))
	assert.NotEqual(t, BasePattern("electronic"), BasePattern("hiphop"))
}

func TestPatternForIsSuperset(t *testing.T) {
	for genre := range genrePatterns {
		prev := PatternFor(genre, 1)
		for cx := 2; cx <= 10; cx++ {
			cur := PatternFor(genre, cx)
			for s := 0; s < Steps; s++ {
				if prev.Kick[s] {
					assert.True(t, cur.Kick[s], "genre=%s cx=%d kick step %d lost", genre, cx, s)
				}
				if prev.HiHat[s] {
					assert.True(t, cur.HiHat[s], "genre=%s cx=%d hihat step %d lost", genre, cx, s)
				}
				assert.Equal(t, prev.Snare[s], cur.Snare[s])
				assert.Equal(t, prev.Clap[s], cur.Clap[s])
			}
			prev = cur
		}
	}
}

func TestPatternForHiphopTiers(t *testing.T) {
	base := BasePattern("hiphop")
	assert.Equal(t, 8, CountSteps(base.HiHat))
	assert.Equal(t, 3, CountSteps(base.Kick))

	// above complexity 5 the hi-hat row strictly exceeds the base
	mid := PatternFor("hiphop", 6)
	assert.Greater(t, CountSteps(mid.HiHat), CountSteps(base.HiHat))
	assert.Equal(t, 12, CountSteps(mid.HiHat))

	dense := PatternFor("hiphop", 10)
	assert.Equal(t, 16, CountSteps(dense.HiHat))
	assert.Equal(t, 6, CountSteps(dense.Kick))
}

func TestParseHumanizeMode(t *testing.T) {
	assert.Equal(t, Live, ParseHumanizeMode("live"))
	assert.Equal(t, Seeded, ParseHumanizeMode("seeded"))
	assert.Equal(t, Seeded, ParseHumanizeMode(""))
	assert.Equal(t, Seeded, ParseHumanizeMode("nonsense"))
}

func TestGenerateSeededDeterministic(t *testing.T) {
	g := NewGenerator(Seeded)
	parsed := parser.Parse("class A:\n    def f(self):\n        return 1\n", "python")
	genre := theory.New().Genre("house")

	a := g.Generate(parsed, genre, 124, 16, 2)
	b := g.Generate(parsed, genre, 124, 16, 2)
	assert.Equal(t, a, b)

	c := g.Generate(parsed, genre, 124, 16, 3)
	assert.NotEqual(t, a, c)
}

func TestGenerateInvariants(t *testing.T) {
	g := NewGenerator(Seeded)
	parsed := parser.Parse("class A:\n    def f(self):\n        for i in x:\n            return 1\n", "python")
	genre := theory.New().Genre("hiphop")

	res := g.Generate(parsed, genre, 90, 30, 0)
	require.NotEmpty(t, res.Hits)
	for _, h := range res.Hits {
		assert.GreaterOrEqual(t, h.Step, 0)
		assert.Less(t, h.Step, Steps)
		assert.GreaterOrEqual(t, h.Start, 0.0)
		assert.GreaterOrEqual(t, h.Velocity, 0)
		assert.LessOrEqual(t, h.Velocity, 127)
	}
}

func TestGenerateZeroDuration(t *testing.T) {
	g := NewGenerator(Seeded)
	res := g.Generate(parser.ParsedCode{}, theory.New().Genre("house"), 120, 0, 0)
	assert.NotNil(t, res.Hits)
	assert.NotNil(t, res.Fills)
	assert.Empty(t, res.Hits)
}

func TestGenerateOpenHat(t *testing.T) {
	g := NewGenerator(Seeded)
	parsed := parser.ParsedCode{Complexity: 1}
	genre := theory.New().Genre("electronic")

	res := g.Generate(parsed, genre, 120, 8, 0)
	open := 0
	for _, h := range res.Hits {
		if h.Instrument == "openhat" {
			open++
			assert.Equal(t, 2, h.Step%4)
		}
	}
	assert.Greater(t, open, 0)
}

func TestGhostsPrecedeSnares(t *testing.T) {
	g := NewGenerator(Seeded)
	parsed := parser.ParsedCode{Complexity: 3}
	genre := theory.New().Genre("house")

	res := g.Generate(parsed, genre, 120, 8, 0)
	ghosts := 0
	for _, h := range res.Hits {
		if h.Ghost {
			ghosts++
			assert.Equal(t, "snare", h.Instrument)
			assert.Equal(t, ghostVelocity, h.Velocity)
		}
	}
	assert.Greater(t, ghosts, 0)
}

func TestGhostsDoubleAtHighComplexity(t *testing.T) {
	g := NewGenerator(Seeded)
	genre := theory.New().Genre("house")

	low := g.Generate(parser.ParsedCode{Complexity: 3}, genre, 120, 8, 0)
	high := g.Generate(parser.ParsedCode{Complexity: 8}, genre, 120, 8, 0)

	count := func(r Result) int {
		n := 0
		for _, h := range r.Hits {
			if h.Ghost {
				n++
			}
		}
		return n
	}
	assert.Greater(t, count(high), count(low))
}

func TestFillsTriggerPerKind(t *testing.T) {
	g := NewGenerator(Seeded)
	parsed := parser.ParsedCode{
		Elements: []parser.CodeElement{
			{Kind: parser.KindClass, Name: "A", Line: 1},
			{Kind: parser.KindFunction, Name: "f", Line: 2},
		},
		Complexity: 3,
	}
	genre := theory.New().Genre("rock")

	// 8 bars at 120 bpm: barDur = 2s
	res := g.Generate(parsed, genre, 120, 16, 0)

	byKind := map[string][]int{}
	for _, f := range res.Fills {
		byKind[f.Kind] = append(byKind[f.Kind], f.Bar)
	}
	assert.Equal(t, []int{4}, byKind["class"])
	assert.Equal(t, []int{2, 4, 6}, byKind["function"])
	assert.Empty(t, byKind["loop"])

	for _, f := range res.Fills {
		require.NotEmpty(t, f.Hits)
		for _, h := range f.Hits {
			assert.Equal(t, f.Bar, h.Bar)
		}
	}
}

func TestFillsNeverOnBarZero(t *testing.T) {
	g := NewGenerator(Seeded)
	parsed := parser.ParsedCode{
		Elements:   []parser.CodeElement{{Kind: parser.KindFunction, Name: "f", Line: 1}},
		Complexity: 2,
	}
	res := g.Generate(parsed, theory.New().Genre("pop"), 120, 4, 0)
	for _, f := range res.Fills {
		assert.Greater(t, f.Bar, 0)
	}
}
