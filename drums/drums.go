// Package drums produces per-genre step patterns and bar-expanded,
// humanized drum hits and fills.
package drums

import (
	"math/rand"
	"time"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/mapper"
	"github.com/asume21/codetune/parser"
	"github.com/asume21/codetune/theory"
	"github.com/asume21/codetune/util"
)

// Steps is the grid resolution of one bar.
const Steps = 16

// Pattern is a 16-step boolean grid for the four core drum voices.
type Pattern struct {
	Kick  [Steps]bool
	Snare [Steps]bool
	HiHat [Steps]bool
	Clap  [Steps]bool
}

func steps(idx ...int) [Steps]bool {
	var p [Steps]bool
	for _, i := range idx {
		p[i] = true
	}
	return p
}

// Fixed base patterns per genre. Unknown genres use the electronic pattern.
var genrePatterns = map[string]Pattern{
	"electronic": {
		Kick:  steps(0, 4, 8, 12),
		Snare: steps(4, 12),
		HiHat: steps(0, 2, 4, 6, 8, 10, 12, 14),
	},
	"house": {
		Kick:  steps(0, 4, 8, 12),
		Snare: steps(4, 12),
		HiHat: steps(2, 6, 10, 14),
		Clap:  steps(4, 12),
	},
	"techno": {
		Kick:  steps(0, 4, 8, 12),
		Snare: steps(4, 12),
		HiHat: steps(0, 2, 4, 6, 8, 10, 12, 14),
		Clap:  steps(4, 12),
	},
	"trance": {
		Kick:  steps(0, 4, 8, 12),
		Snare: steps(4, 12),
		HiHat: steps(2, 6, 10, 14),
	},
	"hiphop": {
		Kick:  steps(0, 7, 8),
		Snare: steps(4, 12),
		HiHat: steps(0, 2, 4, 6, 8, 10, 12, 14),
	},
	"lofi": {
		Kick:  steps(0, 10),
		Snare: steps(4, 12),
		HiHat: steps(0, 4, 8, 12),
	},
	"jazz": {
		Kick:  steps(0, 10),
		Snare: steps(4, 12),
		HiHat: steps(0, 3, 4, 8, 11, 12),
	},
	"blues": {
		Kick:  steps(0, 8),
		Snare: steps(4, 12),
		HiHat: steps(0, 3, 6, 8, 11, 14),
	},
	"rock": {
		Kick:  steps(0, 8, 10),
		Snare: steps(4, 12),
		HiHat: steps(0, 2, 4, 6, 8, 10, 12, 14),
	},
	"pop": {
		Kick:  steps(0, 8),
		Snare: steps(4, 12),
		HiHat: steps(0, 2, 4, 6, 8, 10, 12, 14),
		Clap:  steps(12),
	},
	"ambient": {
		Kick:  steps(0),
		HiHat: steps(8),
	},
	"orchestral": {
		Kick:  steps(0, 8),
		Snare: steps(12),
	},
}

// Complexity tier additions. Tiers are cumulative, so a higher tier's
// pattern is always a superset of a lower tier's.
var tierAdditions = []struct {
	maxComplexity int
	kick          []int
	hihat         []int
}{
	{3, nil, nil},
	{5, nil, []int{3, 11}},
	{7, []int{10}, []int{7, 15}},
	{10, []int{13, 15}, []int{1, 5, 9, 13}},
}

// BasePattern returns the genre's fixed 16-step pattern.
func BasePattern(genreID string) Pattern {
	if p, ok := genrePatterns[genreID]; ok {
		return p
	}
	return genrePatterns["electronic"]
}

// PatternFor merges the genre base pattern with every tier addition at or
// below the complexity level. Additions are unioned, never replacing base
// steps.
func PatternFor(genreID string, complexity int) Pattern {
	p := BasePattern(genreID)
	for _, tier := range tierAdditions {
		if complexity < tierFloor(tier.maxComplexity) {
			break
		}
		for _, s := range tier.kick {
			p.Kick[s] = true
		}
		for _, s := range tier.hihat {
			p.HiHat[s] = true
		}
	}
	return p
}

// tierFloor is the lowest complexity that activates a tier.
func tierFloor(maxComplexity int) int {
	switch maxComplexity {
	case 3:
		return 1
	case 5:
		return 4
	case 7:
		return 6
	default:
		return 8
	}
}

// CountSteps returns the number of active steps in a grid row.
func CountSteps(row [Steps]bool) int {
	n := 0
	for _, on := range row {
		if on {
			n++
		}
	}
	return n
}

// HumanizeMode controls where humanization randomness comes from.
type HumanizeMode int

const (
	// Seeded derives all jitter from the composition seed; identical
	// inputs produce identical output.
	Seeded HumanizeMode = iota
	// Live draws jitter from the clock for per-call freshness.
	Live
)

// ParseHumanizeMode maps a config string onto a mode, defaulting to Seeded.
func ParseHumanizeMode(s string) HumanizeMode {
	if s == "live" {
		return Live
	}
	return Seeded
}

// Result is the drum layer output: timed hits plus triggered fills.
type Result struct {
	Hits  []codetune.DrumHit
	Fills []codetune.Fill
}

// Generator expands step patterns into timed, humanized hits.
type Generator struct {
	mode HumanizeMode
}

// NewGenerator builds a Generator with the given humanization mode.
func NewGenerator(mode HumanizeMode) *Generator {
	return &Generator{mode: mode}
}

const (
	kickVelocity  = 100
	snareVelocity = 95
	hihatVelocity = 70
	clapVelocity  = 85

	downbeatBoost   = 15
	offbeatCut      = 10
	ghostVelocity   = 40
	ghostVelocity2  = 30
	timingJitterSec = 0.008
	velocityJitter  = 5
)

func (g *Generator) rng(variation int) *rand.Rand {
	if g.mode == Live {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(mapper.Seed("drums", variation)))
}

// Generate expands the merged pattern across the composition duration,
// applying velocity shaping, hi-hat alternation, ghost notes, humanization
// and per-kind fills.
func (g *Generator) Generate(parsed parser.ParsedCode, genre theory.GenreProfile, bpm int, totalDuration float64, variation int) Result {
	res := Result{Hits: []codetune.DrumHit{}, Fills: []codetune.Fill{}}
	if totalDuration <= 0 {
		return res
	}

	beat := 60.0 / float64(bpm)
	barDur := beat * 4
	stepDur := barDur / Steps
	bars := int(totalDuration / barDur)
	if bars < 1 {
		bars = 1
	}

	pattern := PatternFor(genre.ID, parsed.Complexity)
	rng := g.rng(variation)

	for bar := 0; bar < bars; bar++ {
		barStart := float64(bar) * barDur
		for step := 0; step < Steps; step++ {
			t := barStart + float64(step)*stepDur
			if pattern.Kick[step] {
				res.Hits = append(res.Hits, g.hit("kick", bar, step, t, kickVelocity, rng))
			}
			if pattern.Snare[step] {
				res.Hits = append(res.Hits, g.ghosts(bar, step, t, stepDur, parsed.Complexity)...)
				res.Hits = append(res.Hits, g.hit("snare", bar, step, t, snareVelocity, rng))
			}
			if pattern.HiHat[step] {
				voice := "hihat"
				// open hat on the back half of every pair of 8th notes
				if step%4 == 2 {
					voice = "openhat"
				}
				res.Hits = append(res.Hits, g.hit(voice, bar, step, t, hihatVelocity, rng))
			}
			if pattern.Clap[step] {
				res.Hits = append(res.Hits, g.hit("clap", bar, step, t, clapVelocity, rng))
			}
		}
	}

	res.Fills = g.fills(parsed, bars, barDur, stepDur)
	return res
}

func (g *Generator) hit(instrument string, bar, step int, t float64, base int, rng *rand.Rand) codetune.DrumHit {
	velocity := base
	if step%4 == 0 {
		velocity += downbeatBoost
	} else if step%2 == 1 {
		velocity -= offbeatCut
	}
	velocity += rng.Intn(velocityJitter*2+1) - velocityJitter
	t += (rng.Float64()*2 - 1) * timingJitterSec
	if t < 0 {
		t = 0
	}
	return codetune.DrumHit{
		Instrument: instrument,
		Step:       step,
		Bar:        bar,
		Start:      t,
		Velocity:   util.ClampInt(velocity, 0, 127),
	}
}

// ghosts inserts the low-velocity pre-hits that precede every snare.
func (g *Generator) ghosts(bar, step int, t, stepDur float64, complexity int) []codetune.DrumHit {
	var hits []codetune.DrumHit
	if lead := t - stepDur; lead >= 0 {
		hits = append(hits, codetune.DrumHit{
			Instrument: "snare",
			Step:       (step - 1 + Steps) % Steps,
			Bar:        bar,
			Start:      lead,
			Velocity:   ghostVelocity,
			Ghost:      true,
		})
	}
	if complexity > 7 {
		if lead := t - 2*stepDur; lead >= 0 {
			hits = append(hits, codetune.DrumHit{
				Instrument: "snare",
				Step:       (step - 2 + Steps) % Steps,
				Bar:        bar,
				Start:      lead,
				Velocity:   ghostVelocity2,
				Ghost:      true,
			})
		}
	}
	return hits
}

// fillSteps is the fixed fill figure per element kind, expressed as
// (step, voice, velocity) triples at the end of the bar.
type fillStep struct {
	step       int
	instrument string
	velocity   int
}

func fillFigure(kind parser.ElementKind) []fillStep {
	switch kind {
	case parser.KindClass:
		return []fillStep{{12, "snare", 80}, {13, "snare", 85}, {14, "snare", 95}, {15, "kick", 110}}
	case parser.KindFunction:
		return []fillStep{{14, "snare", 90}, {15, "snare", 100}}
	case parser.KindVariable:
		return []fillStep{{15, "hihat", 75}}
	case parser.KindLoop:
		return []fillStep{{12, "kick", 95}, {14, "kick", 100}}
	case parser.KindConditional:
		return []fillStep{{13, "snare", 80}, {15, "clap", 90}}
	case parser.KindImport:
		return []fillStep{{15, "openhat", 70}}
	case parser.KindReturn:
		return []fillStep{{14, "kick", 95}, {15, "snare", 100}}
	}
	return nil
}

// fillFrequency is the bar interval at which a kind triggers its fill.
func fillFrequency(kind parser.ElementKind) int {
	switch kind {
	case parser.KindClass:
		return 4
	case parser.KindFunction:
		return 2
	default:
		return 8
	}
}

func (g *Generator) fills(parsed parser.ParsedCode, bars int, barDur, stepDur float64) []codetune.Fill {
	present := map[parser.ElementKind]bool{}
	for _, el := range parsed.Elements {
		present[el.Kind] = true
	}

	fills := []codetune.Fill{}
	for bar := 1; bar < bars; bar++ {
		for _, kind := range parser.Kinds() {
			if !present[kind] || bar%fillFrequency(kind) != 0 {
				continue
			}
			figure := fillFigure(kind)
			hits := make([]codetune.DrumHit, 0, len(figure))
			for _, fs := range figure {
				hits = append(hits, codetune.DrumHit{
					Instrument: fs.instrument,
					Step:       fs.step,
					Bar:        bar,
					Start:      float64(bar)*barDur + float64(fs.step)*stepDur,
					Velocity:   fs.velocity,
				})
			}
			fills = append(fills, codetune.Fill{Bar: bar, Kind: kind.String(), Hits: hits})
		}
	}
	return fills
}
