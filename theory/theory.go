package theory

import (
	"strings"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/util"
)

// DefaultGenre is the fallback profile id for unknown genre lookups.
const DefaultGenre = "electronic"

// ChordQuality is the closed set of chord kinds the registry builds.
type ChordQuality int

const (
	Major ChordQuality = iota
	Minor
	Power
	Seventh
)

func (q ChordQuality) String() string {
	switch q {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Power:
		return "power"
	case Seventh:
		return "seventh"
	}
	return "unknown"
}

// qualityIntervals maps each chord quality to its semitone offsets from the root.
func qualityIntervals(q ChordQuality) []int {
	switch q {
	case Major:
		return []int{0, 4, 7}
	case Minor:
		return []int{0, 3, 7}
	case Power:
		return []int{0, 7}
	case Seventh:
		return []int{0, 4, 7, 10}
	}
	return []int{0, 4, 7}
}

// ChordDefinition is a named chord with its tones voiced around octave 4.
type ChordDefinition struct {
	Name         string
	Root         int // pitch class, 0 = C
	Tones        []int
	Quality      ChordQuality
	RomanNumeral string
}

// BPMWindow is the tempo range a genre is expected to live in.
type BPMWindow struct {
	Min     int
	Max     int
	Default int
}

// Clamp snaps bpm into the window, using the default for non-positive input.
func (w BPMWindow) Clamp(bpm int) int {
	if bpm <= 0 {
		return w.Default
	}
	return util.ClampInt(bpm, w.Min, w.Max)
}

// Instruments names the instrument tag for each melodic layer of a genre.
type Instruments struct {
	Melody string
	Bass   string
	Pad    string
}

// GenreProfile is the static musical identity of one genre. Profiles are
// built once at process start and shared read-only.
type GenreProfile struct {
	ID              string
	Chords          []ChordDefinition
	Progressions    [][]string
	MoodMap         map[codetune.Mood][]string
	BPM             BPMWindow
	Instruments     Instruments
	Scales          []string
	RhythmicFeel    string
	HarmonicDensity float64
	Tension         int
}

// Registry holds the immutable genre and scale tables.
type Registry struct {
	genres map[string]GenreProfile
	scales map[string][]int
}

// middle-C-octave voicing for chord tones
const chordOctaveBase = 60

func chord(name string, root int, q ChordQuality, roman string) ChordDefinition {
	intervals := qualityIntervals(q)
	tones := make([]int, len(intervals))
	for i, iv := range intervals {
		tones[i] = chordOctaveBase + root + iv
	}
	return ChordDefinition{Name: name, Root: root, Tones: tones, Quality: q, RomanNumeral: roman}
}

// New builds the registry. All tables are fixed; the returned registry is
// safe for concurrent use.
func New() *Registry {
	r := &Registry{
		genres: make(map[string]GenreProfile),
		scales: map[string][]int{
			"major":            {0, 2, 4, 5, 7, 9, 11},
			"minor":            {0, 2, 3, 5, 7, 8, 10},
			"pentatonic-major": {0, 2, 4, 7, 9},
			"pentatonic-minor": {0, 3, 5, 7, 10},
			"blues":            {0, 3, 5, 6, 7, 10},
			"dorian":           {0, 2, 3, 5, 7, 9, 10},
			"mixolydian":       {0, 2, 4, 5, 7, 9, 10},
			"lydian":           {0, 2, 4, 6, 7, 9, 11},
			"phrygian":         {0, 1, 3, 5, 7, 8, 10},
			"harmonic-minor":   {0, 2, 3, 5, 7, 8, 11},
		},
	}

	add := func(p GenreProfile) { r.genres[p.ID] = p }

	// Shared chord vocabulary. Each genre picks from these by name.
	am := chord("Am", 9, Minor, "i")
	c := chord("C", 0, Major, "III")
	cq := chord("C", 0, Major, "I")
	dm := chord("Dm", 2, Minor, "iv")
	em := chord("Em", 4, Minor, "v")
	e7 := chord("E7", 4, Seventh, "V7")
	f := chord("F", 5, Major, "VI")
	fq := chord("F", 5, Major, "IV")
	g := chord("G", 7, Major, "VII")
	gq := chord("G", 7, Major, "V")
	a7 := chord("A7", 9, Seventh, "I7")
	d7 := chord("D7", 2, Seventh, "IV7")
	g7 := chord("G7", 7, Seventh, "V7")
	e5 := chord("E5", 4, Power, "i")
	g5 := chord("G5", 7, Power, "III")
	a5 := chord("A5", 9, Power, "IV")
	d5 := chord("D5", 2, Power, "VII")
	fm := chord("Fm", 5, Minor, "iv")
	gm := chord("Gm", 7, Minor, "v")
	cm := chord("Cm", 0, Minor, "i")
	abq := chord("Ab", 8, Major, "VI")
	ebq := chord("Eb", 3, Major, "III")
	bbq := chord("Bb", 10, Major, "VII")

	add(GenreProfile{
		ID:     "electronic",
		Chords: []ChordDefinition{am, f, c, g, dm, em},
		Progressions: [][]string{
			{"Am", "F", "C", "G"},
			{"Am", "C", "G", "F"},
			{"Dm", "Am", "F", "G"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodHappy:     {"C", "G", "Am", "F"},
			codetune.MoodSad:       {"Am", "Dm", "F", "Em"},
			codetune.MoodEnergetic: {"Am", "G", "F", "G"},
		},
		BPM:             BPMWindow{Min: 110, Max: 140, Default: 128},
		Instruments:     Instruments{Melody: "synth-lead", Bass: "synth-bass", Pad: "synth-pad"},
		Scales:          []string{"minor", "pentatonic-minor"},
		RhythmicFeel:    "straight",
		HarmonicDensity: 0.6,
		Tension:         5,
	})

	add(GenreProfile{
		ID:     "house",
		Chords: []ChordDefinition{am, f, c, g, dm, em},
		Progressions: [][]string{
			{"Am", "F", "C", "G"},
			{"Am", "Em", "F", "C"},
			{"F", "G", "Am", "Am"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodHappy:     {"C", "Am", "F", "G"},
			codetune.MoodSad:       {"Am", "F", "Dm", "Em"},
			codetune.MoodEnergetic: {"Am", "G", "F", "Em"},
		},
		BPM:             BPMWindow{Min: 118, Max: 130, Default: 124},
		Instruments:     Instruments{Melody: "piano", Bass: "synth-bass", Pad: "synth-pad"},
		Scales:          []string{"minor", "dorian"},
		RhythmicFeel:    "four-on-floor",
		HarmonicDensity: 0.7,
		Tension:         4,
	})

	add(GenreProfile{
		ID:     "techno",
		Chords: []ChordDefinition{am, cm, gm, fm, dm},
		Progressions: [][]string{
			{"Am", "Am", "Gm", "Fm"},
			{"Cm", "Cm", "Gm", "Fm"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodEnergetic: {"Am", "Am", "Gm", "Gm"},
			codetune.MoodSad:       {"Cm", "Fm", "Gm", "Cm"},
		},
		BPM:             BPMWindow{Min: 125, Max: 150, Default: 132},
		Instruments:     Instruments{Melody: "synth-stab", Bass: "sub-bass", Pad: "dark-pad"},
		Scales:          []string{"phrygian", "minor"},
		RhythmicFeel:    "driving",
		HarmonicDensity: 0.4,
		Tension:         7,
	})

	add(GenreProfile{
		ID:     "trance",
		Chords: []ChordDefinition{am, f, c, g, em},
		Progressions: [][]string{
			{"Am", "F", "C", "G"},
			{"Am", "G", "F", "Em"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodHappy:     {"C", "G", "Am", "F"},
			codetune.MoodEnergetic: {"Am", "F", "G", "G"},
		},
		BPM:             BPMWindow{Min: 130, Max: 145, Default: 138},
		Instruments:     Instruments{Melody: "supersaw", Bass: "synth-bass", Pad: "synth-pad"},
		Scales:          []string{"minor", "harmonic-minor"},
		RhythmicFeel:    "rolling",
		HarmonicDensity: 0.8,
		Tension:         6,
	})

	add(GenreProfile{
		ID:     "hiphop",
		Chords: []ChordDefinition{am, dm, em, f, g, cm, abq, ebq, bbq, cq},
		Progressions: [][]string{
			{"Am", "Dm", "Em", "Am"},
			{"Am", "F", "Dm", "Em"},
			{"Cm", "Ab", "Eb", "Bb"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodSad:       {"Am", "F", "Dm", "Am"},
			codetune.MoodEnergetic: {"Am", "Dm", "G", "Em"},
			codetune.MoodHappy:     {"C", "Am", "Dm", "G"},
		},
		BPM:             BPMWindow{Min: 80, Max: 100, Default: 90},
		Instruments:     Instruments{Melody: "piano", Bass: "808-bass", Pad: "string-pad"},
		Scales:          []string{"pentatonic-minor", "minor"},
		RhythmicFeel:    "swung",
		HarmonicDensity: 0.5,
		Tension:         5,
	})

	add(GenreProfile{
		ID:     "lofi",
		Chords: []ChordDefinition{am, dm, g7, cq, fq, em},
		Progressions: [][]string{
			{"Am", "Dm", "G7", "C"},
			{"F", "Em", "Dm", "Am"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodSad:   {"Am", "F", "Dm", "Em"},
			codetune.MoodHappy: {"C", "F", "Am", "G7"},
		},
		BPM:             BPMWindow{Min: 65, Max: 90, Default: 78},
		Instruments:     Instruments{Melody: "rhodes", Bass: "upright-bass", Pad: "tape-pad"},
		Scales:          []string{"dorian", "major"},
		RhythmicFeel:    "laidback",
		HarmonicDensity: 0.7,
		Tension:         3,
	})

	add(GenreProfile{
		ID:     "jazz",
		Chords: []ChordDefinition{dm, g7, cq, a7, fq, e7},
		Progressions: [][]string{
			{"Dm", "G7", "C", "A7"},
			{"C", "A7", "Dm", "G7"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodHappy: {"C", "Dm", "G7", "C"},
			codetune.MoodSad:   {"Dm", "G7", "Dm", "A7"},
		},
		BPM:             BPMWindow{Min: 90, Max: 180, Default: 120},
		Instruments:     Instruments{Melody: "saxophone", Bass: "upright-bass", Pad: "epiano"},
		Scales:          []string{"dorian", "mixolydian"},
		RhythmicFeel:    "swing",
		HarmonicDensity: 0.9,
		Tension:         6,
	})

	add(GenreProfile{
		ID:     "blues",
		Chords: []ChordDefinition{a7, d7, e7, g7},
		Progressions: [][]string{
			{"A7", "D7", "A7", "E7"},
			{"A7", "A7", "D7", "E7"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodSad:       {"A7", "D7", "A7", "E7"},
			codetune.MoodEnergetic: {"A7", "D7", "E7", "E7"},
		},
		BPM:             BPMWindow{Min: 60, Max: 120, Default: 84},
		Instruments:     Instruments{Melody: "guitar", Bass: "electric-bass", Pad: "organ"},
		Scales:          []string{"blues", "pentatonic-minor"},
		RhythmicFeel:    "shuffle",
		HarmonicDensity: 0.5,
		Tension:         4,
	})

	add(GenreProfile{
		ID:     "rock",
		Chords: []ChordDefinition{e5, g5, a5, d5, am, cq, g},
		Progressions: [][]string{
			{"E5", "G5", "A5", "E5"},
			{"E5", "D5", "A5", "E5"},
			{"Am", "C", "G", "Am"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodEnergetic: {"E5", "A5", "D5", "A5"},
			codetune.MoodSad:       {"Am", "C", "G", "Am"},
		},
		BPM:             BPMWindow{Min: 100, Max: 160, Default: 120},
		Instruments:     Instruments{Melody: "electric-guitar", Bass: "electric-bass", Pad: "organ"},
		Scales:          []string{"pentatonic-minor", "minor"},
		RhythmicFeel:    "straight",
		HarmonicDensity: 0.4,
		Tension:         6,
	})

	add(GenreProfile{
		ID:     "pop",
		Chords: []ChordDefinition{cq, gq, am, fq, dm, em},
		Progressions: [][]string{
			{"C", "G", "Am", "F"},
			{"Am", "F", "C", "G"},
			{"F", "G", "C", "Am"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodHappy:     {"C", "G", "Am", "F"},
			codetune.MoodSad:       {"Am", "F", "C", "G"},
			codetune.MoodEnergetic: {"C", "F", "G", "F"},
		},
		BPM:             BPMWindow{Min: 95, Max: 130, Default: 116},
		Instruments:     Instruments{Melody: "piano", Bass: "electric-bass", Pad: "synth-pad"},
		Scales:          []string{"major", "pentatonic-major"},
		RhythmicFeel:    "straight",
		HarmonicDensity: 0.6,
		Tension:         3,
	})

	add(GenreProfile{
		ID:     "ambient",
		Chords: []ChordDefinition{cq, em, fq, am, gq},
		Progressions: [][]string{
			{"C", "Em", "F", "Am"},
			{"Am", "F", "C", "Em"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodSad:   {"Am", "Em", "F", "Am"},
			codetune.MoodHappy: {"C", "F", "G", "C"},
		},
		BPM:             BPMWindow{Min: 50, Max: 90, Default: 70},
		Instruments:     Instruments{Melody: "bell", Bass: "sub-bass", Pad: "drone-pad"},
		Scales:          []string{"lydian", "major"},
		RhythmicFeel:    "free",
		HarmonicDensity: 0.9,
		Tension:         2,
	})

	add(GenreProfile{
		ID:     "orchestral",
		Chords: []ChordDefinition{am, fq, cq, gq, dm, e7},
		Progressions: [][]string{
			{"Am", "F", "C", "G"},
			{"Am", "Dm", "E7", "Am"},
		},
		MoodMap: map[codetune.Mood][]string{
			codetune.MoodSad:       {"Am", "Dm", "E7", "Am"},
			codetune.MoodHappy:     {"C", "G", "F", "C"},
			codetune.MoodEnergetic: {"Am", "F", "G", "E7"},
		},
		BPM:             BPMWindow{Min: 60, Max: 140, Default: 100},
		Instruments:     Instruments{Melody: "violin", Bass: "contrabass", Pad: "string-ensemble"},
		Scales:          []string{"harmonic-minor", "minor"},
		RhythmicFeel:    "rubato",
		HarmonicDensity: 0.8,
		Tension:         7,
	})

	return r
}

// Genre returns the profile for id, falling back to the default genre for
// unknown ids. Matching is case-insensitive.
func (r *Registry) Genre(id string) GenreProfile {
	if p, ok := r.genres[strings.ToLower(strings.TrimSpace(id))]; ok {
		return p
	}
	return r.genres[DefaultGenre]
}

// Genres returns all genre ids in ascending order.
func (r *Registry) Genres() []string {
	return util.SortedKeys(r.genres)
}

// ChordByIndex returns the i-th chord of the genre's chord list, wrapping
// modulo the list length. Negative indexes wrap from the end.
func (r *Registry) ChordByIndex(genreID string, i int) ChordDefinition {
	chords := r.Genre(genreID).Chords
	n := len(chords)
	return chords[((i%n)+n)%n]
}

// ChordByName resolves a chord name within the genre's vocabulary.
func (r *Registry) ChordByName(genreID, name string) (ChordDefinition, bool) {
	for _, c := range r.Genre(genreID).Chords {
		if c.Name == name {
			return c, true
		}
	}
	return ChordDefinition{}, false
}

// ProgressionForMood resolves a four-chord progression for the given mood.
// Precedence: the genre's mood map, then progressions[variation mod n],
// then the genre's base chord list. The result always has exactly four
// chords: shorter sources are tiled, longer ones truncated.
func (r *Registry) ProgressionForMood(genreID string, mood codetune.Mood, variation int) []ChordDefinition {
	p := r.Genre(genreID)

	var names []string
	if seq, ok := p.MoodMap[mood]; ok && len(seq) > 0 {
		names = seq
	} else if n := len(p.Progressions); n > 0 {
		names = p.Progressions[((variation%n)+n)%n]
	}

	var chords []ChordDefinition
	for _, name := range names {
		if c, ok := r.ChordByName(p.ID, name); ok {
			chords = append(chords, c)
		}
	}
	if len(chords) == 0 {
		chords = p.Chords
	}

	out := make([]ChordDefinition, 4)
	for i := range out {
		out[i] = chords[i%len(chords)]
	}
	return out
}

// Scale returns the semitone offsets for a named scale, falling back to
// major for unknown names.
func (r *Registry) Scale(name string) []int {
	if s, ok := r.scales[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return r.scales["major"]
}

// ScaleNames returns all registered scale names in ascending order.
func (r *Registry) ScaleNames() []string {
	return util.SortedKeys(r.scales)
}

// Key describes the tonal center implied by a progression's first chord,
// e.g. "A minor".
func Key(progression []ChordDefinition) string {
	if len(progression) == 0 {
		return "C major"
	}
	first := progression[0]
	quality := "major"
	if first.Quality == Minor {
		quality = "minor"
	}
	return util.PitchClassName(first.Root) + " " + quality
}

// ProvideRegistry provides the theory registry.
func ProvideRegistry() *Registry {
	return New()
}

var Options = ProvideRegistry
