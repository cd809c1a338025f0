package codetune

// MelodyNote is one symbolic note in a melodic layer (melody, bass or pads).
type MelodyNote struct {
	// Pitch is the MIDI note number. Middle C is 60.
	// Range: 0 - 127
	Pitch int `json:"pitch"`
	// Start is the note onset in seconds from the beginning of the composition.
	// Never negative.
	Start float64 `json:"start"`
	// Duration is the note length in seconds. Always greater than zero.
	Duration float64 `json:"duration"`
	// Velocity is the MIDI-style strike strength.
	// Range: 0 - 127
	Velocity int `json:"velocity"`
	// Instrument is a named instrument tag, e.g. "piano", "synth-bass".
	Instrument string `json:"instrument"`
	// SourceTag identifies the code element that produced the note,
	// e.g. "function-parseConfig-12". Empty for notes with no single source.
	SourceTag string `json:"source_tag,omitempty"`
}

// DrumHit is a single percussion event on the 16-step grid.
type DrumHit struct {
	// Instrument is the drum voice: "kick", "snare", "hihat", "openhat" or "clap".
	Instrument string `json:"instrument"`
	// Step is the grid position within the bar.
	// Range: 0 - 15
	Step int `json:"step"`
	// Bar is the zero-based bar index.
	Bar int `json:"bar"`
	// Start is the hit time in seconds.
	Start float64 `json:"start"`
	// Velocity is the strike strength.
	// Range: 0 - 127
	Velocity int `json:"velocity"`
	// Ghost marks low-velocity groove hits inserted before primary snares.
	Ghost bool `json:"ghost,omitempty"`
}

// Fill is a short drum figure triggered at a bar boundary.
type Fill struct {
	Bar  int       `json:"bar"`
	Kind string    `json:"kind"`
	Hits []DrumHit `json:"hits"`
}

// MusicalSection is a named, time-bounded region of the arrangement.
// Sections are contiguous: each section starts exactly where the previous
// one ends.
type MusicalSection struct {
	// Name is one of "Intro", "Verse", "Chorus", "Bridge", "Outro".
	Name string `json:"name"`
	// Start is the section onset in seconds.
	Start float64 `json:"start"`
	// Duration is the section length in seconds.
	Duration float64 `json:"duration"`
	// Intensity is the energy level of the section.
	// Range: 0 - 1
	Intensity float64 `json:"intensity"`
	// InstrumentLayers lists the instrument tags active in this section.
	InstrumentLayers []string `json:"instrument_layers"`
	// ScaleMode is the mode used for event placement within the section,
	// e.g. "minor", "lydian", "phrygian".
	ScaleMode string `json:"scale_mode"`
}

// TimelineEvent is one placed event in the final ordered timeline.
type TimelineEvent struct {
	Section    string  `json:"section"`
	Instrument string  `json:"instrument"`
	Pitch      int     `json:"pitch"`
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Velocity   int     `json:"velocity"`
}

// Metadata describes the composition as a whole.
type Metadata struct {
	// BPM is the tempo in beats per minute, clamped into the genre's window.
	BPM int `json:"bpm"`
	// Key is the tonal center, e.g. "A minor".
	Key string `json:"key"`
	// Genre is the resolved genre id.
	Genre string `json:"genre"`
	// Variation is the integer seed supplied by the caller.
	Variation int `json:"variation"`
	// Duration is the total composition length in seconds.
	Duration float64 `json:"duration"`
	// Seed is the derived deterministic seed used for humanization.
	Seed int64 `json:"seed"`
}

// MusicData is the complete symbolic arrangement returned to callers.
// Chords always has at least four entries; the note layers may be empty
// but are never nil.
type MusicData struct {
	Timeline []TimelineEvent  `json:"timeline"`
	Chords   []string         `json:"chords"`
	Melody   []MelodyNote     `json:"melody"`
	Bass     []MelodyNote     `json:"bass"`
	Pads     []MelodyNote     `json:"pads"`
	Drums    []DrumHit        `json:"drums"`
	Fills    []Fill           `json:"fills"`
	Sections []MusicalSection `json:"sections"`
	Metadata Metadata         `json:"metadata"`
}
