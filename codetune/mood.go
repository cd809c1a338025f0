package codetune

// Mood is the categorical mood heuristic derived from parsed code.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodEnergetic Mood = "energetic"
	MoodNeutral   Mood = "neutral"
)
