package theory

import (
	"testing"

	"github.com/asume21/codetune/codetune"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreFallback(t *testing.T) {
	r := New()

	assert.Equal(t, "house", r.Genre("house").ID)
	assert.Equal(t, "house", r.Genre("  HOUSE ").ID)
	assert.Equal(t, DefaultGenre, r.Genre("polka").ID)
	assert.Equal(t, DefaultGenre, r.Genre("").ID)
}

func TestGenresSorted(t *testing.T) {
	r := New()
	genres := r.Genres()

	require.NotEmpty(t, genres)
	assert.Contains(t, genres, "house")
	assert.Contains(t, genres, "hiphop")
	for i := 1; i < len(genres); i++ {
		assert.Less(t, genres[i-1], genres[i])
	}
}

func TestChordByIndexWraps(t *testing.T) {
	r := New()
	n := len(r.Genre("house").Chords)

	assert.Equal(t, r.ChordByIndex("house", 0), r.ChordByIndex("house", n))
	assert.Equal(t, r.ChordByIndex("house", 1), r.ChordByIndex("house", n+1))
	assert.Equal(t, r.ChordByIndex("house", n-1), r.ChordByIndex("house", -1))
}

func TestChordTones(t *testing.T) {
	r := New()

	am, ok := r.ChordByName("house", "Am")
	require.True(t, ok)
	assert.Equal(t, 9, am.Root)
	assert.Equal(t, Minor, am.Quality)
	assert.Equal(t, []int{69, 72, 76}, am.Tones)

	_, ok = r.ChordByName("house", "Zz7")
	assert.False(t, ok)
}

func TestQualityIntervals(t *testing.T) {
	r := New()

	e7, ok := r.ChordByName("jazz", "E7")
	require.True(t, ok)
	assert.Len(t, e7.Tones, 4)

	e5, ok := r.ChordByName("rock", "E5")
	require.True(t, ok)
	assert.Len(t, e5.Tones, 2)
}

func TestProgressionForMoodAlwaysFour(t *testing.T) {
	r := New()

	for _, genre := range r.Genres() {
		for _, mood := range []codetune.Mood{
			codetune.MoodHappy, codetune.MoodSad,
			codetune.MoodEnergetic, codetune.MoodNeutral,
		} {
			for variation := -2; variation <= 5; variation++ {
				prog := r.ProgressionForMood(genre, mood, variation)
				assert.Len(t, prog, 4, "genre=%s mood=%s variation=%d", genre, mood, variation)
			}
		}
	}
}

func TestProgressionMoodMapPrecedence(t *testing.T) {
	r := New()

	sad := r.ProgressionForMood("house", codetune.MoodSad, 0)
	names := []string{sad[0].Name, sad[1].Name, sad[2].Name, sad[3].Name}
	assert.Equal(t, []string{"Am", "F", "Dm", "Em"}, names)

	// neutral is not in any mood map, so the variation picks a progression
	n0 := r.ProgressionForMood("house", codetune.MoodNeutral, 0)
	n1 := r.ProgressionForMood("house", codetune.MoodNeutral, 1)
	assert.NotEqual(t, n0, n1)
}

func TestProgressionVariationWraps(t *testing.T) {
	r := New()
	count := len(r.Genre("house").Progressions)

	a := r.ProgressionForMood("house", codetune.MoodNeutral, 1)
	b := r.ProgressionForMood("house", codetune.MoodNeutral, 1+count)
	assert.Equal(t, a, b)
}

func TestScaleFallback(t *testing.T) {
	r := New()

	assert.Equal(t, []int{0, 2, 4, 5, 7, 9, 11}, r.Scale("major"))
	assert.Equal(t, []int{0, 3, 5, 6, 7, 10}, r.Scale("blues"))
	assert.Equal(t, r.Scale("major"), r.Scale("klingon"))
}

func TestBPMWindowClamp(t *testing.T) {
	w := BPMWindow{Min: 118, Max: 130, Default: 124}

	assert.Equal(t, 124, w.Clamp(0))
	assert.Equal(t, 124, w.Clamp(-10))
	assert.Equal(t, 118, w.Clamp(60))
	assert.Equal(t, 130, w.Clamp(200))
	assert.Equal(t, 126, w.Clamp(126))
}

func TestKey(t *testing.T) {
	r := New()

	assert.Equal(t, "A minor", Key(r.ProgressionForMood("house", codetune.MoodSad, 0)))
	assert.Equal(t, "C major", Key(nil))
}
