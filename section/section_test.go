package section

import (
	"testing"

	"github.com/jsphweid/songforge/model"
	"github.com/stretchr/testify/assert"
)

func evenNotes(count int, step float64) model.Notes {
	var res model.Notes
	for i := 0; i < count; i++ {
		res = append(res, model.NoteEvent{Note: 60, StartBeat: float64(i) * step, DurationBeats: step})
	}
	return res
}

func TestEmptyInputYieldsNoSections(t *testing.T) {
	assert.Empty(t, Split(nil, 4, 16))
}

func TestFiveNotesFitOneSection(t *testing.T) {
	sections := Split(evenNotes(5, 1), 4, 16)

	assert := assert.New(t)
	assert.Len(sections, 1)
	assert.Equal("section-0", sections[0].ID)
	assert.Equal("Section 1", sections[0].Label)
	assert.Equal(0.0, sections[0].StartBeat)
	assert.Equal(5.0, sections[0].EndBeat)
	assert.Equal(3, sections[0].Difficulty)
	assert.Len(sections[0].Layers.Full, 5)
}

func TestWindowsAreSixteenBars(t *testing.T) {
	// 3/4: windows of 48 beats, notes every 4 beats up to beat 100
	notes := evenNotes(26, 4)
	sections := Split(notes, 3, 16)

	assert := assert.New(t)
	assert.Len(sections, 3)
	assert.Equal(0.0, sections[0].StartBeat)
	assert.Equal(48.0, sections[0].EndBeat)
	assert.Equal(48.0, sections[1].StartBeat)
	assert.Equal(96.0, sections[1].EndBeat)
	assert.Equal(96.0, sections[2].StartBeat)
	assert.Equal(104.0, sections[2].EndBeat)
	assert.Len(sections[0].Layers.Melody, 12)
	assert.Len(sections[1].Layers.Melody, 12)
	assert.Len(sections[2].Layers.Melody, 2)
	assert.Equal("Section 3", sections[2].Label)
	assert.Equal("section-2", sections[2].ID)
}

func TestNoteOnBoundaryOpensNewSection(t *testing.T) {
	notes := model.Notes{
		{Note: 60, StartBeat: 0, DurationBeats: 1},
		{Note: 62, StartBeat: 64, DurationBeats: 2},
	}
	sections := Split(notes, 4, 16)

	assert := assert.New(t)
	assert.Len(sections, 2)
	assert.Equal(64.0, sections[0].EndBeat)
	assert.Equal(64.0, sections[1].StartBeat)
	assert.Equal(66.0, sections[1].EndBeat)
}

func TestFarNoteAdvancesBoundaryOnlyOnce(t *testing.T) {
	notes := model.Notes{
		{Note: 60, StartBeat: 0, DurationBeats: 1},
		{Note: 62, StartBeat: 200, DurationBeats: 1},
		{Note: 64, StartBeat: 201, DurationBeats: 1},
	}
	sections := Split(notes, 4, 16)

	assert := assert.New(t)
	assert.Len(sections, 2)
	// the second window nominally starts at 64 even though its notes are at 200+
	assert.Equal(64.0, sections[1].StartBeat)
	assert.Equal(202.0, sections[1].EndBeat)
	assert.Len(sections[1].Layers.Full, 2)
}

func TestFinalSectionEndsAtItsLastNote(t *testing.T) {
	notes := model.Notes{
		{Note: 60, StartBeat: 0, DurationBeats: 1},
		{Note: 64, StartBeat: 2, DurationBeats: 8},
		{Note: 67, StartBeat: 3, DurationBeats: 0.5},
	}
	sections := Split(notes, 4, 16)

	// last note in order, not the longest one
	assert.Equal(t, 3.5, sections[0].EndBeat)
}

func TestLayersAreEqualAndIndependent(t *testing.T) {
	notes := evenNotes(70, 1)
	sections := Split(notes, 4, 16)

	assert := assert.New(t)
	assert.Len(sections, 2)
	for _, s := range sections {
		assert.NotEmpty(s.Layers.Melody)
		assert.Equal(s.Layers.Melody, s.Layers.Full)
	}
	sections[0].Layers.Melody[0].Note = 1
	assert.Equal(uint8(60), sections[0].Layers.Full[0].Note)
	assert.Equal(uint8(60), notes[0].Note)
}

func TestStartBeatsAreNonDecreasing(t *testing.T) {
	sections := Split(evenNotes(300, 0.75), 4, 16)
	assert.Equal(t, 0.0, sections[0].StartBeat)
	for i := 1; i < len(sections); i++ {
		assert.GreaterOrEqual(t, sections[i].StartBeat, sections[i-1].StartBeat)
	}
}
