package song

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jsphweid/songforge/model"
	"github.com/stretchr/testify/assert"
)

func fiveNoteScore() *model.Score {
	var elements []model.Element
	for i := 0; i < 5; i++ {
		elements = append(elements, model.Note{Pitch: uint8(60 + i), Offset: float64(i), Duration: 1})
	}
	return &model.Score{
		Elements:       elements,
		TimeSignatures: []model.TimeSignature{{Numerator: 4, Denominator: 4}},
		Tempos:         []model.TempoMark{{BPM: 120}},
	}
}

func TestFiveNoteScenario(t *testing.T) {
	a := NewAssembler(DefaultOptions())
	s, err := a.Convert("scores/Fur_Elise draft.xml", fiveNoteScore())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("pdmx-fur-elise-draft", s.ID)
	assert.Equal(1, s.Version)
	assert.Equal("song", s.Type)
	assert.Equal("pdmx", s.Source)
	assert.Equal(model.SongMetadata{
		Title:           "Fur Elise Draft",
		Artist:          "Classical",
		Genre:           "classical",
		Difficulty:      3,
		DurationSeconds: 10,
		Attribution:     "Piano-MIDI.de corpus",
	}, s.Metadata)
	assert.Len(s.Sections, 1)
	assert.Equal(0.0, s.Sections[0].StartBeat)
	assert.Equal(5.0, s.Sections[0].EndBeat)
	assert.Equal(model.Settings{
		Tempo:            120,
		TimeSignature:    [2]int{4, 4},
		KeySignature:     "C",
		CountIn:          4,
		MetronomeEnabled: true,
		LoopEnabled:      true,
	}, s.Settings)
	assert.Equal(model.Scoring{
		TimingToleranceMs:   50,
		TimingGracePeriodMs: 150,
		PassingScore:        70,
		StarThresholds:      [3]int{70, 85, 95},
	}, s.Scoring)
}

func TestThreeNoteChordIsRejected(t *testing.T) {
	score := &model.Score{
		Elements: []model.Element{model.Chord{Pitches: []uint8{60, 64, 67}, Offset: 0, Duration: 4}},
		Tempos:   []model.TempoMark{{BPM: 120}},
	}
	_, err := NewAssembler(DefaultOptions()).Convert("chord.xml", score)

	assert.True(t, errors.Is(err, ErrInsufficientContent))
	assert.True(t, IsRejection(err))
}

func TestAllRestsIsRejected(t *testing.T) {
	score := &model.Score{
		Elements: []model.Element{model.Rest{Offset: 0, Duration: 4}, model.Rest{Offset: 4, Duration: 4}},
	}

	_, err := NewAssembler(DefaultOptions()).Convert("rests.xml", score)
	assert.True(t, IsRejection(err))

	opts := DefaultOptions()
	opts.MinNotes = 0
	_, err = NewAssembler(opts).Convert("rests.xml", score)
	assert.True(t, errors.Is(err, ErrEmptySectioning))
}

func TestMetadataTitleAndComposerWin(t *testing.T) {
	score := fiveNoteScore()
	score.Metadata = &model.ScoreMetadata{Title: "Für Elise", Composer: "Ludwig van Beethoven"}

	s, err := NewAssembler(DefaultOptions()).Convert("fur_elise.xml", score)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("Für Elise", s.Metadata.Title)
	assert.Equal("Ludwig van Beethoven", s.Metadata.Artist)
	assert.Equal("pdmx-fur-elise", s.ID)
}

func TestMetadataWithoutFieldsFallsBack(t *testing.T) {
	score := fiveNoteScore()
	score.Metadata = &model.ScoreMetadata{}

	s, err := NewAssembler(DefaultOptions()).Convert("moonlight_sonata.mxl", score)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("Moonlight Sonata", s.Metadata.Title)
	assert.Equal("Classical", s.Metadata.Artist)
}

func TestOptionsOverrideConstants(t *testing.T) {
	opts := DefaultOptions()
	opts.Source = "mutopia"
	opts.Genre = "baroque"
	opts.BarsPerSection = 1

	s, err := NewAssembler(opts).Convert("Invention 1.xml", fiveNoteScore())
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("mutopia-invention-1", s.ID)
	assert.Equal("baroque", s.Metadata.Genre)
	assert.Len(s.Sections, 2)
}

func TestConversionIsDeterministic(t *testing.T) {
	score := fiveNoteScore()
	score.Elements = append(score.Elements, model.Chord{Pitches: []uint8{48, 55}, Offset: 70, Duration: 2})
	a := NewAssembler(DefaultOptions())

	first, err := a.Convert("etude.xml", score)
	assert.NoError(t, err)
	second, err := a.Convert("etude.xml", score)
	assert.NoError(t, err)

	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	assert.Equal(t, string(b1), string(b2))
}

func TestSongJSONFieldNames(t *testing.T) {
	s, err := NewAssembler(DefaultOptions()).Convert("a.xml", fiveNoteScore())
	assert.NoError(t, err)

	var doc map[string]any
	raw, _ := json.Marshal(s)
	assert.NoError(t, json.Unmarshal(raw, &doc))

	assert := assert.New(t)
	assert.Equal([]any{4.0, 4.0}, doc["settings"].(map[string]any)["timeSignature"])
	assert.Equal([]any{70.0, 85.0, 95.0}, doc["scoring"].(map[string]any)["starThresholds"])
	first := doc["sections"].([]any)[0].(map[string]any)
	note := first["layers"].(map[string]any)["melody"].([]any)[0].(map[string]any)
	assert.Equal(map[string]any{"note": 60.0, "startBeat": 0.0, "durationBeats": 1.0}, note)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"fur_elise.xml":              "fur-elise",
		"/data/Moonlight Sonata.mxl": "moonlight-sonata",
		"Op_27 No_2.musicxml":        "op-27-no-2",
		"already-slugged":            "already-slugged",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slugify(in))
		})
	}
}

func TestTitleFromSlug(t *testing.T) {
	cases := map[string]string{
		"fur-elise":        "Fur Elise",
		"op-27-no-2":       "Op 27 No 2",
		"danny-boy-o'neil": "Danny Boy O'neil",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, TitleFromSlug(in))
		})
	}
}
