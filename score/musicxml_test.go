package score

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/songforge/model"
	"github.com/stretchr/testify/assert"
)

func TestReadsLittleEtude(t *testing.T) {
	s, err := ReadFile(filepath.Join("testdata", "little_etude.musicxml"))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.Element{
		model.Chord{Pitches: []uint8{60, 63, 67}, Offset: 0, Duration: 1},
		model.Rest{Offset: 1, Duration: 1},
		model.Note{Pitch: 74, Offset: 2, Duration: 0.5},
		model.Note{Pitch: 78, Offset: 2.5, Duration: 0.5},
		model.Note{Pitch: 48, Offset: 0, Duration: 3},
		model.Note{Pitch: 59, Offset: 3, Duration: 2},
		model.Note{Pitch: 60, Offset: 6, Duration: 3},
	}, s.Elements)
	assert.Equal([]model.KeySignature{{Offset: 0, Name: "c minor"}}, s.KeySignatures)
	assert.Equal([]model.TimeSignature{{Offset: 0, Numerator: 3, Denominator: 4}}, s.TimeSignatures)
	assert.Equal([]model.TempoMark{{Offset: 0, BPM: 96.4}}, s.Tempos)
	assert.Equal(&model.ScoreMetadata{Title: "Little Etude", Composer: "Carl Czerny"}, s.Metadata)
}

const twoParts = `<?xml version="1.0"?>
<score-partwise>
  <movement-title>Duet</movement-title>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions><key><fifths>2</fifths></key></attributes>
      <note><pitch><step>A</step><octave>4</octave></pitch><duration>4</duration></note>
    </measure>
    <measure number="2">
      <sound tempo="60"/>
      <note><pitch><step>B</step><octave>4</octave></pitch><duration>4</duration></note>
    </measure>
  </part>
  <part id="P2">
    <measure number="1">
      <attributes><divisions>1</divisions><time><beats>3+2</beats><beat-type>8</beat-type></time></attributes>
      <note><unpitched><display-step>E</display-step><display-octave>4</display-octave></unpitched><duration>2</duration></note>
      <note><pitch><step>D</step><octave>3</octave></pitch><duration>2</duration></note>
    </measure>
  </part>
</score-partwise>`

func TestFlattensAllParts(t *testing.T) {
	s, err := ReadMusicXML([]byte(twoParts))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.Element{
		model.Note{Pitch: 69, Offset: 0, Duration: 4},
		model.Note{Pitch: 71, Offset: 4, Duration: 4},
		model.Note{Pitch: 50, Offset: 2, Duration: 2},
	}, s.Elements)
	assert.Equal([]model.KeySignature{{Offset: 0, Name: "D major"}}, s.KeySignatures)
	assert.Equal([]model.TimeSignature{{Offset: 0, Numerator: 5, Denominator: 8}}, s.TimeSignatures)
	assert.Equal([]model.TempoMark{{Offset: 4, BPM: 60}}, s.Tempos)
	assert.Equal(&model.ScoreMetadata{Title: "Duet"}, s.Metadata)
}

func TestNoMetadataIsNil(t *testing.T) {
	s, err := ReadMusicXML([]byte(`<score-partwise><part id="P1"></part></score-partwise>`))
	assert.NoError(t, err)
	assert.Nil(t, s.Metadata)
	assert.Empty(t, s.Elements)
}

func TestParseFailures(t *testing.T) {
	cases := map[string][]byte{
		"timewise": []byte(`<score-timewise><measure number="1"></measure></score-timewise>`),
		"garbage":  []byte("not xml at all"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMusicXML(data)
			assert.True(t, errors.Is(err, ErrParse))
		})
	}
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Read("song.pdf", []byte("%PDF"))
	assert.True(t, errors.Is(err, ErrParse))
}

func TestMissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.True(t, errors.Is(err, ErrParse))
}

func makeMXL(t *testing.T, entries map[string][]byte) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, dat := range entries {
		w, err := zw.Create(name)
		assert.NoError(t, err)
		_, err = w.Write(dat)
		assert.NoError(t, err)
	}
	assert.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadsMXLContainer(t *testing.T) {
	etude, err := os.ReadFile(filepath.Join("testdata", "little_etude.musicxml"))
	assert.NoError(t, err)

	container := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<container><rootfiles><rootfile full-path="score/etude.xml" media-type="application/vnd.recordare.musicxml+xml"/></rootfiles></container>`)
	withContainer := makeMXL(t, map[string][]byte{
		"META-INF/container.xml": container,
		"score/etude.xml":        etude,
		"other.xml":              []byte(twoParts),
	})
	withoutContainer := makeMXL(t, map[string][]byte{"etude.musicxml": etude})

	for name, data := range map[string][]byte{"container": withContainer, "fallback": withoutContainer} {
		t.Run(name, func(t *testing.T) {
			s, err := Read("etude.mxl", data)
			assert.NoError(t, err)
			assert.Equal(t, "Little Etude", s.Metadata.Title)
			assert.Len(t, s.Elements, 7)
		})
	}
}

func TestMXLWithoutScore(t *testing.T) {
	_, err := ReadMXL(makeMXL(t, map[string][]byte{"readme.txt": []byte("hi")}))
	assert.True(t, errors.Is(err, ErrParse))

	_, err = ReadMXL([]byte("not a zip"))
	assert.True(t, errors.Is(err, ErrParse))
}

func TestKeyName(t *testing.T) {
	cases := []struct {
		fifths int
		minor  bool
		want   string
	}{
		{0, false, "C major"},
		{0, true, "a minor"},
		{-1, false, "F major"},
		{7, false, "C# major"},
		{-7, true, "ab minor"},
		{-2, false, "Bb major"},
		{-6, true, "eb minor"},
	}
	for _, c := range cases {
		got, ok := keyName(c.fifths, c.minor)
		assert.True(t, ok)
		assert.Equal(t, c.want, got)
	}
	_, ok := keyName(8, false)
	assert.False(t, ok)
}
