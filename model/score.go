package model

// Element is one entry of a flattened score stream: a Note, a Chord or a Rest.
// Offsets and durations are in quarter notes.
type Element interface {
	element()
}

type Note struct {
	Pitch    uint8
	Offset   float64
	Duration float64
}

type Chord struct {
	Pitches  []uint8
	Offset   float64
	Duration float64
}

type Rest struct {
	Offset   float64
	Duration float64
}

func (Note) element()  {}
func (Chord) element() {}
func (Rest) element()  {}

type KeySignature struct {
	Offset float64
	Name   string
}

type TimeSignature struct {
	Offset      float64
	Numerator   int
	Denominator int
}

type TempoMark struct {
	Offset float64
	BPM    float64
}

type ScoreMetadata struct {
	Title    string
	Composer string
}

// Score is what a reader hands to the conversion pipeline. Metadata is nil
// when the file carries none.
type Score struct {
	Elements       []Element
	KeySignatures  []KeySignature
	TimeSignatures []TimeSignature
	Tempos         []TempoMark
	Metadata       *ScoreMetadata
}

// ScoreSettings are the resolved global key, meter and tempo of a score.
type ScoreSettings struct {
	KeySignature  string
	TimeSignature [2]int
	Tempo         int
}
