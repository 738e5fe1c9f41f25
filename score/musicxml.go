package score

import (
	"bytes"
	"encoding/xml"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/songforge/model"
	"github.com/jsphweid/songforge/util"
)

type xmlScore struct {
	XMLName       xml.Name
	WorkTitle     string       `xml:"work>work-title"`
	MovementTitle string       `xml:"movement-title"`
	Creators      []xmlCreator `xml:"identification>creator"`
	Parts         []xmlPart    `xml:"part"`
}

type xmlCreator struct {
	Type string `xml:"type,attr"`
	Name string `xml:",chardata"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

// xmlMeasure keeps its children in document order; offsets depend on it.
type xmlMeasure struct {
	Number string
	Events []any
}

type xmlNote struct {
	Chord     *struct{} `xml:"chord"`
	Grace     *struct{} `xml:"grace"`
	Rest      *struct{} `xml:"rest"`
	Pitch     *xmlPitch `xml:"pitch"`
	Unpitched *struct{} `xml:"unpitched"`
	Duration  float64   `xml:"duration"`
}

type xmlPitch struct {
	Step   string  `xml:"step"`
	Alter  float64 `xml:"alter"`
	Octave int     `xml:"octave"`
}

type xmlBackup struct {
	Duration float64 `xml:"duration"`
}

type xmlForward struct {
	Duration float64 `xml:"duration"`
}

type xmlAttributes struct {
	Divisions float64   `xml:"divisions"`
	Keys      []xmlKey  `xml:"key"`
	Times     []xmlTime `xml:"time"`
}

type xmlKey struct {
	Fifths *int   `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type xmlTime struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type xmlDirection struct {
	Metronomes []xmlMetronome `xml:"direction-type>metronome"`
	Sound      *xmlSound      `xml:"sound"`
}

type xmlMetronome struct {
	PerMinute string `xml:"per-minute"`
}

type xmlSound struct {
	Tempo string `xml:"tempo,attr"`
}

func (m *xmlMeasure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "number" {
			m.Number = attr.Value
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var event any
			switch t.Name.Local {
			case "note":
				event = &xmlNote{}
			case "backup":
				event = &xmlBackup{}
			case "forward":
				event = &xmlForward{}
			case "attributes":
				event = &xmlAttributes{}
			case "direction":
				event = &xmlDirection{}
			case "sound":
				event = &xmlSound{}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.DecodeElement(event, &t); err != nil {
				return err
			}
			m.Events = append(m.Events, event)
		case xml.EndElement:
			return nil
		}
	}
}

var stepSemitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

func (p *xmlPitch) midi() (uint8, bool) {
	if p == nil {
		return 0, false
	}
	base, ok := stepSemitones[strings.ToUpper(strings.TrimSpace(p.Step))]
	if !ok {
		return 0, false
	}
	n := (p.Octave+1)*12 + base + int(math.Round(p.Alter))
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}

// parseBeats accepts plain and additive meters ("3", "3+2").
func parseBeats(s string) int {
	var total int
	for _, part := range strings.Split(s, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total += n
	}
	return total
}

func parseTempo(s string) float64 {
	bpm, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return bpm
}

// group collects a note and the chord notes following it.
type group struct {
	offset   float64
	duration float64
	rest     bool
	pitches  []uint8
}

func (g *group) element() (model.Element, bool) {
	switch {
	case g.rest:
		return model.Rest{Offset: g.offset, Duration: g.duration}, true
	case len(g.pitches) == 1:
		return model.Note{Pitch: g.pitches[0], Offset: g.offset, Duration: g.duration}, true
	case len(g.pitches) > 1:
		return model.Chord{Pitches: g.pitches, Offset: g.offset, Duration: g.duration}, true
	}
	return nil, false
}

type partReader struct {
	score     *model.Score
	divisions float64
	current   *group
}

func (r *partReader) flush() {
	if r.current == nil {
		return
	}
	if el, ok := r.current.element(); ok {
		r.score.Elements = append(r.score.Elements, el)
	}
	r.current = nil
}

func (r *partReader) quarters(d float64) float64 {
	return d / r.divisions
}

func (r *partReader) readPart(p xmlPart) {
	var measureStart float64
	for _, measure := range p.Measures {
		var cursor, longest float64
		for _, event := range measure.Events {
			at := measureStart + cursor
			switch e := event.(type) {
			case *xmlAttributes:
				if e.Divisions > 0 {
					r.divisions = e.Divisions
				}
				for _, k := range e.Keys {
					if k.Fifths == nil {
						continue
					}
					if name, ok := keyName(*k.Fifths, strings.EqualFold(k.Mode, "minor")); ok {
						r.score.KeySignatures = append(r.score.KeySignatures, model.KeySignature{Offset: at, Name: name})
					}
				}
				for _, ts := range e.Times {
					num := parseBeats(ts.Beats)
					denom, _ := strconv.Atoi(strings.TrimSpace(ts.BeatType))
					r.score.TimeSignatures = append(r.score.TimeSignatures, model.TimeSignature{
						Offset: at, Numerator: num, Denominator: denom,
					})
				}
			case *xmlDirection:
				bpm := 0.0
				if e.Sound != nil {
					bpm = parseTempo(e.Sound.Tempo)
				}
				for _, m := range e.Metronomes {
					if bpm > 0 {
						break
					}
					bpm = parseTempo(m.PerMinute)
				}
				if bpm > 0 {
					r.score.Tempos = append(r.score.Tempos, model.TempoMark{Offset: at, BPM: bpm})
				}
			case *xmlSound:
				if bpm := parseTempo(e.Tempo); bpm > 0 {
					r.score.Tempos = append(r.score.Tempos, model.TempoMark{Offset: at, BPM: bpm})
				}
			case *xmlNote:
				r.readNote(e, at, &cursor)
			case *xmlBackup:
				r.flush()
				cursor = util.Max(cursor-r.quarters(e.Duration), 0)
			case *xmlForward:
				r.flush()
				cursor += r.quarters(e.Duration)
			}
			longest = util.Max(longest, cursor)
		}
		r.flush()
		measureStart += longest
	}
}

func (r *partReader) readNote(n *xmlNote, at float64, cursor *float64) {
	// grace notes take no time
	if n.Grace != nil || n.Duration <= 0 {
		return
	}
	if n.Chord != nil && r.current != nil {
		if pitch, ok := n.Pitch.midi(); ok && !r.current.rest {
			r.current.pitches = append(r.current.pitches, pitch)
		}
		return
	}

	r.flush()
	dur := r.quarters(n.Duration)
	g := &group{offset: at, duration: dur, rest: n.Rest != nil}
	if pitch, ok := n.Pitch.midi(); ok && !g.rest {
		g.pitches = append(g.pitches, pitch)
	}
	r.current = g
	*cursor += dur
}

// ReadMusicXML reads a partwise MusicXML document. Every part is flattened
// into the same element stream with offsets from the start of the piece.
func ReadMusicXML(data []byte) (*model.Score, error) {
	var doc xmlScore
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false
	if err := decoder.Decode(&doc); err != nil {
		return nil, parseError("musicxml", err)
	}
	if doc.XMLName.Local != "score-partwise" {
		return nil, parseError("musicxml", errors.New("unsupported root element <"+doc.XMLName.Local+">"))
	}

	s := &model.Score{}
	for _, p := range doc.Parts {
		r := partReader{score: s, divisions: 1}
		r.readPart(p)
	}
	s.Metadata = doc.metadata()
	return s, nil
}

func (doc *xmlScore) metadata() *model.ScoreMetadata {
	var md model.ScoreMetadata
	md.Title = strings.TrimSpace(doc.WorkTitle)
	if md.Title == "" {
		md.Title = strings.TrimSpace(doc.MovementTitle)
	}
	for _, c := range doc.Creators {
		if c.Type == "composer" && strings.TrimSpace(c.Name) != "" {
			md.Composer = strings.TrimSpace(c.Name)
			break
		}
	}
	if md == (model.ScoreMetadata{}) {
		return nil
	}
	return &md
}
