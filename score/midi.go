package score

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jsphweid/songforge/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const percussionChannel = 9

type noteKey struct {
	channel uint8
	key     uint8
}

// midiReader pairs note on/off events into notes, one track at a time.
type midiReader struct {
	score *model.Score
	tpq   float64
	title string
}

func (r *midiReader) beats(ticks int64) float64 {
	return float64(ticks) / r.tpq
}

func (r *midiReader) readTrack(trackNum int, events smf.Track) {
	open := make(map[noteKey][]int64)
	closeNote := func(k noteKey, absTicks int64) {
		starts := open[k]
		if len(starts) == 0 {
			return
		}
		start := starts[0]
		open[k] = starts[1:]
		if absTicks <= start {
			return
		}
		r.score.Elements = append(r.score.Elements, model.Note{
			Pitch:    k.key,
			Offset:   r.beats(start),
			Duration: r.beats(absTicks - start),
		})
	}

	var absTicks int64
	for _, event := range events {
		absTicks += int64(event.Delta)
		offset := r.beats(absTicks)

		msg := midi.Message(event.Message)
		var channel, key, velocity uint8
		var bpm float64
		var num, denom uint8
		var text string
		switch {
		case msg.GetNoteOn(&channel, &key, &velocity):
			k := noteKey{channel, key}
			if velocity == 0 {
				closeNote(k, absTicks)
			} else if channel != percussionChannel {
				open[k] = append(open[k], absTicks)
			}
		case msg.GetNoteOff(&channel, &key, &velocity):
			closeNote(noteKey{channel, key}, absTicks)
		case event.Message.GetMetaTempo(&bpm):
			r.score.Tempos = append(r.score.Tempos, model.TempoMark{Offset: offset, BPM: bpm})
		case event.Message.GetMetaMeter(&num, &denom):
			r.score.TimeSignatures = append(r.score.TimeSignatures, model.TimeSignature{
				Offset: offset, Numerator: int(num), Denominator: int(denom),
			})
		case event.Message.GetMetaTrackName(&text):
			if trackNum == 0 && r.title == "" {
				r.title = text
			}
		default:
			if name, ok := metaKeyName(event.Message); ok {
				r.score.KeySignatures = append(r.score.KeySignatures, model.KeySignature{Offset: offset, Name: name})
			}
		}
	}
}

// metaKeyName decodes a key signature meta event (FF 59 02 sf mi).
func metaKeyName(m smf.Message) (string, bool) {
	if len(m) < 4 || m[0] != 0xFF || m[1] != 0x59 {
		return "", false
	}
	sf, mi := m[len(m)-2], m[len(m)-1]
	return keyName(int(int8(sf)), mi == 1)
}

// ReadMidi reads a Standard MIDI file. Percussion (channel 10) is ignored
// and the first track's name, if any, is used as the title.
func ReadMidi(data []byte) (s *model.Score, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = parseError("midi", fmt.Errorf("%v", r))
		}
	}()

	parsed, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, parseError("midi", err)
	}
	ticks, ok := parsed.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Resolution() == 0 {
		return nil, parseError("midi", errors.New("only metric time formats are supported"))
	}

	r := midiReader{score: &model.Score{}, tpq: float64(ticks.Resolution())}
	for i, events := range parsed.Tracks {
		r.readTrack(i, events)
	}
	if r.title != "" {
		r.score.Metadata = &model.ScoreMetadata{Title: r.title}
	}
	return r.score, nil
}
