// Package sample renders Song documents back into Standard MIDI files so an
// import can be listened to or loaded into a sequencer.
package sample

import (
	"io"
	"math"
	"sort"

	"github.com/jsphweid/songforge/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	Resolution = 960
	velocity   = 90
)

type timedMessage struct {
	tick  uint32
	isOff bool
	msg   midi.Message
}

func toTicks(beats float64) uint32 {
	if beats <= 0 {
		return 0
	}
	return uint32(math.Round(beats * Resolution))
}

func build(name string, notes model.Notes, shift float64, settings model.Settings) *smf.SMF {
	var events []timedMessage
	for _, n := range notes {
		start := toTicks(n.StartBeat - shift)
		end := toTicks(n.EndBeat() - shift)
		if end <= start {
			end = start + 1
		}
		events = append(events,
			timedMessage{tick: start, msg: midi.NoteOn(0, n.Note, velocity)},
			timedMessage{tick: end, isOff: true, msg: midi.NoteOff(0, n.Note)},
		)
	}

	// smaller ticks first, then note off
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isOff && !events[j].isOff
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	track.Add(0, smf.MetaMeter(uint8(settings.TimeSignature[0]), uint8(settings.TimeSignature[1])))
	track.Add(0, smf.MetaTempo(float64(settings.Tempo)))

	var last uint32
	for _, evt := range events {
		track.Add(evt.tick-last, evt.msg)
		last = evt.tick
	}
	track.Close(0)

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(Resolution)
	res.Add(track)
	return res
}

// FromSong renders every section of the song, in order, on one track.
func FromSong(s model.Song) *smf.SMF {
	var notes model.Notes
	for _, sec := range s.Sections {
		notes = append(notes, sec.Layers.Full...)
	}
	return build(s.Metadata.Title, notes, 0, s.Settings)
}

// FromSection renders a single section shifted to start at tick 0, for
// looping practice.
func FromSection(s model.Song, sec model.Section) *smf.SMF {
	return build(s.Metadata.Title+" - "+sec.Label, sec.Layers.Full, sec.StartBeat, s.Settings)
}

func Write(w io.Writer, mf *smf.SMF) error {
	_, err := mf.WriteTo(w)
	return err
}
