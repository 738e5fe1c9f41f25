// Package notes flattens a score's element stream into sorted note events.
package notes

import (
	"sort"

	"github.com/jsphweid/songforge/model"
)

const maxPitch = 127

// Extract emits one NoteEvent per sounding pitch. Rests and pitches outside
// the MIDI range produce nothing. The result is ordered by start beat, then
// pitch.
func Extract(elements []model.Element) model.Notes {
	var res model.Notes
	for _, element := range elements {
		switch e := element.(type) {
		case model.Note:
			if e.Pitch > maxPitch {
				continue
			}
			res = append(res, model.NoteEvent{
				Note:          e.Pitch,
				StartBeat:     e.Offset,
				DurationBeats: e.Duration,
			})
		case model.Chord:
			for _, pitch := range e.Pitches {
				if pitch > maxPitch {
					continue
				}
				res = append(res, model.NoteEvent{
					Note:          pitch,
					StartBeat:     e.Offset,
					DurationBeats: e.Duration,
				})
			}
		case model.Rest:
			// nothing sounds
		}
	}

	Sort(res)
	return res
}

func Sort(notes model.Notes) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].StartBeat != notes[j].StartBeat {
			return notes[i].StartBeat < notes[j].StartBeat
		}
		return notes[i].Note < notes[j].Note
	})
}
