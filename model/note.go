package model

type Notes = []NoteEvent

// NoteEvent is one sounding pitch. Beats are quarter notes from the start of the piece.
type NoteEvent struct {
	Note          uint8   `json:"note"`
	StartBeat     float64 `json:"startBeat"`
	DurationBeats float64 `json:"durationBeats"`
}

func (n NoteEvent) EndBeat() float64 {
	return n.StartBeat + n.DurationBeats
}
