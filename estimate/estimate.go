// Package estimate holds the difficulty and duration heuristics for a song.
package estimate

import (
	"math"

	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/model"
	"github.com/jsphweid/songforge/util"
)

// LastBeat is the latest end (start + duration) over all notes.
func LastBeat(notes model.Notes) float64 {
	var last float64
	for _, n := range notes {
		last = util.Max(last, n.EndBeat())
	}
	return last
}

// Difficulty maps note density scaled by tempo onto 1..5.
func Difficulty(notes model.Notes, tempo int) int {
	if len(notes) == 0 {
		return 1
	}
	density := float64(len(notes)) / util.Max(LastBeat(notes), 1)
	score := density * (float64(tempo) / 120)

	var d int
	switch {
	case score < 0.5:
		d = 1
	case score < 1.0:
		d = 2
	case score < 2.0:
		d = 3
	case score < 3.0:
		d = 4
	default:
		d = 5
	}
	return util.Clamp(d, 1, 5)
}

// Duration is the playing time in whole seconds, never under 10.
func Duration(notes model.Notes, tempo int) int {
	if tempo <= 0 {
		tempo = constants.DefaultTempo
	}
	seconds := int(math.Round(LastBeat(notes) / float64(tempo) * 60))
	return util.Max(seconds, constants.MinDurationSeconds)
}
