// Package meta resolves the single global key, meter and tempo of a score.
package meta

import (
	"math"

	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/model"
)

func Extract(s *model.Score) model.ScoreSettings {
	num, denom := Time(s)
	return model.ScoreSettings{
		KeySignature:  Key(s),
		TimeSignature: [2]int{num, denom},
		Tempo:         Tempo(s),
	}
}

// Key returns the earliest key signature, or "C".
func Key(s *model.Score) string {
	found := false
	var best model.KeySignature
	for _, k := range s.KeySignatures {
		if k.Name == "" {
			continue
		}
		if !found || k.Offset < best.Offset {
			best = k
			found = true
		}
	}
	if !found {
		return constants.DefaultKeySignature
	}
	return best.Name
}

// Time returns the earliest time signature, or 4/4.
func Time(s *model.Score) (int, int) {
	found := false
	var best model.TimeSignature
	for _, ts := range s.TimeSignatures {
		if ts.Numerator <= 0 || ts.Denominator <= 0 {
			continue
		}
		if !found || ts.Offset < best.Offset {
			best = ts
			found = true
		}
	}
	if !found {
		return constants.DefaultBeatsPerBar, constants.DefaultBeatUnit
	}
	return best.Numerator, best.Denominator
}

// Tempo returns the earliest tempo mark rounded to whole BPM, or 120.
func Tempo(s *model.Score) int {
	found := false
	var best model.TempoMark
	for _, t := range s.Tempos {
		if t.BPM <= 0 {
			continue
		}
		if !found || t.Offset < best.Offset {
			best = t
			found = true
		}
	}
	bpm := int(math.Round(best.BPM))
	if !found || bpm < 1 {
		return constants.DefaultTempo
	}
	return bpm
}
