// Package section splits a sorted note sequence into fixed-width practice windows.
package section

import (
	"fmt"

	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/model"
)

func makeSection(idx int, start, end float64, notes model.Notes) model.Section {
	melody := make(model.Notes, len(notes))
	copy(melody, notes)
	full := make(model.Notes, len(notes))
	copy(full, notes)
	return model.Section{
		ID:         fmt.Sprintf("section-%d", idx),
		Label:      fmt.Sprintf("Section %d", idx+1),
		StartBeat:  start,
		EndBeat:    end,
		Difficulty: constants.SectionDifficulty,
		Layers:     model.Layers{Melody: melody, Full: full},
	}
}

// Split groups notes (sorted by start beat) into windows of beatsPerBar*barsPerSection
// beats. The boundary advances by one window per note at most, so a note lying
// several windows past the boundary lands in the next window anyway. The last
// section ends where its last note ends. No notes, no sections.
func Split(notes model.Notes, beatsPerBar int, barsPerSection int) []model.Section {
	var sections []model.Section
	if len(notes) == 0 {
		return sections
	}

	width := float64(beatsPerBar * barsPerSection)
	var current model.Notes
	var start float64
	var idx int

	for _, note := range notes {
		if note.StartBeat >= start+width && len(current) > 0 {
			sections = append(sections, makeSection(idx, start, start+width, current))
			start += width
			current = current[:0]
			idx += 1
		}
		current = append(current, note)
	}

	if len(current) > 0 {
		last := current[len(current)-1]
		sections = append(sections, makeSection(idx, start, last.EndBeat(), current))
	}

	return sections
}
