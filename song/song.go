// Package song assembles Song documents from parsed scores.
package song

import (
	"fmt"

	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/estimate"
	"github.com/jsphweid/songforge/meta"
	"github.com/jsphweid/songforge/model"
	"github.com/jsphweid/songforge/notes"
	"github.com/jsphweid/songforge/section"
	"github.com/jsphweid/songforge/util"
)

// Options are the per-pipeline constants stamped onto every document.
type Options struct {
	Source         string
	Attribution    string
	DefaultArtist  string
	Genre          string
	BarsPerSection int
	MinNotes       int
	CountIn        int
	Scoring        model.Scoring
}

func DefaultOptions() Options {
	return Options{
		Source:         constants.Source,
		Attribution:    constants.Attribution,
		DefaultArtist:  constants.DefaultArtist,
		Genre:          constants.Genre,
		BarsPerSection: constants.BarsPerSection,
		MinNotes:       constants.MinNotes,
		CountIn:        constants.CountIn,
		Scoring: model.Scoring{
			TimingToleranceMs:   constants.TimingToleranceMs,
			TimingGracePeriodMs: constants.TimingGracePeriodMs,
			PassingScore:        constants.PassingScore,
			StarThresholds:      constants.StarThresholds,
		},
	}
}

type Assembler struct {
	opts Options
}

func NewAssembler(opts Options) *Assembler {
	if opts.BarsPerSection < 1 {
		opts.BarsPerSection = constants.BarsPerSection
	}
	return &Assembler{opts: opts}
}

func (a *Assembler) Options() Options {
	return a.opts
}

// ID is the document id a file with this name would get.
func (a *Assembler) ID(filename string) string {
	return a.opts.Source + "-" + Slugify(filename)
}

// Convert turns one parsed score into a complete Song, or returns an error
// wrapping ErrInsufficientContent or ErrEmptySectioning.
func (a *Assembler) Convert(filename string, s *model.Score) (model.Song, error) {
	extracted := notes.Extract(s.Elements)
	if len(extracted) < a.opts.MinNotes {
		return model.Song{}, fmt.Errorf("%w: too few notes (%d)", ErrInsufficientContent, len(extracted))
	}

	settings := meta.Extract(s)
	difficulty := util.Clamp(estimate.Difficulty(extracted, settings.Tempo), 1, 5)

	sections := section.Split(extracted, settings.TimeSignature[0], a.opts.BarsPerSection)
	if len(sections) == 0 {
		return model.Song{}, fmt.Errorf("%w: no sections", ErrEmptySectioning)
	}

	slug := Slugify(filename)
	title, artist := a.titleAndArtist(slug, s.Metadata)

	return model.Song{
		ID:      a.opts.Source + "-" + slug,
		Version: constants.SongVersion,
		Type:    constants.SongType,
		Source:  a.opts.Source,
		Metadata: model.SongMetadata{
			Title:           title,
			Artist:          artist,
			Genre:           a.opts.Genre,
			Difficulty:      difficulty,
			DurationSeconds: estimate.Duration(extracted, settings.Tempo),
			Attribution:     a.opts.Attribution,
		},
		Sections: sections,
		Settings: model.Settings{
			Tempo:            settings.Tempo,
			TimeSignature:    settings.TimeSignature,
			KeySignature:     settings.KeySignature,
			CountIn:          a.opts.CountIn,
			MetronomeEnabled: true,
			LoopEnabled:      true,
		},
		Scoring: a.opts.Scoring,
	}, nil
}

func (a *Assembler) titleAndArtist(slug string, md *model.ScoreMetadata) (string, string) {
	title := TitleFromSlug(slug)
	artist := a.opts.DefaultArtist
	if md == nil {
		return title, artist
	}
	if md.Title != "" {
		title = md.Title
	}
	if md.Composer != "" {
		artist = md.Composer
	}
	return title, artist
}
