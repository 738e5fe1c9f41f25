package constants

import (
	"os"
	"path/filepath"
)

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./songs-json"
}

func GetConfigPath() string {
	path := os.Getenv("SONGFORGE_CONFIG")
	if path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "songforge.toml"
	}
	return filepath.Join(home, ".config", "songforge", "config.toml")
}

// defaults for the PDMX import pipeline
const (
	Source        = "pdmx"
	Attribution   = "Piano-MIDI.de corpus"
	DefaultArtist = "Classical"
	Genre         = "classical"

	BarsPerSection = 16
	MinNotes       = 4
	SongVersion    = 1
	SongType       = "song"

	// placeholder until per-section difficulty exists
	SectionDifficulty = 3
)

const (
	DefaultKeySignature = "C"
	DefaultBeatsPerBar  = 4
	DefaultBeatUnit     = 4
	DefaultTempo        = 120
)

const (
	CountIn             = 4
	TimingToleranceMs   = 50
	TimingGracePeriodMs = 150
	PassingScore        = 70
	MinDurationSeconds  = 10
)

var StarThresholds = [3]int{70, 85, 95}

var ScoreExtensions = []string{".xml", ".mxl", ".musicxml", ".mid", ".midi"}
