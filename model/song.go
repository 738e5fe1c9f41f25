package model

type Layers struct {
	Melody Notes `json:"melody"`
	Full   Notes `json:"full"`
}

type Section struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	StartBeat  float64 `json:"startBeat"`
	EndBeat    float64 `json:"endBeat"`
	Difficulty int     `json:"difficulty"`
	Layers     Layers  `json:"layers"`
}

type SongMetadata struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Genre           string `json:"genre"`
	Difficulty      int    `json:"difficulty"`
	DurationSeconds int    `json:"durationSeconds"`
	Attribution     string `json:"attribution"`
}

type Settings struct {
	Tempo            int    `json:"tempo"`
	TimeSignature    [2]int `json:"timeSignature"`
	KeySignature     string `json:"keySignature"`
	CountIn          int    `json:"countIn"`
	MetronomeEnabled bool   `json:"metronomeEnabled"`
	LoopEnabled      bool   `json:"loopEnabled"`
}

type Scoring struct {
	TimingToleranceMs   int    `json:"timingToleranceMs"`
	TimingGracePeriodMs int    `json:"timingGracePeriodMs"`
	PassingScore        int    `json:"passingScore"`
	StarThresholds      [3]int `json:"starThresholds"`
}

type Song struct {
	ID       string       `json:"id"`
	Version  int          `json:"version"`
	Type     string       `json:"type"`
	Source   string       `json:"source"`
	Metadata SongMetadata `json:"metadata"`
	Sections []Section    `json:"sections"`
	Settings Settings     `json:"settings"`
	Scoring  Scoring      `json:"scoring"`
}
