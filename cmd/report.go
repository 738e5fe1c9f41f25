package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/model"
	"github.com/jsphweid/songforge/store"
	"github.com/jsphweid/songforge/util"
	"github.com/spf13/cobra"
)

var reportDir string

func init() {
	reportCmd.Flags().StringVar(&reportDir, "output-dir", "", "directory to summarize (default $OUTPUT_PATH or ./songs-json)")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarizes converted songs",
	Long:  `Summarizes the Song documents in an output directory`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := reportDir
		if dir == "" {
			dir = constants.GetOutputDir()
		}
		r, err := Report(cmd.Context(), dir)
		if err != nil {
			return err
		}
		r.Print(cmd.OutOrStdout())
		return nil
	},
}

type SongsReport struct {
	NumSongs     int
	NumSections  int
	NumUnread    int
	TotalSeconds int
	// difficulty -> number of songs
	Difficulties map[int]int
	Artists      map[string]int
}

func Report(ctx context.Context, dir string) (SongsReport, error) {
	report := SongsReport{Difficulties: map[int]int{}, Artists: map[string]int{}}

	if _, err := os.Stat(dir); err != nil {
		return report, fmt.Errorf("could not read dir because: %w", err)
	}
	local, err := store.NewLocal(dir)
	if err != nil {
		return report, err
	}
	names, err := local.List(".json")
	if err != nil {
		return report, fmt.Errorf("could not read dir because: %w", err)
	}

	var durations []int
	for _, name := range names {
		data, err := local.Get(ctx, name)
		if err != nil {
			return report, err
		}
		var s model.Song
		if err := json.Unmarshal(data, &s); err != nil || s.Type != constants.SongType {
			report.NumUnread += 1
			continue
		}
		report.NumSongs += 1
		report.NumSections += len(s.Sections)
		durations = append(durations, s.Metadata.DurationSeconds)
		report.Difficulties[s.Metadata.Difficulty] += 1
		report.Artists[s.Metadata.Artist] += 1
	}
	report.TotalSeconds = int(util.Sum(durations))
	return report, nil
}

func (r SongsReport) Print(w io.Writer) {
	fmt.Fprintf(w, "songs: %v\n", r.NumSongs)
	fmt.Fprintf(w, "sections: %v\n", r.NumSections)
	if r.NumSongs > 0 {
		fmt.Fprintf(w, "sections per song: %.1f\n", float64(r.NumSections)/float64(r.NumSongs))
	}
	fmt.Fprintf(w, "total time: %v\n", time.Duration(r.TotalSeconds)*time.Second)
	for _, d := range util.GetKeys(r.Difficulties) {
		fmt.Fprintf(w, "difficulty %v: %v\n", d, r.Difficulties[d])
	}
	fmt.Fprintf(w, "artists: %v\n", len(r.Artists))
	if r.NumUnread > 0 {
		fmt.Fprintf(w, "unreadable files: %v\n", r.NumUnread)
	}
}
