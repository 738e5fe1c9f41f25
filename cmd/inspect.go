package cmd

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/jsphweid/songforge/score"
	"github.com/jsphweid/songforge/song"
	"github.com/spf13/cobra"
)

var inspectFormat string

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints the Song a score would become",
	Long: `Reads one score and prints the assembled Song without writing anything.

Examples:
  songforge inspect scores/etude.musicxml
  songforge inspect scores/prelude.mid --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return Inspect(cmd.OutOrStdout(), args[0], inspectFormat, song.NewAssembler(cfg.SongOptions()))
	},
}

// Inspect converts path and writes the result in the given format.
func Inspect(w io.Writer, path, format string, a *song.Assembler) error {
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	parsed, err := score.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := a.Convert(path, parsed)
	if err != nil {
		return fmt.Errorf("%v would be skipped: %w", path, err)
	}

	data, err := song.Marshal(s)
	if err != nil {
		return err
	}
	if format == "yaml" {
		// keeps the JSON field names and order
		if data, err = yaml.JSONToYAML(data); err != nil {
			return err
		}
	}
	_, err = w.Write(data)
	return err
}
