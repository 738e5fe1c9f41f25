package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jsphweid/songforge/batch"
	"github.com/jsphweid/songforge/config"
	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/db"
	"github.com/jsphweid/songforge/song"
	"github.com/jsphweid/songforge/store"
	"github.com/jsphweid/songforge/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var ErrInvalidInvocation = errors.New("either --file or --input-dir is required")

type ConvertOptions struct {
	File      string
	InputDir  string
	OutputDir string
	Midi      bool
	Workers   int
	MaxNum    int
}

var convertOpts ConvertOptions

func init() {
	flags := convertCmd.Flags()
	flags.StringVar(&convertOpts.File, "file", "", "convert a single score file")
	flags.StringVar(&convertOpts.InputDir, "input-dir", "", "convert every score under this directory")
	flags.StringVar(&convertOpts.OutputDir, "output-dir", "", "where documents are written (default $OUTPUT_PATH or ./songs-json)")
	flags.BoolVar(&convertOpts.Midi, "midi", false, "also write a .mid practice file per song")
	flags.IntVar(&convertOpts.Workers, "workers", 4, "files converted in parallel")
	flags.IntVar(&convertOpts.MaxNum, "max", 0, "stop after this many files from --input-dir (0 means all)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Converts scores into Song documents",
	Long: `Converts one score (--file) or every score found under a directory (--input-dir)
into Song JSON documents. Files that cannot be read or have too little content are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := convertOpts
		applyOutputConfig(cmd.Flags(), &opts, cfg)
		_, err = Convert(cmd.Context(), cmd.OutOrStdout(), opts, cfg)
		return err
	},
}

// applyOutputConfig fills in file values for flags the user did not set.
func applyOutputConfig(flags *pflag.FlagSet, opts *ConvertOptions, cfg config.FileConfig) {
	if !flags.Changed("output-dir") && cfg.Output.Dir != nil {
		opts.OutputDir = *cfg.Output.Dir
	}
	if !flags.Changed("midi") && cfg.Output.Midi != nil {
		opts.Midi = *cfg.Output.Midi
	}
	if !flags.Changed("workers") && cfg.Import.Workers != nil {
		opts.Workers = *cfg.Import.Workers
	}
}

func openStore(opts ConvertOptions, cfg config.FileConfig) (store.Store, error) {
	if cfg.Output.S3Bucket != "" {
		return store.NewS3FromConfig(cfg.Output.Region, cfg.Output.Endpoint, cfg.Output.S3Bucket, cfg.Output.S3Prefix)
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = constants.GetOutputDir()
	}
	return store.NewLocal(dir)
}

// Convert runs a whole conversion: discovery, parsing, assembly and persistence.
func Convert(ctx context.Context, out io.Writer, opts ConvertOptions, cfg config.FileConfig) (batch.Result, error) {
	if opts.File == "" && opts.InputDir == "" {
		return batch.Result{}, ErrInvalidInvocation
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var paths []string
	if opts.File != "" {
		paths = []string{opts.File}
	} else {
		found, err := util.GatherAllScorePaths(opts.InputDir, constants.ScoreExtensions, opts.MaxNum)
		if err != nil {
			// an unreadable directory is an empty batch, not a failed run
			fmt.Fprintf(out, "Could not scan %v: %v\n", opts.InputDir, err)
		}
		paths = found
	}

	st, err := openStore(opts, cfg)
	if err != nil {
		return batch.Result{}, err
	}

	c := &batch.Converter{
		Assembler: song.NewAssembler(cfg.SongOptions()),
		Store:     st,
		Workers:   opts.Workers,
		WriteMidi: opts.Midi,
		Out:       out,
	}
	if cfg.Catalog.Table != "" {
		catalog, err := db.NewCatalogFromConfig(cfg.Catalog.Region, cfg.Catalog.Endpoint, cfg.Catalog.Table)
		if err != nil {
			return batch.Result{}, err
		}
		c.Catalog = catalog
	}
	return c.Run(ctx, paths)
}
