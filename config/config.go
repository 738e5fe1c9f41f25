// Package config reads the optional songforge TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/jsphweid/songforge/song"
)

// FileConfig represents the TOML configuration file. Pointer fields are nil
// when the file leaves them out.
type FileConfig struct {
	Import  ImportConfig  `toml:"import"`
	Output  OutputConfig  `toml:"output"`
	Catalog CatalogConfig `toml:"catalog"`
}

type ImportConfig struct {
	Source         *string `toml:"source"`
	Attribution    *string `toml:"attribution"`
	Artist         *string `toml:"artist"`
	Genre          *string `toml:"genre"`
	BarsPerSection *int    `toml:"bars-per-section"`
	MinNotes       *int    `toml:"min-notes"`
	Workers        *int    `toml:"workers"`
}

type OutputConfig struct {
	Dir      *string `toml:"dir"`
	Midi     *bool   `toml:"midi"`
	S3Bucket string  `toml:"s3-bucket"`
	S3Prefix string  `toml:"s3-prefix"`
	Region   string  `toml:"region"`
	Endpoint string  `toml:"endpoint"`
}

type CatalogConfig struct {
	Table    string `toml:"table"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// SongOptions layers the [import] table over the pipeline defaults.
func (c FileConfig) SongOptions() song.Options {
	opts := song.DefaultOptions()
	if v := c.Import.Source; v != nil {
		opts.Source = *v
	}
	if v := c.Import.Attribution; v != nil {
		opts.Attribution = *v
	}
	if v := c.Import.Artist; v != nil {
		opts.DefaultArtist = *v
	}
	if v := c.Import.Genre; v != nil {
		opts.Genre = *v
	}
	if v := c.Import.BarsPerSection; v != nil && *v > 0 {
		opts.BarsPerSection = *v
	}
	if v := c.Import.MinNotes; v != nil && *v >= 0 {
		opts.MinNotes = *v
	}
	return opts
}
