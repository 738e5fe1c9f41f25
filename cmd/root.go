package cmd

import (
	"github.com/jsphweid/songforge/config"
	"github.com/jsphweid/songforge/constants"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "songforge",
	Short: "Turns scores into practice songs",
	Long: `songforge converts MusicXML, MXL and MIDI scores into Song JSON documents
split into practice sections, with estimated difficulty and duration.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $SONGFORGE_CONFIG or ~/.config/songforge/config.toml)")
}

func loadConfig() (config.FileConfig, error) {
	path := configPath
	if path == "" {
		path = constants.GetConfigPath()
	}
	return config.LoadConfig(path)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
