package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"contributions-viewer/pkg/resources"
)

const (
	name    = "contributions-viewer"
	version = "1.0"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   name,
	Short: "Serve a read-only collection of contributions",
	Long: `contributions-viewer loads a fixed set of contribution records at startup
and serves them through GET /contributions/ with filtering, AND/OR matching,
sorting and pagination.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return resources.LoadConfig(cfgFile)
	},
	RunE: runServe,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("source", "", "contribution source: file or postgres (SOURCE_KIND)")
	rootCmd.PersistentFlags().String("data-file", "", "seed document, .json or .yaml (DATA_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error (LOG_LEVEL)")
	_ = viper.BindPFlag(resources.SourceKind, rootCmd.PersistentFlags().Lookup("source"))
	_ = viper.BindPFlag(resources.DataFile, rootCmd.PersistentFlags().Lookup("data-file"))
	_ = viper.BindPFlag(resources.LogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
}
