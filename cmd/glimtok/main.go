package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	extract_cmd "github.com/glimtools/glimtok/cmd/glimtok/extract"
	scan_cmd "github.com/glimtools/glimtok/cmd/glimtok/scan"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "glimtok",
		Short: "A tool for extracting invocation tokens from glimmer templates",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(os.Stderr).Level(level).With().
			Str("component", "glimtok").
			Timestamp().
			Logger()
		cmd.SetContext(logger.WithContext(cmd.Context()))
	}

	rootCmd.AddCommand(extract_cmd.NewExtractCommand())
	rootCmd.AddCommand(scan_cmd.NewScanCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
