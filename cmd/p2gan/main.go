// Package main implements the p2gan CLI tool.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tensorworks-llc/p2gan/internal/config"
	"github.com/tensorworks-llc/p2gan/internal/logging"
	"github.com/tensorworks-llc/p2gan/internal/paths"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "p2gan",
	Short: "Convert project plans into GanttProject files",
	Long: `Convert project plans into GanttProject (.gan) files.

Plans can be markdown documents, YAML definitions or existing .gan files.
Every task is given concrete dates from its dependencies and the working
calendar before the file is written.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var (
	rootLogLevel string

	appConfig *config.Config
	logger    = logging.Discard()
	logCloser io.Closer
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// setup loads configuration from the working directory and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = rootLogLevel
	}

	l, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = l
	logCloser = closer
	logger.WithFields(logrus.Fields{"command": cmd.CommandPath(), "dir": cwd}).Debug("config loaded")
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}
