package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/config"
	"github.com/NeedsSoySauce/Packet-Browser/internal/logging"
	"github.com/NeedsSoySauce/Packet-Browser/internal/progress"
	"github.com/NeedsSoySauce/Packet-Browser/internal/simulator"
)

// commonFlags are shared by every command that opens a trace file.
type commonFlags struct {
	input      string
	configPath string
	logLevel   string
	logFile    string
	progress   bool
}

func registerCommonFlags(cmd *cobra.Command, flags *commonFlags) {
	cmd.Flags().StringVar(&flags.input, "input", "", "Trace file to open (required)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path (default \"packetbrowser.yaml\" if present)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level override: silent|error|info|verbose|debug")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Also write log messages to this file")
}

func registerProgressFlag(cmd *cobra.Command, flags *commonFlags) {
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a load progress bar on stderr")
}

// loadConfig reads --config, or packetbrowser.yaml when it exists.
func loadConfig(flags *commonFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.Load(flags.configPath, true)
	}
	return config.Load(config.DefaultPath, false)
}

// newLogger applies --log-level and --log-file over the config.
func newLogger(cfg *config.Config, flags *commonFlags) (*logging.Logger, error) {
	level := cfg.LogLevel()
	if flags.logLevel != "" {
		parsed, err := logging.ParseLevel(flags.logLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	file := cfg.Log.File
	if flags.logFile != "" {
		file = flags.logFile
	}
	return logging.NewLogger(level, file)
}

// openSession loads the config, the logger and then the trace file. The
// caller closes the logger.
func openSession(cmd *cobra.Command, flags *commonFlags) (*app.Session, *config.Config, *logging.Logger, error) {
	if flags.input == "" {
		return nil, nil, nil, missingFlagError(cmd, "--input")
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg, flags)
	if err != nil {
		return nil, nil, nil, err
	}

	var opts []simulator.Option
	var bar *progress.Bar
	if flags.progress {
		bar = progress.NewBar(os.Stderr, "Loading")
		opts = append(opts, simulator.WithProgress(bar.Report))
	}
	session, err := app.Open(flags.input, cfg, logger, opts...)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		logger.Close()
		return nil, nil, nil, err
	}
	return session, cfg, logger, nil
}
