package main

import (
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fileowner/pkg/fileowner/config"
	"github.com/jamesainslie/fileowner/pkg/fileowner/journal"
	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
	"github.com/spf13/cobra"
)

// initializeLogging is the root PersistentPreRunE hook. A log file that
// cannot be opened is not fatal: the command still runs, unlogged.
func initializeLogging(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}

	if _, err := logging.ParseLevel(logCfg.Level); err != nil {
		return err
	}

	if err := logging.Init(logCfg); err != nil {
		printVerbose("logging disabled: %v", err)
		return nil
	}

	logging.Get("cli").Debug("logging initialized", "level", logCfg.Level, "path", logCfg.Path)
	return nil
}

// shutdownLogging is the root PersistentPostRunE hook.
func shutdownLogging(_ *cobra.Command, _ []string) error {
	return logging.Close()
}

// parseRotationConfig converts the config file's rotation settings. An
// empty or unparsable max_size falls back to the default.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}

	if rc.MaxSize != "" {
		if size, err := humanize.ParseBytes(rc.MaxSize); err == nil && size > 0 {
			out.MaxSize = int64(size)
		}
	}

	return out
}

// newChowner builds the Chowner for the configured symlink mode.
func newChowner(cfg *config.Config) *owner.Chowner {
	if cfg.NoFollow {
		return owner.New(owner.WithNoFollow())
	}
	return owner.New()
}

// openJournal opens the configured journal.
func openJournal(cfg *config.Config) (*journal.Journal, error) {
	return journal.Open(cfg.Journal.Path)
}
