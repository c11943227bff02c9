package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamesainslie/fileowner/pkg/fileowner/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported is returned by commands that already printed their failures
// and only need a non-zero exit status.
var errReported = errors.New("failures reported")

var (
	cfgFile    string
	cfgReadErr error
	rootCmd    = &cobra.Command{
		Use:   "fileowner",
		Short: "Get and set the owner and group of files",
		Long: `fileowner reads and changes the Unix owner and group of paths,
accepting user and group names or numeric IDs.

Changes made with "fileowner set" are journaled and can be reverted.

Examples:
  fileowner get /tmp/baz                     # Show owner and group
  fileowner get -o json /etc/passwd /tmp     # JSON output for several paths
  fileowner set --owner nobody /tmp/baz      # Change the owner by name
  fileowner set --owner 99 --group 99 /tmp/baz
  fileowner resolve user root                # Print "0 root"
  fileowner history                          # List recorded changes
  fileowner history revert <id>              # Undo a change
  fileowner watch /srv/data                  # Report ownership changes`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  initializeLogging,
		PersistentPostRunE: shutdownLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/fileowner/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (pretty, plain, json, jsonl, yaml, csv, tsv, markdown, template)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output on stderr")
	rootCmd.PersistentFlags().String("log-level", "", "log file level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-follow", false, "act on symbolic links instead of their targets")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("no_follow", rootCmd.PersistentFlags().Lookup("no-follow"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	if err := config.Configure(v, cfgFile); err != nil {
		cfgReadErr = err
		return
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A file named with --config must exist; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			cfgReadErr = fmt.Errorf("reading config: %w", err)
		}
	}
}

// loadConfig returns the effective configuration from flags, environment,
// file and defaults.
func loadConfig() (*config.Config, error) {
	if cfgReadErr != nil {
		return nil, cfgReadErr
	}
	return config.FromViper(viper.GetViper())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printWarn prints a warning to stderr unless quiet.
func printWarn(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
