package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/jamesainslie/fileowner/pkg/fileowner/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage fileowner configuration settings.

Configuration is loaded from:
  1. --config FILE
  2. $XDG_CONFIG_HOME/fileowner/config.yaml (if set)
  3. ~/.config/fileowner/config.yaml

Environment variables can override config file settings using the FILEOWNER_ prefix:
  FILEOWNER_OUTPUT=json
  FILEOWNER_NO_FOLLOW=true
  FILEOWNER_JOURNAL_ENABLED=false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		cfg = config.Default()
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	writeConfig(os.Stdout, cfg)

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	overrides := envOverrides(os.Environ())
	if len(overrides) == 0 {
		fmt.Println("(none)")
	}
	for _, o := range overrides {
		fmt.Println(o)
	}

	return nil
}

// writeConfig prints the effective settings.
func writeConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "output:                  %s\n", cfg.Output)
	fmt.Fprintf(w, "no_follow:               %t\n", cfg.NoFollow)
	fmt.Fprintf(w, "journal.enabled:         %t\n", cfg.Journal.Enabled)
	fmt.Fprintf(w, "journal.path:            %s\n", cfg.Journal.Path)
	fmt.Fprintf(w, "journal.retention_days:  %d\n", cfg.Journal.RetentionDays)
	fmt.Fprintf(w, "logging.level:           %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "logging.path:            %s\n", dashIfEmpty(cfg.Logging.Path))
	fmt.Fprintf(w, "logging.rotation:        max_size=%s max_age=%d max_backups=%d daily=%t\n",
		cfg.Logging.Rotation.MaxSize, cfg.Logging.Rotation.MaxAge,
		cfg.Logging.Rotation.MaxBackups, cfg.Logging.Rotation.Daily)

	components := make([]string, 0, len(cfg.Logging.Components))
	for name, level := range cfg.Logging.Components {
		components = append(components, name+"="+level)
	}
	sort.Strings(components)
	fmt.Fprintf(w, "logging.components:      %s\n", strings.Join(components, " "))
}

// envOverrides returns the FILEOWNER_ variables in environ, sorted.
func envOverrides(environ []string) []string {
	var out []string
	for _, kv := range environ {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			out = append(out, kv)
		}
	}
	sort.Strings(out)
	return out
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'fileowner config edit' to modify it.")
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(_ *cobra.Command, _ []string) error {
	configPath := cfgFile
	if configPath == "" {
		var err error
		configPath, err = config.ConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
