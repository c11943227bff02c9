// Package config provides configuration management for the fileowner CLI.
package config

// Default configuration values for fileowner.
const (
	// AppName names the configuration, state and data directories.
	AppName = "fileowner"

	// EnvPrefix prefixes environment overrides, e.g. FILEOWNER_OUTPUT.
	EnvPrefix = "FILEOWNER"

	// DefaultOutput is the output format used when none is configured.
	DefaultOutput = "pretty"

	// DefaultRetentionDays is the number of days journal entries are kept
	// by "history clean".
	DefaultRetentionDays = 90

	// DefaultLogLevel is the file log level.
	DefaultLogLevel = "info"

	// DefaultRotationMaxSize is the log size that triggers rotation.
	DefaultRotationMaxSize = "10MB"

	// DefaultRotationMaxAge is the number of days rotated logs are kept.
	DefaultRotationMaxAge = 30

	// DefaultRotationMaxBackups is the number of rotated logs kept.
	DefaultRotationMaxBackups = 5
)

// DefaultComponents holds the per-component log levels.
var DefaultComponents = map[string]string{
	"owner":   "info",
	"journal": "info",
	"cli":     "info",
	"watch":   "info",
}
