package main

import (
	"testing"

	"github.com/jamesainslie/fileowner/pkg/fileowner/config"
	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
)

func TestParseRotationConfig(t *testing.T) {
	defaultSize := logging.DefaultRotationConfig().MaxSize

	tests := []struct {
		name     string
		input    config.RotationConfig
		expected logging.RotationConfig
	}{
		{
			name: "default values",
			input: config.RotationConfig{
				MaxSize:    "10MiB",
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024,
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
		},
		{
			name: "decimal units",
			input: config.RotationConfig{
				MaxSize:    "10MB",
				MaxAge:     7,
				MaxBackups: 3,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1000 * 1000,
				MaxAge:     7,
				MaxBackups: 3,
			},
		},
		{
			name: "gigabytes",
			input: config.RotationConfig{
				MaxSize: "1GiB",
			},
			expected: logging.RotationConfig{
				MaxSize: 1024 * 1024 * 1024,
			},
		},
		{
			name: "empty max_size uses default",
			input: config.RotationConfig{
				MaxAge:     14,
				MaxBackups: 2,
				Daily:      true,
			},
			expected: logging.RotationConfig{
				MaxSize:    defaultSize,
				MaxAge:     14,
				MaxBackups: 2,
				Daily:      true,
			},
		},
		{
			name: "invalid max_size uses default",
			input: config.RotationConfig{
				MaxSize: "invalid",
				MaxAge:  21,
			},
			expected: logging.RotationConfig{
				MaxSize: defaultSize,
				MaxAge:  21,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseRotationConfig(tt.input)

			if result.MaxSize != tt.expected.MaxSize {
				t.Errorf("MaxSize = %d, want %d", result.MaxSize, tt.expected.MaxSize)
			}
			if result.MaxAge != tt.expected.MaxAge {
				t.Errorf("MaxAge = %d, want %d", result.MaxAge, tt.expected.MaxAge)
			}
			if result.MaxBackups != tt.expected.MaxBackups {
				t.Errorf("MaxBackups = %d, want %d", result.MaxBackups, tt.expected.MaxBackups)
			}
			if result.Daily != tt.expected.Daily {
				t.Errorf("Daily = %v, want %v", result.Daily, tt.expected.Daily)
			}
		})
	}
}

func TestNewChowner(t *testing.T) {
	cfg := config.Default()
	if newChowner(cfg) == nil {
		t.Fatal("newChowner() returned nil")
	}

	cfg.NoFollow = true
	if newChowner(cfg) == nil {
		t.Fatal("newChowner() returned nil with NoFollow")
	}
}
