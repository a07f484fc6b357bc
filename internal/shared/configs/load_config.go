package configs

import (
	"fmt"
	"strings"

	"log-profiler/internal/shared/validators"

	"github.com/spf13/viper"
)

// LoadConfig builds the run configuration from built-in defaults, overridden
// per key by the JSON document at configPath. An empty configPath means
// defaults only. The result is validated before being returned.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("report_size", 1000)
	v.SetDefault("report_dir", "./")
	v.SetDefault("log_dir", "./")
	v.SetDefault("logging_path", "")
	v.SetDefault("errors_threshold", 0.1)
	v.SetDefault("log_level", "info")
	v.SetDefault("pushgateway_url", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("json")

		// Read from file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "reportsize")
	if e.StructNamespace() != "" {
		// Extract field path (e.g., "Config.ReportSize" -> "reportsize")
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			// Skip "Config" prefix, convert to lowercase with dots
			fieldPath := strings.ToLower(strings.Join(parts[1:], "."))
			field = fieldPath
		}
	}

	var msg string
	switch tag {
	case "required":
		msg = fmt.Sprintf("%s (required)", field)
	case "min":
		msg = fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s (max=%s)", field, e.Param())
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}
