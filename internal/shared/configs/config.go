package configs

// Config holds all configuration for a profiling run. Keys in the config
// file are matched case-insensitively, so the conventional uppercase form
// (REPORT_SIZE, LOG_DIR, ...) works as-is.
type Config struct {
	ReportSize      int     `mapstructure:"report_size" validate:"min=1"`
	ReportDir       string  `mapstructure:"report_dir" validate:"required"`
	LogDir          string  `mapstructure:"log_dir" validate:"required"`
	LoggingPath     string  `mapstructure:"logging_path"`
	ErrorsThreshold float64 `mapstructure:"errors_threshold" validate:"min=0,max=1"`
	LogLevel        string  `mapstructure:"log_level" validate:"required"`
	PushgatewayURL  string  `mapstructure:"pushgateway_url" validate:"omitempty,url"`
}
