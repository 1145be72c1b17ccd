package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum enabled level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding (console, json).
	Format string `mapstructure:"format" default:"console"`
	// ErrorFile is an optional file that receives a copy of error-level output.
	ErrorFile string `mapstructure:"error_file" default:""`
}
