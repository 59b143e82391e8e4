package config

// Default values applied when settings are not provided.
const (
	DefaultLogLevel            = "info"
	DefaultWorkerCount         = 2
	DefaultQueueSize           = 100
	DefaultStuckTaskAgeMinutes = 30
	DefaultLLMModelName        = "gemini-pro"
	DefaultLLMMaxRetries       = 3
	DefaultLLMBackoffFactor    = 1.5
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// WorkerConfig contains settings for the analysis worker process.
type WorkerConfig struct {
	LogLevel            string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	WorkerCount         int    `mapstructure:"worker_count" validate:"required,gt=0,lte=64"`
	QueueSize           int    `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMinutes int    `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains all model integration related settings.
//
// APIKey is deliberately optional: an empty key disables the remote model
// and routes every analysis through the heuristic engine.
type LLMConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	ModelName     string  `mapstructure:"model_name" validate:"required"`
	MaxRetries    int     `mapstructure:"max_retries" validate:"required,gte=1,lte=10"`
	BackoffFactor float64 `mapstructure:"backoff_factor" validate:"required,gt=1"`
}
