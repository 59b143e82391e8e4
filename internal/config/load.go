package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// TASKSAGE_ prefix with underscores for nesting (TASKSAGE_DATABASE_URL,
// TASKSAGE_LLM_API_KEY) and take precedence over file values.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults must be bound explicitly so AutomaticEnv
	// picks them up during Unmarshal.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"database.url", "TASKSAGE_DATABASE_URL"},
		{"llm.api_key", "TASKSAGE_LLM_API_KEY"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env.envVar, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("worker.log_level", DefaultLogLevel)
	v.SetDefault("worker.worker_count", DefaultWorkerCount)
	v.SetDefault("worker.queue_size", DefaultQueueSize)
	v.SetDefault("worker.stuck_task_age_minutes", DefaultStuckTaskAgeMinutes)
	v.SetDefault("llm.model_name", DefaultLLMModelName)
	v.SetDefault("llm.max_retries", DefaultLLMMaxRetries)
	v.SetDefault("llm.backoff_factor", DefaultLLMBackoffFactor)
}
