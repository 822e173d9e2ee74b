package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// ProviderConfig holds the generation provider connection settings.
// APIKeyEnv names the environment variable the key is read from, so the
// key itself never lives in config.yaml.
type ProviderConfig struct {
	APIKey    string `mapstructure:"-"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string // "memory" or a SQLite file path
	}
	Provider          ProviderConfig `mapstructure:"provider"`
	AnonymousQuota    int            `mapstructure:"anonymous_quota"`    // fixed allowance shown to anonymous callers
	AllowAnonymous    bool           `mapstructure:"allow_anonymous"`    // when false, metered calls require an identity
	RolloverSchedule  string         `mapstructure:"rollover_schedule"`  // cron spec for the billing-period sweep
	GenerationHistory int            `mapstructure:"generation_history"` // reserved; not used by the one-shot endpoint
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config") // for running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("provider.api_key_env", "OPENAI_API_KEY")
	viper.SetDefault("provider.model", "gpt-4o")
	viper.SetDefault("provider.max_tokens", 2048)
	viper.SetDefault("anonymous_quota", 10)
	viper.SetDefault("allow_anonymous", true)
	viper.SetDefault("rollover_schedule", "@hourly")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		AppConfig.Provider.BaseURL = baseURL
		log.Printf("INFO: [Config] Provider base URL overridden by environment variable OPENAI_BASE_URL.")
	}

	if AppConfig.Provider.APIKeyEnv != "" {
		if key := os.Getenv(AppConfig.Provider.APIKeyEnv); key != "" {
			AppConfig.Provider.APIKey = key
			log.Printf("INFO: [Config] Loaded provider API key from environment variable '%s'.", AppConfig.Provider.APIKeyEnv)
		} else {
			log.Printf("WARN: [Config] Provider API key environment variable '%s' is not set. Generation requests will fail until it is.", AppConfig.Provider.APIKeyEnv)
		}
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
