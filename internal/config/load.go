package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/insight"
	"github.com/hollis-m/pocketwatch/internal/notify"
	"github.com/hollis-m/pocketwatch/internal/schedule"
)

// DatabasePath resolves the SQLite database location from Viper, with
// path expansion applied.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = "$HOME/.local/share/pocketwatch/pocketwatch.db"
	}
	return ExpandPath(path)
}

// LoadInsightConfig loads the AI provider configuration from Viper and
// environment variables. Precedence:
// 1. Viper configuration (config file or POCKETWATCH_ env vars)
// 2. Direct provider environment variables (GEMINI_API_KEY etc.)
// 3. Defaults
func LoadInsightConfig() (insight.Config, error) {
	cfg := insight.Config{
		Provider:   viper.GetString("ai.provider"),
		APIKey:     viper.GetString("ai.api_key"),
		Model:      viper.GetString("ai.model"),
		BaseURL:    viper.GetString("ai.base_url"),
		MaxTokens:  viper.GetInt("ai.max_tokens"),
		MaxRetries: viper.GetInt("ai.max_retries"),
		RetryDelay: viper.GetDuration("ai.retry_delay"),
		RateLimit:  viper.GetInt("ai.rate_limit"),
		CacheTTL:   viper.GetDuration("ai.cache_ttl"),
	}

	if cfg.Provider == "" {
		cfg.Provider = "gemini"
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "gemini":
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.APIKey == "" {
		return cfg, common.NewUserError(
			"no API key configured for provider "+cfg.Provider, common.ErrMissingConfig)
	}

	return cfg, nil
}

// LoadSMTPConfig loads the outbound mail configuration from Viper and
// environment variables. A missing host means email delivery is
// disabled, not an error; callers check Host.
func LoadSMTPConfig() notify.SMTPConfig {
	cfg := notify.SMTPConfig{
		Host:     viper.GetString("smtp.host"),
		Port:     viper.GetInt("smtp.port"),
		Username: viper.GetString("smtp.username"),
		Password: viper.GetString("smtp.password"),
		From:     viper.GetString("smtp.from"),
	}

	if cfg.Host == "" {
		cfg.Host = os.Getenv("SMTP_HOST")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("SMTP_PASSWORD")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	return cfg
}

// LoadScheduleConfig loads the cron expressions for the report jobs.
// Empty values fall back to the scheduler defaults.
func LoadScheduleConfig() schedule.Config {
	return schedule.Config{
		DailySpec:   viper.GetString("schedule.daily"),
		MonthlySpec: viper.GetString("schedule.monthly"),
	}
}

// ServerAddr resolves the HTTP listen address.
func ServerAddr() string {
	if addr := viper.GetString("server.addr"); addr != "" {
		return addr
	}
	return ":8080"
}
