package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	// Disabled turns the Telegram front-end off; the HTTP API keeps running.
	Disabled bool   `yaml:"disabled" envconfig:"TELEGRAM_DISABLED"`
	Token    string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID  int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode  string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// HTTPConfig configures the JSON training API.
type HTTPConfig struct {
	Disabled    bool     `yaml:"disabled" envconfig:"HTTP_DISABLED"`
	Listen      string   `yaml:"listen" envconfig:"HTTP_LISTEN"`
	CORSOrigins []string `yaml:"cors_origins" envconfig:"HTTP_CORS_ORIGINS"`
	// ShutdownSeconds bounds graceful shutdown of in-flight requests.
	ShutdownSeconds int `yaml:"shutdown_seconds" envconfig:"HTTP_SHUTDOWN_SECONDS"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Backend    string `yaml:"backend" envconfig:"STORE_BACKEND"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"STORE_SQLITE_PATH"`
}

// DatabaseConfig holds Postgres connection settings used by the postgres store backend.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// LLMConfig selects and tunes the text generation backend.
type LLMConfig struct {
	Provider       string  `yaml:"provider" envconfig:"LLM_PROVIDER"`
	APIKey         string  `yaml:"api_key" envconfig:"LLM_API_KEY"`
	BaseURL        string  `yaml:"base_url" envconfig:"LLM_BASE_URL"`
	Model          string  `yaml:"model" envconfig:"LLM_MODEL"`
	Temperature    float64 `yaml:"temperature" envconfig:"LLM_TEMPERATURE"`
	MaxTokens      int     `yaml:"max_tokens" envconfig:"LLM_MAX_TOKENS"`
	TimeoutSeconds int     `yaml:"timeout_seconds" envconfig:"LLM_TIMEOUT_SECONDS"`
}

// TrainingConfig tunes the session engine.
type TrainingConfig struct {
	// HistoryLimit caps stored turns per session; 0 keeps everything.
	HistoryLimit *int `yaml:"history_limit" envconfig:"TRAINING_HISTORY_LIMIT"`
	// MaxSessions caps sessions kept in memory; 0 uses the engine default.
	MaxSessions int `yaml:"max_sessions" envconfig:"TRAINING_MAX_SESSIONS"`
	// EnabledModules restricts the catalog; empty enables every module.
	EnabledModules []string `yaml:"enabled_modules" envconfig:"TRAINING_ENABLED_MODULES"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

const (
	// StoreMemory keeps sessions in process memory only.
	StoreMemory = "memory"
	// StoreSQLite keeps sessions in a local SQLite file.
	StoreSQLite = "sqlite"
	// StorePostgres keeps sessions in Postgres, schema managed by migrations.
	StorePostgres = "postgres"
)

const (
	// ProviderNone disables generation; engines always use local fallbacks.
	ProviderNone = "none"
	// ProviderOpenAI uses the official OpenAI SDK.
	ProviderOpenAI = "openai"
	// ProviderCompatible targets any OpenAI-compatible endpoint such as DeepSeek.
	ProviderCompatible = "compatible"
	// ProviderAnthropic uses the Anthropic Messages API.
	ProviderAnthropic = "anthropic"
)

const (
	defaultHTTPListen      = ":8080"
	defaultShutdownSeconds = 10
	defaultSQLitePath      = "data/salestrainer.db"
	defaultLLMTimeout      = 30
	defaultMaxTokens       = 400
	defaultTemperature     = 0.7
	defaultHistoryLimit    = 100
	defaultCompatibleURL   = "https://api.deepseek.com/v1"
	defaultCompatibleModel = "deepseek-chat"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-3-5-haiku-latest"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
// - "inline_query": inline query updates
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Training  TrainingConfig  `yaml:"training"`
}

// Load reads configuration from a YAML file and environment variables.
// A missing file is tolerated so that containers can be configured by env alone.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if cfg.Telegram.Disabled && cfg.HTTP.Disabled {
		return fmt.Errorf("both telegram and http are disabled; nothing to run")
	}
	if err := normalizeTelegram(cfg); err != nil {
		return err
	}
	if err := normalizeRateLimit(cfg); err != nil {
		return err
	}
	if err := normalizeHTTP(cfg); err != nil {
		return err
	}
	if err := normalizeStore(cfg); err != nil {
		return err
	}
	if err := normalizeLLM(cfg); err != nil {
		return err
	}
	return normalizeTraining(cfg)
}

func normalizeTelegram(cfg *Config) error {
	if cfg.Telegram.Disabled {
		return nil
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm
	return nil
}

func normalizeRateLimit(cfg *Config) error {
	allowed := map[string]struct{}{
		UpdateCallback:    {},
		UpdateMessage:     {},
		UpdateInlineQuery: {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message, inline_query", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

func normalizeHTTP(cfg *Config) error {
	if strings.TrimSpace(cfg.HTTP.Listen) == "" {
		cfg.HTTP.Listen = defaultHTTPListen
	}
	if cfg.HTTP.ShutdownSeconds < 0 {
		return fmt.Errorf("http.shutdown_seconds must be >= 0")
	}
	if cfg.HTTP.ShutdownSeconds == 0 {
		cfg.HTTP.ShutdownSeconds = defaultShutdownSeconds
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	return nil
}

func normalizeStore(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if backend == "" {
		backend = StoreSQLite
	}
	switch backend {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(cfg.Store.SQLitePath) == "" {
			cfg.Store.SQLitePath = defaultSQLitePath
		}
	case StorePostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.host and database.name are required when store.backend is 'postgres'")
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 10
		}
	default:
		return fmt.Errorf("invalid store.backend %q; allowed: memory, sqlite, postgres", cfg.Store.Backend)
	}
	cfg.Store.Backend = backend
	return nil
}

func normalizeLLM(cfg *Config) error {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if provider == "" {
		provider = ProviderNone
	}
	switch provider {
	case ProviderNone:
	case ProviderOpenAI:
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = defaultOpenAIModel
		}
	case ProviderCompatible:
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = defaultCompatibleURL
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = defaultCompatibleModel
		}
	case ProviderAnthropic:
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = defaultAnthropicModel
		}
	default:
		return fmt.Errorf("invalid llm.provider %q; allowed: none, openai, compatible, anthropic", cfg.LLM.Provider)
	}
	if provider != ProviderNone && strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required when llm.provider is %q", provider)
	}
	cfg.LLM.Provider = provider

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = defaultTemperature
	}
	if cfg.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be >= 0")
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = defaultMaxTokens
	}
	if cfg.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("llm.timeout_seconds must be >= 0")
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = defaultLLMTimeout
	}
	return nil
}

func normalizeTraining(cfg *Config) error {
	if cfg.Training.HistoryLimit == nil {
		limit := defaultHistoryLimit
		cfg.Training.HistoryLimit = &limit
	}
	if *cfg.Training.HistoryLimit < 0 {
		return fmt.Errorf("training.history_limit must be >= 0")
	}
	if cfg.Training.MaxSessions < 0 {
		return fmt.Errorf("training.max_sessions must be >= 0")
	}
	cleaned := cfg.Training.EnabledModules[:0]
	for _, name := range cfg.Training.EnabledModules {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	cfg.Training.EnabledModules = cleaned
	return nil
}

// HistoryLimit returns the normalized per-session turn cap.
func (c *Config) HistoryLimit() int {
	if c == nil || c.Training.HistoryLimit == nil {
		return defaultHistoryLimit
	}
	return *c.Training.HistoryLimit
}
