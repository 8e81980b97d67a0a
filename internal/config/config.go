package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderZeroShot  = "zeroshot"
	ProviderNone      = "none"
)

type Config struct {
	InputPath string `yaml:"input_path"`
	OutputDir string `yaml:"output_dir"`
	DBPath    string `yaml:"db_path"`

	LLMProvider     string  `yaml:"llm_provider"`
	LLMModel        string  `yaml:"llm_model"`
	LLMConfidence   float64 `yaml:"llm_confidence_threshold"`
	LLMMaxLabels    int     `yaml:"llm_max_labels"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	ZeroShotURL     string  `yaml:"zeroshot_url"`

	FallbackTimeoutSeconds     int `yaml:"fallback_timeout_seconds"`
	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`

	NegationWindow   int     `yaml:"negation_window"`
	FuzzyThreshold   float64 `yaml:"fuzzy_threshold"`
	VocabularyPath   string  `yaml:"vocabulary_path"`
	TranslateEnabled bool    `yaml:"translate_enabled"`
	Workers          int     `yaml:"workers"`

	SellerName      string `yaml:"seller_name"`
	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`
	Schedule        string `yaml:"schedule"`
	Timezone        string `yaml:"timezone"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

// LoadConfig reads .env files, then the YAML config (path, else CONFIG_PATH, else
// config.yaml), then environment overrides. Invalid settings are fatal.
func LoadConfig(path string) Config {
	loadEnvFiles()

	var cfg Config
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if strings.TrimSpace(path) != "" {
		configPath = path
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.InputPath, "INPUT_PATH")
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideFloat(&cfg.LLMConfidence, "LLM_CONFIDENCE_THRESHOLD")
	envOverrideInt(&cfg.LLMMaxLabels, "LLM_MAX_LABELS")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.ZeroShotURL, "ZEROSHOT_URL")
	envOverrideInt(&cfg.FallbackTimeoutSeconds, "FALLBACK_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.NegationWindow, "NEGATION_WINDOW")
	envOverrideFloat(&cfg.FuzzyThreshold, "FUZZY_THRESHOLD")
	envOverride(&cfg.VocabularyPath, "VOCABULARY_PATH")
	envOverrideBool(&cfg.TranslateEnabled, "TRANSLATE_ENABLED")
	envOverrideInt(&cfg.Workers, "WORKERS")
	envOverride(&cfg.SellerName, "SELLER_NAME")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverrideAllowEmpty(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.Schedule, "SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if cfg.InputPath == "" {
		cfg.InputPath = "./feedback.csv"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./reports"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./whisperer.db"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderNone
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMConfidence == 0 {
		cfg.LLMConfidence = 0.70
	}
	if cfg.LLMMaxLabels == 0 {
		cfg.LLMMaxLabels = 3
	}
	if cfg.ZeroShotURL == "" {
		cfg.ZeroShotURL = "http://localhost:8076"
	}
	if cfg.FallbackTimeoutSeconds == 0 {
		cfg.FallbackTimeoutSeconds = 30
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.NegationWindow == 0 {
		cfg.NegationWindow = 3
	}
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = 95
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.SellerName == "" {
		cfg.SellerName = "Seller"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	switch cfg.LLMProvider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when llm_provider=anthropic")
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when llm_provider=openai")
		}
	case ProviderZeroShot, ProviderNone:
	default:
		log.Fatalf("llm_provider must be one of anthropic, openai, zeroshot, none; got '%s'", cfg.LLMProvider)
	}
	if cfg.TranslateEnabled && !cfg.LLMTextCapable() {
		log.Fatalf("translate_enabled requires llm_provider anthropic or openai, got '%s'", cfg.LLMProvider)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if cfg.Schedule != "" {
		if _, err := ParseSchedule(cfg.Schedule); err != nil {
			log.Fatalf("invalid schedule '%s': %v", cfg.Schedule, err)
		}
	}
	if cfg.LLMConfidence < 0 || cfg.LLMConfidence > 1 {
		log.Fatalf("invalid llm_confidence_threshold '%f': must be between 0 and 1", cfg.LLMConfidence)
	}
	if cfg.LLMMaxLabels < 1 {
		log.Fatalf("invalid llm_max_labels '%d': must be >= 1", cfg.LLMMaxLabels)
	}
	if cfg.FuzzyThreshold < 0 || cfg.FuzzyThreshold > 100 {
		log.Fatalf("invalid fuzzy_threshold '%f': must be between 0 and 100", cfg.FuzzyThreshold)
	}
	if cfg.NegationWindow < 0 {
		log.Fatalf("invalid negation_window '%d': must be >= 0", cfg.NegationWindow)
	}
	if cfg.Workers < 1 {
		log.Fatalf("invalid workers '%d': must be >= 1", cfg.Workers)
	}
	if cfg.FallbackTimeoutSeconds < 1 {
		log.Fatalf("invalid fallback_timeout_seconds '%d': must be >= 1", cfg.FallbackTimeoutSeconds)
	}
	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.SlackBotToken != "" && cfg.ReportChannelID == "" {
		log.Printf("WARNING: slack_bot_token is set but report_channel_id is empty; reports will not be posted.")
	}

	return cfg
}

// LLMTextCapable reports whether the provider can generate free text (translation).
func (c Config) LLMTextCapable() bool {
	return c.LLMProvider == ProviderAnthropic || c.LLMProvider == ProviderOpenAI
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func (c Config) FallbackTimeout() time.Duration {
	return time.Duration(c.FallbackTimeoutSeconds) * time.Second
}

// ParseSchedule parses a standard five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(expr)
}

func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			log.Printf("config env file skipped path=%s err=%v", name, err)
		}
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideAllowEmpty(field *string, envKey string) {
	if val, ok := os.LookupEnv(envKey); ok {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
