package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir string `json:"project_dir"`
	DataDir    string `json:"data_dir"`

	// Analysis service
	LLMProvider string  `json:"llm_provider"` // openai | deepseek
	Model       string  `json:"model"`
	BackendURL  string  `json:"backend_url"`
	LLMAPIKey   string  `json:"llm_api_key"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// Market data sources
	FMPAPIKey   string `json:"fmp_api_key"`
	FMPBaseURL  string `json:"fmp_base_url"`
	NewsPageURL string `json:"news_page_url"`

	// Longport API Configuration (optional, .HK quotes)
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	// Notification senders
	MailerBaseURL string `json:"mailer_base_url"`
	MailerAPIKey  string `json:"mailer_api_key"`
	MailerFrom    string `json:"mailer_from"`
	SMSBaseURL    string `json:"sms_base_url"`
	SMSAccountSID string `json:"sms_account_sid"`
	SMSAuthToken  string `json:"sms_auth_token"`
	SMSFrom       string `json:"sms_from"`

	CacheCapacity  int    `json:"cache_capacity"`
	DefaultChannel string `json:"default_channel"`
	PersistHistory bool   `json:"persist_history"`
	Debug          bool   `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir: root,
		DataDir:    filepath.Join(root, "data"),

		LLMProvider: "openai",
		Model:       "gpt-4o-mini",
		BackendURL:  "",
		MaxTokens:   2048,
		Temperature: 0.4,

		CacheCapacity:  100,
		DefaultChannel: "web",
		PersistHistory: true,
		Debug:          false,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" && c.LLMAPIKey == "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" && c.LLMAPIKey == "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("LLM_TEMPERATURE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.Temperature = v
		}
	}

	if val := os.Getenv("FMP_API_KEY"); val != "" {
		c.FMPAPIKey = val
	}
	if val := os.Getenv("FMP_BASE_URL"); val != "" {
		c.FMPBaseURL = val
	}
	if val := os.Getenv("NEWS_PAGE_URL"); val != "" {
		c.NewsPageURL = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("MAILER_BASE_URL"); val != "" {
		c.MailerBaseURL = val
	}
	if val := os.Getenv("MAILER_API_KEY"); val != "" {
		c.MailerAPIKey = val
	}
	if val := os.Getenv("MAILER_FROM"); val != "" {
		c.MailerFrom = val
	}
	if val := os.Getenv("SMS_BASE_URL"); val != "" {
		c.SMSBaseURL = val
	}
	if val := os.Getenv("SMS_ACCOUNT_SID"); val != "" {
		c.SMSAccountSID = val
	}
	if val := os.Getenv("SMS_AUTH_TOKEN"); val != "" {
		c.SMSAuthToken = val
	}
	if val := os.Getenv("SMS_FROM"); val != "" {
		c.SMSFrom = val
	}

	if val := os.Getenv("CACHE_CAPACITY"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.CacheCapacity = v
		}
	}
	if val := os.Getenv("DEFAULT_CHANNEL"); val != "" {
		c.DefaultChannel = val
	}
	if val := os.Getenv("PERSIST_HISTORY"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.PersistHistory = v
		}
	}
	if val := os.Getenv("ARIA_DEBUG"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.Debug = v
		}
	}
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "", "openai", "deepseek":
	default:
		return fmt.Errorf("unsupported llm_provider: %s", c.LLMProvider)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2]")
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("cache_capacity must be non-negative")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.DataDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

func loadConfigFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
