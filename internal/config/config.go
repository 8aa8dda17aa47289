package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Tickers []string `yaml:"tickers"`
	Storage struct {
		ConnectionString   string `yaml:"connection_string"`
		RawContainer       string `yaml:"raw_container"`
		ProcessedContainer string `yaml:"processed_container"`
		LocalPath          string `yaml:"local_path"` // badger fallback when no connection string
	} `yaml:"storage"`
	DataSource struct {
		Provider string `yaml:"provider"` // "yahoo" (default) or "eodhd"
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"data_source"`
	LLM struct {
		APIKey    string `yaml:"api_key"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"llm"`
	Schedule struct {
		Cron       string        `yaml:"cron"`
		FetchDelay time.Duration `yaml:"fetch_delay"`
	} `yaml:"schedule"`
	Sentiment struct {
		NewsLimit int `yaml:"news_limit"`
	} `yaml:"sentiment"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the
// environment alone can fully configure a run.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCK_TICKERS"); v != "" {
		cfg.Tickers = splitTickers(v)
	}
	if v := os.Getenv("AZURE_CONNECTION_STRING"); v != "" {
		cfg.Storage.ConnectionString = v
	} else if v := os.Getenv("CONNECTION_STRING"); v != "" {
		cfg.Storage.ConnectionString = v
	}
	if v := os.Getenv("RAW_CONTAINER_NAME"); v != "" {
		cfg.Storage.RawContainer = v
	}
	if v := os.Getenv("PROCESSED_CONTAINER_NAME"); v != "" {
		cfg.Storage.ProcessedContainer = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ETL_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("FETCH_DELAY_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.Schedule.FetchDelay = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("NEWS_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Sentiment.NewsLimit = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = splitTickers("AAPL,MSFT,TSLA,GOOGL,AMZN")
	}
	if cfg.Storage.RawContainer == "" {
		cfg.Storage.RawContainer = "rawdata"
	}
	if cfg.Storage.ProcessedContainer == "" {
		cfg.Storage.ProcessedContainer = "processeddata"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "data/blobs"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-sonnet-4-20250514"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 400
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 */6 * * *" // every 6 hours
	}
	if cfg.Schedule.FetchDelay == 0 {
		cfg.Schedule.FetchDelay = 15 * time.Second
	}
	if cfg.Sentiment.NewsLimit == 0 {
		cfg.Sentiment.NewsLimit = 5
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/finsight.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers must not be empty")
	}
	for _, t := range c.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tickers must not contain blank entries")
		}
	}
	if c.Storage.RawContainer == "" || c.Storage.ProcessedContainer == "" {
		return fmt.Errorf("storage containers are required")
	}
	if c.DataSource.Provider == "eodhd" && c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required for the eodhd provider")
	}
	return nil
}

func splitTickers(s string) []string {
	var tickers []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
