package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"SalarySentinel/internal/calculator"
	"SalarySentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Model struct {
		ArtifactPath string `yaml:"artifact_path"`
		RemoteURL    string `yaml:"remote_url"`
		Transform    string `yaml:"transform"`
	} `yaml:"model"`
	JobTitles []string              `yaml:"job_titles"`
	Threshold model.ThresholdPolicy `yaml:"threshold"`
	Residuals struct {
		SQLitePath string `yaml:"sqlite_path"`
		Table      string `yaml:"table"`
		Column     string `yaml:"column"`
		FilePath   string `yaml:"file_path"`
	} `yaml:"residuals"`
	Audit struct {
		CSVPath string `yaml:"csv_path"`
		Cron    string `yaml:"cron"`
	} `yaml:"audit"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults and env vars still apply.
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
	setString(&cfg.Model.ArtifactPath, "MODEL_PATH")
	setString(&cfg.Model.RemoteURL, "MODEL_URL")
	setString(&cfg.Model.Transform, "MODEL_TRANSFORM")
	if v := os.Getenv("THRESHOLD_POLICY"); v != "" {
		cfg.Threshold.Kind = model.PolicyKind(v)
	}
	setFloat(&cfg.Threshold.ResidualStd, "RESIDUAL_STD")
	setFloat(&cfg.Threshold.Multiplier, "THRESHOLD_MULTIPLIER")
	setFloat(&cfg.Threshold.Percentile, "THRESHOLD_PERCENTILE")
	setString(&cfg.Residuals.SQLitePath, "RESIDUALS_SQLITE_PATH")
	setString(&cfg.Residuals.FilePath, "RESIDUALS_FILE")
	setString(&cfg.Audit.CSVPath, "AUDIT_CSV")
	setString(&cfg.Audit.Cron, "CRON_AUDIT")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Server.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.Proxy, "HTTPS_PROXY")

	// Defaults
	if cfg.Model.ArtifactPath == "" && cfg.Model.RemoteURL == "" {
		cfg.Model.ArtifactPath = "models/salary_model.json"
	}
	if cfg.Model.Transform == "" {
		cfg.Model.Transform = string(calculator.TransformLog)
	}
	if cfg.Threshold.Kind == "" {
		cfg.Threshold.Kind = model.PolicyFixedStd
	}
	if cfg.Threshold.ResidualStd == 0 {
		cfg.Threshold.ResidualStd = 0.076563
	}
	if cfg.Threshold.Multiplier == 0 {
		cfg.Threshold.Multiplier = 3
	}
	if cfg.Threshold.Percentile == 0 {
		cfg.Threshold.Percentile = 95
	}
	if cfg.Residuals.Table == "" {
		cfg.Residuals.Table = "residuals"
	}
	if cfg.Residuals.Column == "" {
		cfg.Residuals.Column = "abs_residual"
	}
	if cfg.Audit.Cron == "" {
		cfg.Audit.Cron = "0 0 7 * * 1"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Validate checks that the evaluation settings are usable.
func (c *Config) Validate() error {
	if c.Model.ArtifactPath == "" && c.Model.RemoteURL == "" {
		return fmt.Errorf("model.artifact_path or model.remote_url is required")
	}
	if _, err := calculator.ParseTransform(c.Model.Transform); err != nil {
		return fmt.Errorf("model.transform: %w", err)
	}
	if err := c.Threshold.Validate(); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	if c.Threshold.Kind == model.PolicyPercentile && c.Residuals.SQLitePath == "" && c.Residuals.FilePath == "" {
		return fmt.Errorf("percentile policy requires residuals.sqlite_path or residuals.file_path")
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("job_titles: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Transform returns the parsed transform pair.
func (c *Config) Transform() calculator.Transform {
	t, _ := calculator.ParseTransform(c.Model.Transform)
	return t
}

// Catalog builds the job catalog; an empty list means the canonical titles.
func (c *Config) Catalog() (*model.JobCatalog, error) {
	return model.CatalogFromStrings(c.JobTitles)
}

// TelegramEnabled reports whether chat notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
