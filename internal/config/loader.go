package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Instagram      InstagramConfig `yaml:"instagram"`
	Fetch          FetchConfig     `yaml:"fetch"`
	Analysis       AnalysisConfig  `yaml:"analysis"`
	Export         ExportConfig    `yaml:"export"`
	Slack          SlackConfig     `yaml:"slack"`
	Web            WebConfig       `yaml:"web"`
	Schedule       ScheduleConfig  `yaml:"schedule"`
	Cache          CacheConfig     `yaml:"cache"`
	DatabaseConfig DatabaseConfig  `yaml:"database"`
	Logger         LoggerConfig    `yaml:"logger"`
}

func defaults() Config {
	return Config{
		Instagram: InstagramConfig{
			BaseURL:  "https://www.instagram.com",
			Headless: true,
		},
		Fetch: FetchConfig{
			RequestDelayMin: 2.0,
			RequestDelayMax: 5.0,
			MaxRetries:      3,
			RetryDelay:      10.0,
		},
		Analysis: AnalysisConfig{
			DefaultTopCount: 50,
			DefaultDaysBack: 30,
		},
		Export: ExportConfig{OutputDir: "output"},
		Cache:  CacheConfig{TTLHours: 6},
		Logger: LoggerConfig{Level: "info"},
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	// Secrets come from the environment, a .env file is honored when present.
	_ = godotenv.Load()

	if v := os.Getenv("INSTAGRAM_SESSION_ID"); v != "" {
		cfg.Instagram.SessionID = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Slack.WebhookURL = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseConfig.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}

	return cfg, nil
}
