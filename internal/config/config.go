package config

type InstagramConfig struct {
	BaseURL   string `yaml:"base_url"`
	SessionID string `yaml:"session_id"`
	UserAgent string `yaml:"user_agent"`
	Headless  bool   `yaml:"headless"`
}

type FetchConfig struct {
	RequestDelayMin float64 `yaml:"request_delay_min"`
	RequestDelayMax float64 `yaml:"request_delay_max"`
	MaxRetries      int     `yaml:"max_retries"`
	RetryDelay      float64 `yaml:"retry_delay"`
	MaxPostsPerTag  int     `yaml:"max_posts_per_tag"`
}

type AnalysisConfig struct {
	DefaultTopCount int `yaml:"default_top_count"`
	DefaultDaysBack int `yaml:"default_days_back"`
	MinLikes        int `yaml:"min_likes"`
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type ScheduleConfig struct {
	Cron string   `yaml:"cron"`
	Tags []string `yaml:"tags"`
}

type CacheConfig struct {
	Addr     string `yaml:"addr"`
	TTLHours int    `yaml:"ttl_hours"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`
	Production bool   `yaml:"production"`
}
