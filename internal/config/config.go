package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project    ProjectConfig    `yaml:"project"`
	Facebook   FacebookConfig   `yaml:"facebook"`
	API        APIConfig        `yaml:"api"`
	Upload     UploadConfig     `yaml:"upload"`
	Generation GenerationConfig `yaml:"generation"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Database   DatabaseConfig   `yaml:"database"`
	LogLevel   string           `yaml:"log_level"`
}

// ProjectConfig locates the asset directories and the state files. Relative
// paths are resolved against Root.
type ProjectConfig struct {
	Root          string `yaml:"root"`
	ImagesDir     string `yaml:"images_dir"`
	VideosDir     string `yaml:"videos_dir"`
	TrackerFile   string `yaml:"tracker_file"`
	SelectionFile string `yaml:"selection_file"`
	ScheduleFile  string `yaml:"schedule_file"`
}

// Path resolves rel against the project root.
func (p ProjectConfig) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

type FacebookConfig struct {
	BaseURL   string        `yaml:"base_url"`
	PageID    string        `yaml:"page_id"`
	PageToken string        `yaml:"page_token"`
	Timeout   time.Duration `yaml:"timeout"`
}

type APIConfig struct {
	Retry RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type UploadConfig struct {
	ChunkSize    int64         `yaml:"chunk_size"`
	PollAttempts int           `yaml:"poll_attempts"`
	PollInterval time.Duration `yaml:"poll_interval"`
	RetryFinish  bool          `yaml:"retry_finish"`
}

type GenerationConfig struct {
	Provider    string        `yaml:"provider"` // "genai" or "http"
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Endpoint    string        `yaml:"endpoint"`
	MaxTokens   int32         `yaml:"max_tokens"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SchedulerConfig struct {
	Tick        time.Duration       `yaml:"tick"`
	TaskDir     string              `yaml:"task_dir"`
	TaskTimeout time.Duration       `yaml:"task_timeout"`
	DefaultArgs map[string][]string `yaml:"default_args"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether publish events should be sent.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether the history database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Default returns a configuration with every default applied, reading
// credentials from the environment. It is used when no config file exists.
func Default() *Config {
	_ = godotenv.Load()

	cfg := Config{
		Facebook: FacebookConfig{
			PageID:    os.Getenv("FACEBOOK_PAGE_ID"),
			PageToken: os.Getenv("FACEBOOK_PAGE_TOKEN"),
		},
		Generation: GenerationConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
	}
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Project.Root == "" {
		c.Project.Root = "."
	}
	if c.Project.ImagesDir == "" {
		c.Project.ImagesDir = "Assets/Images"
	}
	if c.Project.VideosDir == "" {
		c.Project.VideosDir = "Assets/Videos"
	}
	if c.Project.TrackerFile == "" {
		c.Project.TrackerFile = "Config/posted_assets.json"
	}
	if c.Project.SelectionFile == "" {
		c.Project.SelectionFile = "selected_assets.json"
	}
	if c.Project.ScheduleFile == "" {
		c.Project.ScheduleFile = "Config/schedule.json"
	}
	if c.Facebook.BaseURL == "" {
		c.Facebook.BaseURL = "https://graph.facebook.com/v18.0"
	}
	if c.Facebook.Timeout == 0 {
		c.Facebook.Timeout = 30 * time.Second
	}
	if c.API.Retry.MaxAttempts == 0 {
		c.API.Retry.MaxAttempts = 3
	}
	if c.API.Retry.InitialBackoff == 0 {
		c.API.Retry.InitialBackoff = 1 * time.Second
	}
	if c.API.Retry.MaxBackoff == 0 {
		c.API.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Upload.ChunkSize == 0 {
		c.Upload.ChunkSize = 4 << 20
	}
	if c.Upload.PollAttempts == 0 {
		c.Upload.PollAttempts = 10
	}
	if c.Upload.PollInterval == 0 {
		c.Upload.PollInterval = 5 * time.Second
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = "genai"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gemini-2.0-flash"
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = 500
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = 0.7
	}
	if c.Generation.Timeout == 0 {
		c.Generation.Timeout = 60 * time.Second
	}
	if c.Scheduler.Tick == 0 {
		c.Scheduler.Tick = 30 * time.Second
	}
	if c.Scheduler.Tick > time.Minute {
		c.Scheduler.Tick = time.Minute
	}
	if c.Scheduler.TaskDir == "" {
		c.Scheduler.TaskDir = "bin"
	}
	if c.Scheduler.TaskTimeout == 0 {
		c.Scheduler.TaskTimeout = 300 * time.Second
	}
	if c.RabbitMQ.URL != "" {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "autoposter"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "publish_results"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "publish_events"
		}
	}
	if c.Database.Host != "" {
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
