package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger       `mapstructure:"logger"`
	DB         Database     `mapstructure:"database"`
	Datasource Database     `mapstructure:"datasource"`
	API        API          `mapstructure:"api"`
	Scheduler  Scheduler    `mapstructure:"scheduler"`
	Cache      Cache        `mapstructure:"cache"`
	Notify     NotifyConfig `mapstructure:"notify"`
	Gemini     GeminiConfig `mapstructure:"gemini"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type Scheduler struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	TaskTimeout    time.Duration `mapstructure:"task_timeout"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	TypeExpiration    time.Duration `mapstructure:"type_expiration"`
}

type NotifyConfig struct {
	MaxSendPerSecond int           `mapstructure:"max_send_per_second"`
	Timeout          time.Duration `mapstructure:"timeout"`
	WebhookURL       string        `mapstructure:"webhook_url"`
	DingTalkBaseURL  string        `mapstructure:"dingtalk_base_url"`
	DingTalkToken    string        `mapstructure:"dingtalk_token"`
	DingTalkKeyword  string        `mapstructure:"dingtalk_keyword"`
	TelegramBotToken string        `mapstructure:"telegram_bot_token"`
	TelegramChatID   int64         `mapstructure:"telegram_chat_id"`
	SMTPHost         string        `mapstructure:"smtp_host"`
	SMTPPort         int           `mapstructure:"smtp_port"`
	SMTPUser         string        `mapstructure:"smtp_user"`
	SMTPPassword     string        `mapstructure:"smtp_password"`
	EmailFrom        string        `mapstructure:"email_from"`
	EmailTo          []string      `mapstructure:"email_to"`
}

type GeminiConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

func Load() (*Config, error) {
	// Optional .env for local development; deployments rely on env vars.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Scheduler.PollInterval <= 0 {
		cfg.Scheduler.PollInterval = time.Minute
	}
	if cfg.Scheduler.MaxConcurrency <= 0 {
		cfg.Scheduler.MaxConcurrency = 5
	}
	if cfg.Cache.TypeExpiration <= 0 {
		cfg.Cache.TypeExpiration = 30 * time.Second
	}

	return &cfg, nil
}
