package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vfa-khuongdv/gdrive-stories/internal/logger"
	"github.com/vfa-khuongdv/gdrive-stories/internal/scheduler"
	"github.com/vfa-khuongdv/gdrive-stories/internal/stories"
)

const (
	DefaultPort          = 8000
	DefaultHost          = "0.0.0.0"
	DefaultProbeSchedule = "0 */5 * * * *"
	DefaultEnvFile       = ".env"
)

// Config is the process configuration, read once at startup
type Config struct {
	Google  GoogleConfig  `mapstructure:"google"`
	Drive   DriveConfig   `mapstructure:"drive"`
	Stories StoriesConfig `mapstructure:"stories"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     logger.Config `mapstructure:"log"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Notify  NotifyConfig  `mapstructure:"notify"`
}

// GoogleConfig holds the service account key, inline or as a file path
type GoogleConfig struct {
	ServiceAccountJSON string `mapstructure:"service_account_json" validate:"required_without=ServiceAccountFile"`
	ServiceAccountFile string `mapstructure:"service_account_file"`
}

// DriveConfig names the folder exposed by the API
type DriveConfig struct {
	FolderID string `mapstructure:"folder_id" validate:"required"`
}

// StoriesConfig controls the listing window
type StoriesConfig struct {
	Window time.Duration `mapstructure:"window" validate:"gt=0"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ProbeConfig controls the periodic Drive reachability check
type ProbeConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"omitempty,cron"`
}

// NotifyConfig lists webhook targets for probe notifications
type NotifyConfig struct {
	SlackWebhookURL   string `mapstructure:"slack_webhook_url" validate:"omitempty,url"`
	SlackChannel      string `mapstructure:"slack_channel"`
	SlackUsername     string `mapstructure:"slack_username"`
	SlackIconEmoji    string `mapstructure:"slack_icon_emoji"`
	DiscordWebhookURL string `mapstructure:"discord_webhook_url" validate:"omitempty,url"`
	DiscordUsername   string `mapstructure:"discord_username"`
	DiscordAvatarURL  string `mapstructure:"discord_avatar_url" validate:"omitempty,url"`
}

// LoadOptions tells Load where to look for optional files
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

var envBindings = map[string]string{
	"google.service_account_json": "GOOGLE_SERVICE_ACCOUNT_JSON",
	"google.service_account_file": "GOOGLE_SERVICE_ACCOUNT_FILE",
	"drive.folder_id":             "GDRIVE_FOLDER_ID",
	"stories.window":              "STORIES_WINDOW",
	"server.host":                 "HOST",
	"server.port":                 "PORT",
	"server.read_timeout":         "SERVER_READ_TIMEOUT",
	"server.write_timeout":        "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":         "SERVER_IDLE_TIMEOUT",
	"log.level":                   "LOG_LEVEL",
	"log.format":                  "LOG_FORMAT",
	"probe.enabled":               "PROBE_ENABLED",
	"probe.schedule":              "PROBE_SCHEDULE",
	"notify.slack_webhook_url":    "SLACK_WEBHOOK_URL",
	"notify.slack_channel":        "SLACK_CHANNEL",
	"notify.slack_username":       "SLACK_USERNAME",
	"notify.slack_icon_emoji":     "SLACK_ICON_EMOJI",
	"notify.discord_webhook_url":  "DISCORD_WEBHOOK_URL",
	"notify.discord_username":     "DISCORD_USERNAME",
	"notify.discord_avatar_url":   "DISCORD_AVATAR_URL",
}

// Load reads configuration from an optional .env file, an optional YAML
// file and the environment, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for missing or invalid values
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		return scheduler.ValidateCronExpression(fl.Field().String()) == nil
	}); err != nil {
		return fmt.Errorf("failed to register cron validation: %w", err)
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("stories.window", stories.DefaultWindow)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatJSON)
	v.SetDefault("probe.enabled", true)
	v.SetDefault("probe.schedule", DefaultProbeSchedule)
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("failed to read env file: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}
