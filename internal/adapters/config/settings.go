package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/training-assistant-cli/internal/adapters/answer/httpapi"
	"github.com/bnema/training-assistant-cli/internal/adapters/ids"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "TA"
	configDir  = "training-assistant"

	keyConfigFile          = "config_file"
	keyVersion             = "version"
	keyServiceBaseURL      = "service.base_url"
	keyServiceChatPath     = "service.chat_path"
	keyServiceHealthPath   = "service.health_path"
	keyServiceTimeout      = "service.timeout"
	keySessionDiscardStale = "session.discard_stale_responses"
	keySessionIDStrategy   = "session.id_strategy"
	keyRenderMarkdown      = "render.markdown"
	keyRenderMarkdownStyle = "render.markdown_style"
	keyLogLevel            = "log.level"
	keyLogFile             = "log.file"
	defaultLogLevel        = "warn"
	defaultMarkdownStyle   = "dark"
	defaultDiscardStale    = true
	defaultRenderMarkdown  = true
	defaultIDStrategy      = ids.StrategyUUID
)

type Settings struct {
	// Path is the config file the settings were read from, or the default
	// location when no file exists yet.
	Path    string
	Service ServiceSettings
	Session SessionSettings
	Render  RenderSettings
	Log     LogSettings
}

type ServiceSettings struct {
	BaseURL    string
	ChatPath   string
	HealthPath string
	Timeout    time.Duration
}

type SessionSettings struct {
	DiscardStaleResponses bool
	IDStrategy            string
}

type RenderSettings struct {
	Markdown      bool
	MarkdownStyle string
}

type LogSettings struct {
	Level string
	File  string
}

func Defaults() Settings {
	return Settings{
		Service: ServiceSettings{
			BaseURL:    httpapi.DefaultBaseURL,
			ChatPath:   httpapi.DefaultChatPath,
			HealthPath: httpapi.DefaultHealthPath,
			Timeout:    httpapi.DefaultRequestTimeout,
		},
		Session: SessionSettings{
			DiscardStaleResponses: defaultDiscardStale,
			IDStrategy:            defaultIDStrategy,
		},
		Render: RenderSettings{
			Markdown:      defaultRenderMarkdown,
			MarkdownStyle: defaultMarkdownStyle,
		},
		Log: LogSettings{
			Level: defaultLogLevel,
		},
	}
}

// DefaultPath is where the config file lives under homeDir.
func DefaultPath(homeDir string) string {
	return filepath.Join(homeDir, ".config", configDir, configName+"."+configType)
}

// Load reads the config file under homeDir (a missing file is fine) and
// applies TA_* environment overrides, e.g. TA_SERVICE_BASE_URL. On error the
// returned settings still carry Path so the file can be rewritten.
func Load(cfg *viper.Viper, homeDir string) (Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	setDefaults(cfg)

	path := DefaultPath(homeDir)
	if explicit := cfg.GetString(keyConfigFile); explicit != "" {
		path = explicit
		cfg.SetConfigFile(explicit)
	} else {
		cfg.SetConfigName(configName)
		cfg.SetConfigType(configType)
		cfg.AddConfigPath(filepath.Dir(path))
	}

	err := cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return Settings{Path: path}, fmt.Errorf("read config file: %w", err)
		}
	}
	if used := cfg.ConfigFileUsed(); used != "" {
		path = used
	}

	if err := validateVersion(cfg.GetInt(keyVersion)); err != nil {
		return Settings{Path: path}, err
	}

	settings := Settings{
		Path: path,
		Service: ServiceSettings{
			BaseURL:    cfg.GetString(keyServiceBaseURL),
			ChatPath:   cfg.GetString(keyServiceChatPath),
			HealthPath: cfg.GetString(keyServiceHealthPath),
			Timeout:    cfg.GetDuration(keyServiceTimeout),
		},
		Session: SessionSettings{
			DiscardStaleResponses: cfg.GetBool(keySessionDiscardStale),
			IDStrategy:            cfg.GetString(keySessionIDStrategy),
		},
		Render: RenderSettings{
			Markdown:      cfg.GetBool(keyRenderMarkdown),
			MarkdownStyle: cfg.GetString(keyRenderMarkdownStyle),
		},
		Log: LogSettings{
			Level: cfg.GetString(keyLogLevel),
			File:  cfg.GetString(keyLogFile),
		},
	}

	if err := settings.Validate(); err != nil {
		return Settings{Path: path}, err
	}

	return settings, nil
}

func (s Settings) Validate() error {
	if err := httpapi.ValidateBaseURL(s.Service.BaseURL); err != nil {
		return fmt.Errorf("invalid %s: %w", keyServiceBaseURL, err)
	}
	if !strings.HasPrefix(s.Service.ChatPath, "/") {
		return fmt.Errorf("invalid %s %q: must start with /", keyServiceChatPath, s.Service.ChatPath)
	}
	if !strings.HasPrefix(s.Service.HealthPath, "/") {
		return fmt.Errorf("invalid %s %q: must start with /", keyServiceHealthPath, s.Service.HealthPath)
	}
	if s.Service.Timeout <= 0 {
		return fmt.Errorf("invalid %s %q: must be positive", keyServiceTimeout, s.Service.Timeout)
	}
	if _, err := ids.New(s.Session.IDStrategy); err != nil {
		return fmt.Errorf("invalid %s: %w", keySessionIDStrategy, err)
	}

	return nil
}

func setDefaults(cfg *viper.Viper) {
	defaults := Defaults()

	cfg.SetDefault(keyServiceBaseURL, defaults.Service.BaseURL)
	cfg.SetDefault(keyServiceChatPath, defaults.Service.ChatPath)
	cfg.SetDefault(keyServiceHealthPath, defaults.Service.HealthPath)
	cfg.SetDefault(keyServiceTimeout, defaults.Service.Timeout)
	cfg.SetDefault(keySessionDiscardStale, defaults.Session.DiscardStaleResponses)
	cfg.SetDefault(keySessionIDStrategy, defaults.Session.IDStrategy)
	cfg.SetDefault(keyRenderMarkdown, defaults.Render.Markdown)
	cfg.SetDefault(keyRenderMarkdownStyle, defaults.Render.MarkdownStyle)
	cfg.SetDefault(keyLogLevel, defaults.Log.Level)
	cfg.SetDefault(keyLogFile, defaults.Log.File)
}
