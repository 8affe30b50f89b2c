package config

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Service serviceSchema `toml:"service"`
	Session sessionSchema `toml:"session"`
	Render  renderSchema  `toml:"render"`
	Log     logSchema     `toml:"log"`
}

type serviceSchema struct {
	BaseURL    string `toml:"base_url"`
	ChatPath   string `toml:"chat_path"`
	HealthPath string `toml:"health_path"`
	Timeout    string `toml:"timeout"`
}

type sessionSchema struct {
	DiscardStaleResponses bool   `toml:"discard_stale_responses"`
	IDStrategy            string `toml:"id_strategy"`
}

type renderSchema struct {
	Markdown      bool   `toml:"markdown"`
	MarkdownStyle string `toml:"markdown_style"`
}

type logSchema struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func validateVersion(version int) error {
	if version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", version, currentSchemaVersion)
	}

	return nil
}

func toSchema(settings Settings) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		Service: serviceSchema{
			BaseURL:    settings.Service.BaseURL,
			ChatPath:   settings.Service.ChatPath,
			HealthPath: settings.Service.HealthPath,
			Timeout:    settings.Service.Timeout.String(),
		},
		Session: sessionSchema{
			DiscardStaleResponses: settings.Session.DiscardStaleResponses,
			IDStrategy:            settings.Session.IDStrategy,
		},
		Render: renderSchema{
			Markdown:      settings.Render.Markdown,
			MarkdownStyle: settings.Render.MarkdownStyle,
		},
		Log: logSchema{
			Level: settings.Log.Level,
			File:  settings.Log.File,
		},
	}
}
