package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bnema/training-assistant-cli/internal/adapters/answer/httpapi"
	"github.com/bnema/training-assistant-cli/internal/adapters/config"
	"github.com/bnema/training-assistant-cli/internal/adapters/ids"
	"github.com/bnema/training-assistant-cli/internal/adapters/logging"
	transcriptrender "github.com/bnema/training-assistant-cli/internal/adapters/render/transcript"
	"github.com/bnema/training-assistant-cli/internal/adapters/tui"
	"github.com/bnema/training-assistant-cli/internal/application"
	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/bnema/training-assistant-cli/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	settings config.Settings
	// settingsErr is set when the settings could not be loaded. Only the
	// commands that repair or describe the config file run in that case.
	settingsErr error
	answers     ports.AnswerService
	health      ports.HealthChecker
	clock       ports.Clock
	render      func(domain.SessionState, transcriptrender.RenderOptions) (string, error)
	runChat     func(context.Context, *application.Dispatcher, tui.Options, io.Reader, io.Writer) error
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	settings, err := config.Load(viper.New(), homeDir)
	if err != nil {
		return &app{settings: settings, settingsErr: fmt.Errorf("load settings: %w", err)}, nil
	}

	client := httpapi.Client{
		API: httpapi.API{
			BaseURL:    settings.Service.BaseURL,
			ChatPath:   settings.Service.ChatPath,
			HealthPath: settings.Service.HealthPath,
		},
		HTTPClient:     http.DefaultClient,
		RequestTimeout: settings.Service.Timeout,
	}

	return &app{
		settings: settings,
		answers:  client,
		health:   client,
		clock:    ports.SystemClock{},
		render:   transcriptrender.Render,
		runChat:  tui.Run,
	}, nil
}

func (a *app) newLogger(fallback io.Writer) (zerolog.Logger, func() error, error) {
	logger, closeFn, err := logging.New(logging.Options{
		Level:    a.settings.Log.Level,
		File:     a.settings.Log.File,
		Fallback: fallback,
	})
	if err != nil {
		return zerolog.Nop(), closeFn, fmt.Errorf("wire logger: %w", err)
	}
	return logger, closeFn, nil
}

func (a *app) newDispatcher(logger zerolog.Logger) (*application.Dispatcher, error) {
	idGen, err := ids.New(a.settings.Session.IDStrategy)
	if err != nil {
		return nil, fmt.Errorf("wire turn ids: %w", err)
	}

	return application.NewDispatcher(
		application.NewTranscriptStore(),
		a.answers,
		idGen,
		a.clock,
		application.WithLogger(logger),
		application.WithStaleDiscard(a.settings.Session.DiscardStaleResponses),
	), nil
}

func (a *app) renderOptions() transcriptrender.RenderOptions {
	return transcriptrender.RenderOptions{
		Markdown:      a.settings.Render.Markdown,
		MarkdownStyle: a.settings.Render.MarkdownStyle,
	}
}
