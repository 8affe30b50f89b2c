package cmd

import (
	"io"

	"github.com/bnema/training-assistant-cli/internal/adapters/tui"
	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	var plain bool
	var timestamps bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the full screen chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, closeLog, err := app.newLogger(io.Discard)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			dispatcher, err := app.newDispatcher(logger)
			if err != nil {
				return err
			}

			opts := app.renderOptions()
			opts.Markdown = opts.Markdown && !plain
			opts.ShowTimestamps = timestamps

			logger.Info().Str("service", app.settings.Service.BaseURL).Msg("chat session started")
			defer logger.Info().Msg("chat session closed")

			return app.runChat(cmd.Context(), dispatcher, tui.Options{Render: opts}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Do not render assistant replies as markdown")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Show when each turn was created")

	return cmd
}
