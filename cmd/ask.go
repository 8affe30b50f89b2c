package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/training-assistant-cli/internal/application"
	"github.com/spf13/cobra"
)

var (
	errEmptyMessage = errors.New("message is empty")
	errTurnFailed   = errors.New("assistant did not answer")
)

func newAskCmd(app *app) *cobra.Command {
	var asJSON bool
	var plain bool

	cmd := &cobra.Command{
		Use:   "ask MESSAGE...",
		Short: "Ask one question and print the exchange",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, app, strings.Join(args, " "), asJSON, plain)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render the session state as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print only the turns, without markdown or the header")

	return cmd
}

func runAsk(cmd *cobra.Command, app *app, message string, asJSON bool, plain bool) error {
	logger, closeLog, err := app.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	dispatcher, err := app.newDispatcher(logger)
	if err != nil {
		return err
	}
	store := dispatcher.Store()
	store.UpdateDraft(message)

	var resolution application.Resolution
	if asJSON {
		resolution, err = dispatcher.Ask(cmd.Context(), message)
		if errors.Is(err, application.ErrSubmissionRejected) {
			return errEmptyMessage
		}
		if err != nil {
			return err
		}
	} else {
		req, ok := dispatcher.Submit(cmd.Context(), message)
		if !ok {
			return errEmptyMessage
		}
		resolution = dispatcher.Resolve(awaitOutcome(cmd.Context(), cmd.ErrOrStderr(), req))
	}

	snapshot := store.Snapshot()
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			return err
		}
	} else {
		opts := app.renderOptions()
		if plain {
			opts.Markdown = false
			opts.HideHeader = true
		}
		rendered, err := app.render(snapshot, opts)
		if err != nil {
			return fmt.Errorf("render transcript: %w", err)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), rendered); err != nil {
			return err
		}
	}

	if resolution.Kind == application.ResolutionFailed {
		return fmt.Errorf("%w: %s", errTurnFailed, resolution.Failure)
	}
	return nil
}
