package cmd

import (
	"fmt"

	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/bnema/training-assistant-cli/internal/ports"
	"github.com/spf13/cobra"
)

func newPingCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the assistant service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPing(cmd, app.health, app.settings.Service.BaseURL)
		},
	}
}

func runPing(cmd *cobra.Command, checker ports.HealthChecker, baseURL string) error {
	if err := checker.Health(cmd.Context()); err != nil {
		return fmt.Errorf("ping %s (%s): %w", baseURL, domain.ClassifyFailure(err), err)
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\n", baseURL)
	return err
}
