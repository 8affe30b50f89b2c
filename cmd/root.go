package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ta",
		Short:         "Training Assistant CLI (ta): ask the training assistant from the terminal",
		Long:          "ta (Training Assistant CLI) sends your questions to the training assistant service and shows the conversation as a transcript, either in a full screen chat or one question at a time.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	if app.settingsErr != nil {
		rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
			return app.settingsErr
		}
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return app.settingsErr
		}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newAskCmd(app),
		newPingCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
