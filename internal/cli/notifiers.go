package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"battnotify/pkg/alerts"
)

var notifiersCmd = &cobra.Command{
	Use:   "notifiers",
	Short: "List configured notification backends",
	RunE:  runNotifiers,
}

func init() {
	rootCmd.AddCommand(notifiersCmd)
	notifiersCmd.Flags().Bool("test", false, "send a test notification through every backend")
}

func runNotifiers(cmd *cobra.Command, _ []string) error {
	settings := loadStore().Load()
	logger := newLogger(settings)

	notifiers := alerts.FromSettings(settings, logger)
	if len(notifiers) == 0 {
		fmt.Println("No notification backends configured. Run 'battnotify settings'.")
		return nil
	}

	for _, n := range notifiers {
		fmt.Println(n.Name())
	}

	if test, _ := cmd.Flags().GetBool("test"); !test {
		return nil
	}

	dispatcher := alerts.NewDispatcher(logger, notifiers...)
	if err := dispatcher.Dispatch(cmd.Context(), alerts.Info("Test Notification", "battnotify test message.")); err != nil {
		return fmt.Errorf("test notification: %w", err)
	}
	fmt.Printf("Test notification sent to %d backend(s).\n", len(notifiers))
	return nil
}
