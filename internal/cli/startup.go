package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"battnotify/internal/startup"
)

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Manage the launch-at-login registration",
}

var startupEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Register the watcher to start at login",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setStartup(cmd.Context(), true)
	},
}

var startupDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove the launch-at-login registration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setStartup(cmd.Context(), false)
	},
}

var startupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the registration state",
	RunE:  runStartupStatus,
}

func init() {
	rootCmd.AddCommand(startupCmd)
	startupCmd.AddCommand(startupEnableCmd)
	startupCmd.AddCommand(startupDisableCmd)
	startupCmd.AddCommand(startupStatusCmd)
}

// setStartup persists the flag before touching the OS so the next watch
// run reconciles to the same state.
func setStartup(ctx context.Context, want bool) error {
	cfgStore := loadStore()
	settings := cfgStore.Load()
	logger := newLogger(settings)

	settings.StartWithLogin = want
	if err := cfgStore.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	manager := startup.Detect(logger)
	if err := startup.Sync(ctx, logger, manager, want); err != nil {
		return fmt.Errorf("apply startup registration: %w", err)
	}

	state := "disabled"
	if want {
		state = "enabled"
	}
	fmt.Printf("Startup registration %s (%s).\n", state, manager.Name())
	return nil
}

func runStartupStatus(cmd *cobra.Command, _ []string) error {
	settings := loadStore().Load()
	manager := startup.Detect(newLogger(settings))

	enabled, err := manager.Enabled(cmd.Context())
	if err != nil {
		return fmt.Errorf("query startup registration: %w", err)
	}

	fmt.Printf("Backend:    %s\n", manager.Name())
	fmt.Printf("Registered: %t\n", enabled)
	fmt.Printf("Configured: %t\n", settings.StartWithLogin)
	return nil
}
