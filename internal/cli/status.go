package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"battnotify/pkg/power"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current battery state and effective settings",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	settings := loadStore().Load()

	sample, err := power.NewSystemReader().Read()
	if err != nil {
		return fmt.Errorf("read battery: %w", err)
	}

	if sample == nil {
		fmt.Println("No battery detected.")
	} else {
		plugged := "unplugged"
		if sample.Charging {
			plugged = "plugged in"
		}
		fmt.Printf("Battery:        %d%% (%s, %s)\n", sample.Percent, sample.State, plugged)
	}
	fmt.Printf("Low threshold:  %d%%\n", settings.LowThreshold)
	fmt.Printf("High threshold: %d%%\n", settings.HighThreshold)
	fmt.Printf("Poll interval:  %s\n", settings.PollInterval())
	fmt.Printf("Start at login: %t\n", settings.StartWithLogin)
	return nil
}
