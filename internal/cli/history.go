package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"battnotify/pkg/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent alert events",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "maximum events to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	settings := loadStore().Load()

	store, err := storage.Open(settings)
	if err != nil {
		return fmt.Errorf("open history storage: %w", err)
	}
	if store == nil {
		fmt.Println("History recording is disabled (history_driver: none).")
		return nil
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	events, err := store.ListAlerts(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No alerts recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tLEVEL\tCHARGE\tPOWER\tTITLE")
	for _, ev := range events {
		source := "unplugged"
		if ev.Charging {
			source = "plugged in"
		}
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\n",
			ev.CreatedAt.Local().Format("2006-01-02 15:04"),
			ev.Level, ev.Percent, source, ev.Title,
		)
	}
	return w.Flush()
}
