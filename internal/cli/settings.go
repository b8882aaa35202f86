package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"battnotify/internal/startup"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit the monitor settings interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		show, _ := cmd.Flags().GetBool("show")
		if show {
			return showSettings()
		}
		return editSettings(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().Bool("show", false, "print the effective settings without editing")
}

func editSettings(ctx context.Context) error {
	cfgStore := loadStore()
	logger := newLogger(cfgStore.Load())
	return runEditor(ctx, os.Stdin, os.Stdout, cfgStore, startup.Detect(logger), logger)
}

func showSettings() error {
	cfgStore := loadStore()
	s := cfgStore.Load()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Config file:\t%s\n", cfgStore.Path())
	fmt.Fprintf(w, "Low threshold:\t%d%%\n", s.LowThreshold)
	fmt.Fprintf(w, "High threshold:\t%d%%\n", s.HighThreshold)
	fmt.Fprintf(w, "Poll interval:\t%ds\n", s.PollSeconds)
	fmt.Fprintf(w, "Start at login:\t%t\n", s.StartWithLogin)
	fmt.Fprintf(w, "Desktop notifications:\t%t\n", s.NotifyDesktop)
	fmt.Fprintf(w, "History driver:\t%s\n", s.HistoryDriver)
	if s.HTTPAddr != "" {
		fmt.Fprintf(w, "Status API:\t%s\n", s.HTTPAddr)
	}
	if s.SummaryCron != "" {
		fmt.Fprintf(w, "Summary schedule:\t%s\n", s.SummaryCron)
	}
	return w.Flush()
}
