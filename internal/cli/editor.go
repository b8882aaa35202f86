package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"battnotify/internal/config"
	"battnotify/internal/startup"
	"battnotify/pkg/alerts"
	"battnotify/pkg/model"
)

// colorTheme is the ANSI palette for the interactive editor. All codes are
// empty when the output is not a terminal.
type colorTheme struct {
	enabled bool
	accent  string
	prompt  string
	success string
	failure string
	reset   string
}

// resolveTheme enables colors only when out is a character device and the
// NO_COLOR convention is not in effect.
func resolveTheme(out io.Writer) colorTheme {
	var theme colorTheme

	file, ok := out.(*os.File)
	if !ok {
		return theme
	}
	if os.Getenv("NO_COLOR") != "" {
		return theme
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return theme
	}

	theme.enabled = true
	theme.accent = "\033[38;5;39m"
	theme.prompt = "\033[38;5;214m"
	theme.success = "\033[38;5;70m"
	theme.failure = "\033[38;5;160m"
	theme.reset = "\033[0m"
	return theme
}

func (c colorTheme) paint(code, s string) string {
	if !c.enabled {
		return s
	}
	return code + s + c.reset
}

// editor drives the interactive settings form. All terminal I/O goes
// through in/out so a test can script a whole session.
type editor struct {
	in      *bufio.Reader
	out     io.Writer
	theme   colorTheme
	store   *config.Store
	manager startup.Manager
	log     *slog.Logger
}

// runEditor walks the settings form and saves on accept. The startup
// registration is only touched when the login flag actually changed.
func runEditor(ctx context.Context, in io.Reader, out io.Writer, store *config.Store, manager startup.Manager, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("settings editor crashed: %v", r)
		}
	}()

	e := &editor{
		in:      bufio.NewReader(in),
		out:     out,
		theme:   resolveTheme(out),
		store:   store,
		manager: manager,
		log:     log,
	}
	return e.run(ctx)
}

func (e *editor) run(ctx context.Context) error {
	prev := e.store.Load()
	cur := prev

	fmt.Fprintf(e.out, "\n%s\n", e.theme.paint(e.theme.accent, "Battery monitor settings"))
	fmt.Fprintf(e.out, "Enter keeps the value in brackets. Thresholds are percentages.\n\n")

	cur.LowThreshold = e.promptRange(ctx, "Low threshold (%)", cur.LowThreshold, model.MinThreshold, model.MaxThreshold)
	cur.HighThreshold = e.promptRange(ctx, "High threshold (%)", cur.HighThreshold, model.MinThreshold, model.MaxThreshold)
	cur.PollSeconds = e.promptRange(ctx, "Poll interval (seconds)", cur.PollSeconds, model.MinPollSeconds, model.MaxPollSeconds)
	cur.StartWithLogin = e.promptYesNo(ctx, "Start at login", cur.StartWithLogin)

	for {
		e.printReview(cur)
		fmt.Fprintf(e.out, "%s: ", e.theme.paint(e.theme.prompt, "Enter = save, number = change, test = notification test, cancel = exit"))

		raw, err := readLine(ctx, e.in)
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintln(e.out, "\nNo changes saved.")
			return nil
		}
		eof := errors.Is(err, io.EOF)
		action := strings.ToLower(strings.TrimSpace(raw))

		switch action {
		case "":
			cur = cur.Clamped()
			if err := e.store.Save(cur); err != nil {
				fmt.Fprintf(e.out, "%s\n", e.theme.paint(e.theme.failure, fmt.Sprintf("Could not save settings: %v", err)))
				if eof {
					return fmt.Errorf("save settings: %w", err)
				}
				continue
			}
			fmt.Fprintf(e.out, "%s\n", e.theme.paint(e.theme.success, fmt.Sprintf("Settings saved to %s", e.store.Path())))
			e.applyStartupChange(ctx, prev, cur)
			return nil
		case "cancel":
			fmt.Fprintln(e.out, "No changes saved.")
			return nil
		case "test":
			e.sendTestNotification(ctx, cur)
		case "1":
			cur.LowThreshold = e.promptRange(ctx, "Low threshold (%)", cur.LowThreshold, model.MinThreshold, model.MaxThreshold)
		case "2":
			cur.HighThreshold = e.promptRange(ctx, "High threshold (%)", cur.HighThreshold, model.MinThreshold, model.MaxThreshold)
		case "3":
			cur.PollSeconds = e.promptRange(ctx, "Poll interval (seconds)", cur.PollSeconds, model.MinPollSeconds, model.MaxPollSeconds)
		case "4":
			cur.StartWithLogin = e.promptYesNo(ctx, "Start at login", cur.StartWithLogin)
		default:
			fmt.Fprintf(e.out, "Unknown choice %q.\n", action)
		}
	}
}

func (e *editor) printReview(s model.Settings) {
	fmt.Fprintf(e.out, "\n%s\n", e.theme.paint(e.theme.accent, "Review:"))
	fmt.Fprintf(e.out, "  [1] Low threshold:   %d%%\n", s.LowThreshold)
	fmt.Fprintf(e.out, "  [2] High threshold:  %d%%\n", s.HighThreshold)
	fmt.Fprintf(e.out, "  [3] Poll interval:   %ds\n", s.PollSeconds)
	fmt.Fprintf(e.out, "  [4] Start at login:  %t\n", s.StartWithLogin)
}

// applyStartupChange registers or unregisters launch-at-login when the
// persisted flag flipped. Failures are reported but do not undo the save.
func (e *editor) applyStartupChange(ctx context.Context, prev, cur model.Settings) {
	if prev.StartWithLogin == cur.StartWithLogin {
		return
	}

	var err error
	if cur.StartWithLogin {
		err = e.manager.Enable(ctx)
	} else {
		err = e.manager.Disable(ctx)
	}
	if err != nil {
		e.log.Error("startup registration update failed", "backend", e.manager.Name(), "error", err)
		fmt.Fprintf(e.out, "%s\n", e.theme.paint(e.theme.failure, fmt.Sprintf("Could not update startup registration: %v", err)))
		return
	}

	state := "disabled"
	if cur.StartWithLogin {
		state = "enabled"
	}
	fmt.Fprintf(e.out, "Startup registration %s (%s).\n", state, e.manager.Name())
}

func (e *editor) sendTestNotification(ctx context.Context, s model.Settings) {
	notifiers := alerts.FromSettings(s, e.log)
	if len(notifiers) == 0 {
		fmt.Fprintln(e.out, "No notification backends configured.")
		return
	}

	dispatcher := alerts.NewDispatcher(e.log, notifiers...)
	if err := dispatcher.Dispatch(ctx, alerts.Info("Test Notification", "battnotify settings test.")); err != nil {
		fmt.Fprintf(e.out, "%s\n", e.theme.paint(e.theme.failure, fmt.Sprintf("Test failed: %v", err)))
		return
	}
	fmt.Fprintf(e.out, "%s\n", e.theme.paint(e.theme.success, fmt.Sprintf("Test sent to %d backend(s).", len(notifiers))))
}

// promptLine renders a prompt and reads one trimmed line, returning def on
// empty input, EOF, or cancellation.
func (e *editor) promptLine(ctx context.Context, label, def string) string {
	if def != "" {
		fmt.Fprintf(e.out, "%s [%s]: ", e.theme.paint(e.theme.prompt, label), def)
	} else {
		fmt.Fprintf(e.out, "%s: ", e.theme.paint(e.theme.prompt, label))
	}

	line, err := readLine(ctx, e.in)
	if err != nil {
		return def
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		return trimmed
	}
	return def
}

// promptRange asks for an integer and retries on junk input. Out-of-range
// values are clamped with a note instead of rejected.
func (e *editor) promptRange(ctx context.Context, label string, def, lo, hi int) int {
	for {
		raw := e.promptLine(ctx, label, strconv.Itoa(def))
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(e.out, "%s\n", e.theme.paint(e.theme.failure, fmt.Sprintf("%q is not a whole number.", raw)))
			continue
		}
		switch {
		case n < lo:
			fmt.Fprintf(e.out, "Raised to the minimum of %d.\n", lo)
			return lo
		case n > hi:
			fmt.Fprintf(e.out, "Lowered to the maximum of %d.\n", hi)
			return hi
		}
		return n
	}
}

// promptYesNo maps yes/no answers onto a boolean, keeping the current
// value on anything unrecognized.
func (e *editor) promptYesNo(ctx context.Context, label string, current bool) bool {
	def := "no"
	if current {
		def = "yes"
	}

	switch strings.ToLower(e.promptLine(ctx, label+" (yes/no)", def)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	fmt.Fprintf(e.out, "Keeping %s.\n", def)
	return current
}

// readLine reads in a goroutine so cancellation can interrupt a blocked
// terminal read.
func readLine(ctx context.Context, reader *bufio.Reader) (string, error) {
	lineCh := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		line, err := reader.ReadString('\n')
		if err != nil {
			errCh <- err
			return
		}
		lineCh <- line
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errCh:
		return "", err
	case line := <-lineCh:
		return line, nil
	}
}
