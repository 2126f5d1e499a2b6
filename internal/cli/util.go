package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/odysseus0/internlog/internal/render"
	"github.com/odysseus0/internlog/internal/store"
)

const dateLayout = "2006-01-02"

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseIDArg is parseID tagged as invalid input for the exit-code mapping.
func parseIDArg(s string) (int64, error) {
	id, err := parseID(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD flag as midnight UTC. Empty means unset.
func parseDate(flag, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s must be YYYY-MM-DD, got %q", store.ErrInvalidInput, flag, v)
	}
	return &t, nil
}

// readInput returns the named file, or stdin when no file (or "-") is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func humanAgo(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	d := time.Since(*t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

func compactText(v string, max int) string {
	return render.CompactText(v, max)
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}

func flagMark(v bool) string {
	if v {
		return "!"
	}
	return ""
}

func requireApp(getApp func() *App) (*App, error) {
	app := getApp()
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}
