package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/internlog/internal/config"
	"github.com/odysseus0/internlog/internal/logging"
)

// Commands carrying this annotation never open the database.
const annotationNoStore = "internlog/no-store"

func Execute() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	return NewRootCmd(cfg).Execute()
}

func NewRootCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	var output string
	var logLevel string
	var outFmt OutputFormat
	var app *App

	dbPath = cfg.DBPath
	output = string(OutputTable)
	logLevel = cfg.LogLevel

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }

	cmd := &cobra.Command{
		Use:           "internlog",
		Short:         "Local-first internship journal with a built-in HTML sanitizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			if !requiresApp(cmd) {
				return nil
			}
			if app != nil {
				return nil
			}
			logger, closer, err := logging.New(logging.Options{
				Level:  logLevel,
				File:   cfg.LogFile,
				Stderr: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			a, err := NewApp(cfg, dbPath, logger, closer)
			if err != nil {
				_ = closer.Close()
				return err
			}
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", dbPath, "SQLite database path")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, json, wide")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")

	cmd.AddCommand(newSanitizeCmd(getOutput))
	cmd.AddCommand(newCheckCmd(getOutput))
	cmd.AddCommand(newStripCmd())
	cmd.AddCommand(newNL2BRCmd())
	cmd.AddCommand(newAddCmd(getApp, getOutput))
	cmd.AddCommand(newGetCmd(getApp, getOutput))
	cmd.AddCommand(newUpdateCmd(getApp, getOutput))
	cmd.AddCommand(newRemoveCmd(getApp, getOutput))
	cmd.AddCommand(newFetchCmd(getApp, getOutput))
	cmd.AddCommand(newSearchCmd(getApp, getOutput))

	return cmd
}

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case OutputTable, OutputJSON, OutputWide:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected table|json|wide)", raw)
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
		if c.Annotations[annotationNoStore] == "true" {
			return false
		}
	}
	return true
}

func noStore() map[string]string {
	return map[string]string{annotationNoStore: "true"}
}
