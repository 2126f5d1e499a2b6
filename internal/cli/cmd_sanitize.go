package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/internlog/internal/ingest"
	"github.com/odysseus0/internlog/internal/sanitize"
	"github.com/odysseus0/internlog/internal/store"
)

func newSanitizeCmd(getOutput func() OutputFormat) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:         "sanitize [file]",
		Short:       "Sanitize HTML from a file or stdin",
		Args:        cobra.MaximumNArgs(1),
		Annotations: noStore(),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := sanitize.ParseProfile(profileName)
			if err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			preview := ingest.NewPreview(profile, raw)
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), preview)
			}
			fmt.Fprint(cmd.OutOrStdout(), preview.HTML)
			if len(preview.Signatures) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nwarning: input matched %s\n", strings.Join(preview.Signatures, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&profileName, "profile", "strict", "Sanitizer profile: strict, legacy")
	return cmd
}

func newCheckCmd(getOutput func() OutputFormat) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:         "check [file]",
		Short:       "Report danger signatures in raw HTML",
		Args:        cobra.MaximumNArgs(1),
		Annotations: noStore(),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			sigs := sanitize.MatchDangerous(raw)
			if sigs == nil {
				sigs = []string{}
			}

			if getOutput() == OutputJSON {
				if err := writeJSON(cmd.OutOrStdout(), CheckResponse{Dangerous: len(sigs) > 0, Signatures: sigs}); err != nil {
					return err
				}
			} else if len(sigs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "clean")
			} else {
				for _, sig := range sigs {
					fmt.Fprintln(cmd.OutOrStdout(), sig)
				}
			}

			if fail && len(sigs) > 0 {
				return fmt.Errorf("%w: %s", ErrDangerousContent, strings.Join(sigs, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with status 4 when a signature matches")
	return cmd
}

func newStripCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "strip [file]",
		Short:       "Remove every tag and print the text",
		Args:        cobra.MaximumNArgs(1),
		Annotations: noStore(),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), sanitize.StripHTML(raw))
			return nil
		},
	}
}

func newNL2BRCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "nl2br [file]",
		Short:       "Convert newlines to <br> tags",
		Args:        cobra.MaximumNArgs(1),
		Annotations: noStore(),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), sanitize.NL2BR(raw))
			return nil
		},
	}
}
