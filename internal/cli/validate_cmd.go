package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/spf13/cobra"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check exports for missing tables and dangling references",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Analysis == nil {
				return fmt.Errorf("analysis service is not configured")
			}
			var stop func()
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Reading %d file(s)", len(args)))
			}
			results, err := app.Analysis.Batch(cmd.Context(), args)
			if stop != nil {
				stop()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				var corrupt *importer.CorruptFileError
				switch {
				case errors.As(r.Err, &corrupt):
					failed++
					fmt.Fprint(out, formatter.FormatFindings(r.Path, corrupt.Findings))
				case r.Err != nil:
					failed++
					fmt.Fprintln(out, formatter.StyleRed.Render("✖ "+r.Path)+" "+r.Err.Error())
				default:
					if r.Import.Corrupt() {
						failed++
					}
					fmt.Fprint(out, formatter.FormatFindings(r.Path, r.Import.Findings))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failed, len(results))
			}
			return nil
		},
	}
}
