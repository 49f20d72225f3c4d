package cli

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/spf13/cobra"
)

func newCalendarsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "calendars FILE",
		Short: "List calendars with their work week, holidays and exceptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := analyze(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cals := slices.SortedFunc(slices.Values(imp.Schedule.Calendars.All()), func(a, b *calendar.Calendar) int {
				return cmp.Compare(a.ID, b.ID)
			})
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalendars(cals))
			return nil
		},
	}
}

// defaultCalendar is the calendar flagged as default, else the only one.
func defaultCalendar(s *domain.Schedule) (*calendar.Calendar, error) {
	all := s.Calendars.All()
	for _, c := range all {
		if c.IsDefault {
			return c, nil
		}
	}
	if len(all) == 1 {
		return all[0], nil
	}
	return nil, fmt.Errorf("no default calendar; choose one with --calendar")
}

func newWorkdaysCmd(app *App) *cobra.Command {
	var calendarID string
	var from, to time.Time

	cmd := &cobra.Command{
		Use:   "workdays FILE",
		Short: "List the workdays of a calendar between two dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := analyze(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			var cal *calendar.Calendar
			if calendarID == "" {
				if cal, err = defaultCalendar(imp.Schedule); err != nil {
					return err
				}
			} else {
				var ok bool
				if cal, ok = imp.Schedule.Calendars.Get(calendarID); !ok {
					return fmt.Errorf("calendar not found: %q", calendarID)
				}
			}
			if err := cal.Err(); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkdays(cal, from, to))
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar id (default: the default calendar)")
	cmd.Flags().Var(newDateValue(&from), "from", "First date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&to), "to", "Last date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
