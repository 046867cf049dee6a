package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/dayline/internal/db"
	"github.com/ramanasai/dayline/internal/intake"
	"github.com/ramanasai/dayline/internal/timegrid"
)

var addDate string

// addCmd takes the same confirmed tuple voice intake produces.
var addCmd = &cobra.Command{
	Use:     "add <HH:MM> <HH:MM> <activity...>",
	Short:   "Add an execute block",
	Example: "  dayline add 09:00 10:30 deep work\n  dayline add -d yesterday 18:00 19:00 gym",
	Args:    cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(addDate)
		if err != nil {
			return err
		}
		tuple, err := intake.ParseLine(date, strings.Join(args, " "))
		if err != nil {
			return err
		}

		dbh, st, err := openState()
		if err != nil {
			return err
		}
		defer dbh.Close()

		res, err := intake.Commit(st.Store, st.Catalog, tuple)
		if err != nil {
			return err
		}
		if err := db.Save(dbh, st); err != nil {
			return err
		}
		slog.Info("block added", "date", date, "activity", res.Activity.Name, "block", res.Block.ID)

		msg := fmt.Sprintf("Added %s %s-%s on %s", res.Activity.Name,
			timegrid.FormatHHMM(res.Block.StartMin), timegrid.FormatHHMM(res.Block.EndMin), date)
		if res.Created {
			msg += " (new activity)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Day to add to (today, yesterday, -2d, 2026-03-01, ...)")
}
