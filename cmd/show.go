package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/dayline/internal/render"
	"github.com/ramanasai/dayline/internal/timegrid"
)

var (
	showDate      string
	showFormat    string
	showMinutes   bool
	showSkipEmpty bool
	showNoColor   bool
	showStartHour int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one day's line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(showFormat)
		if err != nil {
			return err
		}
		date, err := resolveDate(showDate)
		if err != nil {
			return err
		}
		s, err := openStored()
		if err != nil {
			return err
		}
		defer s.db.Close()
		st := s.st
		if s.loadErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: stored data unreadable, showing an empty day: %v\n", s.loadErr)
		}

		startHour := st.StartHour
		if cmd.Flags().Changed("start-hour") {
			startHour = timegrid.NormalizeStartHour(showStartHour)
		}

		rc := render.DefaultConfig()
		rc.Format = format
		rc.StartHour = startHour
		rc.Minutes = showMinutes
		rc.SkipEmpty = showSkipEmpty
		rc.Color = !showNoColor

		view := render.BuildDay(st.Store, st.Catalog, date, startHour, showMinutes)
		return render.NewRenderer(rc).RenderDay(cmd.OutOrStdout(), view)
	},
}

func init() {
	showCmd.Flags().StringVarP(&showDate, "date", "d", "", "Day to show (today, yesterday, -2d, 2026-03-01, ...)")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format: text|json")
	showCmd.Flags().BoolVarP(&showMinutes, "minutes", "m", false, "Include per-activity minute totals")
	showCmd.Flags().BoolVar(&showSkipEmpty, "skip-empty", false, "Hide empty hour rows")
	showCmd.Flags().BoolVar(&showNoColor, "no-color", false, "Disable colour")
	showCmd.Flags().IntVar(&showStartHour, "start-hour", 0, "First hour of the line (default: stored start hour)")
}
