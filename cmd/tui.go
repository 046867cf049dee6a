package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/dayline/internal/logging"
	"github.com/ramanasai/dayline/internal/ui"
)

var tuiDate string

// tuiCmd launches the Bubble Tea day editor. It is also the root default.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the day editor",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(tuiDate)
	if err != nil {
		return err
	}
	s, err := openStored()
	if err != nil {
		return err
	}
	defer s.db.Close()

	opts := ui.Options{
		State:  s.st,
		DB:     s.db,
		Config: cfg,
		Date:   date,
		Logger: logging.Component("ui"),
	}
	if s.loadErr != nil {
		// start empty but never save over what is on disk
		opts.DB = nil
		opts.Warning = fmt.Sprintf("stored data unreadable, changes will not be saved: %v", s.loadErr)
	}
	return ui.Run(opts)
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiDate, "date", "d", "", "Day to open (today, yesterday, -2d, 2026-03-01, ...)")
}
