package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/dayline/internal/db"
)

var activityColor string

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage activities",
}

var activityAddCmd = &cobra.Command{
	Use:   "add <name...>",
	Short: "Create an activity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbh, st, err := openState()
		if err != nil {
			return err
		}
		defer dbh.Close()

		a, created, err := st.Catalog.ResolveOrCreate(strings.Join(args, " "), activityColor)
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("activity %q already exists", a.Name)
		}
		if err := db.Save(dbh, st); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", a.Name, a.ID)
		return nil
	},
}

var activityListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List activities",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbh, st, err := openState()
		if err != nil {
			return err
		}
		defer dbh.Close()

		acts := st.Catalog.All()
		if len(acts) == 0 {
			return errors.New("no activities yet; create one with `dayline activity add <name>`")
		}
		w := cmd.OutOrStdout()
		for _, a := range acts {
			color := a.Color
			if color == "" {
				color = "-"
			}
			fmt.Fprintf(w, "%-24s %-9s %s\n", a.Name, color, a.ID)
		}
		return nil
	},
}

func init() {
	activityAddCmd.Flags().StringVarP(&activityColor, "color", "c", "", "Display colour (#rrggbb or ANSI index)")
	activityCmd.AddCommand(activityAddCmd, activityListCmd)
}
