package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramanasai/dayline/internal/db"
	"github.com/ramanasai/dayline/internal/state"
)

var exportOut string

// importCmd replaces the stored state with a state document. Legacy
// per-cell documents are migrated on the way in.
var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace stored state with a JSON state document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}
		st, err := state.Decode(data)
		if err != nil {
			return err
		}

		dbh, err := db.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer dbh.Close()
		if err := db.Save(dbh, st); err != nil {
			return err
		}
		slog.Info("state imported", "source", args[0], "activities", st.Catalog.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d activities\n", st.Catalog.Len())
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored state as a JSON state document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbh, st, err := openState()
		if err != nil {
			return err
		}
		defer dbh.Close()

		data, err := state.Encode(st)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return os.WriteFile(exportOut, data, 0o644)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
