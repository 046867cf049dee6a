package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/dayline/internal/config"
	"github.com/ramanasai/dayline/internal/db"
	"github.com/ramanasai/dayline/internal/logging"
	"github.com/ramanasai/dayline/internal/state"
	"github.com/ramanasai/dayline/internal/utils"
	"github.com/ramanasai/dayline/internal/version"
)

var (
	cfg        config.Config
	configPath string
	dataDir    string
	closeLog   func() error
)

// now is swapped in tests.
var now = time.Now

var rootCmd = &cobra.Command{
	Use:          "dayline",
	Short:        "Annotate your day in 10-minute cells",
	SilenceUsage: true,
	RunE:         runTUI,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		dir, err := db.DataDir(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("data dir: %w", err)
		}
		cfg.DataDir = dir
		closeLog, err = logging.Setup(dir, cfg.LogLevel)
		if err != nil {
			return err
		}
		slog.Debug("command start", "cmd", cmd.CommandPath(), "data_dir", dir)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog == nil {
			return nil
		}
		err := closeLog()
		closeLog = nil
		return err
	},
}

func Execute() error {
	rootCmd.Version = version.GetShortVersion()
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/dayline/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory holding dayline.db")
	rootCmd.Flags().StringVarP(&tuiDate, "date", "d", "", "Day to open (today, yesterday, -2d, 2026-03-01, ...)")

	rootCmd.AddCommand(tuiCmd, showCmd, addCmd, activityCmd, importCmd, exportCmd, versionCmd)
}

// stored is an open database plus whatever state could be read from it.
type stored struct {
	db *sql.DB
	st *state.State
	// loadErr is set when the stored state could not be read; st is then
	// the empty state and must not be saved over the database.
	loadErr error
}

func openStored() (*stored, error) {
	dbh, err := db.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	st, loadErr := db.Load(dbh)
	if st.StartHour == 0 {
		st.StartHour = cfg.StartHour
	}
	if loadErr != nil {
		slog.Warn("stored state unreadable", "err", loadErr)
	}
	return &stored{db: dbh, st: st, loadErr: loadErr}, nil
}

// openState is openStored for commands that write: an unreadable state is
// an error there, since saving would overwrite it.
func openState() (*sql.DB, *state.State, error) {
	s, err := openStored()
	if err != nil {
		return nil, nil, err
	}
	if s.loadErr != nil {
		return nil, nil, errors.Join(s.loadErr, s.db.Close())
	}
	return s.db, s.st, nil
}

// resolveDate turns a --date value into an ISO date key in the configured zone.
func resolveDate(input string) (string, error) {
	return utils.DateKey(input, now(), cfg.Location())
}
