package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/db"
	"github.com/ramanasai/dayline/internal/render"
)

// run executes the root command against dir with a fixed clock.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local) }
	showDate, showFormat, showMinutes, showSkipEmpty, showNoColor = "", "text", false, false, true
	addDate, activityColor, exportOut = "", "", ""
	t.Cleanup(func() { now = time.Now })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", dir,
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestActivityAddAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "activity", "add", "deep", "work", "--color", "#ff8800")
	require.NoError(t, err)
	assert.Contains(t, out, "Created deep work")

	_, err = run(t, dir, "activity", "add", "Deep Work")
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, dir, "activity", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "deep work")
	assert.Contains(t, out, "#ff8800")
}

func TestActivityListEmpty(t *testing.T) {
	_, err := run(t, t.TempDir(), "activity", "ls")
	assert.ErrorContains(t, err, "no activities yet")
}

func TestAddThenShow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "-d", "2026-10-19", "09:00", "10:25", "gym")
	require.NoError(t, err)
	assert.Contains(t, out, "Added gym 09:00-10:30 on 2026-10-19 (new activity)")

	out, err = run(t, dir, "show", "-f", "json", "-m")
	require.NoError(t, err)
	var v render.DayView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "2026-10-19", v.Date)
	require.Len(t, v.Totals, 1)
	assert.Equal(t, render.Total{Layer: block.Execute, ActivityID: v.Totals[0].ActivityID, Name: "gym", Minutes: 90}, v.Totals[0])

	out, err = run(t, dir, "show", "--skip-empty")
	require.NoError(t, err)
	assert.Contains(t, out, "09:00-10:00  execute      gym")
	assert.NotContains(t, out, "03:00")
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "-d", "someday", "09:00", "10:00", "gym")
	assert.Error(t, err)

	_, err = run(t, dir, "show", "-f", "xml")
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	_, err := run(t, src, "add", "08:00", "08:30", "reading")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "state.json")
	_, err = run(t, src, "export", "-o", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	out, err := run(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 activities")

	want, err := run(t, src, "show", "-f", "json")
	require.NoError(t, err)
	got, err := run(t, dst, "show", "-f", "json")
	require.NoError(t, err)
	assert.JSONEq(t, want, got)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	file := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"version": 99}`), 0o644))

	_, err := run(t, t.TempDir(), "import", file)
	assert.ErrorContains(t, err, "unsupported state version")
}

func TestUnreadableStateShowsEmptyButBlocksWrites(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "08:00", "08:30", "reading")
	require.NoError(t, err)

	dbh, err := db.Open(dir)
	require.NoError(t, err)
	_, err = dbh.Exec(`INSERT OR REPLACE INTO meta(key, value) VALUES('version', '99')`)
	require.NoError(t, err)
	require.NoError(t, dbh.Close())

	out, err := run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: stored data unreadable")
	assert.NotContains(t, out, "reading")

	_, err = run(t, dir, "add", "09:00", "09:30", "gym")
	assert.ErrorContains(t, err, "unsupported state version")

	dbh, err = db.Open(dir)
	require.NoError(t, err)
	defer dbh.Close()
	var version string
	require.NoError(t, dbh.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version))
	assert.Equal(t, "99", version)
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dayline "))
}
