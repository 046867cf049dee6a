package db

import (
	"path/filepath"
	"testing"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-19"

func sample(t *testing.T) *state.State {
	t.Helper()
	st := state.Empty()
	st.Theme = "dusk"
	st.StartHour = 6
	work := st.Catalog.Put(block.Activity{Name: "Work"})
	walk := st.Catalog.Put(block.Activity{Name: "Walk", Color: "#00ff00"})
	st.Store.Insert(day, block.Range{StartMin: 360, EndMin: 420, Layer: block.Execute}, work.ID, block.SourceManual)
	st.Store.Insert(day, block.Range{StartMin: 360, EndMin: 390, Layer: block.Overlay}, walk.ID, block.SourceVoice)
	st.Store.Insert(day, block.Range{StartMin: 540, EndMin: 600, Layer: block.Plan}, work.ID, block.SourceManual)

	cb, _ := st.Store.OpenChecklistAt(day, 370, block.Execute)
	_, err := st.Store.AddItem(day, cb.ID, "plan sprint")
	require.NoError(t, err)
	it, err := st.Store.AddItem(day, cb.ID, "reply to mail")
	require.NoError(t, err)
	_, err = st.Store.ToggleItem(day, cb.ID, it.ID)
	require.NoError(t, err)

	st.Store.AddLabel(block.Label{Date: day, Minute: 365, Text: "coffee"})
	st.Store.SetFine(block.Signature{Date: day, Hour: 6, Layer: block.Execute, ActivityID: work.ID, StartCol: 0, EndCol: 5},
		block.FineBounds{StartMinute: 363, EndMinute: 420})
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dbh, err := OpenPath(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	defer dbh.Close()

	v, err := UserVersion(dbh)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)

	st := sample(t)
	require.NoError(t, Save(dbh, st))
	got, err := Load(dbh)
	require.NoError(t, err)
	assert.Equal(t, state.ToDocument(st), state.ToDocument(got))

	// saving again replaces rather than duplicates
	require.NoError(t, Save(dbh, got))
	again, err := Load(dbh)
	require.NoError(t, err)
	assert.Equal(t, state.ToDocument(st), state.ToDocument(again))
}

func TestLoadEmptyDatabase(t *testing.T) {
	dbh, err := Open(t.TempDir())
	require.NoError(t, err)
	defer dbh.Close()

	st, err := Load(dbh)
	require.NoError(t, err)
	assert.Zero(t, st.Catalog.Len())
	assert.Empty(t, st.Store.Scopes())
	assert.Equal(t, "default", st.Theme)
}

func TestLoadUnsupportedVersionFallsBack(t *testing.T) {
	dbh, err := OpenPath(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	defer dbh.Close()

	require.NoError(t, Save(dbh, sample(t)))
	_, err = dbh.Exec(`UPDATE meta SET value = '9' WHERE key = 'version'`)
	require.NoError(t, err)

	st, err := Load(dbh)
	assert.ErrorIs(t, err, state.ErrUnsupportedVersion)
	require.NotNil(t, st)
	assert.Empty(t, st.Store.Scopes())
}

func TestEnsureBlockSourceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	dbh, err := OpenPath(path)
	require.NoError(t, err)
	require.NoError(t, EnsureBlockSource(dbh))
	need, err := missingColumn(dbh, "blocks", "source")
	require.NoError(t, err)
	assert.False(t, need)
	require.NoError(t, dbh.Close())

	// reopening an existing file runs the migrations again without error
	dbh, err = OpenPath(path)
	require.NoError(t, err)
	require.NoError(t, dbh.Close())
}
