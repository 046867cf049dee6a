package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-19"

func TestPaintCellTwoSlotRule(t *testing.T) {
	s := NewStore()
	require.True(t, s.PaintCell(day, 36, "A", Execute))

	// same activity again is a no-op
	before := s.Blocks(day)
	assert.False(t, s.PaintCell(day, 36, "A", Execute))
	assert.Equal(t, before, s.Blocks(day))

	require.True(t, s.PaintCell(day, 36, "B", Execute))
	require.True(t, s.PaintCell(day, 36, "C", Execute))

	ex, _ := s.Occupant(day, Execute, 36)
	ov, _ := s.Occupant(day, Overlay, 36)
	assert.Equal(t, "A", ex)
	assert.Equal(t, "C", ov)
	assert.False(t, s.PaintCell(day, 36, "C", Execute), "overlay already holds C")
}

func TestPaintCellCoalescesRuns(t *testing.T) {
	s := NewStore()
	for c := 36; c < 42; c++ {
		s.PaintCell(day, c, "A", Execute)
	}
	bs := s.BlocksFor(day, Execute)
	require.Len(t, bs, 1)
	assert.Equal(t, 360, bs[0].StartMin)
	assert.Equal(t, 420, bs[0].EndMin)
}

func TestPaintScenarioOverlayHalfHour(t *testing.T) {
	s := NewStore()
	for c := 36; c < 42; c++ {
		s.PaintCell(day, c, "A", Execute)
	}
	for c := 36; c < 39; c++ {
		s.PaintCell(day, c, "B", Execute)
	}
	ex := s.BlocksFor(day, Execute)
	require.Len(t, ex, 1)
	assert.Equal(t, 360, ex[0].StartMin)
	assert.Equal(t, 420, ex[0].EndMin)
	ov := s.BlocksFor(day, Overlay)
	require.Len(t, ov, 1)
	assert.Equal(t, "B", ov[0].ActivityID)
	assert.Equal(t, 360, ov[0].StartMin)
	assert.Equal(t, 390, ov[0].EndMin)
}

func TestEraseCellRemovesBothSlotsAndLabels(t *testing.T) {
	s := NewStore()
	s.PaintCell(day, 10, "A", Execute)
	s.PaintCell(day, 10, "B", Execute)
	s.PaintCell(day, 11, "A", Execute)
	s.AddLabel(Label{Date: day, Minute: 104, Text: "coffee"})

	require.True(t, s.EraseCell(day, 10, Execute))
	_, ok := s.Occupant(day, Execute, 10)
	assert.False(t, ok)
	_, ok = s.Occupant(day, Overlay, 10)
	assert.False(t, ok)
	ex, _ := s.Occupant(day, Execute, 11)
	assert.Equal(t, "A", ex)
	assert.Empty(t, s.Labels(day))
	assert.Empty(t, s.LabelDates())

	assert.False(t, s.EraseCell(day, 10, Execute))
}

func TestPlanLayersKeyedByWeek(t *testing.T) {
	s := NewStore()
	s.Insert(day, Range{StartMin: 480, EndMin: 540, Layer: Plan}, "A", SourceManual)

	assert.Equal(t, []string{"2026-W43"}, s.Scopes())
	// every day of the week sees the same plan
	for _, d := range []string{"2026-10-19", "2026-10-22", "2026-10-25"} {
		bs := s.BlocksFor(d, Plan)
		require.Len(t, bs, 1, d)
		assert.Equal(t, "2026-W43", bs[0].Date)
	}
	assert.Empty(t, s.BlocksFor("2026-10-26", Plan))
}

func TestResizeSpanTrimsAndReclaims(t *testing.T) {
	s := NewStore()
	s.Insert(day, Range{StartMin: 360, EndMin: 390, Layer: Execute}, "A", SourceManual)
	s.Insert(day, Range{StartMin: 390, EndMin: 420, Layer: Execute}, "B", SourceManual)

	// grow A's end into B
	require.True(t, s.ResizeSpan(day, Execute, "A", 360, 390, 360, 400))
	got := s.ProjectMinutes(day, Execute)
	assert.Equal(t, "A", got[395])
	assert.Equal(t, "B", got[400])

	// shrink A's start
	require.True(t, s.ResizeSpan(day, Execute, "A", 360, 400, 380, 400))
	got = s.ProjectMinutes(day, Execute)
	assert.Equal(t, "", got[370])
	assert.Equal(t, "A", got[380])

	assert.False(t, s.ResizeSpan(day, Execute, "A", 380, 400, 380, 400))
}

func TestSnapshotRestoreIsDeep(t *testing.T) {
	s := NewStore()
	s.Insert(day, Range{StartMin: 0, EndMin: 60, Layer: Execute}, "A", SourceManual)
	s.Insert(day, Range{StartMin: 0, EndMin: 60, Layer: Plan}, "P", SourceManual)
	dayBlocks, plan := s.DaySnapshot(day)

	s.PaintCell(day, 3, "B", Execute)
	s.EraseCell(day, 0, Plan)
	dayBlocks[0].ActivityID = "mutated"

	s.RestoreDay(day, dayBlocks, plan)
	assert.Equal(t, "mutated", s.BlocksFor(day, Execute)[0].ActivityID)
	assert.Len(t, s.BlocksFor(day, Plan), 1)
	assert.Empty(t, s.BlocksFor(day, Overlay))
}

func TestFineBoundsClampAndInvalidate(t *testing.T) {
	s := NewStore()
	sig := Signature{Date: day, Hour: 6, Layer: Execute, ActivityID: "A", StartCol: 1, EndCol: 3}
	lo, hi := sig.CoarseWindow()
	assert.Equal(t, 370, lo)
	assert.Equal(t, 400, hi)

	s.SetFine(sig, FineBounds{StartMinute: 300, EndMinute: 395})
	fb, ok := s.Fine(sig)
	require.True(t, ok)
	assert.Equal(t, FineBounds{StartMinute: 370, EndMinute: 395}, fb)

	s.SetFine(sig, FineBounds{StartMinute: 370, EndMinute: 400})
	_, ok = s.Fine(sig)
	assert.False(t, ok, "coarse-equal bounds are not stored")

	s.SetFine(sig, FineBounds{StartMinute: 372, EndMinute: 398})
	s.InvalidateFine(day, 6, Execute, "A")
	assert.Empty(t, s.AllFine())
}

func TestChecklistLifecycle(t *testing.T) {
	s := NewStore()
	s.PaintCell(day, 37, "A", Execute)

	cb, created := s.OpenChecklistAt(day, 372, Execute)
	require.True(t, created)
	assert.Equal(t, 370, cb.StartMin)
	assert.Equal(t, 380, cb.EndMin)
	assert.Equal(t, "A", cb.ActivityID)

	again, created := s.OpenChecklistAt(day, 379, Execute)
	assert.False(t, created)
	assert.Equal(t, cb.ID, again.ID)

	_, created = s.OpenChecklistAt(day, 372, Overlay)
	assert.True(t, created, "layers keep separate checklists")

	it, err := s.AddItem(day, cb.ID, "  stretch ")
	require.NoError(t, err)
	assert.Equal(t, "stretch", it.Text)
	_, err = s.AddItem(day, cb.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyItem)

	done, err := s.ToggleItem(day, cb.ID, it.ID)
	require.NoError(t, err)
	assert.True(t, done)

	got, _ := s.ChecklistAt(day, 375, Execute)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Done)

	require.NoError(t, s.RemoveItem(day, cb.ID, it.ID))
	assert.ErrorIs(t, s.RemoveItem(day, cb.ID, it.ID), ErrItemNotFound)
	require.NoError(t, s.DeleteChecklist(day, cb.ID))
	assert.ErrorIs(t, s.DeleteChecklist(day, cb.ID), ErrChecklistNotFound)
	assert.Len(t, s.Checklists(day), 1)
}

func TestCatalogResolveOrCreate(t *testing.T) {
	c := NewCatalog(Activity{ID: "run", Name: "Running"})
	a, created, err := c.ResolveOrCreate("running", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "run", a.ID)

	b, created, err := c.ResolveOrCreate(" Reading ", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Reading", b.Name)
	assert.NotEmpty(t, b.Color)
	assert.Equal(t, 2, c.Len())

	_, _, err = c.ResolveOrCreate("  ", "")
	assert.ErrorIs(t, err, ErrEmptyActivityName)

	require.NoError(t, c.Remove("run"))
	assert.False(t, c.Has("run"))
	assert.ErrorIs(t, c.Remove("run"), ErrActivityNotFound)
}
