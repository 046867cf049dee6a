package compose

import (
	"maps"
	"slices"
	"testing"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-19"

func pairs(acts ...string) func(func(int, string) bool) {
	return func(yield func(int, string) bool) {
		for i, a := range acts {
			if !yield(i, a) {
				return
			}
		}
	}
}

func TestMergeRuns(t *testing.T) {
	runs := MergeRuns(pairs("A", "A", "", "B", "B", "A"))
	assert.Equal(t, []Run{
		{StartCol: 0, EndCol: 1, ActivityID: "A"},
		{StartCol: 3, EndCol: 4, ActivityID: "B"},
		{StartCol: 5, EndCol: 5, ActivityID: "A"},
	}, runs)

	assert.Empty(t, MergeRuns(pairs("", "", "")))

	// a skipped column ends the run
	gappy := func(yield func(int, string) bool) {
		_ = yield(0, "A") && yield(2, "A")
	}
	assert.Len(t, MergeRuns(gappy), 2)
}

func paint(s *block.Store, from, to int, act string) {
	for c := from; c < to; c++ {
		s.PaintCell(day, c, act, block.Execute)
	}
}

func TestComposeScenarioFullHour(t *testing.T) {
	s := block.NewStore()
	paint(s, 36, 42, "A")

	segs := Compose(StoreSource(s, day, nil), Options{Date: day})
	require.Len(t, segs, 1)
	seg := segs[0]
	assert.Equal(t, 6, seg.Row)
	assert.Equal(t, 0, seg.StartCol)
	assert.Equal(t, 5, seg.EndCol)
	assert.Equal(t, block.Execute, seg.Layer)
	assert.Equal(t, "A", seg.ActivityID)
	assert.True(t, seg.RoundLeft)
	assert.True(t, seg.RoundRight)
	assert.Equal(t, 360, seg.StartMin)
	assert.Equal(t, 420, seg.EndMin)

	paint(s, 36, 39, "B")
	segs = Compose(StoreSource(s, day, nil), Options{Date: day})
	require.Len(t, segs, 2)
	assert.Equal(t, block.Execute, segs[0].Layer)
	assert.Equal(t, 5, segs[0].EndCol)
	assert.Equal(t, block.Overlay, segs[1].Layer)
	assert.Equal(t, "B", segs[1].ActivityID)
	assert.Equal(t, 0, segs[1].StartCol)
	assert.Equal(t, 2, segs[1].EndCol)
}

func TestComposeSplitsAtRowBoundaryWithFlatEdges(t *testing.T) {
	s := block.NewStore()
	s.Insert(day, block.Range{StartMin: 400, EndMin: 440, Layer: block.Execute}, "A", block.SourceManual)

	segs := Compose(StoreSource(s, day, nil), Options{Date: day, StartHour: 6})
	require.Len(t, segs, 2)
	assert.Equal(t, 0, segs[0].Row)
	assert.Equal(t, 4, segs[0].StartCol)
	assert.Equal(t, 5, segs[0].EndCol)
	assert.True(t, segs[0].RoundLeft)
	assert.False(t, segs[0].RoundRight)

	assert.Equal(t, 1, segs[1].Row)
	assert.Equal(t, 0, segs[1].StartCol)
	assert.Equal(t, 1, segs[1].EndCol)
	assert.False(t, segs[1].RoundLeft)
	assert.True(t, segs[1].RoundRight)
}

func TestComposeWrapsEdgesByDisplayRow(t *testing.T) {
	s := block.NewStore()
	s.Insert(day, block.Range{StartMin: 0, EndMin: 10, Layer: block.Execute}, "A", block.SourceManual)
	s.Insert(day, block.Range{StartMin: 350, EndMin: 370, Layer: block.Execute}, "A", block.SourceManual)
	s.Insert(day, block.Range{StartMin: 1430, EndMin: 1440, Layer: block.Execute}, "A", block.SourceManual)

	segs := Compose(StoreSource(s, day, nil), Options{Date: day, StartHour: 6})
	find := func(row, col int) Segment {
		t.Helper()
		seg, ok := Find(segs, block.Execute, row, col)
		require.True(t, ok)
		return seg
	}

	// 23:50 on row 17 continues into 00:00 on row 18
	assert.False(t, find(17, 5).RoundRight)
	assert.False(t, find(18, 0).RoundLeft)
	// 05:50 is the last row on screen, 06:00 the first
	assert.True(t, find(23, 5).RoundRight)
	assert.True(t, find(0, 0).RoundLeft)
}

func TestComposeSkipsDanglingActivities(t *testing.T) {
	s := block.NewStore()
	s.Insert(day, block.Range{StartMin: 0, EndMin: 20, Layer: block.Execute}, "gone", block.SourceManual)
	s.Insert(day, block.Range{StartMin: 20, EndMin: 30, Layer: block.Execute}, "A", block.SourceManual)
	cat := block.NewCatalog(block.Activity{ID: "A", Name: "A"})

	segs := Compose(StoreSource(s, day, cat.Has), Options{Date: day})
	require.Len(t, segs, 1)
	assert.Equal(t, "A", segs[0].ActivityID)
	assert.True(t, segs[0].RoundLeft)
	assert.Len(t, s.BlocksFor(day, block.Execute), 2, "dangling block is untouched")
}

func TestComposeAppliesFineBounds(t *testing.T) {
	s := block.NewStore()
	s.Insert(day, block.Range{StartMin: 370, EndMin: 400, Layer: block.Execute}, "A", block.SourceManual)
	sig := block.Signature{Date: day, Hour: 6, Layer: block.Execute, ActivityID: "A", StartCol: 1, EndCol: 3}
	s.SetFine(sig, block.FineBounds{StartMinute: 373, EndMinute: 397})

	segs := Compose(StoreSource(s, day, nil), Options{Date: day, Fine: s.Fine})
	require.Len(t, segs, 1)
	assert.True(t, segs[0].Fine)
	assert.Equal(t, 373, segs[0].DisplayStart)
	assert.Equal(t, 397, segs[0].DisplayEnd)
	assert.Equal(t, 370, segs[0].StartMin, "coarse bounds stay the source of truth")
	assert.Equal(t, sig, segs[0].Signature(day))
}

func TestComposeLayerFilterAndFind(t *testing.T) {
	s := block.NewStore()
	s.Insert(day, block.Range{StartMin: 60, EndMin: 90, Layer: block.Execute}, "A", block.SourceManual)
	s.Insert(day, block.Range{StartMin: 60, EndMin: 120, Layer: block.Plan}, "P", block.SourceManual)

	segs := Compose(StoreSource(s, day, nil), Options{Date: day, Layers: []block.Layer{block.Plan}})
	require.Len(t, segs, 1)
	assert.Equal(t, block.Plan, segs[0].Layer)

	all := Compose(StoreSource(s, day, nil), Options{Date: day})
	got, ok := Find(all, block.Execute, 1, 2)
	require.True(t, ok)
	assert.Equal(t, "A", got.ActivityID)
	_, ok = Find(all, block.Execute, 1, 3)
	assert.False(t, ok)

	layers := map[block.Layer]bool{}
	for _, sg := range all {
		layers[sg.Layer] = true
	}
	assert.Equal(t, []block.Layer{block.Execute, block.Plan}, sortedLayers(layers))
}

func sortedLayers(m map[block.Layer]bool) []block.Layer {
	ls := slices.Collect(maps.Keys(m))
	slices.Sort(ls)
	return ls
}
