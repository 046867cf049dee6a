package state

import (
	"sort"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/timegrid"
)

// LegacyCell is one 10-minute cell of the per-cell grid format.
type LegacyCell struct {
	Execute     string `json:"execute,omitempty"`
	Overlay     string `json:"overlay,omitempty"`
	Plan        string `json:"plan,omitempty"`
	PlanOverlay string `json:"planOverlay,omitempty"`
	Indicator   string `json:"indicator,omitempty"`
}

func (c LegacyCell) activity(l block.Layer) string {
	switch l {
	case block.Execute:
		return c.Execute
	case block.Overlay:
		return c.Overlay
	case block.Plan:
		return c.Plan
	case block.PlanOverlay:
		return c.PlanOverlay
	}
	return ""
}

func (c LegacyCell) empty() bool { return c == LegacyCell{} }

type placedCell struct {
	start int
	cell  LegacyCell
}

// sortCells orders a grid by cell start. Ids resolving to the same cell keep
// the one that sorts last.
func sortCells(cells map[string]LegacyCell) []placedCell {
	ids := make([]string, 0, len(cells))
	for id := range cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	byStart := map[int]LegacyCell{}
	for _, id := range ids {
		byStart[timegrid.FloorCell(timegrid.ParseHHMM(id))] = cells[id]
	}
	out := make([]placedCell, 0, len(byStart))
	for start, c := range byStart {
		if start < timegrid.MinutesPerDay {
			out = append(out, placedCell{start, c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// accumulate turns one layer of sorted cells into blocks: a run extends while
// the same activity continues in adjacent cells and flushes otherwise.
func accumulate(scope string, layer block.Layer, cells []placedCell) []block.Block {
	var (
		out              []block.Block
		runStart, runEnd int
		runAct           string
	)
	flush := func() {
		if runAct != "" {
			out = append(out, block.Block{
				ID:         block.NewID(),
				Date:       scope,
				StartMin:   runStart,
				EndMin:     runEnd,
				ActivityID: runAct,
				Layer:      layer,
				Source:     block.SourceMigrated,
			})
		}
		runAct = ""
	}
	for _, pc := range cells {
		act := pc.cell.activity(layer)
		if act != "" && act == runAct && pc.start == runEnd {
			runEnd += timegrid.CellMinutes
			continue
		}
		flush()
		if act != "" {
			runStart, runEnd, runAct = pc.start, pc.start+timegrid.CellMinutes, act
		}
	}
	flush()
	return out
}

// MigrateDay converts one date of the legacy day grid into execute/overlay
// blocks and label events, replacing whatever the store held for the date.
func MigrateDay(s *block.Store, date string, cells map[string]LegacyCell) {
	sorted := sortCells(cells)
	var bs []block.Block
	for _, l := range []block.Layer{block.Execute, block.Overlay} {
		bs = append(bs, accumulate(date, l, sorted)...)
	}
	s.SetBlocks(date, bs)
	for _, pc := range sorted {
		if pc.cell.Indicator != "" {
			s.AddLabel(block.Label{Date: date, Minute: pc.start, Text: pc.cell.Indicator})
		}
	}
}

// MigrateWeek converts one week of the legacy week grid into plan blocks.
func MigrateWeek(s *block.Store, week string, cells map[string]LegacyCell) {
	sorted := sortCells(cells)
	var bs []block.Block
	for _, l := range []block.Layer{block.Plan, block.PlanOverlay} {
		bs = append(bs, accumulate(week, l, sorted)...)
	}
	s.SetBlocks(week, bs)
}

// ProjectGrid renders a date back into the legacy per-cell form. Cells with
// no data are omitted.
func ProjectGrid(s *block.Store, date string) map[string]LegacyCell {
	src := compose.StoreSource(s, date, nil)
	labels := s.Labels(date)
	out := map[string]LegacyCell{}
	for cell := 0; cell < timegrid.CellsPerDay; cell++ {
		start := timegrid.CellStart(cell)
		c := LegacyCell{
			Execute:     src(block.Execute, cell),
			Overlay:     src(block.Overlay, cell),
			Plan:        src(block.Plan, cell),
			PlanOverlay: src(block.PlanOverlay, cell),
		}
		for _, l := range labels {
			if l.Minute >= start && l.Minute < start+timegrid.CellMinutes {
				c.Indicator = l.Text
				break
			}
		}
		if !c.empty() {
			out[timegrid.FormatHHMM(start)] = c
		}
	}
	return out
}

// GridSource reads cell occupancy straight from a legacy grid, so the
// compositor can render unmigrated data with the same merge algorithm.
func GridSource(cells map[string]LegacyCell) compose.CellSource {
	var grid [timegrid.CellsPerDay]LegacyCell
	for _, pc := range sortCells(cells) {
		grid[timegrid.CellOf(pc.start)] = pc.cell
	}
	return func(layer block.Layer, cell int) string {
		if cell < 0 || cell >= timegrid.CellsPerDay {
			return ""
		}
		return grid[cell].activity(layer)
	}
}
