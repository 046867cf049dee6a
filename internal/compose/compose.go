// Package compose derives render-ready segments from stored time ranges.
//
// Every hour-row is segmented on its own: a run never crosses a row boundary
// even when the activity continues into the next hour. Edge rounding looks
// across the boundary so a renderer can still draw the continuation flat.
package compose

import (
	"iter"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/timegrid"
)

// CellSource reports the activity occupying a day cell on a layer, or "".
type CellSource func(layer block.Layer, cell int) string

// Run is a maximal stretch of equal, non-empty columns within one row.
type Run struct {
	StartCol   int
	EndCol     int
	ActivityID string
}

// MergeRuns groups consecutive columns holding the same activity. An empty
// activity or a gap in the column sequence ends the current run.
func MergeRuns(cols iter.Seq2[int, string]) []Run {
	var out []Run
	var cur *Run
	for col, act := range cols {
		if cur != nil && (act != cur.ActivityID || col != cur.EndCol+1) {
			out = append(out, *cur)
			cur = nil
		}
		if act == "" {
			continue
		}
		if cur == nil {
			cur = &Run{StartCol: col, EndCol: col, ActivityID: act}
			continue
		}
		cur.EndCol = col
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// RowColumns yields (column, activity) for the six columns of an hour.
func RowColumns(src CellSource, layer block.Layer, hour int) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for col := 0; col < timegrid.ColsPerRow; col++ {
			if !yield(col, src(layer, hour*timegrid.ColsPerRow+col)) {
				return
			}
		}
	}
}

// Segment is one run placed on the display grid.
type Segment struct {
	Row        int         `json:"row"`
	Hour       int         `json:"hour"`
	StartCol   int         `json:"startCol"`
	EndCol     int         `json:"endCol"`
	Layer      block.Layer `json:"layer"`
	ActivityID string      `json:"activityId"`

	// RoundLeft/RoundRight are false when the neighbouring cell (across the
	// row boundary if needed) continues the same activity on the same layer.
	RoundLeft  bool `json:"roundLeft"`
	RoundRight bool `json:"roundRight"`

	StartMin int `json:"startMin"`
	EndMin   int `json:"endMin"`
	// DisplayStart/DisplayEnd carry fine bounds when present.
	DisplayStart int  `json:"displayStart"`
	DisplayEnd   int  `json:"displayEnd"`
	Fine         bool `json:"fine,omitempty"`
}

// Signature keys the segment's fine bounds on date.
func (s Segment) Signature(date string) block.Signature {
	return block.Signature{
		Date:       date,
		Hour:       s.Hour,
		Layer:      s.Layer,
		ActivityID: s.ActivityID,
		StartCol:   s.StartCol,
		EndCol:     s.EndCol,
	}
}

// Options control a composition pass.
type Options struct {
	Date      string
	StartHour int
	Layers    []block.Layer
	// Fine looks up minute-precision bounds; nil disables them.
	Fine func(block.Signature) (block.FineBounds, bool)
}

// Compose builds segments for every row, layer by layer.
func Compose(src CellSource, opts Options) []Segment {
	layers := opts.Layers
	if len(layers) == 0 {
		layers = block.Layers
	}
	var out []Segment
	for row := 0; row < timegrid.RowsPerDay; row++ {
		hour := timegrid.HourOf(row, opts.StartHour)
		for _, layer := range layers {
			for _, r := range MergeRuns(RowColumns(src, layer, hour)) {
				out = append(out, place(src, opts, layer, row, hour, r))
			}
		}
	}
	return out
}

// place builds the segment for run r. Edge neighbours wrap by display row,
// so with a start hour the 00:00 row continues the 23:00 row above it, while
// the first and last rows on screen have no outer neighbour.
func place(src CellSource, opts Options, layer block.Layer, row, hour int, r Run) Segment {
	first := hour*timegrid.ColsPerRow + r.StartCol
	last := hour*timegrid.ColsPerRow + r.EndCol
	seg := Segment{
		Row:        row,
		Hour:       hour,
		StartCol:   r.StartCol,
		EndCol:     r.EndCol,
		Layer:      layer,
		ActivityID: r.ActivityID,
		StartMin:   timegrid.CellStart(first),
		EndMin:     timegrid.CellStart(last + 1),
	}
	prev, next := first-1, last+1
	if r.StartCol == 0 {
		prev = -1
		if row > 0 {
			prev = timegrid.CellAt(row-1, timegrid.ColsPerRow-1, opts.StartHour)
		}
	}
	if r.EndCol == timegrid.ColsPerRow-1 {
		next = -1
		if row < timegrid.RowsPerDay-1 {
			next = timegrid.CellAt(row+1, 0, opts.StartHour)
		}
	}
	seg.RoundLeft = prev < 0 || src(layer, prev) != r.ActivityID
	seg.RoundRight = next < 0 || src(layer, next) != r.ActivityID
	seg.DisplayStart, seg.DisplayEnd = seg.StartMin, seg.EndMin
	if opts.Fine != nil {
		if fb, ok := opts.Fine(seg.Signature(opts.Date)); ok {
			seg.DisplayStart, seg.DisplayEnd, seg.Fine = fb.StartMinute, fb.EndMinute, true
		}
	}
	return seg
}

// StoreSource reads occupancy from a block store for one date. Blocks whose
// activity fails known are skipped; a nil known accepts everything.
func StoreSource(s *block.Store, date string, known func(string) bool) CellSource {
	cache := map[block.Layer]*[timegrid.CellsPerDay]string{}
	return func(layer block.Layer, cell int) string {
		if cell < 0 || cell >= timegrid.CellsPerDay {
			return ""
		}
		cells, ok := cache[layer]
		if !ok {
			cells = occupancy(s.BlocksFor(date, layer), known)
			cache[layer] = cells
		}
		return cells[cell]
	}
}

func occupancy(bs []block.Block, known func(string) bool) *[timegrid.CellsPerDay]string {
	var cells [timegrid.CellsPerDay]string
	for _, b := range bs {
		if known != nil && !known(b.ActivityID) {
			continue
		}
		first := timegrid.CellOf(b.StartMin)
		for c := first; c < timegrid.CellsPerDay && timegrid.CellStart(c) < b.EndMin; c++ {
			if cells[c] == "" {
				cells[c] = b.ActivityID
			}
		}
	}
	return &cells
}

// Find returns the segment on layer covering a display row and column.
func Find(segs []Segment, layer block.Layer, row, col int) (Segment, bool) {
	for _, s := range segs {
		if s.Layer == layer && s.Row == row && s.StartCol <= col && col <= s.EndCol {
			return s, true
		}
	}
	return Segment{}, false
}
