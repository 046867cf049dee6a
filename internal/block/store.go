package block

import (
	"slices"
	"sort"
	"strings"

	"github.com/ramanasai/dayline/internal/timegrid"
)

// Store holds blocks per scope (ISO date for day layers, ISO week key for
// plan layers) plus the per-date checklist blocks, labels and fine bounds.
// It has no locking; one writer owns it.
type Store struct {
	blocks     map[string][]Block
	checklists map[string][]ChecklistBlock
	labels     map[string][]Label
	fine       map[Signature]FineBounds
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		blocks:     map[string][]Block{},
		checklists: map[string][]ChecklistBlock{},
		labels:     map[string][]Label{},
		fine:       map[Signature]FineBounds{},
	}
}

func layerRank(l Layer) int {
	for i, x := range Layers {
		if x == l {
			return i
		}
	}
	return len(Layers)
}

func sortBlocks(bs []Block) {
	sort.SliceStable(bs, func(i, j int) bool {
		a, b := bs[i], bs[j]
		if ra, rb := layerRank(a.Layer), layerRank(b.Layer); ra != rb {
			return ra < rb
		}
		if a.StartMin != b.StartMin {
			return a.StartMin < b.StartMin
		}
		return a.ID < b.ID
	})
}

// ScopeFor maps a date and layer to the key its blocks are stored under.
func ScopeFor(date string, layer Layer) string {
	if layer.IsPlan() && !strings.Contains(date, "-W") {
		return timegrid.WeekKey(date)
	}
	return date
}

// Scopes returns every scope key that holds blocks, sorted.
func (s *Store) Scopes() []string {
	keys := make([]string, 0, len(s.blocks))
	for k, v := range s.blocks {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Blocks returns a copy of every block stored under scope.
func (s *Store) Blocks(scope string) []Block {
	return slices.Clone(s.blocks[scope])
}

// SetBlocks replaces the blocks stored under scope.
func (s *Store) SetBlocks(scope string, bs []Block) {
	if len(bs) == 0 {
		delete(s.blocks, scope)
		return
	}
	bs = slices.Clone(bs)
	sortBlocks(bs)
	s.blocks[scope] = bs
}

// BlocksFor returns the blocks of one layer visible on date, sorted by start.
// Plan layers read the week the date falls in.
func (s *Store) BlocksFor(date string, layer Layer) []Block {
	var out []Block
	for _, b := range s.blocks[ScopeFor(date, layer)] {
		if b.Layer == layer {
			out = append(out, b)
		}
	}
	return out
}

// Occupant returns the activity of the earliest block on layer intersecting
// the cell.
func (s *Store) Occupant(date string, layer Layer, cell int) (string, bool) {
	start := timegrid.CellStart(cell)
	for _, b := range s.BlocksFor(date, layer) {
		if b.Overlaps(start, start+timegrid.CellMinutes) {
			return b.ActivityID, true
		}
	}
	return "", false
}

// Insert commits a range as one block through overlap resolution.
func (s *Store) Insert(date string, r Range, activityID string, src Source) Block {
	scope := ScopeFor(date, r.Layer)
	out, nb := Insert(s.blocks[scope], r, scope, activityID, src)
	s.blocks[scope] = out
	return nb
}

// ClearRange removes every part of layer inside [r.StartMin, r.EndMin).
func (s *Store) ClearRange(date string, r Range) bool {
	scope := ScopeFor(date, r.Layer)
	before := s.blocks[scope]
	after := Resolve(before, r, "")
	if slices.Equal(before, after) {
		return false
	}
	s.SetBlocks(scope, after)
	return true
}

// clearActivity trims only the blocks of one activity out of a range.
func (s *Store) clearActivity(scope string, r Range, activityID string) {
	var mine, rest []Block
	for _, b := range s.blocks[scope] {
		if b.Layer == r.Layer && b.ActivityID == activityID {
			mine = append(mine, b)
		} else {
			rest = append(rest, b)
		}
	}
	s.SetBlocks(scope, append(rest, Resolve(mine, r, "")...))
}

// PaintCell applies the two-slot painting rule to one cell: the primary slot
// is claimed when empty, otherwise a different activity takes the secondary
// slot, replacing whatever was there. It reports whether the store changed.
func (s *Store) PaintCell(date string, cell int, activityID string, layer Layer) bool {
	primary, secondary := layer.Primary(), layer.Secondary()
	target := primary
	if cur, ok := s.Occupant(date, primary, cell); ok {
		if cur == activityID {
			return false
		}
		if over, ok := s.Occupant(date, secondary, cell); ok && over == activityID {
			return false
		}
		target = secondary
	}
	start := timegrid.CellStart(cell)
	s.Insert(date, Range{StartMin: start, EndMin: start + timegrid.CellMinutes, Layer: target}, activityID, SourceManual)
	scope := ScopeFor(date, target)
	s.blocks[scope] = Coalesce(s.blocks[scope], target)
	return true
}

// EraseCell clears both slots of a layer pair and any labels in the cell.
func (s *Store) EraseCell(date string, cell int, layer Layer) bool {
	start := timegrid.CellStart(cell)
	end := start + timegrid.CellMinutes
	changed := s.ClearRange(date, Range{StartMin: start, EndMin: end, Layer: layer.Primary()})
	if s.ClearRange(date, Range{StartMin: start, EndMin: end, Layer: layer.Secondary()}) {
		changed = true
	}
	if !layer.IsPlan() && s.removeLabels(date, start, end) {
		changed = true
	}
	return changed
}

// ResizeSpan moves a segment of one activity from [oldStart, oldEnd) to
// [newStart, newEnd): the activity's cells outside the new span are trimmed
// and the new span is reclaimed for it.
func (s *Store) ResizeSpan(date string, layer Layer, activityID string, oldStart, oldEnd, newStart, newEnd int) bool {
	if oldStart == newStart && oldEnd == newEnd {
		return false
	}
	scope := ScopeFor(date, layer)
	before := slices.Clone(s.blocks[scope])
	if oldStart < newStart {
		s.clearActivity(scope, Range{StartMin: oldStart, EndMin: min(newStart, oldEnd), Layer: layer}, activityID)
	}
	if oldEnd > newEnd {
		s.clearActivity(scope, Range{StartMin: max(newEnd, oldStart), EndMin: oldEnd, Layer: layer}, activityID)
	}
	s.Insert(date, Range{StartMin: newStart, EndMin: newEnd, Layer: layer}, activityID, SourceManual)
	s.blocks[scope] = Coalesce(s.blocks[scope], layer)
	return !slices.Equal(before, s.blocks[scope])
}

// DaySnapshot returns deep copies of a date's day blocks and its week's plan
// blocks.
func (s *Store) DaySnapshot(date string) (day, plan []Block) {
	return s.Blocks(date), s.Blocks(ScopeFor(date, Plan))
}

// RestoreDay replaces a date's day blocks and its week's plan blocks.
func (s *Store) RestoreDay(date string, day, plan []Block) {
	s.SetBlocks(date, day)
	s.SetBlocks(ScopeFor(date, Plan), plan)
}

// ProjectPlan returns the week's plan blocks as they apply to date.
func (s *Store) ProjectPlan(date string) []Block {
	out := append(s.BlocksFor(date, Plan), s.BlocksFor(date, PlanOverlay)...)
	for i := range out {
		out[i].Date = date
	}
	return out
}

// ProjectMinutes expands a layer on date into one activity id per minute.
func (s *Store) ProjectMinutes(date string, layer Layer) [timegrid.MinutesPerDay]string {
	var out [timegrid.MinutesPerDay]string
	for _, b := range s.BlocksFor(date, layer) {
		for m := max(b.StartMin, 0); m < min(b.EndMin, timegrid.MinutesPerDay); m++ {
			out[m] = b.ActivityID
		}
	}
	return out
}

// Labels returns the labels on date ordered by minute.
func (s *Store) Labels(date string) []Label {
	return slices.Clone(s.labels[date])
}

// LabelDates returns every date that has labels.
func (s *Store) LabelDates() []string {
	return sortedKeys(s.labels)
}

// AddLabel records a label event.
func (s *Store) AddLabel(l Label) Label {
	if l.ID == "" {
		l.ID = NewID()
	}
	l.Minute = timegrid.ClampMinute(l.Minute)
	ls := append(s.labels[l.Date], l)
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].Minute < ls[j].Minute })
	s.labels[l.Date] = ls
	return l
}

func (s *Store) removeLabels(date string, start, end int) bool {
	ls := s.labels[date]
	kept := slices.DeleteFunc(slices.Clone(ls), func(l Label) bool {
		return l.Minute >= start && l.Minute < end
	})
	if len(kept) == len(ls) {
		return false
	}
	if len(kept) == 0 {
		delete(s.labels, date)
	} else {
		s.labels[date] = kept
	}
	return true
}

// Fine returns the fine bounds recorded for a segment signature.
func (s *Store) Fine(sig Signature) (FineBounds, bool) {
	fb, ok := s.fine[sig]
	return fb, ok
}

// SetFine records fine bounds, clamped into the signature's coarse window.
// Bounds equal to the coarse window are dropped.
func (s *Store) SetFine(sig Signature, fb FineBounds) {
	lo, hi := sig.CoarseWindow()
	fb.StartMinute = min(max(fb.StartMinute, lo), hi-1)
	fb.EndMinute = min(max(fb.EndMinute, fb.StartMinute+1), hi)
	if fb.StartMinute == lo && fb.EndMinute == hi {
		delete(s.fine, sig)
		return
	}
	s.fine[sig] = fb
}

// DeleteFine drops the fine bounds for a signature.
func (s *Store) DeleteFine(sig Signature) {
	delete(s.fine, sig)
}

// InvalidateFine drops every fine bound for one activity in one hour-row.
func (s *Store) InvalidateFine(date string, hour int, layer Layer, activityID string) {
	for sig := range s.fine {
		if sig.Date == date && sig.Hour == hour && sig.Layer == layer && sig.ActivityID == activityID {
			delete(s.fine, sig)
		}
	}
}

// FineFor returns a copy of the fine bounds recorded on date.
func (s *Store) FineFor(date string) map[Signature]FineBounds {
	var out map[Signature]FineBounds
	for sig, fb := range s.fine {
		if sig.Date != date {
			continue
		}
		if out == nil {
			out = map[Signature]FineBounds{}
		}
		out[sig] = fb
	}
	return out
}

// RestoreFine replaces the fine bounds of date with m.
func (s *Store) RestoreFine(date string, m map[Signature]FineBounds) {
	for sig := range s.fine {
		if sig.Date == date {
			delete(s.fine, sig)
		}
	}
	for sig, fb := range m {
		s.fine[sig] = fb
	}
}

// AllFine returns every fine bound entry.
func (s *Store) AllFine() map[Signature]FineBounds {
	out := make(map[Signature]FineBounds, len(s.fine))
	for k, v := range s.fine {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
