package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/timegrid"
)

const (
	// VersionLegacy is the per-cell dayGrid/weekGrid format.
	VersionLegacy = 1
	// VersionCurrent is the block-range format.
	VersionCurrent = 2
)

var ErrUnsupportedVersion = errors.New("unsupported state version")

// Document is the versioned persisted state.
type Document struct {
	Version    int              `json:"version"`
	Theme      string           `json:"theme,omitempty"`
	StartHour  int              `json:"startHour"`
	Activities []block.Activity `json:"activities"`

	BlocksByDate          map[string][]block.Block          `json:"blocksByDate,omitempty"`
	PlanByWeek            map[string][]block.Block          `json:"planByWeek,omitempty"`
	ChecklistBlocksByDate map[string][]block.ChecklistBlock `json:"checklistBlocksByDate,omitempty"`
	LabelsByDate          map[string][]block.Label          `json:"labelsByDate,omitempty"`
	FineBounds            []FineEntry                       `json:"fineBounds,omitempty"`

	// Legacy grids, keyed by date (day) or week key (week), then cell id "HH:MM".
	DayGrid  map[string]map[string]LegacyCell `json:"dayGrid,omitempty"`
	WeekGrid map[string]map[string]LegacyCell `json:"weekGrid,omitempty"`
}

// FineEntry is one fine-bounds override in the document.
type FineEntry struct {
	block.Signature
	block.FineBounds
}

// State is the decoded application state.
type State struct {
	Theme     string
	StartHour int
	Catalog   *block.Catalog
	Store     *block.Store
}

// Empty returns the initial state.
func Empty() *State {
	return &State{Theme: "default", Catalog: block.NewCatalog(), Store: block.NewStore()}
}

// Decode parses a persisted document of any supported version. Malformed
// input and unknown versions return an empty state together with the error,
// so callers can always continue.
func Decode(data []byte) (*State, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Empty(), fmt.Errorf("decode state: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument builds a state from a document, migrating legacy grids.
func FromDocument(doc Document) (*State, error) {
	version := doc.Version
	if version == 0 {
		version = VersionCurrent
		if len(doc.DayGrid) > 0 || len(doc.WeekGrid) > 0 {
			version = VersionLegacy
		}
	}
	if version != VersionLegacy && version != VersionCurrent {
		return Empty(), fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	st := Empty()
	if doc.Theme != "" {
		st.Theme = doc.Theme
	}
	st.StartHour = timegrid.NormalizeStartHour(doc.StartHour)
	for _, a := range doc.Activities {
		st.Catalog.Put(a)
	}

	for date, bs := range doc.BlocksByDate {
		restore(st.Store, date, bs, false)
	}
	for week, bs := range doc.PlanByWeek {
		restore(st.Store, week, bs, true)
	}
	for _, cbs := range doc.ChecklistBlocksByDate {
		for _, cb := range cbs {
			st.Store.PutChecklist(cb)
		}
	}
	for _, ls := range doc.LabelsByDate {
		for _, l := range ls {
			st.Store.AddLabel(l)
		}
	}
	for _, fe := range doc.FineBounds {
		st.Store.SetFine(fe.Signature, fe.FineBounds)
	}

	for date, cells := range doc.DayGrid {
		MigrateDay(st.Store, date, cells)
	}
	for week, cells := range doc.WeekGrid {
		MigrateWeek(st.Store, week, cells)
	}
	return st, nil
}

// restore inserts persisted blocks through overlap resolution, so a
// hand-edited document cannot break the non-overlap invariant.
func restore(s *block.Store, scope string, bs []block.Block, plan bool) {
	bs = append([]block.Block(nil), bs...)
	sort.SliceStable(bs, func(i, j int) bool { return bs[i].StartMin < bs[j].StartMin })
	var out []block.Block
	for _, b := range bs {
		if _, err := block.ParseLayer(string(b.Layer)); err != nil || b.Layer.IsPlan() != plan {
			continue
		}
		start, end := block.NormalizeSpan(b.StartMin, b.EndMin, 1)
		out = block.Resolve(out, block.Range{StartMin: start, EndMin: end, Layer: b.Layer}, "")
		if b.ID == "" {
			b.ID = block.NewID()
		}
		if b.Source == "" {
			b.Source = block.SourceManual
		}
		b.Date, b.StartMin, b.EndMin = scope, start, end
		out = append(out, b)
	}
	s.SetBlocks(scope, out)
}

// ToDocument renders the state as a current-version document.
func ToDocument(st *State) Document {
	doc := Document{
		Version:    VersionCurrent,
		Theme:      st.Theme,
		StartHour:  st.StartHour,
		Activities: st.Catalog.All(),
	}
	for _, scope := range st.Store.Scopes() {
		bs := st.Store.Blocks(scope)
		if timegrid.IsWeekKey(scope) {
			if doc.PlanByWeek == nil {
				doc.PlanByWeek = map[string][]block.Block{}
			}
			doc.PlanByWeek[scope] = bs
			continue
		}
		if doc.BlocksByDate == nil {
			doc.BlocksByDate = map[string][]block.Block{}
		}
		doc.BlocksByDate[scope] = bs
	}
	for _, date := range st.Store.ChecklistDates() {
		if doc.ChecklistBlocksByDate == nil {
			doc.ChecklistBlocksByDate = map[string][]block.ChecklistBlock{}
		}
		doc.ChecklistBlocksByDate[date] = st.Store.Checklists(date)
	}
	for _, date := range st.Store.LabelDates() {
		if doc.LabelsByDate == nil {
			doc.LabelsByDate = map[string][]block.Label{}
		}
		doc.LabelsByDate[date] = st.Store.Labels(date)
	}
	for sig, fb := range st.Store.AllFine() {
		doc.FineBounds = append(doc.FineBounds, FineEntry{Signature: sig, FineBounds: fb})
	}
	sort.Slice(doc.FineBounds, func(i, j int) bool {
		a, b := doc.FineBounds[i].Signature, doc.FineBounds[j].Signature
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.StartCol < b.StartCol
	})
	return doc
}

// Encode renders the state as indented JSON.
func Encode(st *State) ([]byte, error) {
	b, err := json.MarshalIndent(ToDocument(st), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}
