package block

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/ramanasai/dayline/internal/timegrid"
)

var (
	ErrChecklistNotFound = errors.New("checklist block not found")
	ErrItemNotFound      = errors.New("checklist item not found")
	ErrEmptyItem         = errors.New("checklist item text is empty")
)

// Checklists returns the checklist blocks on date ordered by start.
func (s *Store) Checklists(date string) []ChecklistBlock {
	out := make([]ChecklistBlock, 0, len(s.checklists[date]))
	for _, c := range s.checklists[date] {
		out = append(out, c.clone())
	}
	return out
}

// ChecklistDates returns every date holding checklist blocks.
func (s *Store) ChecklistDates() []string {
	return sortedKeys(s.checklists)
}

// ChecklistAt returns the checklist block on layer covering minute m.
func (s *Store) ChecklistAt(date string, minute int, layer Layer) (ChecklistBlock, bool) {
	for _, c := range s.checklists[date] {
		if c.Layer == layer && c.Covers(minute) {
			return c.clone(), true
		}
	}
	return ChecklistBlock{}, false
}

// OpenChecklistAt returns the checklist covering minute on layer, creating a
// default one-cell block when none exists. created reports which happened.
func (s *Store) OpenChecklistAt(date string, minute int, layer Layer) (cb ChecklistBlock, created bool) {
	if c, ok := s.ChecklistAt(date, minute, layer); ok {
		return c, false
	}
	start, end := NormalizeSpan(timegrid.FloorCell(minute), timegrid.FloorCell(minute)+timegrid.CellMinutes, timegrid.CellMinutes)
	act, _ := s.Occupant(date, layer, timegrid.CellOf(start))
	cb = ChecklistBlock{
		ID:         NewID(),
		Date:       date,
		StartMin:   start,
		EndMin:     end,
		Layer:      layer,
		ActivityID: act,
	}
	s.PutChecklist(cb)
	return cb.clone(), true
}

// PutChecklist inserts or replaces a checklist block by id.
func (s *Store) PutChecklist(cb ChecklistBlock) {
	if cb.ID == "" {
		cb.ID = NewID()
	}
	cb.StartMin, cb.EndMin = NormalizeSpan(cb.StartMin, cb.EndMin, 1)
	list := s.checklists[cb.Date]
	if i := slices.IndexFunc(list, func(c ChecklistBlock) bool { return c.ID == cb.ID }); i >= 0 {
		list[i] = cb.clone()
	} else {
		list = append(list, cb.clone())
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].StartMin < list[j].StartMin })
	s.checklists[cb.Date] = list
}

// DeleteChecklist removes a checklist block.
func (s *Store) DeleteChecklist(date, id string) error {
	list := s.checklists[date]
	i := slices.IndexFunc(list, func(c ChecklistBlock) bool { return c.ID == id })
	if i < 0 {
		return ErrChecklistNotFound
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(s.checklists, date)
	} else {
		s.checklists[date] = list
	}
	return nil
}

func (s *Store) checklist(date, id string) (*ChecklistBlock, error) {
	list := s.checklists[date]
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrChecklistNotFound
}

// AddItem appends an item to a checklist block.
func (s *Store) AddItem(date, checklistID, text string) (ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChecklistItem{}, ErrEmptyItem
	}
	c, err := s.checklist(date, checklistID)
	if err != nil {
		return ChecklistItem{}, err
	}
	it := ChecklistItem{ID: NewID(), Text: text}
	c.Items = append(c.Items, it)
	return it, nil
}

// ToggleItem flips an item's done flag and returns the new value.
func (s *Store) ToggleItem(date, checklistID, itemID string) (bool, error) {
	c, err := s.checklist(date, checklistID)
	if err != nil {
		return false, err
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Done = !c.Items[i].Done
			return c.Items[i].Done, nil
		}
	}
	return false, ErrItemNotFound
}

// RemoveItem deletes an item from a checklist block.
func (s *Store) RemoveItem(date, checklistID, itemID string) error {
	c, err := s.checklist(date, checklistID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(c.Items, func(it ChecklistItem) bool { return it.ID == itemID })
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	return nil
}
