package block

import (
	"errors"
	"strings"
)

var (
	ErrEmptyActivityName = errors.New("activity name is empty")
	ErrActivityNotFound  = errors.New("activity not found")
)

// Palette is cycled through for activities created without a color.
var Palette = []string{
	"#A6E3A1", "#89B4FA", "#F9E2AF", "#F38BA8", "#CBA6F7",
	"#94E2D5", "#FAB387", "#F5C2E7", "#74C7EC", "#B4BEFE",
}

// Catalog is the set of known activities in insertion order.
type Catalog struct {
	byID  map[string]Activity
	order []string
}

// NewCatalog returns a catalog seeded with acts.
func NewCatalog(acts ...Activity) *Catalog {
	c := &Catalog{byID: map[string]Activity{}}
	for _, a := range acts {
		c.Put(a)
	}
	return c
}

// Put inserts or replaces an activity.
func (c *Catalog) Put(a Activity) Activity {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.Color == "" {
		a.Color = Palette[len(c.order)%len(Palette)]
	}
	if _, ok := c.byID[a.ID]; !ok {
		c.order = append(c.order, a.ID)
	}
	c.byID[a.ID] = a
	return a
}

// Get looks an activity up by id.
func (c *Catalog) Get(id string) (Activity, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Has reports whether id resolves to a known activity.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// FindByName matches an activity name case-insensitively.
func (c *Catalog) FindByName(name string) (Activity, bool) {
	name = strings.TrimSpace(name)
	for _, id := range c.order {
		if a := c.byID[id]; strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Activity{}, false
}

// ResolveOrCreate returns the activity named name, creating it if needed.
func (c *Catalog) ResolveOrCreate(name, color string) (Activity, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, false, ErrEmptyActivityName
	}
	if a, ok := c.FindByName(name); ok {
		return a, false, nil
	}
	return c.Put(Activity{Name: name, Color: color}), true, nil
}

// Remove deletes an activity. Blocks referencing it are left alone.
func (c *Catalog) Remove(id string) error {
	if _, ok := c.byID[id]; !ok {
		return ErrActivityNotFound
	}
	delete(c.byID, id)
	for i, x := range c.order {
		if x == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns the activities in insertion order.
func (c *Catalog) All() []Activity {
	out := make([]Activity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len is the number of activities.
func (c *Catalog) Len() int { return len(c.order) }
