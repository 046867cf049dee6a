package block

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownLayer is returned when a layer name is not recognised.
var ErrUnknownLayer = errors.New("unknown layer")

// Layer is one of the four painting layers.
type Layer string

const (
	Execute     Layer = "execute"
	Overlay     Layer = "overlay"
	Plan        Layer = "plan"
	PlanOverlay Layer = "planOverlay"
)

// Layers lists every layer in render order.
var Layers = []Layer{Execute, Overlay, Plan, PlanOverlay}

// ParseLayer resolves a layer name (case-insensitive).
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "execute", "exec", "actual":
		return Execute, nil
	case "overlay":
		return Overlay, nil
	case "plan":
		return Plan, nil
	case "planoverlay", "plan-overlay", "plan_overlay":
		return PlanOverlay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// IsPlan reports whether the layer is keyed by week.
func (l Layer) IsPlan() bool { return l == Plan || l == PlanOverlay }

// Primary returns the first slot of the layer's two-slot pair.
func (l Layer) Primary() Layer {
	if l.IsPlan() {
		return Plan
	}
	return Execute
}

// Secondary returns the second slot of the layer's two-slot pair.
func (l Layer) Secondary() Layer {
	if l.IsPlan() {
		return PlanOverlay
	}
	return Overlay
}

// Source records how a block was created.
type Source string

const (
	SourceManual   Source = "manual"
	SourceVoice    Source = "voice"
	SourceMigrated Source = "migrated"
)

// Activity is what a block is painted with.
type Activity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Block is a stored time range [StartMin, EndMin) on one layer.
// Date holds the ISO date for day layers and the ISO week key for plan layers.
type Block struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	StartMin   int    `json:"startMin"`
	EndMin     int    `json:"endMin"`
	ActivityID string `json:"activityId"`
	Layer      Layer  `json:"layer"`
	Source     Source `json:"source"`
}

// Overlaps reports whether the block intersects [start, end).
func (b Block) Overlaps(start, end int) bool {
	return b.StartMin < end && start < b.EndMin
}

// Len is the block duration in minutes.
func (b Block) Len() int { return b.EndMin - b.StartMin }

// Range is a candidate time range for one layer.
type Range struct {
	StartMin int
	EndMin   int
	Layer    Layer
}

// ChecklistItem is one checkable line of a checklist block.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ChecklistBlock annotates a sub-range with checkable items. It is not
// subject to overlap resolution.
type ChecklistBlock struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	StartMin   int             `json:"startMin"`
	EndMin     int             `json:"endMin"`
	Layer      Layer           `json:"layer"`
	ActivityID string          `json:"activityId,omitempty"`
	Items      []ChecklistItem `json:"items"`
}

// Covers reports whether minute m falls inside the checklist span.
func (c ChecklistBlock) Covers(m int) bool {
	return c.StartMin <= m && m < c.EndMin
}

func (c ChecklistBlock) clone() ChecklistBlock {
	c.Items = append([]ChecklistItem(nil), c.Items...)
	return c
}

// Label is a time-stamped text marker on a date.
type Label struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Minute int    `json:"minute"`
	Text   string `json:"text"`
}

// Signature identifies the segment a fine-bounds override belongs to.
type Signature struct {
	Date       string `json:"date"`
	Hour       int    `json:"hour"`
	Layer      Layer  `json:"layer"`
	ActivityID string `json:"activityId"`
	StartCol   int    `json:"startCol"`
	EndCol     int    `json:"endCol"`
}

// CoarseWindow returns the minute range the signature's columns cover.
func (s Signature) CoarseWindow() (start, end int) {
	base := s.Hour * 60
	return base + s.StartCol*10, base + (s.EndCol+1)*10
}

// FineBounds is a minute-precision override inside a segment's coarse window.
type FineBounds struct {
	StartMinute int `json:"startMinute"`
	EndMinute   int `json:"endMinute"`
}

// NewID generates entity ids. Tests may replace it.
var NewID = uuid.NewString
