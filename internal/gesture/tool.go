package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned by ParseTool for unrecognised names.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is the active pointer tool.
type Tool int

const (
	ToolPaint Tool = iota
	ToolErase
	ToolNewRange
	ToolPlanRange
	ToolSelect
)

// Tools lists every tool in menu order.
var Tools = []Tool{ToolPaint, ToolErase, ToolNewRange, ToolPlanRange, ToolSelect}

var toolNames = map[Tool]string{
	ToolPaint:     "paint",
	ToolErase:     "erase",
	ToolNewRange:  "new-range",
	ToolPlanRange: "plan-range",
	ToolSelect:    "select",
}

// toolAliases is the only place legacy and shorthand names are accepted.
var toolAliases = map[string]Tool{
	"paint":      ToolPaint,
	"brush":      ToolPaint,
	"pen":        ToolPaint,
	"draw":       ToolPaint,
	"erase":      ToolErase,
	"eraser":     ToolErase,
	"clear":      ToolErase,
	"new-range":  ToolNewRange,
	"newrange":   ToolNewRange,
	"new_range":  ToolNewRange,
	"range":      ToolNewRange,
	"plan-range": ToolPlanRange,
	"planrange":  ToolPlanRange,
	"plan_range": ToolPlanRange,
	"plan":       ToolPlanRange,
	"select":     ToolSelect,
	"cursor":     ToolSelect,
	"pointer":    ToolSelect,
	"resize":     ToolSelect,
}

// ParseTool resolves a canonical tool name or alias.
func ParseTool(s string) (Tool, error) {
	if t, ok := toolAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// paints reports whether the tool mutates cell by cell.
func (t Tool) paints() bool { return t == ToolPaint || t == ToolErase }

// ranges reports whether the tool commits one range on release.
func (t Tool) ranges() bool { return t == ToolNewRange || t == ToolPlanRange }

// LayerIntent is the execute-versus-overlay choice for a press.
type LayerIntent int

const (
	IntentNone LayerIntent = iota
	IntentPrimary
	IntentSecondary
)

func (i LayerIntent) String() string {
	switch i {
	case IntentPrimary:
		return "primary"
	case IntentSecondary:
		return "secondary"
	}
	return "none"
}

// LayerIntentFor picks a slot from the vertical position inside a cell: the
// upper half means the primary slot, the lower half the secondary one.
func LayerIntentFor(relY, cellHeight float64) LayerIntent {
	if cellHeight <= 0 {
		return IntentPrimary
	}
	if relY >= cellHeight/2 {
		return IntentSecondary
	}
	return IntentPrimary
}
