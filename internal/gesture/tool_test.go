package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolAliases(t *testing.T) {
	cases := map[string]Tool{
		"paint":      ToolPaint,
		" Brush ":    ToolPaint,
		"eraser":     ToolErase,
		"range":      ToolNewRange,
		"new_range":  ToolNewRange,
		"Plan-Range": ToolPlanRange,
		"cursor":     ToolSelect,
	}
	for in, want := range cases {
		got, err := ParseTool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTool("lasso")
	assert.ErrorIs(t, err, ErrUnknownTool)

	for _, tool := range Tools {
		back, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, back)
	}
}

func TestLayerIntentFor(t *testing.T) {
	assert.Equal(t, IntentPrimary, LayerIntentFor(0, 20))
	assert.Equal(t, IntentPrimary, LayerIntentFor(9.9, 20))
	assert.Equal(t, IntentSecondary, LayerIntentFor(10, 20))
	assert.Equal(t, IntentSecondary, LayerIntentFor(19, 20))
	assert.Equal(t, IntentPrimary, LayerIntentFor(5, 0), "no geometry falls back to primary")
}

func TestCellPath(t *testing.T) {
	assert.Nil(t, cellPath(4, 4, 0))
	assert.Equal(t, []int{3, 4, 5}, cellPath(2, 5, 0))
	assert.Equal(t, []int{3, 2}, cellPath(4, 2, 0))
	assert.Equal(t, []int{7}, cellPath(4, 7, 0), "next hour-row")
	assert.Equal(t, []int{0}, cellPath(143, 0, 6), "23:50 to 00:00 with the line starting at 06:00")

	lo, hi := rangeEnvelope(displayIndex(143, 6), displayIndex(1, 6), 143, 6)
	assert.Equal(t, [2]int{143, 143}, [2]int{lo, hi})
	lo, hi = rangeEnvelope(displayIndex(143, 6), displayIndex(1, 6), 1, 6)
	assert.Equal(t, [2]int{0, 1}, [2]int{lo, hi})
}

func TestManualSchedulerOrdersAndStops(t *testing.T) {
	var s ManualScheduler
	var got []string
	s.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	stopped := s.AfterFunc(15*time.Millisecond, func() { got = append(got, "x") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, 2, s.Pending())

	s.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)
	s.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Zero(t, s.Pending())
}
