package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHHMM(t *testing.T) {
	cases := map[string]int{
		"06:10":   370,
		"6:05":    365,
		"0610":    370,
		"7":       420,
		"24:00":   MinutesPerDay,
		"99:00":   MinutesPerDay,
		"":        0,
		"ab:cd":   0,
		"10:75":   0,
		"-1:00":   0,
		" 08:30 ": 510,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseHHMM(in), "input %q", in)
	}
}

func TestRowMapping(t *testing.T) {
	assert.Equal(t, 0, RowOf(6, 6))
	assert.Equal(t, 23, RowOf(5, 6))
	assert.Equal(t, 6, RowOf(6, 0))
	assert.Equal(t, 5, HourOf(23, 6))
	assert.Equal(t, 0, RowOf(6, 30)) // 30 normalizes to 6

	row, col := RowCol(37, 6)
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, 37, CellAt(row, col, 6))
}

func TestCellSnapping(t *testing.T) {
	assert.Equal(t, 37, CellOf(375))
	assert.Equal(t, CellsPerDay-1, CellOf(MinutesPerDay))
	assert.Equal(t, 370, FloorCell(379))
	assert.Equal(t, 380, RoundCell(375))
	assert.Equal(t, 370, RoundCell(374))
	assert.Equal(t, 0, ClampMinute(-5))
}

func TestWeekKey(t *testing.T) {
	assert.Equal(t, "2026-W43", WeekKey("2026-10-19"))
	assert.Equal(t, "2026-W43", WeekKey("2026-10-25"))
	assert.Equal(t, "2026-W44", WeekKey("2026-10-26"))
	assert.Equal(t, "", WeekKey("garbage"))
	assert.Equal(t, "2026-10-20", AddDays("2026-10-19", 1))
	assert.True(t, IsWeekKey("2026-W43"))
	assert.False(t, IsWeekKey("2026-10-19"))
	assert.False(t, IsWeekKey("26-W4"))
}
