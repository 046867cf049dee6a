package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
	// CellMinutes is the coarse cell width.
	CellMinutes = 10
	// CellsPerDay is 24 hours * 6 cells per hour = 144 cells.
	CellsPerDay = MinutesPerDay / CellMinutes
	// ColsPerRow is the number of 10-minute columns in one hour-row.
	ColsPerRow = 60 / CellMinutes
	// RowsPerDay is one row per hour.
	RowsPerDay = 24

	// DateLayout is the ISO date layout used for date keys.
	DateLayout = "2006-01-02"
)

// ClampMinute bounds a minute value to [0, MinutesPerDay].
func ClampMinute(m int) int {
	if m < 0 {
		return 0
	}
	if m > MinutesPerDay {
		return MinutesPerDay
	}
	return m
}

// ParseHHMM parses "HH:MM" (or "H", "HHMM") into minutes from midnight.
// Malformed input yields 0; "24:00" yields MinutesPerDay.
func ParseHHMM(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var hs, ms string
	if i := strings.IndexAny(s, ":."); i >= 0 {
		hs, ms = s[:i], s[i+1:]
	} else if len(s) == 4 {
		hs, ms = s[:2], s[2:]
	} else {
		hs, ms = s, "0"
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 {
		return 0
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0
	}
	return ClampMinute(h*60 + m)
}

// FormatHHMM renders minutes from midnight as "HH:MM".
func FormatHHMM(m int) string {
	m = ClampMinute(m)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// CellOf returns the cell index containing minute m.
func CellOf(m int) int {
	m = ClampMinute(m)
	if m == MinutesPerDay {
		return CellsPerDay - 1
	}
	return m / CellMinutes
}

// CellStart returns the first minute of a cell.
func CellStart(cell int) int {
	return cell * CellMinutes
}

// FloorCell snaps a minute down to a cell boundary.
func FloorCell(m int) int {
	return (ClampMinute(m) / CellMinutes) * CellMinutes
}

// RoundCell snaps a minute to the nearest cell boundary.
func RoundCell(m int) int {
	m = ClampMinute(m)
	return ClampMinute(((m + CellMinutes/2) / CellMinutes) * CellMinutes)
}

// NormalizeStartHour maps any hour onto [0, 24).
func NormalizeStartHour(h int) int {
	return ((h % 24) + 24) % 24
}

// RowOf maps an absolute hour to its display row for a start-hour offset.
func RowOf(hour, startHour int) int {
	return (hour - NormalizeStartHour(startHour) + 24) % 24
}

// HourOf is the inverse of RowOf.
func HourOf(row, startHour int) int {
	return (row + NormalizeStartHour(startHour)) % 24
}

// CellAt returns the day cell for a display row and column.
func CellAt(row, col, startHour int) int {
	return HourOf(row, startHour)*ColsPerRow + col
}

// RowCol returns the display row and column of a day cell.
func RowCol(cell, startHour int) (row, col int) {
	return RowOf(cell/ColsPerRow, startHour), cell % ColsPerRow
}

// DateKey formats a time as an ISO date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO date key in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t, nil
}

// WeekKey returns the ISO week key ("2026-W42") for a date key.
// An unparseable date yields the empty string.
func WeekKey(dateISO string) string {
	t, err := time.Parse(DateLayout, dateISO)
	if err != nil {
		return ""
	}
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// AddDays shifts a date key by n days.
func AddDays(dateISO string, n int) string {
	t, err := time.Parse(DateLayout, dateISO)
	if err != nil {
		return dateISO
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// IsWeekKey reports whether key looks like an ISO week key.
func IsWeekKey(key string) bool {
	i := strings.Index(key, "-W")
	if i != 4 || len(key) != 8 {
		return false
	}
	_, err1 := strconv.Atoi(key[:4])
	_, err2 := strconv.Atoi(key[6:])
	return err1 == nil && err2 == nil
}
