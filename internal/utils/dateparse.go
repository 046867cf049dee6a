package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/dayline/internal/timegrid"
)

var (
	relDaysRe = regexp.MustCompile(`^([+-]?\d+)d$`)
	agoRe     = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks)\s+ago$`)
)

// ParseFlexibleDate resolves a --date argument into a calendar day at
// midnight in loc. It accepts "today", "yesterday", "tomorrow", weekday
// names (the most recent such day), "+2d"/"-1d", "3 days ago" and common
// date layouts.
func ParseFlexibleDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch input {
	case "", "today", "now":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if m := relDaysRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDate(0, 0, n), nil
	}
	if m := agoRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "week") {
			n *= 7
		}
		return today.AddDate(0, 0, -n), nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if input == name || input == name[:3] || input == "last "+name {
			back := (int(today.Weekday()) - int(wd) + 7) % 7
			if back == 0 && strings.HasPrefix(input, "last ") {
				back = 7
			}
			return today.AddDate(0, 0, -back), nil
		}
	}

	formats := []string{
		timegrid.DateLayout,
		"2006/01/02",
		"01/02/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"2 January 2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, input, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}

// DateKey parses input like ParseFlexibleDate and returns its ISO date key.
func DateKey(input string, now time.Time, loc *time.Location) (string, error) {
	t, err := ParseFlexibleDate(input, now, loc)
	if err != nil {
		return "", err
	}
	return timegrid.DateKey(t), nil
}
