// Package intake accepts confirmed {date, start, end, activity} tuples from
// external parsers such as voice transcription and turns them into blocks.
package intake

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/timegrid"
)

var ErrMalformedLine = errors.New("expected \"HH:MM HH:MM activity\"")

// Tuple is a fully confirmed entry. Disambiguation happens before it is built.
type Tuple struct {
	Date         string
	StartMin     int
	EndMin       int
	ActivityName string
}

// NewTuple builds a tuple from text fields. Times parse defensively.
func NewTuple(date, start, end, activity string) Tuple {
	return Tuple{
		Date:         strings.TrimSpace(date),
		StartMin:     timegrid.ParseHHMM(start),
		EndMin:       timegrid.ParseHHMM(end),
		ActivityName: strings.TrimSpace(activity),
	}
}

// ParseLine reads "HH:MM HH:MM activity name" for date.
func ParseLine(date, line string) (Tuple, error) {
	f := strings.Fields(line)
	if len(f) < 3 {
		return Tuple{}, ErrMalformedLine
	}
	return NewTuple(date, f[0], f[1], strings.Join(f[2:], " ")), nil
}

// Span returns the cell-aligned range a tuple commits, as a range drag over
// the same minutes would.
func (t Tuple) Span() (start, end int) {
	start = timegrid.FloorCell(t.StartMin)
	end = timegrid.ClampMinute(t.EndMin)
	if r := end % timegrid.CellMinutes; r != 0 {
		end += timegrid.CellMinutes - r
	}
	return block.NormalizeSpan(start, end, timegrid.CellMinutes)
}

// Result reports what Commit did.
type Result struct {
	Block    block.Block
	Activity block.Activity
	Created  bool
}

// Commit resolves or creates the tuple's activity and inserts an execute
// block tagged with the voice source.
func Commit(s *block.Store, cat *block.Catalog, t Tuple) (Result, error) {
	if _, err := timegrid.ParseDate(t.Date, nil); err != nil {
		return Result{}, err
	}
	act, created, err := cat.ResolveOrCreate(t.ActivityName, "")
	if err != nil {
		return Result{}, fmt.Errorf("resolve activity: %w", err)
	}
	start, end := t.Span()
	b := s.Insert(t.Date, block.Range{StartMin: start, EndMin: end, Layer: block.Execute}, act.ID, block.SourceVoice)
	slog.Debug("intake committed",
		"date", t.Date, "start", timegrid.FormatHHMM(start), "end", timegrid.FormatHHMM(end),
		"activity", act.Name, "created", created)
	return Result{Block: b, Activity: act, Created: created}, nil
}
