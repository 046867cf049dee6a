package intake

import (
	"testing"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-19"

func TestCommitCreatesActivityAndVoiceBlock(t *testing.T) {
	s := block.NewStore()
	cat := block.NewCatalog()
	s.Insert(day, block.Range{StartMin: 540, EndMin: 660, Layer: block.Execute}, "other", block.SourceManual)

	res, err := Commit(s, cat, NewTuple(day, "09:30", "10:05", " Deep Work "))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Deep Work", res.Activity.Name)
	assert.Equal(t, block.SourceVoice, res.Block.Source)
	assert.Equal(t, 570, res.Block.StartMin)
	assert.Equal(t, 610, res.Block.EndMin)

	bs := s.BlocksFor(day, block.Execute)
	require.Len(t, bs, 3, "existing block is split around the tuple")
	assert.Equal(t, 570, bs[0].EndMin)
	assert.Equal(t, 610, bs[2].StartMin)

	again, err := Commit(s, cat, NewTuple(day, "12:00", "12:10", "deep work"))
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Activity.ID, again.Activity.ID)
}

func TestCommitRejectsIncompleteTuples(t *testing.T) {
	s := block.NewStore()
	cat := block.NewCatalog()
	_, err := Commit(s, cat, NewTuple(day, "09:00", "10:00", "  "))
	assert.ErrorIs(t, err, block.ErrEmptyActivityName)
	_, err = Commit(s, cat, NewTuple("yesterday", "09:00", "10:00", "Work"))
	assert.Error(t, err)
	assert.Empty(t, s.Scopes())
}

func TestSpanIsDefensive(t *testing.T) {
	start, end := NewTuple(day, "garbage", "00:00", "x").Span()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end, "inverted range widens to one cell")

	start, end = NewTuple(day, "23:55", "25:00", "x").Span()
	assert.Equal(t, 1430, start)
	assert.Equal(t, 1440, end)
}

func TestParseLine(t *testing.T) {
	tp, err := ParseLine(day, "07:00 07:45 morning run")
	require.NoError(t, err)
	assert.Equal(t, Tuple{Date: day, StartMin: 420, EndMin: 465, ActivityName: "morning run"}, tp)
	_, err = ParseLine(day, "07:00")
	assert.ErrorIs(t, err, ErrMalformedLine)
}
