package block

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs(t *testing.T) {
	t.Helper()
	n := 0
	old := NewID
	NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { NewID = old })
}

func blk(id string, start, end int, act string, layer Layer) Block {
	return Block{ID: id, Date: "2026-10-19", StartMin: start, EndMin: end, ActivityID: act, Layer: layer, Source: SourceManual}
}

func TestResolveCases(t *testing.T) {
	seqIDs(t)
	b := blk("X", 100, 200, "A", Execute)
	other := blk("O", 100, 200, "A", Overlay)

	tests := []struct {
		name string
		cand Range
		want []Block
	}{
		{"disjoint", Range{200, 260, Execute}, []Block{b, other}},
		{"contains", Range{90, 210, Execute}, []Block{other}},
		{"exact", Range{100, 200, Execute}, []Block{other}},
		{"tail", Range{150, 250, Execute}, []Block{blk("X", 100, 150, "A", Execute), other}},
		{"tail flush", Range{150, 200, Execute}, []Block{blk("X", 100, 150, "A", Execute), other}},
		{"head", Range{50, 150, Execute}, []Block{blk("X", 150, 200, "A", Execute), other}},
		{"head flush", Range{100, 150, Execute}, []Block{blk("X", 150, 200, "A", Execute), other}},
		{"inverted candidate", Range{150, 120, Execute}, []Block{b, other}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve([]Block{b, other}, tc.cand, "")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveSplitKeepsLeftID(t *testing.T) {
	seqIDs(t)
	got := Resolve([]Block{blk("X", 100, 200, "A", Execute)}, Range{130, 160, Execute}, "")
	require.Len(t, got, 2)
	assert.Equal(t, "X", got[0].ID)
	assert.Equal(t, 100, got[0].StartMin)
	assert.Equal(t, 130, got[0].EndMin)
	assert.NotEqual(t, "X", got[1].ID)
	assert.Equal(t, 160, got[1].StartMin)
	assert.Equal(t, 200, got[1].EndMin)
	assert.Equal(t, "A", got[1].ActivityID)
}

func TestResolveExcludesID(t *testing.T) {
	got := Resolve([]Block{blk("X", 100, 200, "A", Execute)}, Range{0, 300, Execute}, "X")
	require.Len(t, got, 1)
	assert.Equal(t, "X", got[0].ID)
}

func TestInsertAppendsCandidate(t *testing.T) {
	seqIDs(t)
	out, nb := Insert([]Block{blk("X", 100, 200, "A", Execute)}, Range{150, 250, Execute}, "2026-10-19", "B", SourceVoice)
	require.Len(t, out, 2)
	assert.Equal(t, SourceVoice, nb.Source)
	assert.Equal(t, "B", out[1].ActivityID)
	assert.Equal(t, 150, out[0].EndMin)
}

func TestNormalizeSpan(t *testing.T) {
	s, e := NormalizeSpan(100, 100, 10)
	assert.Equal(t, []int{100, 110}, []int{s, e})
	s, e = NormalizeSpan(1440, 1400, 10)
	assert.Equal(t, []int{1430, 1440}, []int{s, e})
	s, e = NormalizeSpan(-20, 2000, 1)
	assert.Equal(t, []int{0, 1440}, []int{s, e})
	s, e = NormalizeSpan(500, 499, 1)
	assert.Equal(t, []int{500, 501}, []int{s, e})
}

func TestCoalesceMergesTouchingSameActivity(t *testing.T) {
	in := []Block{
		blk("b", 110, 120, "A", Execute),
		blk("a", 100, 110, "A", Execute),
		blk("c", 120, 130, "B", Execute),
		blk("o", 100, 110, "A", Overlay),
	}
	out := Coalesce(in, Execute)
	require.Len(t, out, 3)
	assert.Equal(t, blk("a", 100, 120, "A", Execute), out[0])
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, Overlay, out[2].Layer)
}

func assertNoOverlap(t *testing.T, s *Store) {
	t.Helper()
	for _, scope := range s.Scopes() {
		bs := s.Blocks(scope)
		for i := range bs {
			require.Less(t, bs[i].StartMin, bs[i].EndMin, "empty block %+v", bs[i])
			for j := i + 1; j < len(bs); j++ {
				if bs[i].Layer != bs[j].Layer {
					continue
				}
				require.False(t, bs[i].Overlaps(bs[j].StartMin, bs[j].EndMin),
					"overlap in %s: %+v vs %+v", scope, bs[i], bs[j])
			}
		}
	}
}

func TestRandomOperationsNeverOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore()
	acts := []string{"A", "B", "C", "D"}
	dates := []string{"2026-10-19", "2026-10-20"}
	for i := 0; i < 2000; i++ {
		date := dates[rng.Intn(len(dates))]
		layer := Layers[rng.Intn(len(Layers))]
		act := acts[rng.Intn(len(acts))]
		switch rng.Intn(4) {
		case 0:
			s.PaintCell(date, rng.Intn(144), act, layer)
		case 1:
			s.EraseCell(date, rng.Intn(144), layer)
		case 2:
			start := rng.Intn(1440)
			st, en := NormalizeSpan(start, start+rng.Intn(200)-20, 10)
			s.Insert(date, Range{StartMin: st, EndMin: en, Layer: layer}, act, SourceManual)
		case 3:
			os := rng.Intn(140) * 10
			ns := os + (rng.Intn(5)-2)*10
			ns, ne := NormalizeSpan(ns, ns+rng.Intn(6)*10, 10)
			s.ResizeSpan(date, layer, act, os, os+30, ns, ne)
		}
		assertNoOverlap(t, s)
	}
}
