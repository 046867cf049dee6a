package block

import "github.com/ramanasai/dayline/internal/timegrid"

// Resolve rewrites existing so that no block in cand.Layer intersects the
// candidate range. Blocks on other layers and the block with id excludeID pass
// through untouched. Resolve never fails; an empty or inverted candidate
// leaves the input as is.
//
// A candidate strictly inside a block splits it: the left remainder keeps the
// original id and the right remainder gets a fresh one.
func Resolve(existing []Block, cand Range, excludeID string) []Block {
	out := make([]Block, 0, len(existing)+1)
	if cand.EndMin <= cand.StartMin {
		return append(out, existing...)
	}
	for _, b := range existing {
		if b.Layer != cand.Layer || (excludeID != "" && b.ID == excludeID) {
			out = append(out, b)
			continue
		}
		switch {
		case !b.Overlaps(cand.StartMin, cand.EndMin):
			out = append(out, b)
		case cand.StartMin <= b.StartMin && cand.EndMin >= b.EndMin:
			// fully overwritten
		case cand.StartMin > b.StartMin && cand.EndMin >= b.EndMin:
			b.EndMin = cand.StartMin
			out = append(out, b)
		case cand.StartMin <= b.StartMin && cand.EndMin < b.EndMin:
			b.StartMin = cand.EndMin
			out = append(out, b)
		default:
			left, right := b, b
			left.EndMin = cand.StartMin
			right.StartMin = cand.EndMin
			right.ID = NewID()
			out = append(out, left, right)
		}
	}
	return out
}

// Insert resolves the candidate against existing and appends it as a new
// block. The returned slice is sorted.
func Insert(existing []Block, cand Range, date, activityID string, src Source) ([]Block, Block) {
	nb := Block{
		ID:         NewID(),
		Date:       date,
		StartMin:   cand.StartMin,
		EndMin:     cand.EndMin,
		ActivityID: activityID,
		Layer:      cand.Layer,
		Source:     src,
	}
	out := append(Resolve(existing, cand, ""), nb)
	sortBlocks(out)
	return out, nb
}

// NormalizeSpan clamps a range to the day and widens an empty or inverted
// range to a minimum of unit minutes, shifting left at the end of the day.
func NormalizeSpan(start, end, unit int) (int, int) {
	if unit <= 0 {
		unit = 1
	}
	start = timegrid.ClampMinute(start)
	end = timegrid.ClampMinute(end)
	if end > start {
		return start, end
	}
	end = start + unit
	if end > timegrid.MinutesPerDay {
		end = timegrid.MinutesPerDay
		start = end - unit
	}
	return start, end
}

// Coalesce merges touching or overlapping blocks of the same activity on the
// given layer. The earliest block keeps its id.
func Coalesce(blocks []Block, layer Layer) []Block {
	sortBlocks(blocks)
	out := make([]Block, 0, len(blocks))
	last := -1
	for _, b := range blocks {
		if b.Layer == layer && last >= 0 {
			prev := &out[last]
			if prev.ActivityID == b.ActivityID && b.StartMin <= prev.EndMin {
				if b.EndMin > prev.EndMin {
					prev.EndMin = b.EndMin
				}
				continue
			}
		}
		out = append(out, b)
		if b.Layer == layer {
			last = len(out) - 1
		}
	}
	return out
}
