package gesture

import "time"

// longPress races the gesture controller to detect a press held still.
type longPress struct {
	timer      Timer
	pointerID  int
	minute     int
	x, y       float64
	intent     LayerIntent
	threshold2 float64
	done       bool
}

func startLongPress(s Scheduler, d time.Duration, threshold float64, ev PointerEvent, fire func(*longPress)) *longPress {
	lp := &longPress{
		pointerID:  ev.PointerID,
		minute:     int(ev.Minute),
		x:          ev.X,
		y:          ev.Y,
		intent:     ev.intent(),
		threshold2: threshold * threshold,
	}
	lp.timer = s.AfterFunc(d, func() {
		if lp.done {
			return
		}
		lp.done = true
		fire(lp)
	})
	return lp
}

// exceeded reports whether a move went past the still-threshold.
func (lp *longPress) exceeded(x, y float64) bool {
	return dist2(lp.x, lp.y, x, y) > lp.threshold2
}

func (lp *longPress) cancel() {
	if lp == nil || lp.done {
		return
	}
	lp.done = true
	lp.timer.Stop()
}
