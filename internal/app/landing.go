package app

import (
	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/engine/audio"
)

// settleEpsilon is the angle gap, in radians, below which the covers count
// as at rest.
const settleEpsilon = 1e-3

// landing watches the hinge for the covers coming to rest shut or flat.
type landing struct {
	moving bool
}

// update reports the sound to play when the covers have just settled at
// the closed or the fully open pose. Stops in between are silent.
func (l *landing) update(h, target book.HingeState, openRatio float64) (audio.Sound, bool) {
	if h.Distance(target) > settleEpsilon {
		l.moving = true
		return "", false
	}
	if !l.moving {
		return "", false
	}
	l.moving = false
	switch openRatio {
	case 0:
		return audio.SoundClose, true
	case 1:
		return audio.SoundOpen, true
	}
	return "", false
}
