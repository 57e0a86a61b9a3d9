package render

import "github.com/rook-computer/panelkit/internal/render/layout"

// scrollMagnitude is the direction value used while moving. At a bound the
// direction decays by one per call, which is the pause before reversing.
const scrollMagnitude = 6

// Scroller animates a vertical offset back and forth over overflowing content.
type Scroller struct {
	direction int
	offset    float64
}

// NewScroller returns a scroller that pauses at the top before moving down.
func NewScroller() Scroller {
	return Scroller{direction: -scrollMagnitude}
}

// Reset moves the offset back to the top and resumes forward movement.
func (s *Scroller) Reset() {
	s.direction = 1
	s.offset = 0
}

func (s *Scroller) Offset() float64 { return s.offset }
func (s *Scroller) Direction() int  { return s.direction }

// Advance moves the offset by step*scale in the current direction, clamped to
// [0, content-viewport]. Content that fits the viewport pins the offset to 0.
func (s *Scroller) Advance(contentHeight, viewportHeight, step, scale float64) {
	if contentHeight <= viewportHeight {
		s.offset = 0
		return
	}
	lower, upper := 0.0, contentHeight-viewportHeight

	s.offset = layout.Clamp(s.offset+step*scale*float64(sign(s.direction)), lower, upper)

	if s.offset <= lower && s.direction <= 0 {
		s.direction++
	} else if s.offset >= upper && s.direction >= 0 {
		s.direction--
	}

	if s.direction < 0 && s.offset > lower {
		s.direction = -scrollMagnitude
	}
	if s.direction > 0 && s.offset < upper {
		s.direction = scrollMagnitude
	}
}

// Clamp keeps the offset inside the bounds without moving it.
func (s *Scroller) Clamp(contentHeight, viewportHeight float64) {
	if contentHeight <= viewportHeight {
		s.offset = 0
		return
	}
	s.offset = layout.Clamp(s.offset, 0, contentHeight-viewportHeight)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
