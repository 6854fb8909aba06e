package physics

import "github.com/san-kum/fleshsim/internal/dynamo"

// TearHistoryCap bounds the tear event history.
const TearHistoryCap = 40

// TearEvent records one spring failure. Spring is a copy taken at the
// moment of the tear.
type TearEvent struct {
	Spring      dynamo.Spring
	StressRatio float64
	Step        int
}

// tearHistory is a fixed ring buffer; the oldest event is overwritten.
type tearHistory struct {
	buf   [TearHistoryCap]TearEvent
	start int
	n     int
}

func (h *tearHistory) push(e TearEvent) {
	if h.n < TearHistoryCap {
		h.buf[(h.start+h.n)%TearHistoryCap] = e
		h.n++
		return
	}
	h.buf[h.start] = e
	h.start = (h.start + 1) % TearHistoryCap
}

// events returns the history oldest first.
func (h *tearHistory) events() []TearEvent {
	out := make([]TearEvent, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%TearHistoryCap]
	}
	return out
}

func (h *tearHistory) reset() {
	h.start, h.n = 0, 0
}
