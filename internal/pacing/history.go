package pacing

// History is a bounded FIFO of recently generated difficulties.
type History struct {
	buf  []int
	size int
}

func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{buf: make([]int, 0, size), size: size}
}

// Push appends d, evicting the oldest entry when full.
func (h *History) Push(d int) {
	if len(h.buf) == h.size {
		copy(h.buf, h.buf[1:])
		h.buf = h.buf[:len(h.buf)-1]
	}
	h.buf = append(h.buf, d)
}

func (h *History) Len() int { return len(h.buf) }

// Mean returns the arithmetic mean, or 0 for an empty window.
func (h *History) Mean() float64 {
	if len(h.buf) == 0 {
		return 0
	}
	sum := 0
	for _, d := range h.buf {
		sum += d
	}
	return float64(sum) / float64(len(h.buf))
}

// Values returns a copy, oldest first.
func (h *History) Values() []int {
	return append([]int(nil), h.buf...)
}
