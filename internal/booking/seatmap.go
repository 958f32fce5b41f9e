package booking

const (
	SeatAvailable = 0
	SeatBooked    = 1
)

// SeatMap holds one cell per seat, SeatAvailable or SeatBooked.
type SeatMap []int

func NewSeatMap(capacity int) SeatMap {
	return make(SeatMap, capacity)
}

func (m SeatMap) IsBooked(i int) bool {
	return i >= 0 && i < len(m) && m[i] == SeatBooked
}

func (m SeatMap) BookedCount() int {
	n := 0
	for _, cell := range m {
		if cell == SeatBooked {
			n++
		}
	}
	return n
}

// fit returns m resized to capacity. Missing cells are available; cells past
// capacity are dropped.
func (m SeatMap) fit(capacity int) SeatMap {
	if len(m) == capacity {
		return m
	}
	out := NewSeatMap(capacity)
	copy(out, m)
	return out
}

// withBooked returns a copy of m with every index in seats booked.
func (m SeatMap) withBooked(seats []int) SeatMap {
	out := append(SeatMap(nil), m...)
	for _, i := range seats {
		if i >= 0 && i < len(out) {
			out[i] = SeatBooked
		}
	}
	return out
}
