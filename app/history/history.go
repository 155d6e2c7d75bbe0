// Package history keeps fixed-capacity rolling series of diagnostic
// metric samples, one value appended per sampling cycle.
package history

import "math"

// DefaultSize is about two minutes of samples at the 2s diagnostics interval.
const DefaultSize = 60

// Keys lists the metrics tracked in rolling history, in publish order.
var Keys = []string{
	"signal_percent", "rssi", "snr", "noise", "rx_rate", "tx_rate",
	"router_ping", "internet_ping", "router_jitter", "internet_jitter",
	"router_loss", "internet_loss", "dns_lookup", "tcp_established",
	"tcp_close_wait",
}

// Series is a fixed-size ring buffer of nullable samples. When full, a
// push overwrites the oldest entry. A nil sample records a cycle where
// the metric was absent (probe failed, disconnected, and so on).
type Series struct {
	buf  []*float64
	head int // next write position
	size int // valid entries
}

func NewSeries(capacity int) *Series {
	if capacity <= 0 {
		capacity = DefaultSize
	}
	return &Series{buf: make([]*float64, capacity)}
}

// Push appends a sample, evicting the oldest when at capacity.
func (s *Series) Push(v *float64) {
	s.buf[s.head] = v
	s.head = (s.head + 1) % len(s.buf)
	if s.size < len(s.buf) {
		s.size++
	}
}

func (s *Series) Len() int {
	return s.size
}

// Values returns the retained samples oldest-first. The slice and its
// elements are fresh copies; callers may hold them across later pushes.
func (s *Series) Values() []*float64 {
	out := make([]*float64, s.size)
	start := (s.head - s.size + len(s.buf)) % len(s.buf)
	for i := 0; i < s.size; i++ {
		if p := s.buf[(start+i)%len(s.buf)]; p != nil {
			v := *p
			out[i] = &v
		}
	}
	return out
}

// Store holds one Series per tracked metric key.
type Store struct {
	series map[string]*Series
}

func NewStore(capacity int) *Store {
	st := &Store{series: make(map[string]*Series, len(Keys))}
	for _, k := range Keys {
		st.series[k] = NewSeries(capacity)
	}
	return st
}

// Append records one cycle's value for every tracked metric. Keys absent
// from values are recorded as absent samples so all series stay aligned.
func (st *Store) Append(values map[string]*float64) {
	for _, k := range Keys {
		st.series[k].Push(values[k])
	}
}

// Snapshot returns a copy of every series, oldest-first.
func (st *Store) Snapshot() map[string][]*float64 {
	out := make(map[string][]*float64, len(Keys))
	for _, k := range Keys {
		out[k] = st.series[k].Values()
	}
	return out
}

// Window is a fixed-capacity FIFO of probe outcomes used to derive loss
// percentage over the recent attempts to one target.
type Window struct {
	buf  []bool
	head int
	size int
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 30
	}
	return &Window{buf: make([]bool, capacity)}
}

// Observe records one probe attempt.
func (w *Window) Observe(ok bool) {
	w.buf[w.head] = ok
	w.head = (w.head + 1) % len(w.buf)
	if w.size < len(w.buf) {
		w.size++
	}
}

// LossPercent returns 100 × (1 − successes/attempts) over the retained
// window, or 0 before any attempt has been recorded.
func (w *Window) LossPercent() float64 {
	if w.size == 0 {
		return 0
	}
	successes := 0
	for i := 0; i < w.size; i++ {
		if w.buf[i] {
			successes++
		}
	}
	return math.Round((1-float64(successes)/float64(w.size))*100*10) / 10
}
