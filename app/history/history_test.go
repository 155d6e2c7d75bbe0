package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestSeries_PushAndLen(t *testing.T) {
	s := NewSeries(5)
	assert.Equal(t, 0, s.Len())

	s.Push(f(1))
	s.Push(nil)
	s.Push(f(3))
	assert.Equal(t, 3, s.Len())
}

func TestSeries_EvictsOldestAtCapacity(t *testing.T) {
	s := NewSeries(3)
	for _, v := range []float64{10, 20, 30, 40} {
		s.Push(f(v))
	}
	require.Equal(t, 3, s.Len())

	vals := s.Values()
	require.Len(t, vals, 3)
	assert.Equal(t, 20.0, *vals[0])
	assert.Equal(t, 30.0, *vals[1])
	assert.Equal(t, 40.0, *vals[2])
}

func TestSeries_PreservesAbsentSamples(t *testing.T) {
	s := NewSeries(4)
	s.Push(f(1))
	s.Push(nil)
	s.Push(f(3))

	vals := s.Values()
	require.Len(t, vals, 3)
	assert.Equal(t, 1.0, *vals[0])
	assert.Nil(t, vals[1])
	assert.Equal(t, 3.0, *vals[2])
}

func TestSeries_ValuesAreCopies(t *testing.T) {
	s := NewSeries(3)
	s.Push(f(1))

	vals := s.Values()
	*vals[0] = 99
	assert.Equal(t, 1.0, *s.Values()[0])
}

func TestStore_BoundsEveryMetric(t *testing.T) {
	const capacity = 60
	st := NewStore(capacity)

	cycles := capacity + 15
	for i := 1; i <= cycles; i++ {
		st.Append(map[string]*float64{"rssi": f(float64(i))})
	}

	snap := st.Snapshot()
	for _, k := range Keys {
		assert.Len(t, snap[k], capacity, k)
	}

	// oldest retained value is from cycle (cycles - capacity + 1)
	rssi := snap["rssi"]
	assert.Equal(t, float64(cycles-capacity+1), *rssi[0])
	assert.Equal(t, float64(cycles), *rssi[capacity-1])

	// metrics absent from the appended map stay aligned as absent samples
	assert.Nil(t, snap["snr"][0])
}

func TestWindow_LossPercent(t *testing.T) {
	w := NewWindow(30)
	assert.Equal(t, 0.0, w.LossPercent())

	// 10 attempts alternating success/failure: 5 successes
	for i := 0; i < 10; i++ {
		w.Observe(i%2 == 0)
	}
	assert.Equal(t, 50.0, w.LossPercent())
}

func TestWindow_EvictsOldestAttempts(t *testing.T) {
	w := NewWindow(4)
	w.Observe(false)
	w.Observe(false)
	w.Observe(false)
	w.Observe(false)
	assert.Equal(t, 100.0, w.LossPercent())

	// four successes push the failures out
	for i := 0; i < 4; i++ {
		w.Observe(true)
	}
	assert.Equal(t, 0.0, w.LossPercent())
}
