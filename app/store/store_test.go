package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetScout-Go/WiFiScope/app/diagnostics"
	"github.com/NetScout-Go/WiFiScope/app/history"
	"github.com/NetScout-Go/WiFiScope/app/scanner"
)

func snapshotForCycle(rssi int) diagnostics.Snapshot {
	ping := float64(rssi) // distinct per cycle so mixing is detectable
	return diagnostics.Snapshot{
		InterfaceInfo: diagnostics.InterfaceInfo{Connected: true, RSSI: rssi, SignalPercent: (rssi + 100) * 2},
		RouterPing:    &ping,
	}
}

func TestPublishAndReadNetworks(t *testing.T) {
	st := New(10)
	assert.Empty(t, st.Networks())

	nets := []scanner.AccessPoint{{SSID: "A", BSSID: "a1", RSSI: -50}}
	st.PublishNetworks(nets)

	got := st.Networks()
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].SSID)
}

func TestNetworks_ReturnsCopy(t *testing.T) {
	st := New(10)
	st.PublishNetworks([]scanner.AccessPoint{{SSID: "A"}})

	got := st.Networks()
	got[0].SSID = "mutated"

	assert.Equal(t, "A", st.Networks()[0].SSID)
}

func TestPublishDiagnostics_AppendsHistory(t *testing.T) {
	st := New(10)
	st.PublishDiagnostics(snapshotForCycle(-60))
	st.PublishDiagnostics(snapshotForCycle(-55))

	current, hist := st.Diagnostics()
	assert.Equal(t, -55, current.RSSI)

	require.Len(t, hist["rssi"], 2)
	assert.Equal(t, -60.0, *hist["rssi"][0])
	assert.Equal(t, -55.0, *hist["rssi"][1])

	for _, k := range history.Keys {
		assert.Len(t, hist[k], 2, k)
	}
}

func TestDiagnostics_HistoryIsCopy(t *testing.T) {
	st := New(10)
	st.PublishDiagnostics(snapshotForCycle(-60))

	_, hist := st.Diagnostics()
	*hist["rssi"][0] = 999

	_, again := st.Diagnostics()
	assert.Equal(t, -60.0, *again["rssi"][0])
}

func TestDiagnostics_HistoryBounded(t *testing.T) {
	const capacity = 5
	st := New(capacity)
	for i := 0; i < capacity+3; i++ {
		st.PublishDiagnostics(snapshotForCycle(-100 + i))
	}

	_, hist := st.Diagnostics()
	require.Len(t, hist["rssi"], capacity)
	// oldest retained value is from cycle (total - capacity + 1), 1-based
	assert.Equal(t, float64(-100+3), *hist["rssi"][0])
}

// Readers must never observe a half-published snapshot: the RSSI, signal
// percent and router ping of any read must belong to the same cycle.
func TestConcurrentPublishAndRead_SnapshotsConsistent(t *testing.T) {
	st := New(history.DefaultSize)
	st.PublishDiagnostics(snapshotForCycle(-90))

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			st.PublishDiagnostics(snapshotForCycle(-90 + i%40))
			st.PublishNetworks([]scanner.AccessPoint{{SSID: "N", RSSI: -90 + i%40}})
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				current, hist := st.Diagnostics()
				assert.Equal(t, (current.RSSI+100)*2, current.SignalPercent)
				if !assert.NotNil(t, current.RouterPing) {
					return
				}
				assert.Equal(t, float64(current.RSSI), *current.RouterPing)
				assert.NotEmpty(t, hist["rssi"])
				_ = st.Networks()
			}
		}()
	}

	wg.Wait()
}
