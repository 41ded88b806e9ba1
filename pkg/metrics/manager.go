package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

// DefaultRecentPoints is the per-device sample count kept in memory, a bit
// over a day at the default poll interval.
const DefaultRecentPoints = 150

var _ RecentCollector = (*Manager)(nil)

// Manager keeps a ring buffer of recent samples per device.
type Manager struct {
	devices       sync.Map // device name -> PointStore
	retention     int
	activeDevices int64
}

func NewManager(retention int) *Manager {
	if retention <= 0 {
		retention = DefaultRecentPoints
	}

	return &Manager{
		retention: retention,
	}
}

func (m *Manager) AddReading(device string, timestamp time.Time, percentage float64) {
	store, loaded := m.devices.LoadOrStore(device, NewBuffer(m.retention))
	if !loaded {
		atomic.AddInt64(&m.activeDevices, 1)
	}

	store.(PointStore).Add(timestamp, percentage)
}

// GetReadings returns the device's samples, newest first, or nil for a
// device never seen.
func (m *Manager) GetReadings(device string) []models.PercentPoint {
	store, ok := m.devices.Load(device)
	if !ok {
		return nil
	}

	return store.(PointStore).GetPoints()
}

// GetLastReading returns the device's newest sample, or nil for a device
// never seen.
func (m *Manager) GetLastReading(device string) *models.PercentPoint {
	store, ok := m.devices.Load(device)
	if !ok {
		return nil
	}

	return store.(PointStore).GetLastPoint()
}

// Devices lists every device with at least one sample, sorted.
func (m *Manager) Devices() []string {
	var names []string

	m.devices.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})

	sort.Strings(names)

	return names
}

func (m *Manager) GetActiveDevices() int64 {
	return atomic.LoadInt64(&m.activeDevices)
}
