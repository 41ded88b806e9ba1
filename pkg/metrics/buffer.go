package metrics

import (
	"sync"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

// RingBuffer is a fixed-size buffer that overwrites its oldest sample.
type RingBuffer struct {
	mu     sync.RWMutex
	points []models.PercentPoint
	pos    int
	count  int
}

// NewBuffer creates a new PointStore holding up to size samples.
func NewBuffer(size int) PointStore {
	if size <= 0 {
		size = 1
	}

	return &RingBuffer{
		points: make([]models.PercentPoint, size),
	}
}

// Add records a sample, evicting the oldest when full.
func (b *RingBuffer) Add(timestamp time.Time, percentage float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.points[b.pos] = models.PercentPoint{
		Timestamp:  timestamp,
		Percentage: percentage,
	}

	b.pos = (b.pos + 1) % len(b.points)

	if b.count < len(b.points) {
		b.count++
	}
}

// GetPoints returns the stored samples, newest first.
func (b *RingBuffer) GetPoints() []models.PercentPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := len(b.points)
	points := make([]models.PercentPoint, 0, b.count)

	for i := 0; i < b.count; i++ {
		idx := (b.pos - i - 1 + size) % size
		points = append(points, b.points[idx])
	}

	return points
}

// GetLastPoint returns the newest sample, or nil when empty.
func (b *RingBuffer) GetLastPoint() *models.PercentPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	p := b.points[(b.pos-1+len(b.points))%len(b.points)]

	return &p
}
