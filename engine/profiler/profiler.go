package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is the summary of one reporting interval.
type Stats struct {
	// UpdatesPerSecond is the Tick rate over the interval.
	UpdatesPerSecond float64

	// Entities is the entity count of the most recent Record.
	Entities int

	// AvgUpdate and MaxUpdate are the mean and worst recorded update costs.
	AvgUpdate time.Duration
	MaxUpdate time.Duration

	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	NumGC       uint32
}

// Profiler tracks update rate, per-update cost and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	entities    int
	costTotal   time.Duration
	costMax     time.Duration
	costSamples int

	last Stats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often Tick reports.
//
// Parameters:
//   - interval: the reporting interval
func (p *Profiler) SetInterval(interval time.Duration) {
	p.updateInterval = interval
}

// Record adds one update's entity count and cost to the current interval.
//
// Parameters:
//   - entities: the number of entities updated
//   - cost: the wall time the update took
func (p *Profiler) Record(entities int, cost time.Duration) {
	p.entities = entities
	p.costTotal += cost
	p.costMax = max(p.costMax, cost)
	p.costSamples++
}

// Last returns the stats of the most recent reporting interval.
//
// Returns:
//   - Stats: the last logged stats, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per update to track update timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: update rate, entity count, update cost, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}
	seconds := max(elapsed.Seconds(), 1e-9)

	runtime.ReadMemStats(&p.memStats)
	// TotalAlloc only grows, so its delta is the allocation churn of the interval.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	var avg time.Duration
	if p.costSamples > 0 {
		avg = p.costTotal / time.Duration(p.costSamples)
	}
	p.last = Stats{
		UpdatesPerSecond: float64(p.frameCount) / seconds,
		Entities:         p.entities,
		AvgUpdate:        avg,
		MaxUpdate:        p.costMax,
		HeapMB:           float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:      float64(allocDelta) / 1024 / 1024 / seconds,
		SysMB:            float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:            gcCount,
	}

	log.Printf("[Profiler] UPS: %.2f | Entities: %d | Update: avg %.3f ms, max %.3f ms | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.last.UpdatesPerSecond, p.last.Entities,
		float64(avg.Microseconds())/1000, float64(p.costMax.Microseconds())/1000,
		p.last.HeapMB, p.last.AllocRateMB, gcCount, lastPauseUs, maxPauseUs, p.last.SysMB)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.costTotal, p.costMax, p.costSamples = 0, 0, 0
	return true
}
