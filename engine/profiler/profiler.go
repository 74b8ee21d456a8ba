package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// Profiler tracks frame rate, per-stage frame timing and memory statistics for performance
// monitoring. Outputs stats to the logger at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// stage totals since the last report, in first-seen order
	stages map[string]time.Duration
	order  []string
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often Tick reports.
//
// Parameters:
//   - d: the report interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithUpdateInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		stages:         make(map[string]time.Duration),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Record adds d to the running total of stage.
//
// Parameters:
//   - stage: the stage name
//   - d: the time spent in the stage
func (p *Profiler) Record(stage string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.stages[stage]; !ok {
		p.order = append(p.order, stage)
	}
	p.stages[stage] += d
}

// Measure starts timing stage and returns the function that stops it.
//
// Parameters:
//   - stage: the stage name
//
// Returns:
//   - func(): records the time since Measure was called
func (p *Profiler) Measure(stage string) func() {
	start := time.Now()
	return func() {
		p.Record(stage, time.Since(start))
	}
}

// StageAverage returns the average time per frame spent in stage since the last report.
//
// Parameters:
//   - stage: the stage name
//
// Returns:
//   - time.Duration: the per-frame average, or 0 if the stage was not recorded
func (p *Profiler) StageAverage(stage string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stages[stage] / time.Duration(max(p.frameCount, 1))
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, average time per stage, heap usage, allocation rate, GC count and
// pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	stageAttrs := make([]any, 0, len(p.order))
	for _, stage := range p.order {
		avg := p.stages[stage] / time.Duration(p.frameCount)
		stageAttrs = append(stageAttrs, slog.Float64(stage, float64(avg.Microseconds())/1000))
	}

	common.Logger().Info("profiler",
		slog.Float64("fps", fps),
		slog.Group("stage_ms", stageAttrs...),
		slog.Float64("heap_mb", allocMB),
		slog.Float64("alloc_rate_mb_s", allocRateMB),
		slog.Uint64("gc", uint64(gcCount)),
		slog.Uint64("gc_last_us", lastPauseUs),
		slog.Uint64("gc_max_us", maxPauseUs),
		slog.Float64("sys_mb", sysMB),
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	clear(p.stages)
	p.order = p.order[:0]
	return true
}
