package profiler

import (
	"io"
	"log"
	"runtime"
	"time"
)

// Profiler logs one line per render. Renders only happen on input, so there is no frame rate
// to average.
type Profiler struct {
	logger         *log.Logger
	renders        int
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler writes to the standard logger's output.
func NewProfiler() *Profiler {
	return &Profiler{
		logger:   log.New(log.Writer(), "", log.LstdFlags),
		memStats: runtime.MemStats{},
	}
}

// SetOutput redirects the profiler lines.
func (p *Profiler) SetOutput(w io.Writer) {
	p.logger.SetOutput(w)
}

// Renders returns the number of renders recorded so far.
func (p *Profiler) Renders() int {
	return p.renders
}

// Record logs one render: its CPU encode time, the draw calls issued, heap usage, the bytes allocated
// since the previous render and the GC pauses that happened in between.
//
// Parameters:
//   - elapsed: the time spent encoding and submitting the frame
//   - drawCalls: the number of draw calls issued
//   - uploadBytes: the uniform bytes written to the GPU before the frame
func (p *Profiler) Record(elapsed time.Duration, drawCalls, uploadBytes int) {
	p.renders++

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	churnKB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024

	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a ring of the last 256 pauses.
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
			maxPauseUs = pause
		}
	}

	p.logger.Printf("profiler: render %d: %s, %d draws, %d B uploaded, heap %.2f MB, +%.1f KB allocated, gc %d (+%d, max %d µs), sys %.2f MB",
		p.renders, elapsed.Round(time.Microsecond), drawCalls, uploadBytes, allocMB, churnKB, gcCount, gcCount-p.lastGCCount, maxPauseUs, sysMB)

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
