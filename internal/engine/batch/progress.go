package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks the progress of a batch render.
// It provides thread-safe access to progress metrics for UI updates.
type Progress struct {
	// TotalShots is the number of shots in the plan.
	TotalShots int

	// CompletedShots is the number of shots rendered so far.
	CompletedShots int

	// SkippedShots is the number of shots skipped because their output existed.
	SkippedShots int

	// StartTime is when the batch started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	// mu protects concurrent access to progress fields.
	mu sync.RWMutex
}

// NewProgress creates a new progress tracker for totalShots shots.
func NewProgress(totalShots int) *Progress {
	now := time.Now()
	return &Progress{
		TotalShots:     totalShots,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddCompleted records one rendered shot.
func (p *Progress) AddCompleted() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.CompletedShots++
	p.LastUpdateTime = time.Now()
}

// AddSkipped records one skipped shot.
func (p *Progress) AddSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SkippedShots++
	p.LastUpdateTime = time.Now()
}

// ElapsedTime returns the time elapsed since the batch started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return time.Since(p.StartTime)
}

// Snapshot returns a thread-safe copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalShots:      p.TotalShots,
		CompletedShots:  p.CompletedShots,
		SkippedShots:    p.SkippedShots,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteUnsafe(),
		ElapsedTime:     time.Since(p.StartTime),
		Remaining:       p.remainingUnsafe(),
		ShotsPerSecond:  p.shotsPerSecondUnsafe(),
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalShots      int
	CompletedShots  int
	SkippedShots    int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
	Remaining       time.Duration
	ShotsPerSecond  float64
}

// Done returns the number of shots rendered or skipped.
func (s ProgressSnapshot) Done() int {
	return s.CompletedShots + s.SkippedShots
}

// percentCompleteUnsafe calculates percent complete (0-100) without locking.
// Skipped shots count as done. Should only be called when already holding the lock.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalShots == 0 {
		return 0
	}
	return (float64(p.CompletedShots+p.SkippedShots) / float64(p.TotalShots)) * percentMultiplier
}

// remainingUnsafe estimates remaining time from the average time per
// rendered shot, without locking. It is 0 until the first shot is rendered.
func (p *Progress) remainingUnsafe() time.Duration {
	if p.CompletedShots == 0 {
		return 0
	}
	avg := time.Since(p.StartTime) / time.Duration(p.CompletedShots)
	left := p.TotalShots - p.CompletedShots - p.SkippedShots
	if left < 0 {
		left = 0
	}
	return avg * time.Duration(left)
}

// shotsPerSecondUnsafe calculates the render rate, excluding skipped shots,
// without locking.
func (p *Progress) shotsPerSecondUnsafe() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.CompletedShots) / elapsed
}
