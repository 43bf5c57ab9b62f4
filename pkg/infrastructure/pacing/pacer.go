package pacing

import "time"

// SleepPacer implements service.Pacer by blocking the calling goroutine for
// a fixed delay. The whole process pauses: downloads are sequential and
// pacing is the only suspension point between them.
type SleepPacer struct {
	delay time.Duration
}

// NewSleepPacer creates a pacer with the given delay between downloads.
func NewSleepPacer(delay time.Duration) *SleepPacer {
	return &SleepPacer{delay: delay}
}

// Pause blocks for the configured delay.
func (p *SleepPacer) Pause() {
	time.Sleep(p.delay)
}
