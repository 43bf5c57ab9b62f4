package entity

import "time"

// Metrics represents the progress of one batch download run.
type Metrics struct {
	Requested      int // raw URLs handed to the run
	Skipped        int // duplicates and already-downloaded addresses
	Queued         int // listings left to download after filtering
	Processed      int
	Succeeded      int
	Failed         int
	CurrentAddress string
	StartTime      time.Time
	LastUpdateTime time.Time
}
