// Package autosync schedules the remote spreadsheet sync to run once at
// startup and then at every UTC midnight.
package autosync

import (
	"time"
)

type Scheduler struct {
	// Run executes one sync. It is called synchronously from the scheduler
	// goroutine, so runs never overlap.
	Run func()
}

// Start launches the schedule: run immediately once, wait until the next UTC
// midnight, then run once every 24 hours.
func (s *Scheduler) Start() {
	go func() {
		s.Run()

		now := time.Now().UTC()
		nextMidnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
		time.Sleep(time.Until(nextMidnight))

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			s.Run()
			<-ticker.C
		}
	}()
}
