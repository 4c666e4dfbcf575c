package scheduler

import (
	"sync/atomic"
	"time"
)

// Stats tracks scan-loop counters using atomic operations for
// lock-free concurrency. The gateway reads snapshots for /status.
type Stats struct {
	scans        atomic.Int64
	scanFailures atomic.Int64
	tasksOK      atomic.Int64
	tasksFailed  atomic.Int64
	lastScan     atomic.Int64 // unix nanos, 0 = never
	lastDueCount atomic.Int64
}

func (s *Stats) recordScan(now time.Time, due int) {
	s.scans.Add(1)
	s.lastScan.Store(now.UnixNano())
	s.lastDueCount.Store(int64(due))
}

func (s *Stats) recordScanFailure() { s.scanFailures.Add(1) }
func (s *Stats) recordTaskSuccess() { s.tasksOK.Add(1) }
func (s *Stats) recordTaskFailure() { s.tasksFailed.Add(1) }

// Snapshot is a consistent point-in-time view of the counters.
type Snapshot struct {
	Scans        int64     `json:"scans"`
	ScanFailures int64     `json:"scan_failures"`
	TasksOK      int64     `json:"tasks_ok"`
	TasksFailed  int64     `json:"tasks_failed"`
	LastScan     time.Time `json:"last_scan"`
	LastDueCount int64     `json:"last_due_count"`
}

// Snapshot returns the current counter values. A zero LastScan means
// no scan has completed yet.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Scans:        s.scans.Load(),
		ScanFailures: s.scanFailures.Load(),
		TasksOK:      s.tasksOK.Load(),
		TasksFailed:  s.tasksFailed.Load(),
		LastDueCount: s.lastDueCount.Load(),
	}
	if ns := s.lastScan.Load(); ns != 0 {
		snap.LastScan = time.Unix(0, ns).UTC()
	}
	return snap
}
