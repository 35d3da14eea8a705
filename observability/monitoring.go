package observability

import (
	"os"
	"runtime"
	"sync/atomic"

	"github.com/shirou/gopsutil/process"
)

// Snapshot aggregates the counters and process metrics for logs and /stats.
type Snapshot struct {
	ActiveSessions int     `json:"active_sessions"`
	Started        uint64  `json:"started"`
	Completed      uint64  `json:"completed"`
	Cancelled      uint64  `json:"cancelled"`
	Failed         uint64  `json:"failed"`
	RamBytes       uint64  `json:"ram_bytes"`
	CpuPercent     float64 `json:"cpu_percent"`
	AllocMemMb     uint64  `json:"alloc_mem_mb"`
	NumGoroutine   int     `json:"num_goroutine"`
}

// SessionStats counts session outcomes. A nil *SessionStats ignores updates.
type SessionStats struct {
	started   atomic.Uint64
	completed atomic.Uint64
	cancelled atomic.Uint64
	failed    atomic.Uint64
	process   *process.Process
}

func NewSessionStats() *SessionStats {
	s := &SessionStats{}
	// Process metrics are optional: a nil process leaves them at 0
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.process = p
	}
	return s
}

func (s *SessionStats) IncrStarted() {
	if s != nil {
		s.started.Add(1)
	}
}

func (s *SessionStats) IncrCompleted() {
	if s != nil {
		s.completed.Add(1)
	}
}

func (s *SessionStats) IncrCancelled() {
	if s != nil {
		s.cancelled.Add(1)
	}
}

func (s *SessionStats) IncrFailed() {
	if s != nil {
		s.failed.Add(1)
	}
}

// Snapshot reads the counters and samples the process.
func (s *SessionStats) Snapshot(activeSessions int) Snapshot {
	snapshot := Snapshot{ActiveSessions: activeSessions, NumGoroutine: runtime.NumGoroutine()}
	if s == nil {
		return snapshot
	}
	snapshot.Started = s.started.Load()
	snapshot.Completed = s.completed.Load()
	snapshot.Cancelled = s.cancelled.Load()
	snapshot.Failed = s.failed.Load()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	snapshot.AllocMemMb = m.Alloc / 1024 / 1024

	if s.process != nil {
		if memInfo, err := s.process.MemoryInfo(); err == nil {
			snapshot.RamBytes = memInfo.RSS
		}
		if cpu, err := s.process.CPUPercent(); err == nil {
			snapshot.CpuPercent = cpu
		}
	}
	return snapshot
}
