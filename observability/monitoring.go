// Package observability samples the health of a running server for operators.
package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// queueAlertRatio is the queue fill ratio above which every sample is logged as a warning.
const queueAlertRatio = 0.8

// Stats is one sample of the server health.
type Stats struct {
	OnlineUsers   int       `json:"online_users"`
	QueueSize     int       `json:"queue_size"`
	QueueCapacity int       `json:"queue_capacity"`
	DroppedEvents uint64    `json:"dropped_events"`
	Goroutines    int       `json:"goroutines"`
	AllocMemMb    uint64    `json:"alloc_mem_mb"`
	NumGC         uint32    `json:"num_gc"`
	CPUPercent    float64   `json:"cpu_percent"`
	RSSMb         uint64    `json:"rss_mb"`
	SampledAt     time.Time `json:"sampled_at"`
}

type Presence interface {
	OnlineUsers() []string
}

type Queue interface {
	Pending() int
	Capacity() int
	Dropped() uint64
}

// Monitor is a worker sampling presence, fan-out backlog and process usage at a fixed interval.
type Monitor struct {
	log      *slog.Logger
	presence Presence
	queue    Queue
	interval time.Duration
	proc     *process.Process

	mu     sync.RWMutex
	latest Stats
}

func NewMonitor(log *slog.Logger, presence Presence, queue Queue, interval time.Duration) *Monitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process metrics unavailable", "error", err)
		proc = nil
	}
	return &Monitor{
		log:      log,
		presence: presence,
		queue:    queue,
		interval: interval,
		proc:     proc,
	}
}

func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Sample()
	for {
		select {
		case <-ctx.Done():
			m.log.Debug("Context done, stopping monitor")
			return nil
		case <-ticker.C:
			stats := m.Sample()
			if stats.QueueCapacity > 0 && float64(stats.QueueSize) >= queueAlertRatio*float64(stats.QueueCapacity) {
				m.log.Warn("Broadcast queue nearly full",
					"queue_size", stats.QueueSize,
					"queue_capacity", stats.QueueCapacity,
					"dropped_events", stats.DroppedEvents)
			}
		}
	}
}

// Sample takes a new sample and keeps it as the latest one.
func (m *Monitor) Sample() Stats {
	stats := Stats{
		OnlineUsers:   len(m.presence.OnlineUsers()),
		QueueSize:     m.queue.Pending(),
		QueueCapacity: m.queue.Capacity(),
		DroppedEvents: m.queue.Dropped(),
		Goroutines:    goruntime.NumGoroutine(),
		SampledAt:     time.Now().UTC(),
	}

	var mem goruntime.MemStats
	goruntime.ReadMemStats(&mem)
	stats.AllocMemMb = mem.Alloc / 1024 / 1024
	stats.NumGC = mem.NumGC

	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
		if info, err := m.proc.MemoryInfo(); err == nil && info != nil {
			stats.RSSMb = info.RSS / 1024 / 1024
		}
	}

	m.mu.Lock()
	m.latest = stats
	m.mu.Unlock()

	m.log.Debug("Stats sampled",
		"online_users", stats.OnlineUsers,
		"queue_size", stats.QueueSize,
		"goroutines", stats.Goroutines,
		"mem_mb", stats.AllocMemMb)
	return stats
}

func (m *Monitor) Latest() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Handler serves the latest sample as JSON.
func (m *Monitor) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m.Latest())
	})
}
