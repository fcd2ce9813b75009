package progress

import (
	"context"
	"log/slog"
	"sync"
)

// Broadcaster fans a single stream of updates out to every subscribed reporter
type Broadcaster struct {
	mu        sync.RWMutex
	reporters []Reporter
	last      map[Op]Update
}

// NewBroadcaster creates a broadcaster with the given initial reporters.
// Nil reporters are skipped.
func NewBroadcaster(reporters ...Reporter) *Broadcaster {
	b := &Broadcaster{last: make(map[Op]Update)}
	for _, r := range reporters {
		b.subscribe(r)
	}
	return b
}

func (b *Broadcaster) subscribe(r Reporter) {
	if r == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reporters = append(b.reporters, r)
}

// Report implements Reporter
func (b *Broadcaster) Report(u Update) {
	b.mu.Lock()
	b.last[u.Op] = u
	reporters := make([]Reporter, len(b.reporters))
	copy(reporters, b.reporters)
	b.mu.Unlock()

	for _, r := range reporters {
		r.Report(u)
	}
}

// Last returns the most recent update seen for op
func (b *Broadcaster) Last(op Op) (Update, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.last[op]
	return u, ok
}

// LogReporter writes every update at debug level and each crossed tenth of
// the total at info level.
type LogReporter struct {
	log      *slog.Logger
	ctx      context.Context
	mu       sync.Mutex
	lastStep map[Op]int
}

// NewLogReporter creates a reporter logging through log with attributes from ctx
func NewLogReporter(ctx context.Context, log *slog.Logger) *LogReporter {
	if log == nil {
		log = slog.Default()
	}
	return &LogReporter{
		log:      log.With("component", "progress"),
		ctx:      ctx,
		lastStep: make(map[Op]int),
	}
}

func (lr *LogReporter) Report(u Update) {
	lr.log.DebugContext(lr.ctx, "progress", "op", u.Op, "done", u.Done, "total", u.Total, "percent", u.Percent)

	step := int(u.Percent) / 10
	lr.mu.Lock()
	prev, seen := lr.lastStep[u.Op]
	if seen && step <= prev {
		lr.mu.Unlock()
		return
	}
	lr.lastStep[u.Op] = step
	lr.mu.Unlock()

	lr.log.InfoContext(lr.ctx, "progress", "op", u.Op, "percent", u.Percent)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(u Update)

func (f ReporterFunc) Report(u Update) { f(u) }
