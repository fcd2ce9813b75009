package progress

import "math"

// Op names the operation an update belongs to.
type Op string

const (
	OpWrite  Op = "write"
	OpVerify Op = "verify"
)

// Update is a single progress event.
type Update struct {
	Op      Op
	Done    int64
	Total   int64
	Percent float64
}

// Reporter receives progress updates
type Reporter interface {
	Report(u Update)
}

// Tracker encapsulates progress updates for one operation over a known total
type Tracker struct {
	op       Op
	reporter Reporter
	total    int64
}

// NewTracker creates a progress tracker; a nil reporter discards updates
func NewTracker(reporter Reporter, op Op, total int64) *Tracker {
	return &Tracker{
		op:       op,
		reporter: reporter,
		total:    total,
	}
}

// Update reports done out of the tracker's total
func (pt *Tracker) Update(done int64) {
	if pt.total <= 0 || pt.reporter == nil {
		return
	}
	pt.reporter.Report(Update{
		Op:      pt.op,
		Done:    done,
		Total:   pt.total,
		Percent: Percent(done, pt.total),
	})
}

// Percent returns done/total*100 rounded to two decimals and clamped to [0, 100].
func Percent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := math.Round(float64(done)/float64(total)*100*100) / 100
	return max(0, min(p, 100))
}
