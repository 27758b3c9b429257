package mail

import "time"

// Stats are the running counters derived from folded decisions.
// Failed messages count as processed but have no counter of their own.
type Stats struct {
	TotalProcessed int       `json:"total_processed"`
	TotalReplied   int       `json:"total_replied"`
	TotalIgnored   int       `json:"total_ignored"`
	LastRun        time.Time `json:"last_run"`
}

// Fold accumulates one terminal message into s. It is not idempotent:
// folding the same message twice counts it twice.
func Fold(s Stats, m Message, now time.Time) Stats {
	s.TotalProcessed++
	switch m.Status {
	case StatusReplied:
		s.TotalReplied++
	case StatusIgnored:
		s.TotalIgnored++
	}
	s.LastRun = now
	return s
}

// Failed derives the number of processed messages that were neither replied nor ignored.
func (s Stats) Failed() int {
	return s.TotalProcessed - s.TotalReplied - s.TotalIgnored
}

// LastRunLabel formats LastRun for display, "Never" before the first fold.
func (s Stats) LastRunLabel() string {
	if s.LastRun.IsZero() {
		return "Never"
	}
	return s.LastRun.Local().Format(time.TimeOnly)
}
