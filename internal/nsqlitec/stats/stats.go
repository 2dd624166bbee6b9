package stats

import (
	"sort"
	"sync"
	"time"
)

// retention is how long per-minute stats are kept.
const retention = 24 * time.Hour

// Stat holds the counters of one minute, or the totals of a session.
type Stat struct {
	Minute     time.Time
	Reads      int64
	Writes     int64
	Savepoints int64
	Commits    int64
	Rollbacks  int64
	Errors     int64
}

// LoadedStats is a snapshot of SessionStats.
type LoadedStats struct {
	StartedAt time.Time
	Uptime    time.Duration
	Totals    Stat
	// Stats holds one entry per minute with activity, newest first.
	Stats []Stat
}

// SessionStats counts what a shell session did, per minute and in total.
type SessionStats struct {
	mu sync.Mutex

	minutes   map[time.Time]Stat
	totals    Stat
	startedAt time.Time
	now       func() time.Time
}

// NewSessionStats creates an empty SessionStats starting now.
func NewSessionStats() *SessionStats {
	return newSessionStats(time.Now)
}

func newSessionStats(now func() time.Time) *SessionStats {
	return &SessionStats{
		minutes:   map[time.Time]Stat{},
		startedAt: now(),
		now:       now,
	}
}

func (s *SessionStats) IncReads()      { s.add(func(st *Stat) { st.Reads++ }) }
func (s *SessionStats) IncWrites()     { s.add(func(st *Stat) { st.Writes++ }) }
func (s *SessionStats) IncSavepoints() { s.add(func(st *Stat) { st.Savepoints++ }) }
func (s *SessionStats) IncCommits()    { s.add(func(st *Stat) { st.Commits++ }) }
func (s *SessionStats) IncRollbacks()  { s.add(func(st *Stat) { st.Rollbacks++ }) }
func (s *SessionStats) IncErrors()     { s.add(func(st *Stat) { st.Errors++ }) }

// add updates the stats for the current minute and the totals, dropping
// minutes older than the retention.
func (s *SessionStats) add(update func(*Stat)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	key := now.Truncate(time.Minute)

	current := s.minutes[key]
	current.Minute = key
	update(&current)
	s.minutes[key] = current
	update(&s.totals)

	cutoff := now.Add(-retention)
	for minute := range s.minutes {
		if minute.Before(cutoff) {
			delete(s.minutes, minute)
		}
	}
}

// Load returns a snapshot of the stats with at most the last limit minutes.
// A limit of zero or less returns every minute kept.
func (s *SessionStats) Load(limit int) LoadedStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]Stat, 0, len(s.minutes))
	for _, stat := range s.minutes {
		all = append(all, stat)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[j].Minute.Before(all[i].Minute)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	return LoadedStats{
		StartedAt: s.startedAt,
		Uptime:    s.now().Sub(s.startedAt).Round(time.Second),
		Totals:    s.totals,
		Stats:     all,
	}
}
