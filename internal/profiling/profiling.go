package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Process-wide timing totals for meshing and generation stages.

// Stat is the accumulated time and call count of one named stage.
type Stat struct {
	Name  string
	Total time.Duration
	Calls int
}

// Mean is the average duration per call.
func (s Stat) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

var (
	mu     sync.Mutex
	totals = make(map[string]*Stat)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("meshing.Optimize")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s, ok := totals[name]
		if !ok {
			s = &Stat{Name: name}
			totals[name] = s
		}
		s.Total += d
		s.Calls++
		mu.Unlock()
	}
}

// Reset clears all totals.
func Reset() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals, slowest first.
func Snapshot() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Lookup returns the totals recorded under name.
func Lookup(name string) (Stat, bool) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := totals[name]
	if !ok {
		return Stat{}, false
	}
	return *s, true
}

// TopN formats the n slowest stages.
// Example: "meshing.Optimize:4.2ms/12, world.GenerateChunk:2.1ms/12"
func TopN(n int) string {
	list := Snapshot()
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, s := range list[:n] {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", s.Name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
