package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()
	for range 3 {
		stop := Track("test.Slow")
		time.Sleep(time.Millisecond)
		stop()
	}
	Track("test.Fast")()

	s, ok := Lookup("test.Slow")
	if !ok {
		t.Fatalf("no stats for test.Slow")
	}
	if s.Calls != 3 || s.Total < 3*time.Millisecond {
		t.Errorf("test.Slow = %d calls / %v", s.Calls, s.Total)
	}
	if s.Mean() < time.Millisecond {
		t.Errorf("Mean = %v", s.Mean())
	}

	snap := Snapshot()
	if len(snap) != 2 || snap[0].Name != "test.Slow" {
		t.Fatalf("Snapshot = %+v", snap)
	}
	top := TopN(1)
	if !strings.HasPrefix(top, "test.Slow:") || !strings.HasSuffix(top, "/3") {
		t.Errorf("TopN(1) = %q", top)
	}
	if TopN(10) == top {
		t.Errorf("TopN(10) should list both stages")
	}

	Reset()
	if len(Snapshot()) != 0 {
		t.Errorf("Reset left entries")
	}
	if (Stat{}).Mean() != 0 {
		t.Errorf("zero Stat mean")
	}
}
