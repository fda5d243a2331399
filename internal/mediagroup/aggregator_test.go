package mediagroup

import (
	"testing"
	"time"
)

func TestAggregator_FlushesAlbumOnce(t *testing.T) {
	flushed := make(chan Group, 4)
	a := New(Options{Debounce: 20 * time.Millisecond, OnFlush: func(g Group) { flushed <- g }})

	a.Add(Item{ChatID: 1, UserID: 7, MediaGroupID: "g", File: File{FileID: "a"}})
	a.Add(Item{ChatID: 1, UserID: 7, MediaGroupID: "g", Caption: "face", File: File{FileID: "b"}})
	a.Add(Item{ChatID: 2, MediaGroupID: "g", File: File{FileID: "c"}})
	a.Add(Item{ChatID: 1, MediaGroupID: "", File: File{FileID: "ignored"}})
	if a.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", a.Pending())
	}

	got := map[int64]Group{}
	for i := 0; i < 2; i++ {
		select {
		case g := <-flushed:
			got[g.ChatID] = g
		case <-time.After(time.Second):
			t.Fatal("album not flushed")
		}
	}

	g := got[1]
	if len(g.Files) != 2 || g.Files[0].FileID != "a" || g.Files[1].FileID != "b" {
		t.Errorf("files = %+v", g.Files)
	}
	if g.Caption != "face" || g.UserID != 7 {
		t.Errorf("group = %+v", g)
	}
	if len(got[2].Files) != 1 {
		t.Errorf("second chat files = %+v", got[2].Files)
	}

	select {
	case g := <-flushed:
		t.Errorf("unexpected extra flush: %+v", g)
	case <-time.After(50 * time.Millisecond):
	}
	if a.Pending() != 0 {
		t.Errorf("pending after flush = %d", a.Pending())
	}
}

func TestAggregator_FlushesEarlyAtMaxFiles(t *testing.T) {
	var got []Group
	a := New(Options{Debounce: time.Hour, MaxFiles: 2, OnFlush: func(g Group) { got = append(got, g) }})

	a.Add(Item{ChatID: 1, MediaGroupID: "g", File: File{FileID: "a"}})
	if len(got) != 0 {
		t.Fatal("flushed before the cap")
	}
	a.Add(Item{ChatID: 1, MediaGroupID: "g", File: File{FileID: "b"}})
	if len(got) != 1 || len(got[0].Files) != 2 {
		t.Fatalf("got = %+v", got)
	}
	if a.Pending() != 0 {
		t.Errorf("pending = %d", a.Pending())
	}
}

func TestAggregator_StopDropsPending(t *testing.T) {
	flushed := make(chan Group, 1)
	a := New(Options{Debounce: 10 * time.Millisecond, OnFlush: func(g Group) { flushed <- g }})

	a.Add(Item{ChatID: 1, MediaGroupID: "g", File: File{FileID: "a"}})
	a.Stop()
	a.Add(Item{ChatID: 1, MediaGroupID: "h", File: File{FileID: "b"}})

	select {
	case g := <-flushed:
		t.Errorf("flushed after Stop: %+v", g)
	case <-time.After(50 * time.Millisecond):
	}
	if a.Pending() != 0 {
		t.Errorf("pending = %d", a.Pending())
	}
}
