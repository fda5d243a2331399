package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"topaz-studio/internal/studio"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestHub_ServeStreamsSessionEvents(t *testing.T) {
	hub := NewHub(Options{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, r.URL.Query().Get("s"), map[string]string{"hello": "world"})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?s=abc"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello map[string]string
	if err := conn.ReadJSON(&hello); err != nil || hello["hello"] != "world" {
		t.Fatalf("initial = %v, %v", hello, err)
	}

	waitFor(t, func() bool { return hub.Subscribers("abc") == 1 })
	hub.Publish(studio.Event{Session: "other", Type: studio.EventState, Slot: -1})
	hub.Publish(studio.Event{Session: "abc", Type: studio.EventImage, Slot: 2})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev studio.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != studio.EventImage || ev.Slot != 2 || ev.Session != "abc" {
		t.Errorf("event = %+v", ev)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Subscribers("abc") == 0 })
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(Options{})
	c := hub.subscribe("s")
	for i := 0; i < clientBuffer; i++ {
		hub.Publish(studio.Event{Session: "s", Slot: i})
	}
	if hub.Subscribers("s") != 1 {
		t.Fatal("client dropped before buffer was full")
	}
	hub.Publish(studio.Event{Session: "s", Slot: 99})
	if hub.Subscribers("s") != 0 {
		t.Fatal("slow client was not dropped")
	}

	n := 0
	for msg := range c.send {
		var ev studio.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatal(err)
		}
		n++
	}
	if n != clientBuffer {
		t.Errorf("buffered = %d, want %d", n, clientBuffer)
	}

	// unsubscribing an already dropped client is a no-op
	hub.unsubscribe("s", c)
}
