package studio

import (
	"sync"
	"time"
)

type EventType string

const (
	EventState   EventType = "state"
	EventImage   EventType = "image"
	EventScripts EventType = "scripts"
	EventAudio   EventType = "audio"
	EventBusy    EventType = "busy"
	EventError   EventType = "error"
	EventStock   EventType = "microstock"
)

// Event tells subscribers which part of a session changed. Slot is -1 when
// the event is not about one output slot. Seq increases by one per
// mutation of the session and events are published in Seq order.
type Event struct {
	Session string    `json:"session"`
	Seq     uint64    `json:"seq,omitempty"`
	Type    EventType `json:"type"`
	Slot    int       `json:"slot"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier receives workspace events. Publish is called with the workspace
// locked, so it must not block or call back into the workspace.
type Notifier interface {
	Publish(ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

// Workspace guards one session's State. Every mutation goes through Update
// and is published.
type Workspace struct {
	id     string
	notify Notifier

	mu        sync.Mutex
	st        State
	seq       uint64
	updatedAt time.Time
}

func NewWorkspace(id string, notify Notifier) *Workspace {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Workspace{id: id, notify: notify, st: NewState(), updatedAt: time.Now()}
}

func (w *Workspace) ID() string { return w.id }

func (w *Workspace) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.Clone()
}

// UpdatedAt is the time of the last mutation.
func (w *Workspace) UpdatedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

func (w *Workspace) Update(fn func(*State)) State {
	return w.apply(EventState, -1, fn)
}

// Modify is Update for edits that can be rejected. A non-nil error from fn
// publishes nothing; fn must return it before touching the state.
func (w *Workspace) Modify(fn func(*State) error) (State, error) {
	return w.mutate(EventState, -1, fn)
}

// SwitchMode changes the mode unless a project run is in flight.
func (w *Workspace) SwitchMode(mode Mode) (State, error) {
	return w.mutate(EventState, -1, func(st *State) error {
		if st.Generating {
			return ErrBusy
		}
		st.SwitchMode(mode)
		return nil
	})
}

func (w *Workspace) apply(typ EventType, slot int, fn func(*State)) State {
	out, _ := w.mutate(typ, slot, func(st *State) error {
		if fn != nil {
			fn(st)
		}
		return nil
	})
	return out
}

// mutate runs fn under the lock. A non-nil error leaves the state as fn
// left it and publishes nothing.
func (w *Workspace) mutate(typ EventType, slot int, fn func(*State) error) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := fn(&w.st); err != nil {
		return w.st.Clone(), err
	}
	w.seq++
	w.updatedAt = time.Now()
	msg := ""
	if typ == EventError {
		msg = w.st.Error
	}
	w.notify.Publish(Event{Session: w.id, Seq: w.seq, Type: typ, Slot: slot, Message: msg, At: w.updatedAt})
	return w.st.Clone(), nil
}

// begin flips the generating flag. It fails with ErrBusy while a project
// run or a single-slot operation is in flight.
func (w *Workspace) begin() error {
	_, err := w.mutate(EventBusy, -1, func(st *State) error {
		if st.Generating || st.slotBusy() {
			return ErrBusy
		}
		st.Generating = true
		st.Error = ""
		return nil
	})
	return err
}

func (w *Workspace) end() {
	w.apply(EventBusy, -1, func(st *State) { st.Generating = false })
}

// claimSlot marks slot id as processing unless a project run owns the
// workspace. With create set a placeholder is made for an empty slot.
func (w *Workspace) claimSlot(id int, create bool) error {
	_, err := w.mutate(EventImage, id, func(st *State) error {
		if st.Generating {
			return ErrBusy
		}
		st.Error = ""
		st.markProcessing(id, true, create)
		return nil
	})
	return err
}

func (w *Workspace) releaseSlot(id int) {
	w.apply(EventImage, id, func(st *State) { st.markProcessing(id, false, false) })
}

func (w *Workspace) fail(msg string) {
	w.apply(EventError, -1, func(st *State) { st.Error = msg })
}
