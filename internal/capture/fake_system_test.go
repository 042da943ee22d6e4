package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeEvent models a named auto-reset event: setting a signaled event is a
// no-op, and a set wakes at most one waiter.
type fakeEvent struct {
	ch chan struct{}
}

func newFakeEvent() *fakeEvent {
	return &fakeEvent{ch: make(chan struct{}, 1)}
}

func (e *fakeEvent) set() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// fakeObject tracks one open handle so tests can assert that every handle a
// Start call acquired is closed again.
type fakeObject struct {
	kind string
	name string
}

// fakeSystem is an in-memory stand-in for the kernel's named-object
// namespace. Engines sharing one fakeSystem see the same mutexes, events and
// buffers, which is what lets tests exercise the system-wide protocol
// (exclusivity, shared channel names, competing waiters) on any OS.
type fakeSystem struct {
	mu      sync.Mutex
	next    handle
	objects map[handle]*fakeObject
	mutexes map[string]bool
	events  map[string]*fakeEvent
	buffers map[string][]byte

	// failEvent, when set to an event name, makes createEvent fail for that
	// name. failBuffer makes createBuffer fail. Used to drive the
	// partial-allocation error paths of Start.
	failEvent  string
	failBuffer bool
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		objects: make(map[handle]*fakeObject),
		mutexes: make(map[string]bool),
		events:  make(map[string]*fakeEvent),
		buffers: make(map[string][]byte),
	}
}

func (f *fakeSystem) alloc(kind, name string) handle {
	f.next++
	h := f.next
	f.objects[h] = &fakeObject{kind: kind, name: name}
	return h
}

func (f *fakeSystem) createMutex(name string) (handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mutexes[name] {
		return 0, ErrAlreadyCaptured
	}
	f.mutexes[name] = true
	return f.alloc("mutex", name), nil
}

func (f *fakeSystem) createEvent(name string) (handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if name == f.failEvent {
		return 0, errors.New("injected event failure")
	}
	if f.events[name] == nil {
		f.events[name] = newFakeEvent()
	}
	return f.alloc("event", name), nil
}

func (f *fakeSystem) setEvent(h handle) error {
	ev, err := f.resolveEvent(h)
	if err != nil {
		return err
	}
	ev.set()
	return nil
}

func (f *fakeSystem) waitEvent(h handle) error {
	ev, err := f.resolveEvent(h)
	if err != nil {
		return err
	}
	<-ev.ch
	return nil
}

func (f *fakeSystem) resolveEvent(h handle) (*fakeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[h]
	if !ok || obj.kind != "event" {
		return nil, fmt.Errorf("invalid event handle %d", h)
	}
	return f.events[obj.name], nil
}

func (f *fakeSystem) createBuffer(name string, size int) (handle, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failBuffer {
		return 0, nil, errors.New("injected mapping failure")
	}
	if f.buffers[name] == nil {
		f.buffers[name] = make([]byte, size)
	}
	return f.alloc("mapping", name), f.buffers[name], nil
}

func (f *fakeSystem) unmapBuffer(view []byte) error {
	if view == nil {
		return errors.New("unmap of nil view")
	}
	return nil
}

func (f *fakeSystem) closeHandle(h handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[h]
	if !ok {
		return fmt.Errorf("close of unknown handle %d", h)
	}
	delete(f.objects, h)
	if obj.kind == "mutex" {
		delete(f.mutexes, obj.name)
	}
	// Named events and mappings outlive individual handles; only the
	// engine's handle bookkeeping changes here.
	return nil
}

// liveHandles reports how many handles are currently open. Zero after Stop
// (or after a failed Start) means nothing leaked.
func (f *fakeSystem) liveHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// emit plays the role of an external producer: wait for the capturer to arm
// the buffer, write one message, signal delivery.
func (f *fakeSystem) emit(t *testing.T, pid uint32, text string) {
	t.Helper()

	f.mu.Lock()
	ready := f.events[readyEventName]
	data := f.events[dataEventName]
	buf := f.buffers[bufferName]
	f.mu.Unlock()

	if ready == nil || data == nil || buf == nil {
		t.Fatal("channel objects do not exist; is an engine running?")
	}

	select {
	case <-ready.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("producer timed out waiting for the buffer-ready event")
	}

	binary.LittleEndian.PutUint32(buf[:pidFieldSize], pid)
	n := copy(buf[pidFieldSize:len(buf)-1], text)
	buf[pidFieldSize+n] = 0
	data.set()
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}
