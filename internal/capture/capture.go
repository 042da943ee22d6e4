package capture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Sink receives one captured message per invocation, on the engine's
// listening goroutine. A panic inside the sink is recovered and the message
// dropped; capture continues.
type Sink func(pid uint32, text string)

// Option configures an Engine.
type Option func(*core)

// WithMutexName overrides the exclusivity mutex name. Engines with distinct
// names do not contend for the mutex, but the channel names stay shared, so
// each producer write is still observed by at most one of them.
func WithMutexName(name string) Option {
	return func(c *core) {
		if name != "" {
			c.mutexName = name
		}
	}
}

// WithLogger sets the logger used for lifecycle and dispatch diagnostics.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *core) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// withSystem substitutes the kernel seam. Test-only.
func withSystem(sys system) Option {
	return func(c *core) {
		c.sys = sys
	}
}

// Engine captures system-wide debug-output strings and forwards them to a
// sink. The zero value is not usable; construct with New.
type Engine struct {
	c *core
}

// core carries all engine state. It is split from Engine so the finalizer
// registered by New can reach the state without keeping the Engine itself
// alive.
type core struct {
	mutexName string
	logger    *slog.Logger
	sys       system

	// mu serializes Start and Stop. The listening goroutine never takes it:
	// it reads running without the lock and rechecks after every wake.
	mu      sync.Mutex
	running atomic.Bool
	sink    Sink
	res     *resources
	done    chan struct{}

	// dataKick is stop's copy of the delivery event handle. Stop must not
	// reach into res for it: the listening goroutine's teardown zeroes the
	// resource set concurrently when the loop dies on its own.
	dataKick handle
}

// New creates a stopped Engine. A cleanup is registered so an engine that is
// garbage collected while running stops itself and releases its kernel
// objects; explicit Stop remains the contract, the cleanup is a safety net.
func New(opts ...Option) *Engine {
	c := &core{
		mutexName: DefaultMutexName,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sys:       defaultSystem(),
	}
	for _, opt := range opts {
		opt(c)
	}

	e := &Engine{c: c}
	runtime.AddCleanup(e, func(c *core) { _ = c.stop() }, c)
	return e
}

// Start acquires the exclusivity mutex and the shared channel, then launches
// the listening goroutine. It returns once the goroutine is launched.
//
// Errors: ErrAlreadyRunning if this engine is running, ErrAlreadyCaptured if
// another listener holds the mutex, and a wrapped ErrResourceUnavailable if
// a kernel object could not be created (nothing acquired by this call is
// left behind on that path).
func (e *Engine) Start(sink Sink) error {
	return e.c.start(sink)
}

// Stop shuts the listening goroutine down and blocks until it has exited and
// every kernel object is released. After Stop returns no further sink calls
// occur and another engine may acquire the same mutex name. Stopping an
// engine that is not running is a no-op.
func (e *Engine) Stop() error {
	return e.c.stop()
}

// Running reports whether the engine is currently capturing.
func (e *Engine) Running() bool {
	return e.c.running.Load()
}

func (c *core) start(sink Sink) error {
	if sink == nil {
		return errors.New("capture: nil sink")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return ErrAlreadyRunning
	}

	res := &resources{sys: c.sys}

	mutex, err := c.sys.createMutex(c.mutexName)
	if err != nil {
		if errors.Is(err, ErrAlreadyCaptured) {
			return fmt.Errorf("%w (mutex %q)", ErrAlreadyCaptured, c.mutexName)
		}
		return fmt.Errorf("%w: create mutex %q: %v", ErrResourceUnavailable, c.mutexName, err)
	}
	res.mutex = mutex

	if res.bufferReady, err = c.sys.createEvent(readyEventName); err != nil {
		res.release()
		return fmt.Errorf("%w: create event %s: %v", ErrResourceUnavailable, readyEventName, err)
	}
	if res.dataReady, err = c.sys.createEvent(dataEventName); err != nil {
		res.release()
		return fmt.Errorf("%w: create event %s: %v", ErrResourceUnavailable, dataEventName, err)
	}
	if res.buffer, res.view, err = c.sys.createBuffer(bufferName, BufferSize); err != nil {
		res.release()
		return fmt.Errorf("%w: map buffer %s: %v", ErrResourceUnavailable, bufferName, err)
	}

	c.sink = sink
	c.res = res
	c.dataKick = res.dataReady
	c.done = make(chan struct{})
	c.running.Store(true)

	go c.listen(res)

	c.logger.Debug("capture started", "mutex", c.mutexName)
	return nil
}

func (c *core) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return nil
	}

	c.running.Store(false)

	// Wake the listener out of its wait. The delivery event is shared
	// system-wide, so a different waiter can swallow the kick; keep kicking
	// until our own goroutine confirms it is gone. A kick landing on an
	// already-closed handle only yields an ignored error.
	kick := time.NewTicker(10 * time.Millisecond)
	defer kick.Stop()

	_ = c.sys.setEvent(c.dataKick)
	for {
		select {
		case <-c.done:
			c.res = nil
			c.sink = nil
			c.logger.Debug("capture stopped", "mutex", c.mutexName)
			return nil
		case <-kick.C:
			_ = c.sys.setEvent(c.dataKick)
		}
	}
}

// listen runs the capture state machine: arm the readiness event, wait for
// delivery, recheck the running flag, decode, dispatch, repeat. Teardown is
// deferred so every exit path, normal or not, releases the kernel objects
// exactly once before done is closed.
func (c *core) listen(res *resources) {
	defer close(c.done)
	defer res.release()
	// A loop that dies on a kernel error must leave the engine stopped, not
	// wedged in a running state no Stop call can reach.
	defer c.running.Store(false)

	for {
		if err := c.sys.setEvent(res.bufferReady); err != nil {
			c.logger.Error("arm readiness event", "error", err)
			return
		}
		if err := c.sys.waitEvent(res.dataReady); err != nil {
			c.logger.Error("wait for delivery event", "error", err)
			return
		}
		if !c.running.Load() {
			return
		}

		pid, text := decodeMessage(res.view)
		c.dispatch(pid, text)
	}
}

// dispatch hands one message to the sink, swallowing any panic. Losing a
// message to a misbehaving sink is preferred over killing the capture loop.
func (c *core) dispatch(pid uint32, text string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("sink panicked, message dropped", "pid", pid, "panic", r)
		}
	}()
	c.sink(pid, text)
}
