package capture

// handle identifies a kernel object owned by the engine. The zero value
// means "absent" and is never issued for a live object.
type handle uintptr

// system abstracts the named kernel objects the capture protocol lives on.
// The engine's state machine, lifecycle and error paths are written against
// this seam; system_windows.go binds it to the real kernel and tests supply
// an in-memory fake that simulates system-wide names and producers.
type system interface {
	// createMutex creates or opens the named exclusivity mutex. It returns
	// ErrAlreadyCaptured when the mutex already existed, i.e. another
	// listener holds it.
	createMutex(name string) (handle, error)

	// createEvent creates or opens a named auto-reset event. Opening an
	// event that already exists is not an error: producers may race us to
	// creation, and a previous listener's producers can keep the name alive.
	createEvent(name string) (handle, error)

	// setEvent signals the event, waking at most one waiter.
	setEvent(h handle) error

	// waitEvent blocks indefinitely until the event is signaled.
	waitEvent(h handle) error

	// createBuffer creates or opens the named file mapping of the given size
	// and maps a readable view of it.
	createBuffer(name string, size int) (handle, []byte, error)

	// unmapBuffer releases a view obtained from createBuffer.
	unmapBuffer(view []byte) error

	// closeHandle releases a mutex, event or mapping handle.
	closeHandle(h handle) error
}

// resources bundles the kernel objects acquired by one Start call so that a
// single release path serves both the listening goroutine's teardown and the
// failure branches of Start.
type resources struct {
	sys system

	mutex       handle
	bufferReady handle
	dataReady   handle
	buffer      handle
	view        []byte
}

// release tears down whatever subset of the objects was acquired. Each field
// is zeroed once released, so calling release on a partially built set (or
// calling it twice) is safe.
func (r *resources) release() {
	if r.bufferReady != 0 {
		_ = r.sys.closeHandle(r.bufferReady)
		r.bufferReady = 0
	}
	if r.dataReady != 0 {
		_ = r.sys.closeHandle(r.dataReady)
		r.dataReady = 0
	}
	if r.view != nil {
		_ = r.sys.unmapBuffer(r.view)
		r.view = nil
	}
	if r.buffer != 0 {
		_ = r.sys.closeHandle(r.buffer)
		r.buffer = 0
	}
	if r.mutex != 0 {
		_ = r.sys.closeHandle(r.mutex)
		r.mutex = 0
	}
}
