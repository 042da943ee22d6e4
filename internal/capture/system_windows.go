//go:build windows

package capture

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// winSystem binds the kernel seam to the real Windows objects.
type winSystem struct{}

func defaultSystem() system {
	return winSystem{}
}

func (winSystem) createMutex(name string) (handle, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}

	h, err := windows.CreateMutex(nil, false, p)
	if err == windows.ERROR_ALREADY_EXISTS {
		// The mutex pre-existed, so another listener owns capture. We only
		// opened an extra handle to it; give that back.
		_ = windows.CloseHandle(h)
		return 0, ErrAlreadyCaptured
	}
	if err != nil {
		return 0, err
	}
	return handle(h), nil
}

func (winSystem) createEvent(name string) (handle, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}

	// Auto-reset, initially unsignaled. ERROR_ALREADY_EXISTS still yields a
	// usable handle: the name may be kept alive by producers.
	h, err := windows.CreateEvent(nil, 0, 0, p)
	if err != nil && err != windows.ERROR_ALREADY_EXISTS {
		return 0, err
	}
	return handle(h), nil
}

func (winSystem) setEvent(h handle) error {
	return windows.SetEvent(windows.Handle(h))
}

func (winSystem) waitEvent(h handle) error {
	ev, err := windows.WaitForSingleObject(windows.Handle(h), windows.INFINITE)
	if err != nil {
		return err
	}
	if ev != windows.WAIT_OBJECT_0 {
		return fmt.Errorf("wait returned %#x", ev)
	}
	return nil
}

func (winSystem) createBuffer(name string, size int) (handle, []byte, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, nil, err
	}

	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, 0, uint32(size), p)
	if err != nil && err != windows.ERROR_ALREADY_EXISTS {
		return 0, nil, err
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		_ = windows.CloseHandle(h)
		return 0, nil, err
	}

	view := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return handle(h), view, nil
}

func (winSystem) unmapBuffer(view []byte) error {
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(unsafe.SliceData(view))))
}

func (winSystem) closeHandle(h handle) error {
	return windows.CloseHandle(windows.Handle(h))
}
