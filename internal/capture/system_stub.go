//go:build !windows

package capture

import "errors"

// The debug-output facility is a Windows kernel feature; on other platforms
// the engine compiles but Start always fails. Keeping the package buildable
// everywhere lets the hosts and the protocol tests run on any OS.

var errUnsupported = errors.New("debug output capture requires Windows")

type stubSystem struct{}

func defaultSystem() system {
	return stubSystem{}
}

func (stubSystem) createMutex(string) (handle, error) { return 0, errUnsupported }
func (stubSystem) createEvent(string) (handle, error) { return 0, errUnsupported }

func (stubSystem) setEvent(handle) error { return errUnsupported }

func (stubSystem) waitEvent(handle) error { return errUnsupported }

func (stubSystem) createBuffer(string, int) (handle, []byte, error) {
	return 0, nil, errUnsupported
}

func (stubSystem) unmapBuffer([]byte) error { return errUnsupported }

func (stubSystem) closeHandle(handle) error { return errUnsupported }
