// Package capture implements a system-wide listener for the Windows
// debug-output facility (the channel behind OutputDebugString).
//
// Any process on the machine can emit a diagnostic string through that
// facility; normally only an attached debugger sees it. This package plays
// the debugger's role without attaching to anything: it owns the well-known
// kernel objects the producers rendezvous on and forwards every captured
// string to a caller-supplied sink.
//
// # Main Types
//
//   - [Engine]: owns the kernel objects and the listening goroutine
//   - [Sink]: callback invoked once per captured (pid, text) pair
//   - [Option]: functional options for New (mutex name, logger)
//
// # Protocol
//
// Producers and the capturer meet on three named kernel objects with fixed,
// protocol-mandated names: a 4096-byte file mapping (DBWIN_BUFFER) and two
// auto-reset events (DBWIN_BUFFER_READY, DBWIN_DATA_READY). The capturer
// signals BUFFER_READY when the mapping may be written, a producer writes
// one message and signals DATA_READY, and the cycle repeats. The names are
// not configurable: unmodified producer processes locate the channel by
// name and know nothing about this engine.
//
// Exclusivity is enforced by a separate named mutex. Only one engine per
// mutex name can be running system-wide; the well-known channel names are
// deliberately not scoped by it.
//
// # Thread Safety
//
// Start, Stop and Running are safe for concurrent use. The sink runs on the
// engine's listening goroutine; one sink call completes before the next
// begins, and a panicking sink is recovered without stopping capture.
//
// # Basic Usage
//
//	eng := capture.New()
//
//	err := eng.Start(func(pid uint32, text string) {
//	    fmt.Printf("[%d] %s\n", pid, text)
//	})
//	if err != nil {
//	    return err
//	}
//	defer eng.Stop()
package capture
