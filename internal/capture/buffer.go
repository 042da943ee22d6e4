package capture

import (
	"bytes"
	"encoding/binary"
)

// Names of the kernel objects producers rendezvous on. These are fixed by
// the debug-output protocol and must not be altered: every producer on the
// system locates the channel by these exact names.
const (
	bufferName     = "DBWIN_BUFFER"
	readyEventName = "DBWIN_BUFFER_READY"
	dataEventName  = "DBWIN_DATA_READY"
)

// DefaultMutexName is the exclusivity mutex name used when no override is
// supplied. Unlike the channel names above it is ours to choose; supplying
// distinct names via WithMutexName lets independent engines coexist, though
// they still contend for the single shared channel.
const DefaultMutexName = "debugtap.capture"

const (
	// BufferSize is the fixed size of the shared channel in bytes.
	BufferSize = 4096

	// pidFieldSize is the width of the leading process-id field.
	pidFieldSize = 4

	// MaxTextSize is the longest text a producer can fit after the pid field,
	// leaving room for the terminating NUL.
	MaxTextSize = BufferSize - pidFieldSize - 1
)

// decodeMessage reads one message from a shared-channel view: a 4-byte
// little-endian process id followed by NUL-terminated single-byte text.
// A missing terminator means the text fills the remainder of the region.
func decodeMessage(view []byte) (pid uint32, text string) {
	pid = binary.LittleEndian.Uint32(view[:pidFieldSize])

	payload := view[pidFieldSize:]
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	return pid, string(payload)
}
