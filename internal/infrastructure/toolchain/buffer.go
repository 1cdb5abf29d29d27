package toolchain

import (
	"bytes"
	"strings"
)

// maxOutputSize caps captured stdout and stderr per call.
const maxOutputSize = 10 * 1024 * 1024

// boundedBuffer is a bytes.Buffer wrapper that limits the size of written data.
type boundedBuffer struct {
	buffer    bytes.Buffer
	limit     int
	truncated bool
}

func newBoundedBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

// Write implements io.Writer. It never reports a short write.
func (b *boundedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buffer.Len()
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.truncated = true
		if _, err := b.buffer.Write(p[:remaining]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return b.buffer.Write(p)
}

func (b *boundedBuffer) String() string {
	return b.buffer.String()
}

func (b *boundedBuffer) Bytes() []byte {
	return b.buffer.Bytes()
}

// lastLine returns the last non-blank line.
func (b *boundedBuffer) lastLine() string {
	lines := strings.Split(strings.TrimRight(b.buffer.String(), "\r\n\t "), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
