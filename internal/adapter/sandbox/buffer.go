package sandbox

import "bytes"

// cappedBuffer keeps at most max bytes and silently discards the rest.
// Total written bytes are still counted so truncation is detectable.
type cappedBuffer struct {
	buf     bytes.Buffer
	max     int64
	written int64
}

func newCappedBuffer(max int64) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.written += int64(len(p))
	if b.max > 0 {
		remain := b.max - int64(b.buf.Len())
		if remain <= 0 {
			return len(p), nil
		}
		if int64(len(p)) > remain {
			b.buf.Write(p[:remain])
			return len(p), nil
		}
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}

// Truncated reports whether output exceeded the cap
func (b *cappedBuffer) Truncated() bool {
	return b.max > 0 && b.written > b.max
}
