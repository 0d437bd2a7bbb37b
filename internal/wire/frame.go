// Package wire implements the UECda protocol endpoint (spec §4.5,
// component C5): the fixed 480-byte matrix frame, the cell layout that
// carries game state over it (spec §6), and the connect handshake.
//
// Uses a pool-a-buffer-then-copy-out pattern to keep frame encode/decode
// allocation-light under concurrent per-connection use. The wire format
// itself is an externally mandated fixed byte layout (8x15 big-endian
// int32, no framing bytes), so this reaches for encoding/binary rather
// than a msgpack codec: msgpack's self-describing encoding has nothing
// to offer a format with no length prefix and no field tags.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/uecda-go/daihinmin/internal/card"
)

// FrameSize is the wire size of one matrix message: 8 rows * 15 columns
// * 4 bytes per big-endian int32 (spec §4.5).
const FrameSize = 8 * 15 * 4

var bufferPool = sync.Pool{
	New: func() any { return make([]byte, FrameSize) },
}

// WriteFrame serializes m to w as a single 480-byte big-endian frame.
func WriteFrame(w io.Writer, m *card.Matrix) error {
	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf) //nolint:staticcheck // buf is reused, not retained

	off := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 15; col++ {
			binary.BigEndian.PutUint32(buf[off:off+4], uint32(m[row][col]))
			off += 4
		}
	}
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one 480-byte frame from r into m.
func ReadFrame(r io.Reader, m *card.Matrix) error {
	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("wire: read frame: %w", err)
	}
	off := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 15; col++ {
			m[row][col] = int32(binary.BigEndian.Uint32(buf[off : off+4]))
			off += 4
		}
	}
	return nil
}

// Encode returns m serialized as a standalone 480-byte slice (used by
// tests).
func Encode(m *card.Matrix) []byte {
	var buf bytes.Buffer
	buf.Grow(FrameSize)
	_ = WriteFrame(&buf, m) // bytes.Buffer.Write never errors
	return buf.Bytes()
}

// Decode parses a standalone 480-byte slice into a Matrix.
func Decode(b []byte) (card.Matrix, error) {
	var m card.Matrix
	if err := ReadFrame(bytes.NewReader(b), &m); err != nil {
		return m, err
	}
	return m, nil
}
