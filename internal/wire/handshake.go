package wire

import (
	"errors"
	"io"

	"github.com/uecda-go/daihinmin/internal/card"
)

// ErrVersionMismatch is returned when a client's declared protocol
// version isn't ProtocolVersion (spec §4.5, §7: fails the handshake,
// closes the connection).
var ErrVersionMismatch = errors.New("wire: protocol version mismatch")

// SendHello writes the server's one-shot handshake announcement: the
// protocol version and the seat being assigned to this connection.
func SendHello(w io.Writer, seat int) error {
	var m card.Matrix
	m[0][ColVersionOrTurn] = ProtocolVersion
	m[0][ColActiveSeat] = int32(seat)
	return WriteFrame(w, &m)
}

// ReceiveHello reads the client's handshake reply: its declared version
// and its name (echoed in the reserved region). A version mismatch is
// ErrVersionMismatch; the caller closes the connection in that case.
func ReceiveHello(r io.Reader) (version int32, name string, err error) {
	var m card.Matrix
	if err := ReadFrame(r, &m); err != nil {
		return 0, "", err
	}
	version = m[0][ColVersionOrTurn]
	if version != ProtocolVersion {
		return version, "", ErrVersionMismatch
	}
	return version, DecodeName(&m), nil
}
