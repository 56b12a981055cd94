package wire

import "encoding/binary"
import "io"
import "net"
import "sync"
import "sync/atomic"
import "time"

import "tsquorum/pkg/tserr"

//=========================================== Wire Channel


/*
	Channel wraps a net.Conn with the frame codec plus a sequence-number
	multiplexer: SendReceive registers a waiter keyed by sequence number,
	and Dispatch's read loop routes any incoming OpRespond frame to that
	waiter instead of handing it to the unsolicited-message callback.
	Writes are serialized with a mutex since a single connection handler
	may have multiple goroutines writing concurrently (a push fan-out and
	a round trip request in flight at once); Dispatch is the only reader,
	so no read lock is needed.
*/

type Channel struct {
	conn net.Conn
	writeMutex sync.Mutex

	seq uint64

	pendingMutex sync.Mutex
	pending map[uint64]chan Message
}

const MaxFrameSize = 64 * 1024 * 1024

const DefaultRoundTripTimeout = 10 * time.Second

func NewChannel(conn net.Conn) *Channel {
	return &Channel{
		conn: conn,
		pending: make(map[uint64]chan Message),
	}
}

func (ch *Channel) RemoteAddr() net.Addr { return ch.conn.RemoteAddr() }

func (ch *Channel) nextSequence() uint64 {
	return atomic.AddUint64(&ch.seq, 1)
}

/*
	Send writes a single framed message to the underlying connection as-is,
	with whatever sequence number the caller set (0 for fire-and-forget,
	an echoed request sequence for a response). Never held across blocking
	work beyond the write itself.
*/

func (ch *Channel) Send(msg Message) error {
	frame := make([]byte, LengthPrefixSize+HeaderSize+len(msg.Payload))

	binary.LittleEndian.PutUint32(frame[0:4], uint32(HeaderSize+len(msg.Payload)))
	frame[4] = byte(msg.Opcode)
	binary.LittleEndian.PutUint64(frame[5:13], msg.Sequence)
	copy(frame[13:], msg.Payload)

	ch.writeMutex.Lock()
	defer ch.writeMutex.Unlock()

	_, writeErr := ch.conn.Write(frame)
	return writeErr
}

/*
	SendReceive assigns the request a fresh sequence number, registers a
	waiter for it, sends it, and blocks until Dispatch's read loop delivers
	a matching OpRespond frame or the timeout expires. Used for every
	round trip the protocol defines: GET_BOOT_INFO, GET_OLDEST_ACTIVE_MVCCID,
	and any other request/response exchange layered over the same
	connection the unsolicited push traffic flows over.
*/

func (ch *Channel) SendReceive(msg Message, timeout time.Duration) (Message, error) {
	seq := ch.nextSequence()
	msg.Sequence = seq

	respCh := make(chan Message, 1)

	ch.pendingMutex.Lock()
	ch.pending[seq] = respCh
	ch.pendingMutex.Unlock()

	defer func() {
		ch.pendingMutex.Lock()
		delete(ch.pending, seq)
		ch.pendingMutex.Unlock()
	}()

	if sendErr := ch.Send(msg); sendErr != nil { return Message{}, sendErr }

	select {
	case resp := <- respCh:
		return resp, nil
	case <- time.After(timeout):
		return Message{}, tserr.ErrCannotBeReached
	}
}

/*
	Respond answers a request received via Dispatch with an OpRespond
	frame carrying the same sequence number, so the requester's
	SendReceive waiter resolves.
*/

func (ch *Channel) Respond(to Message, payload []byte) error {
	return ch.Send(Message{ Opcode: OpRespond, Sequence: to.Sequence, Payload: payload })
}

/*
	Dispatch is the single reader loop for the channel. Every frame is
	either an OpRespond completing a pending SendReceive, or an
	unsolicited message handed to onUnsolicited. Runs until a read error
	(including a clean EOF), which it returns to the caller.
*/

func (ch *Channel) Dispatch(onUnsolicited func(Message)) error {
	for {
		msg, readErr := ch.Receive()
		if readErr != nil { return readErr }

		if msg.Opcode == OpRespond {
			ch.pendingMutex.Lock()
			respCh, ok := ch.pending[msg.Sequence]
			ch.pendingMutex.Unlock()

			if ok {
				respCh <- msg
				continue
			}
		}

		onUnsolicited(msg)
	}
}

/*
	Receive blocks until a full frame has arrived and decodes it. Exposed
	directly (besides Dispatch) for the pre-Dispatch handshake, which
	needs a single blocking read before the multiplexed read loop starts.
*/

func (ch *Channel) Receive() (Message, error) {
	lengthBuf := make([]byte, LengthPrefixSize)
	if _, readErr := io.ReadFull(ch.conn, lengthBuf); readErr != nil { return Message{}, readErr }

	length := binary.LittleEndian.Uint32(lengthBuf)
	if length < HeaderSize || length > MaxFrameSize { return Message{}, tserr.ErrShortFrame }

	body := make([]byte, length)
	if _, readErr := io.ReadFull(ch.conn, body); readErr != nil { return Message{}, readErr }

	return Message{
		Opcode: Opcode(body[0]),
		Sequence: binary.LittleEndian.Uint64(body[1:9]),
		Payload: body[9:],
	}, nil
}

func (ch *Channel) Close() error { return ch.conn.Close() }

/*
	HalfCloseRead stops incoming frames without tearing down the ability to
	still flush queued outgoing writes, mirroring the DISCONNECTING state's
	"stop incoming communication" requirement. Only meaningful over TCP.
*/

func (ch *Channel) HalfCloseRead() error {
	if tcpConn, ok := ch.conn.(*net.TCPConn); ok { return tcpConn.CloseRead() }
	return ch.conn.Close()
}

/*
	SendConnType and RecvEchoedConnType implement the pre-Dispatch handshake:
	the dialing side sends its own connection type and expects the same
	value echoed back before anything else is trusted on the connection.
*/

func SendConnType(ch *Channel, connType ConnType) error {
	return ch.Send(Message{ Opcode: OpConnType, Payload: []byte{ byte(connType) } })
}

func RecvEchoedConnType(ch *Channel, sent ConnType) error {
	msg, readErr := ch.Receive()
	if readErr != nil { return readErr }

	if msg.Opcode != OpConnType || len(msg.Payload) != 1 || ConnType(msg.Payload[0]) != sent {
		return tserr.ErrConnTypeMismatch
	}

	return nil
}
