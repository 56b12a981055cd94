package connhandler

import "net"
import "time"

import "tsquorum/pkg/tserr"
import "tsquorum/pkg/wire"

//=========================================== Connection Lifecycle


const DialTimeout = 5 * time.Second
const RoundTripTimeout = wire.DefaultRoundTripTimeout

/*
	Connect dials the page server, performs the connection-type handshake,
	starts the dispatch loop, and runs the variant's connect hook. Follows
	IDLE -> CONNECTING -> CONNECTED, falling back to IDLE on any failure
	along the way so the caller's retry loop can simply call Connect again.
	The handler may still be CONNECTING when this returns -- the active
	variant only reaches CONNECTED once CATCHUP_COMPLETE arrives on the
	dispatch loop.
*/

func (handler *ConnectionHandler) Connect() error {
	if transErr := handler.transition(Connecting); transErr != nil { return transErr }

	conn, dialErr := net.DialTimeout("tcp", handler.HostPort, DialTimeout)
	if dialErr != nil {
		handler.transition(Idle)
		return tserr.ErrNetPageserverConnection
	}

	channel := wire.NewChannel(conn)
	handler.setChannel(channel)

	if handshakeErr := handler.handshake(channel); handshakeErr != nil {
		channel.Close()
		handler.setChannel(nil)
		handler.transition(Idle)
		return handshakeErr
	}

	go handler.dispatchLoop(channel)

	if variantErr := handler.variant.TransitionToConnected(handler); variantErr != nil {
		channel.Close()
		handler.setChannel(nil)
		handler.transition(Idle)
		return variantErr
	}

	return nil
}

/*
	handshake is the one exchange that happens before the dispatch loop is
	trusted with the connection: send our own connection type, and require
	the page server to echo it back unchanged.
*/

func (handler *ConnectionHandler) handshake(channel *wire.Channel) error {
	if sendErr := wire.SendConnType(channel, handler.ConnType); sendErr != nil { return sendErr }

	return wire.RecvEchoedConnType(channel, handler.ConnType)
}

/*
	dispatchLoop is the single reader goroutine for this handler's channel.
	It completes SendReceive round trips automatically (via channel.Dispatch),
	handles base opcodes inline, and defers to the variant for anything
	else. Any read error (including a clean EOF) drives the handler into
	DISCONNECTING.
*/

func (handler *ConnectionHandler) dispatchLoop(channel *wire.Channel) {
	extra := handler.variant.ExtraHandlers()

	onUnsolicited := func(msg wire.Message) {
		switch msg.Opcode {
		case wire.OpPing:
			channel.Send(wire.Message{ Opcode: wire.OpPong, Sequence: msg.Sequence })
		case wire.OpFlushedLsa:
			if decoded, decodeErr := decodeLsaPayload(msg.Payload); decodeErr == nil {
				handler.setSavedLsa(decoded)
			}
		case wire.OpCatchupComplete:
			handler.CompleteConnect()
		case wire.OpDisconnectRequest:
			handler.DisconnectAsync(true)
		default:
			if extra != nil {
				if fn, ok := extra[msg.Opcode]; ok { fn(handler, msg) }
			}
		}
	}

	if dispatchErr := channel.Dispatch(onUnsolicited); dispatchErr != nil {
		handler.DisconnectAsync(false)
	}
}

/*
	DisconnectAsync submits the actual teardown to the shared
	AsyncDisconnector so the caller (often the dispatch loop itself, on
	error) never blocks waiting for the socket to close. sendGoodbye
	requests a final SEND_DISCONNECT_MSG frame before the channel is torn
	down -- set for an operator-initiated or page-server-requested
	disconnect, unset when the channel already failed on its own (a read
	error, a dead dial) and there is nothing left to send it over.
*/

func (handler *ConnectionHandler) DisconnectAsync(sendGoodbye bool) {
	handler.disc.Submit(func() { handler.disconnectSync(sendGoodbye) })
}

/*
	disconnectSync moves the handler to DISCONNECTING before doing
	anything else, from either CONNECTED or CONNECTING -- transition()'s
	check-and-set under the state lock is what makes this idempotent:
	if two triggers race (a dispatch read error and an explicit
	DisconnectAsync call), only one of them observes a successful
	transition and proceeds to close the channel.
*/

func (handler *ConnectionHandler) disconnectSync(sendGoodbye bool) {
	from := handler.State()
	if from != Connected && from != Connecting { return }

	if transErr := handler.transition(Disconnecting); transErr != nil { return }

	channel := handler.getChannel()
	if channel != nil { channel.HalfCloseRead() }

	if sendGoodbye && channel != nil {
		channel.Send(wire.Message{ Opcode: wire.OpDisconnect, Payload: []byte{ byte(handler.ConnType) } })
	}

	handler.variant.OnDisconnecting(handler)

	if channel != nil { channel.Close() }
	handler.setChannel(nil)

	handler.transition(Idle)
}

/*
	Send writes a message to the page server over the current channel.
	Returns ErrNoPageServerConnection if no channel is installed.
*/

func (handler *ConnectionHandler) Send(msg wire.Message) error {
	channel := handler.getChannel()
	if channel == nil { return tserr.ErrNoPageServerConnection }

	return channel.Send(msg)
}

/*
	SendReceive performs a round trip request over the current channel,
	usable while CONNECTING (catch-up, boot info) or CONNECTED (live
	queries against an already-caught-up page server).
*/

func (handler *ConnectionHandler) SendReceive(msg wire.Message) (wire.Message, error) {
	channel := handler.getChannel()
	if channel == nil { return wire.Message{}, tserr.ErrNoPageServerConnection }

	return channel.SendReceive(msg, RoundTripTimeout)
}
