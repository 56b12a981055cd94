package connhandler

import "tsquorum/pkg/wire"

//=========================================== Handler Variant


/*
	Variant supplies the behavior that differs between a transaction
	server's active connection handler (the one sending push requests and
	running catch-up) and a plain handler that connects immediately.
	Composition takes the place of the original C++ source's class
	inheritance: a ConnectionHandler embeds a Variant instead
	of being specialized by a subclass.
*/

type Variant interface {
	/*
		TransitionToConnected runs once the base handshake (connection type
		echo) has succeeded and the dispatch loop is already running, while
		the handler is still in CONNECTING. A variant that needs no further
		negotiation calls handler.CompleteConnect() itself before returning;
		a variant that needs an asynchronous handshake (catch-up) returns
		nil without completing and relies on the dispatch loop's
		CATCHUP_COMPLETE handling to call CompleteConnect(). A non-nil error aborts the
		connection and the handler falls back to IDLE.
	*/
	TransitionToConnected(handler *ConnectionHandler) error

	/*
		OnDisconnecting runs once the handler has entered DISCONNECTING,
		after the read side of the channel has been half-closed but
		before the channel is torn down. Never called with the state
		lock held, so it may safely submit further work.
	*/
	OnDisconnecting(handler *ConnectionHandler)

	/*
		ExtraHandlers returns opcode handlers beyond the base protocol
		(handshake, ping/pong, saved LSA, CATCHUP_COMPLETE, disconnect
		request) that this variant reacts to.
	*/
	ExtraHandlers() map[wire.Opcode]func(handler *ConnectionHandler, msg wire.Message)
}

/*
	BaseVariant is the zero-behavior Variant: it accepts the base protocol
	only and performs no extra work on connect or disconnect. Embed it to
	get sensible no-ops for methods a variant does not need to override.
*/

type BaseVariant struct{}

func (BaseVariant) TransitionToConnected(handler *ConnectionHandler) error { return handler.CompleteConnect() }
func (BaseVariant) OnDisconnecting(handler *ConnectionHandler) {}
func (BaseVariant) ExtraHandlers() map[wire.Opcode]func(handler *ConnectionHandler, msg wire.Message) { return nil }
