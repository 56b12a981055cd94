package psconnector

import "tsquorum/pkg/connhandler"
import "tsquorum/pkg/lsa"
import "tsquorum/pkg/priorsender"
import "tsquorum/pkg/wire"

//=========================================== Active Connection Handler Variant


const sentinelHostPort = ""

/*
	activeVariant is the transaction server's behavior for a page server
	connection. On connect it plugs a dedicated sink into the shared
	PriorSender so every record appended after this connection comes up
	is pushed straight to the page server, and it runs the asynchronous
	catch-up handshake instead of completing CONNECTED right away: the
	handler stays CONNECTING until the page server answers
	CATCHUP_COMPLETE over the dispatch loop. On disconnect the sink is
	unregistered so a dead connection stops receiving fan-out.
*/

type activeVariant struct {
	connhandler.BaseVariant
	sender *priorsender.PriorSender
	mainEndpoint func() (string, error)
	sink priorsender.Sink
}

func newActiveVariant(sender *priorsender.PriorSender, mainEndpoint func() (string, error)) *activeVariant {
	return &activeVariant{ sender: sender, mainEndpoint: mainEndpoint }
}

/*
	TransitionToConnected registers this connection's sink and sends
	START_CATCH_UP naming the page server currently backing the main
	connection, plus the LSA this sink has not yet been sent. If there is
	no main connection yet -- this is the first page server ever to come
	up -- there is no peer to catch up from, so instead of naming one the
	durable log is replayed straight into the sink from NULL_LSA, and the
	sentinel host with NULL_LSA is sent so the page server does not wait
	on a peer that does not exist.
*/

func (v *activeVariant) TransitionToConnected(handler *connhandler.ConnectionHandler) error {
	v.sink = func(record []byte) {
		handler.Send(wire.Message{ Opcode: wire.OpPushRequest, Payload: record })
	}

	unsentLsa := v.sender.AddSink(&v.sink)

	host := sentinelHostPort
	catchupLsa := lsa.Null

	if mainHost, mainErr := v.mainEndpoint(); mainErr == nil {
		host = mainHost
		catchupLsa = unsentLsa
	} else if replayErr := v.sender.ReplayFrom(lsa.Null, &v.sink); replayErr != nil {
		return replayErr
	}

	return handler.Send(wire.Message{
		Opcode: wire.OpStartCatchUp,
		Payload: encodeCatchUp(host, catchupLsa),
	})
}

func (v *activeVariant) OnDisconnecting(handler *connhandler.ConnectionHandler) {
	v.sender.RemoveSink(&v.sink)
}

/*
	encodeCatchUp packs the main connection's host:port ahead of the
	fixed width LSA the new connection should resume from. The LSA is
	always the trailing lsa.ByteSize bytes, so the host:port prefix may
	be any length including zero (the sentinel).
*/

func encodeCatchUp(hostPort string, at lsa.LSA) []byte {
	payload := make([]byte, 0, len(hostPort)+lsa.ByteSize)
	payload = append(payload, []byte(hostPort)...)
	payload = append(payload, at.Encode()...)

	return payload
}
