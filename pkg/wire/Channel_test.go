package wire

import "io"
import "net"
import "testing"
import "time"

import "tsquorum/pkg/tserr"

func TestSendReceiveRoundTrip(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	server := NewChannel(serverConn)
	client := NewChannel(clientConn)

	sent := Message{ Opcode: OpPushRequest, Sequence: 7, Payload: []byte("log-record") }

	go func() {
		if sendErr := client.Send(sent); sendErr != nil { t.Errorf("send error: %v", sendErr) }
	}()

	got, recvErr := server.Receive()
	if recvErr != nil { t.Fatalf("receive error: %v", recvErr) }

	if got.Opcode != sent.Opcode || got.Sequence != sent.Sequence || string(got.Payload) != string(sent.Payload) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, sent)
	}
}

func TestReceiveAfterCloseReturnsError(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	channel := NewChannel(serverConn)

	clientConn.Close()
	serverConn.Close()

	_, recvErr := channel.Receive()
	if recvErr == nil { t.Errorf("expected an error reading from a closed connection") }
}

func TestSendReceiveCompletesThroughDispatch(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	server := NewChannel(serverConn)
	client := NewChannel(clientConn)

	go server.Dispatch(func(msg Message) {
		server.Respond(msg, []byte("pong"))
	})

	go client.Dispatch(func(msg Message) {})

	resp, sendErr := client.SendReceive(Message{ Opcode: OpGetBootInfo }, time.Second)
	if sendErr != nil { t.Fatalf("unexpected error: %v", sendErr) }

	if resp.Opcode != OpRespond || string(resp.Payload) != "pong" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSendReceiveTimesOutWithNoResponder(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	go io.Copy(io.Discard, serverConn)

	client := NewChannel(clientConn)

	_, sendErr := client.SendReceive(Message{ Opcode: OpGetBootInfo }, 20*time.Millisecond)
	if sendErr == nil { t.Errorf("expected a timeout error when nothing responds") }
}

func TestDispatchRoutesUnsolicitedMessagesSeparately(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	client := NewChannel(clientConn)
	server := NewChannel(serverConn)

	received := make(chan Message, 1)
	go server.Dispatch(func(msg Message) { received <- msg })

	pushErr := client.Send(Message{ Opcode: OpPushRequest, Payload: []byte("record") })
	if pushErr != nil { t.Fatalf("unexpected send error: %v", pushErr) }

	select {
	case msg := <- received:
		if msg.Opcode != OpPushRequest { t.Errorf("unexpected opcode: %v", msg.Opcode) }
	case <- time.After(time.Second):
		t.Fatalf("unsolicited message never delivered")
	}
}

func TestConnTypeHandshakeMismatchErrors(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	server := NewChannel(serverConn)
	client := NewChannel(clientConn)

	go SendConnType(server, ConnTypePassive)

	handshakeErr := RecvEchoedConnType(client, ConnTypeActive)
	if handshakeErr != tserr.ErrConnTypeMismatch {
		t.Errorf("expected ErrConnTypeMismatch, got %v", handshakeErr)
	}
}
