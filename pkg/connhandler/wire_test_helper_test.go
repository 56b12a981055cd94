package connhandler

import "tsquorum/pkg/wire"

func wireMessageStub() wire.Message {
	return wire.Message{ Opcode: wire.OpPing }
}
