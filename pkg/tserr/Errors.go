package tserr

import "errors"

//=========================================== Sentinel errors


var ErrHostPortParameter = errors.New("tserr: malformed host:port entry")
var ErrEmptyPageServerHostsConfig = errors.New("tserr: page server hosts configuration is empty")
var ErrNetPageserverConnection = errors.New("tserr: failed to establish network connection to page server")
var ErrNoPageServerConnection = errors.New("tserr: no page server connection present for requested operation")
var ErrNoPageServerAvailable = errors.New("tserr: no page server currently connected")
var ErrConnNoPageServerAvailable = errors.New("tserr: connection handler has no page server assigned")
var ErrCannotBeReached = errors.New("tserr: page server cannot be reached")
var ErrInvalidConnectionState = errors.New("tserr: connection handler is in an invalid state for this operation")
var ErrShortFrame = errors.New("tserr: wire frame shorter than declared length")
var ErrUnknownOpcode = errors.New("tserr: unknown wire opcode")
var ErrConnTypeMismatch = errors.New("tserr: page server echoed a different connection type than was sent")
var ErrCatchupFailed = errors.New("tserr: catch-up with page server did not complete")
var ErrBootInfoUnreachable = errors.New("tserr: page server did not answer GET_BOOT_INFO")
