package connhandler

import "sync"

import "github.com/google/uuid"

import "tsquorum/pkg/disconnector"
import "tsquorum/pkg/logger"
import "tsquorum/pkg/lsa"
import "tsquorum/pkg/tserr"
import "tsquorum/pkg/wire"

//=========================================== Connection Handler


var Log = clog.NewCustomLog("ConnectionHandler")

/*
	ConnectionHandler owns one TCP connection to a single page server and
	drives it through the Idle/Connecting/Connected/Disconnecting state
	machine. Lock discipline: the state lock is always acquired before the
	channel lock, and neither lock is ever held across blocking I/O -- a
	Send/Receive call always happens with both locks released.
*/

type ConnectionHandler struct {
	ID string
	HostPort string
	ConnType wire.ConnType

	stateMutex sync.RWMutex
	state State

	channelMutex sync.RWMutex
	channel *wire.Channel

	savedLsaMutex sync.RWMutex
	savedLsa lsa.LSA

	variant Variant
	disc *disconnector.AsyncDisconnector

	OnStateChange func(handler *ConnectionHandler, from, to State)
	OnSavedLsaAdvance func(handler *ConnectionHandler)
}

func NewConnectionHandler(hostPort string, connType wire.ConnType, variant Variant, disc *disconnector.AsyncDisconnector) *ConnectionHandler {
	return &ConnectionHandler{
		ID: uuid.New().String(),
		HostPort: hostPort,
		ConnType: connType,
		state: Idle,
		savedLsa: lsa.Null,
		variant: variant,
		disc: disc,
	}
}

func (handler *ConnectionHandler) State() State {
	handler.stateMutex.RLock()
	defer handler.stateMutex.RUnlock()

	return handler.state
}

func (handler *ConnectionHandler) IsConnected() bool {
	return handler.State() == Connected
}

func (handler *ConnectionHandler) SavedLsa() lsa.LSA {
	handler.savedLsaMutex.RLock()
	defer handler.savedLsaMutex.RUnlock()

	return handler.savedLsa
}

func (handler *ConnectionHandler) setSavedLsa(value lsa.LSA) {
	handler.savedLsaMutex.Lock()
	advanced := handler.savedLsa.Less(value)
	if advanced { handler.savedLsa = value }
	handler.savedLsaMutex.Unlock()

	if advanced && handler.OnSavedLsaAdvance != nil { handler.OnSavedLsaAdvance(handler) }
}

/*
	transition moves the handler to a new state under the state lock,
	validating the edge, and fires OnStateChange (if set) after releasing
	the lock so the callback may itself call back into the handler.
*/

func (handler *ConnectionHandler) transition(to State) error {
	handler.stateMutex.Lock()
	from := handler.state
	if !canTransition(from, to) {
		handler.stateMutex.Unlock()
		return tserr.ErrInvalidConnectionState
	}
	handler.state = to
	handler.stateMutex.Unlock()

	if handler.OnStateChange != nil { handler.OnStateChange(handler, from, to) }

	return nil
}

/*
	CompleteConnect finishes the CONNECTING -> CONNECTED transition. The
	base variant calls this synchronously from inside TransitionToConnected;
	the active variant instead returns from TransitionToConnected
	without completing and leaves this to the CATCHUP_COMPLETE handler in
	the dispatch loop, once the page server signals catch-up is done.
*/

func (handler *ConnectionHandler) CompleteConnect() error {
	return handler.transition(Connected)
}

/*
	getChannel returns the current channel under a read lock. Caller must
	not assume the channel stays valid past the call -- always re-fetch
	before each Send/Receive rather than caching the pointer across a
	blocking wait.
*/

func (handler *ConnectionHandler) getChannel() *wire.Channel {
	handler.channelMutex.RLock()
	defer handler.channelMutex.RUnlock()

	return handler.channel
}

func (handler *ConnectionHandler) setChannel(channel *wire.Channel) {
	handler.channelMutex.Lock()
	handler.channel = channel
	handler.channelMutex.Unlock()
}
