package psconnector

import "sort"
import "sync"
import "time"

import "tsquorum/pkg/connhandler"
import "tsquorum/pkg/disconnector"
import "tsquorum/pkg/logger"
import "tsquorum/pkg/lsa"
import "tsquorum/pkg/priorsender"
import "tsquorum/pkg/quorum"
import "tsquorum/pkg/tserr"
import "tsquorum/pkg/wire"

//=========================================== Page Server Connector


var Log = clog.NewCustomLog("PsConnector")

const reconnectInterval = 5 * time.Second
const mainRetryInterval = 30 * time.Millisecond

/*
	PsConnector owns one ConnectionHandler per configured page server and
	runs a background daemon that keeps retrying IDLE handlers until they
	connect. It is append-only: the handler slice is built once from the
	host list at boot and never grows or shrinks afterwards, so readers
	never need to lock to iterate it -- only each handler's own internal
	state is mutable.
*/

type PsConnector struct {
	handlers []*connhandler.ConnectionHandler
	disc *disconnector.AsyncDisconnector
	gate *quorum.FlushGate
	quorumConsensus bool

	mainMutex sync.RWMutex
	mainIndex int

	stop chan struct{}
	stopped sync.WaitGroup
}

func New(hosts []string, connType wire.ConnType, sender *priorsender.PriorSender, quorumConsensus bool) *PsConnector {
	connector := &PsConnector{
		disc: disconnector.NewAsyncDisconnector(),
		quorumConsensus: quorumConsensus,
		stop: make(chan struct{}),
	}

	connector.gate = quorum.NewFlushGate(connector.computeConsensus)

	for _, hostPort := range hosts {
		variant := newActiveVariant(sender, connector.MainConnectionEndpoint)

		handler := connhandler.NewConnectionHandler(hostPort, connType, variant, connector.disc)
		handler.OnSavedLsaAdvance = func(h *connhandler.ConnectionHandler) { connector.gate.WakeupWaiters() }
		handler.OnStateChange = func(h *connhandler.ConnectionHandler, from, to connhandler.State) {
			connector.gate.WakeupWaiters()
			if to == connhandler.Connected { connector.ResetMainConnection() }
		}

		connector.handlers = append(connector.handlers, handler)
	}

	return connector
}

func (connector *PsConnector) Handlers() []*connhandler.ConnectionHandler {
	return connector.handlers
}

func (connector *PsConnector) FlushGate() *quorum.FlushGate {
	return connector.gate
}

/*
	Boot attempts an initial connection to every configured page server,
	in vector order, collecting errors rather than aborting on the first
	failure so a transaction server can come up with a subset of its
	replicas reachable and let the reconnect daemon pick up the rest.
*/

func (connector *PsConnector) Boot() []error {
	var errs []error

	for _, handler := range connector.handlers {
		if connErr := handler.Connect(); connErr != nil {
			Log.Warn("failed to connect to page server", handler.HostPort, ":", connErr.Error())
			errs = append(errs, connErr)
		}
	}

	connector.stopped.Add(1)
	go connector.reconnectDaemon()

	return errs
}

/*
	AwaitMainConnection retries ResetMainConnection on a short fixed
	interval until a connected handler is found or deadline elapses. Used
	right after Boot so a transaction server does not start serving
	before at least one page server has finished its catch-up handshake,
	bounded so a fully unreachable replica set does not hang boot forever.
*/

func (connector *PsConnector) AwaitMainConnection(deadline time.Duration) error {
	if connector.ResetMainConnection() == nil { return nil }

	timeout := time.After(deadline)
	ticker := time.NewTicker(mainRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <- timeout:
			return tserr.ErrNoPageServerAvailable
		case <- ticker.C:
			if connector.ResetMainConnection() == nil { return nil }
		}
	}
}

func (connector *PsConnector) reconnectDaemon() {
	defer connector.stopped.Done()

	ticker := time.NewTicker(reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <- connector.stop:
			return
		case <- ticker.C:
			connector.reconnectPass()
		}
	}
}

/*
	reconnectPass walks the handlers in vector order -- priority order --
	connecting one IDLE handler at a time rather than firing every
	reconnect concurrently, checking for a shutdown signal between each
	attempt so DisconnectAll is not held up by a slow dial.
*/

func (connector *PsConnector) reconnectPass() {
	for _, handler := range connector.handlers {
		select {
		case <- connector.stop:
			return
		default:
		}

		if handler.State() != connhandler.Idle { continue }

		if connErr := handler.Connect(); connErr != nil {
			Log.Warn("reconnect: page server", handler.HostPort, "still unreachable:", connErr.Error())
		}
	}
}

/*
	DisconnectAll transitions every connected handler towards IDLE and
	drains the disconnector so no disconnect job is left running after
	this returns. Used on graceful shutdown.
*/

func (connector *PsConnector) DisconnectAll() {
	close(connector.stop)
	connector.stopped.Wait()

	var wg sync.WaitGroup
	for _, handler := range connector.handlers {
		if handler.State() == connhandler.Connected {
			wg.Add(1)
			h := handler
			go func() {
				defer wg.Done()
				h.DisconnectAsync(true)
			}()
		}
	}
	wg.Wait()

	connector.disc.Stop()
}

/*
	OldestActiveMVCCID round-trips GET_OLDEST_ACTIVE_MVCCID against every
	connected page server and folds the replies down to the single oldest
	value -- the watermark no page server may vacuum past. A page server
	that fails to answer is skipped rather than treated as AllVisible, so
	one unreachable replica cannot mask a genuinely old watermark held by
	another.
*/

func (connector *PsConnector) OldestActiveMVCCID() lsa.MVCCID {
	oldest := lsa.AllVisible

	for _, handler := range connector.handlers {
		if !handler.IsConnected() { continue }

		resp, sendErr := handler.SendReceive(wire.Message{ Opcode: wire.OpGetOldestActiveMvcc })
		if sendErr != nil {
			Log.Warn("oldest active mvccid: page server", handler.HostPort, "unreachable:", sendErr.Error())
			continue
		}

		if mvcc := lsa.DecodeMvcc(resp.Payload); mvcc < oldest { oldest = mvcc }
	}

	return oldest
}

/*
	ConnectedCount returns how many handlers are currently CONNECTED.
*/

func (connector *PsConnector) ConnectedCount() int {
	count := 0
	for _, handler := range connector.handlers {
		if handler.State() == connhandler.Connected { count++ }
	}

	return count
}

/*
	computeConsensus implements the order-statistic at the heart of
	quorum-flush: among the connected handlers' saved LSAs, the
	(connected_count - quorum)-th smallest is the highest LSA guaranteed
	durable on at least quorum replicas. Returns quorumMet=false when
	fewer than quorum handlers are connected, matching compute_consensus_lsa
	returning NULL_LSA in that case.
*/

func (connector *PsConnector) computeConsensus() (lsa.LSA, bool) {
	var savedLsas []lsa.LSA
	for _, handler := range connector.handlers {
		if handler.State() == connhandler.Connected { savedLsas = append(savedLsas, handler.SavedLsa()) }
	}

	quorumSize := Quorum(len(connector.handlers))
	quorumMet := len(savedLsas) >= quorumSize

	consensus := lsa.Null
	kthIndex := -1
	if quorumMet {
		kthIndex = len(savedLsas) - quorumSize
		consensus = lsa.NthSmallest(savedLsas, kthIndex)
	}

	if connector.quorumConsensus { connector.logConsensusDecision(savedLsas, quorumSize, kthIndex, consensus) }

	return consensus, quorumMet
}

/*
	logConsensusDecision implements ER_LOG_QUORUM_CONSENSUS: every time
	compute_consensus_lsa runs, dump the sorted saved-LSA list and the
	decision it produced, to let an operator see exactly why the flush
	gate is or isn't advancing.
*/

func (connector *PsConnector) logConsensusDecision(savedLsas []lsa.LSA, quorumSize int, kthIndex int, consensus lsa.LSA) {
	sorted := make([]lsa.LSA, len(savedLsas))
	copy(sorted, savedLsas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	if kthIndex < 0 {
		Log.Debug("ER_LOG_QUORUM_CONSENSUS: saved_lsas=", sorted, "quorum=", quorumSize, "decision=quorum not met")
		return
	}

	Log.Debug("ER_LOG_QUORUM_CONSENSUS: saved_lsas=", sorted, "quorum=", quorumSize, "kth=", kthIndex, "decision=", consensus.String())
}

/*
	MainConnectionEndpoint returns the currently designated main
	connection's host:port, used to route round trips that must land on
	a single, consistent page server (pushes fan out through the prior
	sender's sinks instead), and as the catch-up source an incoming
	active connection replicates from.
*/

func (connector *PsConnector) MainConnectionEndpoint() (string, error) {
	connector.mainMutex.RLock()
	defer connector.mainMutex.RUnlock()

	if connector.mainIndex >= len(connector.handlers) { return "", tserr.ErrNoPageServerAvailable }

	handler := connector.handlers[connector.mainIndex]
	if !handler.IsConnected() { return "", tserr.ErrNoPageServerAvailable }

	return handler.HostPort, nil
}

/*
	ResetMainConnection selects the first handler in vector order -- the
	lowest index -- that is CONNECTED. Priority is position, not
	round-robin: a higher priority handler that reconnects always takes
	the main connection back from a lower priority one.
*/

func (connector *PsConnector) ResetMainConnection() error {
	connector.mainMutex.Lock()
	defer connector.mainMutex.Unlock()

	for i := 0; i < len(connector.handlers); i++ {
		if connector.handlers[i].IsConnected() {
			connector.mainIndex = i
			return nil
		}
	}

	return tserr.ErrNoPageServerAvailable
}
