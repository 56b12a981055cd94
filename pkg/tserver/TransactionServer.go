package tserver

import "time"

import "tsquorum/pkg/config"
import "tsquorum/pkg/connhandler"
import "tsquorum/pkg/logger"
import "tsquorum/pkg/lsa"
import "tsquorum/pkg/metrics"
import "tsquorum/pkg/priorsender"
import "tsquorum/pkg/psconnector"
import "tsquorum/pkg/quorum"
import "tsquorum/pkg/tserr"
import "tsquorum/pkg/wire"

//=========================================== Transaction Server


var Log = clog.NewCustomLog("TransactionServer")

/*
	TransactionServer is the top level orchestrator: it owns the page
	server connection set, the quorum flush gate derived from it, and the
	prior-record sender that feeds every connected page server its log
	stream through per-connection sinks.
*/

type TransactionServer struct {
	cfg *config.Config
	connector *psconnector.PsConnector
	sender *priorsender.PriorSender
	store *priorsender.Store
}

func New(cfg *config.Config) (*TransactionServer, error) {
	store, storeErr := priorsender.OpenStore(cfg.DBName)
	if storeErr != nil { return nil, storeErr }

	sender := priorsender.NewPriorSender(store)

	connType := wire.ConnTypeActive
	if cfg.ConnType == config.ConnTypePassive { connType = wire.ConnTypePassive }

	server := &TransactionServer{
		cfg: cfg,
		connector: psconnector.New(cfg.PageServerHosts, connType, sender, cfg.QuorumConsensus),
		sender: sender,
		store: store,
	}

	return server, nil
}

/*
	Boot implements the boot config matrix: with remote storage disabled
	and no page servers configured there is nothing to connect to and the
	server comes up standalone. Otherwise it connects to every configured
	page server, waits up to BootTimeout for a main connection to clear
	its catch-up handshake, and liveness-checks whatever connected before
	trusting it. Individual page server errors are logged, not fatal on
	their own -- the reconnect daemon and the quorum gate degrade
	gracefully while under quorum -- but with remote storage required,
	coming out of this with no page server connection at all (every host
	failed to connect, or liveness-checking dropped every survivor) is a
	boot failure, not a degraded start.
*/

func (server *TransactionServer) Boot() error {
	started := time.Now()
	defer func() { metrics.BootDuration.Observe(time.Since(started).Seconds()) }()

	if !server.cfg.RemoteStorage && len(server.cfg.PageServerHosts) == 0 {
		Log.Info("boot: remote storage disabled and no page servers configured, running standalone")
		server.reportConnectionMetrics()
		return nil
	}

	for _, connErr := range server.connector.Boot() {
		Log.Warn("boot: page server connection error:", connErr.Error())
	}

	if mainErr := server.connector.AwaitMainConnection(server.cfg.BootTimeout); mainErr != nil {
		Log.Warn("boot: no main page server connection established within", server.cfg.BootTimeout.String(), ":", mainErr.Error())
	}

	server.checkBootLiveness()
	server.reportConnectionMetrics()

	if _, mainErr := server.connector.MainConnectionEndpoint(); mainErr != nil && server.cfg.RemoteStorage && len(server.cfg.PageServerHosts) > 0 {
		Log.Error("boot: no page server connection established within", server.cfg.BootTimeout.String())
		return tserr.ErrNoPageServerConnection
	}

	return nil
}

/*
	checkBootLiveness round-trips GET_BOOT_INFO against every handler
	that reports CONNECTED after Boot. A handler that cleared the
	catch-up handshake but cannot actually answer a request is worse than
	no connection at all, since it would otherwise count towards quorum,
	so it is disconnected and left for the reconnect daemon to retry.
*/

func (server *TransactionServer) checkBootLiveness() {
	for _, handler := range server.connector.Handlers() {
		if !handler.IsConnected() { continue }

		if _, infoErr := handler.SendReceive(wire.Message{ Opcode: wire.OpGetBootInfo }); infoErr != nil {
			Log.Warn("boot: page server", handler.HostPort, "did not answer GET_BOOT_INFO, dropping:", infoErr.Error())
			handler.DisconnectAsync(false)
		}
	}
}

func (server *TransactionServer) reportConnectionMetrics() {
	for _, state := range []connhandler.State{ connhandler.Idle, connhandler.Connecting, connhandler.Connected, connhandler.Disconnecting } {
		count := 0
		for _, handler := range server.connector.Handlers() {
			if handler.State() == state { count++ }
		}
		metrics.Connections.WithLabelValues(state.String()).Set(float64(count))
	}
}

/*
	PushRequest appends a log record to the prior stream. Fan-out to each
	connected page server happens through the sinks that each active
	connection registered with the PriorSender on catch-up, not here --
	PushRequest only needs to count the case where nobody is connected to
	receive it.
*/

func (server *TransactionServer) PushRequest(at lsa.LSA, record []byte) error {
	if server.connector.ConnectedCount() == 0 { metrics.PushRequestDropped.Inc() }

	return server.sender.Append(at, record)
}

/*
	WaitForFlushedLsa blocks until quorum of page servers has durably
	flushed at least the given LSA.
*/

func (server *TransactionServer) WaitForFlushedLsa(target lsa.LSA) {
	started := time.Now()
	defer func() { metrics.FlushWait.Observe(time.Since(started).Seconds()) }()

	server.connector.FlushGate().WaitForFlushedLsa(target)

	consensus := server.connector.FlushGate().ConsensusLsa()
	metrics.ConsensusLsaPageID.Set(float64(consensus.PageID))
	metrics.ConsensusLsaOffset.Set(float64(consensus.Offset))
}

func (server *TransactionServer) FlushGate() *quorum.FlushGate { return server.connector.FlushGate() }

func (server *TransactionServer) OldestActiveMVCCID() lsa.MVCCID { return server.connector.OldestActiveMVCCID() }

func (server *TransactionServer) MainConnectionEndpoint() (string, error) { return server.connector.MainConnectionEndpoint() }

func (server *TransactionServer) ResetMainConnection() error { return server.connector.ResetMainConnection() }

/*
	SendReceiveThroughMain performs a round trip against the current main
	connection, and on failure resets the main connection and retries
	once against whichever handler takes over -- the failover behavior a
	one-way push does not need but a caller waiting on a reply does.
*/

func (server *TransactionServer) SendReceiveThroughMain(msg wire.Message) (wire.Message, error) {
	handler, mainErr := server.mainHandler()
	if mainErr != nil { return wire.Message{}, mainErr }

	resp, sendErr := handler.SendReceive(msg)
	if sendErr == nil { return resp, nil }

	if resetErr := server.connector.ResetMainConnection(); resetErr != nil { return wire.Message{}, sendErr }

	handler, mainErr = server.mainHandler()
	if mainErr != nil { return wire.Message{}, sendErr }

	return handler.SendReceive(msg)
}

func (server *TransactionServer) mainHandler() (*connhandler.ConnectionHandler, error) {
	hostPort, mainErr := server.connector.MainConnectionEndpoint()
	if mainErr != nil { return nil, mainErr }

	for _, handler := range server.connector.Handlers() {
		if handler.HostPort == hostPort && handler.IsConnected() { return handler, nil }
	}

	return nil, mainErr
}

func (server *TransactionServer) ConnectedCount() int { return server.connector.ConnectedCount() }

func (server *TransactionServer) Connector() *psconnector.PsConnector { return server.connector }

/*
	DisconnectAllPageServers tears down every page server connection and
	closes the durable prior log store. Called on graceful shutdown.
*/

func (server *TransactionServer) DisconnectAllPageServers() {
	server.connector.DisconnectAll()

	if closeErr := server.store.Close(); closeErr != nil {
		Log.Warn("error closing prior log store:", closeErr.Error())
	}
}
