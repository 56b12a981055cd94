package priorsender

import "sync"

import "tsquorum/pkg/lsa"

//=========================================== Prior Sender


/*
	Sink receives the opaque byte-string prior records as they are
	appended to the log, in order. Every record is non-empty.
*/

type Sink func(record []byte)

/*
	PriorSender fans a single ordered stream of log records out to every
	registered sink (one per connected page server, typically). AddSink
	returns the LSA of the oldest record the new sink has not yet been
	sent -- NULL_LSA until the first record is ever appended, matching the
	original's refusal to invent a bootstrap value.
*/

type PriorSender struct {
	mutex sync.RWMutex
	sinks map[*Sink]bool
	store *Store
	unsentLsa lsa.LSA
}

func NewPriorSender(store *Store) *PriorSender {
	return &PriorSender{
		sinks: make(map[*Sink]bool),
		store: store,
		unsentLsa: lsa.Null,
	}
}

/*
	AddSink registers a new sink and returns the LSA it should resume
	sending from. The sink is not sent anything retroactively by
	PriorSender itself -- the caller is responsible for replaying
	persisted records at or after the returned LSA before relying on live
	Append calls.
*/

func (sender *PriorSender) AddSink(sink *Sink) lsa.LSA {
	sender.mutex.Lock()
	defer sender.mutex.Unlock()

	sender.sinks[sink] = true

	return sender.unsentLsa
}

func (sender *PriorSender) RemoveSink(sink *Sink) {
	sender.mutex.Lock()
	defer sender.mutex.Unlock()

	delete(sender.sinks, sink)
}

/*
	Append persists the record under the given LSA and fans it out to
	every currently registered sink. The record must be non-empty.
*/

func (sender *PriorSender) Append(at lsa.LSA, record []byte) error {
	if len(record) == 0 { return errEmptyRecord }

	if sender.store != nil {
		if storeErr := sender.store.Put(at, record); storeErr != nil { return storeErr }
	}

	sender.mutex.Lock()
	sender.unsentLsa = lsa.Max(sender.unsentLsa, at)
	sinks := make([]*Sink, 0, len(sender.sinks))
	for sink := range sender.sinks { sinks = append(sinks, sink) }
	sender.mutex.Unlock()

	for _, sink := range sinks { (*sink)(record) }

	return nil
}

func (sender *PriorSender) UnsentLsa() lsa.LSA {
	sender.mutex.RLock()
	defer sender.mutex.RUnlock()

	return sender.unsentLsa
}

/*
	ReplayFrom pushes every durably stored record with LSA >= from
	straight to sink, in ascending LSA order. Used to backfill a newly
	registered sink with history it has no peer page server to catch up
	from -- AddSink only guarantees sink delivery for records appended
	from that point forward, it never replays what came before. A nil
	store (as in tests that never open one) makes this a no-op.
*/

func (sender *PriorSender) ReplayFrom(from lsa.LSA, sink *Sink) error {
	if sender.store == nil { return nil }

	return sender.store.Replay(from, func(at lsa.LSA, record []byte) error {
		(*sink)(record)
		return nil
	})
}
