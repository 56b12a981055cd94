package quorum

import "sync"

import "tsquorum/pkg/lsa"

//=========================================== Quorum Flush Gate


/*
	FlushGate blocks callers until a target LSA is known to have been
	durably flushed by quorum of connected page servers. Only the first
	thread to notice the consensus LSA is stale recomputes it; every other
	thread (and the recomputer itself, on the next pass) sleeps on the
	condition variable until the next ComputeConsensus-triggering event.

	This is a direct translation of the up_to_date-flag dance in the
	original C++ source: the flag is never an optimization a caller can
	skip, it is what prevents every blocked waiter from independently
	recomputing the same order statistic on every wakeup.
*/

type FlushGate struct {
	mutex sync.Mutex
	cond *sync.Cond
	consensus lsa.LSA
	upToDate bool
	compute func() (lsa.LSA, bool)
}

/*
	NewFlushGate takes a compute function that returns the current
	consensus LSA and whether quorum is currently met (false when fewer
	than quorum page servers are connected).
*/

func NewFlushGate(compute func() (lsa.LSA, bool)) *FlushGate {
	gate := &FlushGate{
		consensus: lsa.Null,
		compute: compute,
	}
	gate.cond = sync.NewCond(&gate.mutex)

	return gate
}

/*
	WaitForFlushedLsa blocks until the consensus flushed LSA is at or past
	target. Mirrors log_global::wait_for_ps_flushed_lsa.
*/

func (gate *FlushGate) WaitForFlushedLsa(target lsa.LSA) {
	gate.mutex.Lock()
	defer gate.mutex.Unlock()

	for gate.consensus.Less(target) {
		if !gate.upToDate {
			gate.upToDate = true

			consensus, quorumMet := gate.compute()
			if !quorumMet { continue }

			if gate.consensus.Less(consensus) { gate.consensus = consensus }
		} else {
			gate.cond.Wait()
		}
	}
}

/*
	WakeupWaiters marks the cached consensus LSA stale and wakes every
	waiter so exactly one of them recomputes it. Called whenever a
	connected handler's saved LSA advances or the connected set changes.
*/

func (gate *FlushGate) WakeupWaiters() {
	gate.mutex.Lock()
	gate.upToDate = false
	gate.mutex.Unlock()

	gate.cond.Broadcast()
}

func (gate *FlushGate) ConsensusLsa() lsa.LSA {
	gate.mutex.Lock()
	defer gate.mutex.Unlock()

	return gate.consensus
}
