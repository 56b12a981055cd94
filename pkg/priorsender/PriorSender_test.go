package priorsender

import "testing"

import "tsquorum/pkg/lsa"

func TestAddSinkReturnsNullLsaBeforeAnyAppend(t *testing.T) {
	sender := NewPriorSender(nil)

	var sink Sink = func(record []byte) {}

	resume := sender.AddSink(&sink)
	if resume != lsa.Null {
		t.Errorf("expected NULL_LSA for a sink added before any append, got %v", resume)
	}
}

func TestAppendRejectsEmptyRecord(t *testing.T) {
	sender := NewPriorSender(nil)

	if appendErr := sender.Append(lsa.LSA{ PageID: 1 }, nil); appendErr == nil {
		t.Errorf("expected error appending an empty record")
	}
}

func TestAppendFansOutToAllSinks(t *testing.T) {
	sender := NewPriorSender(nil)

	var receivedA, receivedB []byte
	sinkA := Sink(func(record []byte) { receivedA = record })
	sinkB := Sink(func(record []byte) { receivedB = record })

	sender.AddSink(&sinkA)
	sender.AddSink(&sinkB)

	record := []byte("entry")
	if appendErr := sender.Append(lsa.LSA{ PageID: 1 }, record); appendErr != nil {
		t.Fatalf("unexpected error: %v", appendErr)
	}

	if string(receivedA) != "entry" || string(receivedB) != "entry" {
		t.Errorf("not all sinks received the record: a=%q b=%q", receivedA, receivedB)
	}
}

func TestReplayFromIsNoOpWithoutAStore(t *testing.T) {
	sender := NewPriorSender(nil)

	var sink Sink = func(record []byte) { t.Errorf("sink should not be called, got %q", record) }

	if replayErr := sender.ReplayFrom(lsa.Null, &sink); replayErr != nil {
		t.Errorf("unexpected error: %v", replayErr)
	}
}

func TestRemoveSinkStopsFurtherDelivery(t *testing.T) {
	sender := NewPriorSender(nil)

	var received []byte
	sink := Sink(func(record []byte) { received = record })

	sender.AddSink(&sink)
	sender.RemoveSink(&sink)

	if appendErr := sender.Append(lsa.LSA{ PageID: 1 }, []byte("entry")); appendErr != nil {
		t.Fatalf("unexpected error: %v", appendErr)
	}

	if received != nil {
		t.Errorf("removed sink should not have received the record, got %q", received)
	}
}
