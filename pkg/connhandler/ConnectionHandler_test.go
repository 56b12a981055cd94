package connhandler

import "testing"

import "tsquorum/pkg/disconnector"
import "tsquorum/pkg/lsa"
import "tsquorum/pkg/wire"

func TestSendRejectedWhenNotConnected(t *testing.T) {
	disc := disconnector.NewAsyncDisconnector()
	defer disc.Stop()

	handler := NewConnectionHandler("127.0.0.1:0", wire.ConnTypeActive, BaseVariant{}, disc)

	sendErr := handler.Send(wireMessageStub())
	if sendErr == nil { t.Errorf("expected Send to fail on a handler with no channel") }
}

func TestSavedLsaOnlyAdvances(t *testing.T) {
	disc := disconnector.NewAsyncDisconnector()
	defer disc.Stop()

	var advanceCount int
	handler := NewConnectionHandler("127.0.0.1:0", wire.ConnTypeActive, BaseVariant{}, disc)
	handler.OnSavedLsaAdvance = func(h *ConnectionHandler) { advanceCount++ }

	handler.setSavedLsa(lsa.LSA{ PageID: 2, Offset: 0 })
	handler.setSavedLsa(lsa.LSA{ PageID: 1, Offset: 0 })

	if handler.SavedLsa() != (lsa.LSA{ PageID: 2, Offset: 0 }) {
		t.Errorf("saved LSA regressed: got %v", handler.SavedLsa())
	}

	if advanceCount != 1 {
		t.Errorf("expected exactly one advance callback, got %d", advanceCount)
	}
}
