package httpservice

import "encoding/json"
import "net/http"

import "tsquorum/pkg/stats"

//=========================================== Status Handler


type connectionStatus struct {
	HostPort string `json:"host_port"`
	State string `json:"state"`
	SavedLsa string `json:"saved_lsa"`
}

type statusResponse struct {
	Connections []connectionStatus `json:"connections"`
	ConsensusLsa string `json:"consensus_lsa"`
	OldestActiveMvcc uint64 `json:"oldest_active_mvcc"`
	MainConnection string `json:"main_connection,omitempty"`
	Disk *stats.Stats `json:"disk,omitempty"`
}

func (admin *AdminService) handleStatus(w http.ResponseWriter, r *http.Request) {
	connector := admin.server.Connector()

	resp := statusResponse{
		ConsensusLsa: admin.server.FlushGate().ConsensusLsa().String(),
		OldestActiveMvcc: uint64(admin.server.OldestActiveMVCCID()),
	}

	for _, handler := range connector.Handlers() {
		resp.Connections = append(resp.Connections, connectionStatus{
			HostPort: handler.HostPort,
			State: handler.State().String(),
			SavedLsa: handler.SavedLsa().String(),
		})
	}

	if mainEndpoint, mainErr := admin.server.MainConnectionEndpoint(); mainErr == nil {
		resp.MainConnection = mainEndpoint
	}

	if diskStats, statsErr := stats.CalculateCurrentStats(); statsErr == nil {
		resp.Disk = diskStats
	}

	w.Header().Set("Content-Type", "application/json")

	encodeErr := json.NewEncoder(w).Encode(resp)
	if encodeErr != nil { http.Error(w, "failed to encode status response", http.StatusInternalServerError) }
}
