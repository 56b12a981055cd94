package metrics

import "github.com/prometheus/client_golang/prometheus"
import "github.com/prometheus/client_golang/prometheus/promauto"

//=========================================== Observability surface


var Connections = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "ts_ps_connections",
	Help: "Number of page server connection handlers in each state, as recorded at the end of boot.",
}, []string{ "state" })

var ConsensusLsaPageID = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ts_ps_consensus_lsa_page_id",
	Help: "PageID component of the current quorum consensus flushed LSA.",
})

var ConsensusLsaOffset = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ts_ps_consensus_lsa_offset",
	Help: "Offset component of the current quorum consensus flushed LSA.",
})

var PushRequestDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ts_ps_push_request_dropped_total",
	Help: "Push requests dropped because no page server was connected.",
})

var BootDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "ts_ps_boot_duration_seconds",
	Help: "Time spent connecting to the configured page servers at boot.",
})

var FlushWait = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "ts_ps_flush_wait_seconds",
	Help: "Time callers spent blocked in WaitForFlushedLsa.",
})
