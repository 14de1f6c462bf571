package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BetsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "banca_bets_created_total",
			Help: "Total de apostas registradas",
		},
	)

	BetsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "banca_bets_cancelled_total",
			Help: "Total de apostas canceladas",
		},
	)

	EntriesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banca_entries_rejected_total",
			Help: "Total de números rejeitados na entrada de apostas",
		},
		[]string{"reason"},
	)
)

func Init() {
	prometheus.MustRegister(BetsCreated)
	prometheus.MustRegister(BetsCancelled)
	prometheus.MustRegister(EntriesRejected)
}
