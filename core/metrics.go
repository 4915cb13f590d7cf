package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contractReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesting",
		Name:      "contract_reads_total",
		Help:      "Vesting contract reads by method and outcome.",
	}, []string{"method", "outcome"})

	progressSources = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesting",
		Name:      "progress_source_total",
		Help:      "Where schedule progress figures came from.",
	}, []string{"source"})

	releaseSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesting",
		Name:      "release_submissions_total",
		Help:      "Release attempts by outcome.",
	}, []string{"outcome"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesting",
		Name:      "view_cache_requests_total",
		Help:      "Beneficiary view cache lookups.",
	}, []string{"result"})
)

func observeRead(method string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	contractReads.WithLabelValues(method, outcome).Inc()
}
