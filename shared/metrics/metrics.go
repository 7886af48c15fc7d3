package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LinksGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightlink_links_generated_total",
			Help: "Total number of search links generated per booking site",
		},
		[]string{"site"},
	)

	SearchesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightlink_searches_rejected_total",
			Help: "Total number of searches refused before link generation",
		},
		[]string{"reason"},
	)

	ExportsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightlink_exports_total",
			Help: "Total number of exports produced",
		},
		[]string{"format", "source"},
	)
)
