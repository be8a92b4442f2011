// Package metrics defines the Prometheus instruments for the report and
// voting pipeline, exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadwatch_reports_created_total",
		Help: "Total hazard reports created.",
	})

	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadwatch_votes_cast_total",
		Help: "Total votes successfully ledgered, by action.",
	}, []string{"action"})

	VerdictsReached = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadwatch_verdicts_total",
		Help: "Reports that reached a crowd verdict, by outcome.",
	}, []string{"outcome"})

	ReportsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadwatch_reports_expired_total",
		Help: "Pending reports expired by the retention sweep.",
	})
)
