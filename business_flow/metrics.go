// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ZIP eligibility checks partitioned by outcome ("exact", "proximity", "none")
	zipChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zip_eligibility_checks_total",
			Help: "Total ZIP serviceability checks by match outcome",
		},
		[]string{"outcome"},
	)

	// Service searches partitioned by engine mode ("fulltext", "substring")
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_searches_total",
			Help: "Total service search queries by engine mode",
		},
		[]string{"mode"},
	)

	// Leads created through the contact form
	leadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total leads recorded from the contact form",
		},
	)

	// Contacts rejected by the eligibility gate
	leadsGateRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_gate_rejected_total",
			Help: "Total contact submissions outside any coverage area",
		},
	)
)
