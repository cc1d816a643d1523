package ticketing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsOpened is the total number of ticket requests that ended with a ticket channel.
	TicketsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_tickets_opened_total",
			Help: "Total number of ticket requests that ended with a ticket channel",
		},
		[]string{"category", "result"},
	)

	// TicketsFailed is the total number of ticket requests that failed.
	TicketsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_tickets_failed_total",
			Help: "Total number of ticket requests that failed",
		},
		[]string{"category", "stage", "partial"},
	)

	// TicketRolesMissing is the total number of entitled roles that could not be found on the guild.
	TicketRolesMissing = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_roles_missing_total",
			Help: "Total number of entitled staff roles that could not be found on the guild",
		},
		[]string{"category"},
	)
)
