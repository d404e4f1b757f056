package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	DialogsCreated       prometheus.Counter
	TransmissionsCreated prometheus.Counter
	DialogsDeleted       prometheus.Counter
	DocumentsIngested    prometheus.Counter
	DocumentSendFailures prometheus.Counter
	AuthOutcomes         *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DialogsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "dokumentporten_dialogporten_dialogs_created_total",
			Help: "Total number of dialogs created in Dialogporten",
		}),
		TransmissionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "dokumentporten_dialogporten_transmissions_created_total",
			Help: "Total number of transmissions created in Dialogporten",
		}),
		DialogsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dokumentporten_dialogporten_dialogs_deleted_total",
			Help: "Total number of dialogs soft deleted in Dialogporten",
		}),
		DocumentsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "dokumentporten_documents_ingested_total",
			Help: "Total number of documents accepted for distribution",
		}),
		DocumentSendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dokumentporten_document_send_failures_total",
			Help: "Total number of per-document delivery failures (retried next cycle)",
		}),
		AuthOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dokumentporten_auth_outcomes_total",
			Help: "Authentication outcomes by issuer and result",
		}, []string{"issuer", "outcome"}),
	}
}
