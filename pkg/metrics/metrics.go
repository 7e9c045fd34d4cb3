package metrics

import (
	"WaiAutoReply/pkg/nlp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoreply_decisions_total",
			Help: "Auto-reply decisions by kind and matched intent",
		},
		[]string{"kind", "tag"},
	)

	IntentScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autoreply_intent_score",
			Help:    "Best intent score of non-empty messages",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	WebhookMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_messages_total",
			Help: "Inbound webhook messages by processing status",
		},
		[]string{"status"},
	)

	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_delivery_total",
			Help: "Outbound WhatsApp deliveries by driver and status",
		},
		[]string{"driver", "status"},
	)
)

func ObserveDecision(d nlp.Decision) {
	tag := d.Tag
	if tag == "" {
		tag = "none"
	}
	Decisions.WithLabelValues(string(d.Kind), tag).Inc()

	if d.HasScore() {
		IntentScore.Observe(d.Score)
	}
}

func ObserveDelivery(driver string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	Deliveries.WithLabelValues(driver, status).Inc()
}
