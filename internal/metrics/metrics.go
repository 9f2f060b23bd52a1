package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Webhook payments applied to an account balance",
		},
	)
	PaymentsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_failed_total",
			Help: "Webhook payments rejected by the pipeline",
		},
		[]string{"reason"}, // invalid_signature|duplicate|negative_balance|error
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(PaymentsProcessed)
	prometheus.MustRegister(PaymentsFailed)
	prometheus.MustRegister(WorkerQueueDepth)
}
