// Package metrics registers the prometheus collectors for the side-effect
// pipeline, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts notification documents written, per type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusconnect_notifications_created_total",
		Help: "Notification documents created, by event type.",
	}, []string{"type"})

	// RealtimePushes counts websocket pushes by outcome (delivered/dropped).
	RealtimePushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusconnect_realtime_pushes_total",
		Help: "Websocket pushes attempted, by outcome.",
	}, []string{"outcome"})

	// EmailJobs counts email jobs enqueued for the worker.
	EmailJobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusconnect_email_jobs_enqueued_total",
		Help: "Email jobs published to the queue.",
	})
)
