package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameratez_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RatesCreated counts rates accepted by the create endpoint.
	RatesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameratez_rates_created_total",
		Help: "Total number of rates created",
	})

	// NotificationsCreated counts notification fan-out writes by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameratez_notifications_created_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// SignupTokensIssued counts completion tokens handed out by the first
	// signup step. Together with SignupsCompleted it shows abandonment.
	SignupTokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameratez_signup_tokens_issued_total",
		Help: "Total number of signup completion tokens issued",
	})

	// SignupsCompleted counts user records created by the second signup step.
	SignupsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameratez_signups_completed_total",
		Help: "Total number of completed signups",
	})

	// ImageUploads counts accepted image uploads.
	ImageUploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameratez_image_uploads_total",
		Help: "Total number of accepted image uploads",
	})
)
