package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// workoutsScheduled counts schedule requests that inserted a new row.
	workoutsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trainflow_workouts_scheduled_total",
			Help: "Total number of workouts scheduled.",
		},
	)

	// workoutsToggled counts completion toggles by resulting state.
	workoutsToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainflow_workouts_toggled_total",
			Help: "Total number of completion toggles by resulting state.",
		},
		[]string{"state"},
	)

	// chatMessages counts persisted chat messages by role.
	chatMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainflow_chat_messages_total",
			Help: "Total number of chat messages stored.",
		},
		[]string{"role"},
	)
)

func init() {
	prometheus.MustRegister(workoutsScheduled, workoutsToggled, chatMessages)
}

func toggleState(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}
