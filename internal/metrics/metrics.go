package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a stored photo is deleted.
const (
	PhotoReasonReplaced    = "replaced"
	PhotoReasonCleared     = "cleared"
	PhotoReasonNoteDeleted = "note_deleted"
	PhotoReasonStaged      = "staged_rollback"
	PhotoReasonCleanup     = "cleanup"
)

var (
	PhotosDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "livemusicnotes",
			Subsystem: "photos",
			Name:      "deleted_total",
			Help:      "Photos removed from storage.",
		},
		[]string{"reason"},
	)

	PhotoDeleteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "livemusicnotes",
			Subsystem: "photos",
			Name:      "delete_failures_total",
			Help:      "Photo deletions that failed.",
		},
		[]string{"reason"},
	)

	PhotosOrphaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "livemusicnotes",
			Subsystem: "photos",
			Name:      "orphaned_total",
			Help:      "Photos handed to the cleanup stream after a failed delete.",
		},
	)
)
