package handler

import (
	"fmt"
	"net/http"

	"github.com/cloudtask/cloudtask/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "cloudtask_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "cloudtask_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "cloudtask_logins_total{status=\"failure\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "cloudtask_tasks_created_total %d\n", snap.TasksCreated)
	writeMetric(w, "cloudtask_tasks_updated_total %d\n", snap.TasksUpdated)
	writeMetric(w, "cloudtask_tasks_deleted_total %d\n", snap.TasksDeleted)
	writeMetric(w, "cloudtask_task_deletes_forbidden_total %d\n", snap.TaskDeletesForbidden)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
