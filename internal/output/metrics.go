// SPDX-License-Identifier: Apache-2.0

package output

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for listener import metrics.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// NotificationsTotal counts full event dispatch passes per method.
// Per-library close fan-outs are not counted here.
// Use RegisterMetrics to register this with a Prometheus registry.
var NotificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "robot_listener_notifications_total",
		Help: "Total number of event notifications dispatched to listeners",
	},
	[]string{"method"},
)

// ListenerFailures counts listener hook failures that were isolated.
// Use RegisterMetrics to register this with a Prometheus registry.
var ListenerFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "robot_listener_failures_total",
		Help: "Total number of isolated listener notification failures",
	},
	[]string{"listener", "method"},
)

// ListenerImports counts listener reference resolutions by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var ListenerImports = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "robot_listener_imports_total",
		Help: "Total number of listener reference resolutions",
	},
	[]string{"status"},
)

// RegisterMetrics registers output package metrics with the given
// Prometheus registry. Panics if registration fails (following
// prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(NotificationsTotal)
	reg.MustRegister(ListenerFailures)
	reg.MustRegister(ListenerImports)
}
