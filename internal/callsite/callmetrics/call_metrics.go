// Copyright 2024 UDFKit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package callmetrics provides Prometheus metrics for call-sites.
package callmetrics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "udfkit"
	subsystem = "callsite"
)

// CallMetrics represents call-site metrics.
type CallMetrics struct {
	Active    prometheus.Gauge
	Inits     *prometheus.CounterVec
	Rows      *prometheus.CounterVec
	Finalizes prometheus.Counter
}

// NewCallMetrics creates new call-site metrics.
func NewCallMetrics() *CallMetrics {
	return &CallMetrics{
		Active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active",
				Help:      "The current number of initialized call-sites.",
			},
		),
		Inits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "inits_total",
				Help:      "Total number of initialization steps.",
			},
			[]string{"udf", "result"},
		),
		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rows_total",
				Help:      "Total number of processing steps.",
			},
			[]string{"udf", "result"},
		),
		Finalizes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "finalizes_total",
				Help:      "Total number of finalized call-sites.",
			},
		),
	}
}

// Describe implements prometheus.Collector.
func (cm *CallMetrics) Describe(ch chan<- *prometheus.Desc) {
	cm.Active.Describe(ch)
	cm.Inits.Describe(ch)
	cm.Rows.Describe(ch)
	cm.Finalizes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (cm *CallMetrics) Collect(ch chan<- prometheus.Metric) {
	cm.Active.Collect(ch)
	cm.Inits.Collect(ch)
	cm.Rows.Collect(ch)
	cm.Finalizes.Collect(ch)
}

// check interfaces
var (
	_ prometheus.Collector = (*CallMetrics)(nil)
)
