// Copyright (c) 2025 census contributors. All rights reserved.
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

// Package prometheus exposes census instance counts as Prometheus metrics.
package prometheus

import (
	"github.com/censuslib/census"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector collects the counts of every observed type and exposes them to
// Prometheus, one series per counted type.
type Collector struct {
	totalDesc   *prometheus.Desc
	liveDesc    *prometheus.Desc
	maxLiveDesc *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a new collector for census counts.
// Metric names are prefixed with the given namespace and subsystem,
// i.e "{namespace}_{subsystem}_{metric}", and labeled with the counted type.
// Supported metrics:
// - instances_total
// - instances_live
// - instances_max_live
func NewCollector(namespace, subsystem string) *Collector {
	return &Collector{
		totalDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "instances_total"),
			"Number of instances ever created.",
			[]string{"type"}, nil,
		),
		liveDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "instances_live"),
			"Number of instances created but not yet released.",
			[]string{"type"}, nil,
		),
		maxLiveDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "instances_max_live"),
			"Historical peak of live instances.",
			[]string{"type"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.totalDesc
	descs <- c.liveDesc
	descs <- c.maxLiveDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	for _, e := range census.GetAll().Entries {
		metrics <- prometheus.MustNewConstMetric(
			c.totalDesc, prometheus.CounterValue, float64(e.Counts.Total), e.Name,
		)
		metrics <- prometheus.MustNewConstMetric(
			c.liveDesc, prometheus.GaugeValue, float64(e.Counts.Live), e.Name,
		)
		metrics <- prometheus.MustNewConstMetric(
			c.maxLiveDesc, prometheus.GaugeValue, float64(e.Counts.MaxLive), e.Name,
		)
	}
}
