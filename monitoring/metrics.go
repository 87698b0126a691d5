// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of SLOTMATCH.
//
//  SLOTMATCH is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  SLOTMATCH is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with SLOTMATCH.  If not, see <https://www.gnu.org/licenses/>.

package monitoring

import (
	"net/http"
	"time"

	"slotmatch/matcher"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics of the matching process.
// It is meant to be attached to a Matcher as its observer.
//
// Metrics:
//   - slotmatch_sentences_total - number of evaluated sentences
//   - slotmatch_template_matches_total{template} - number of sentences matched by a template
//   - slotmatch_match_duration_seconds - time spent matching a single sentence
type Metrics struct {
	registry         *prometheus.Registry
	SentencesTotal   prometheus.Counter
	TemplateMatches  *prometheus.CounterVec
	SentenceDuration prometheus.Histogram
}

func (m *Metrics) ObserveSentence(res *matcher.Result, dur time.Duration) {
	m.SentencesTotal.Inc()
	m.SentenceDuration.Observe(dur.Seconds())
	for _, id := range res.TemplateIDs() {
		m.TemplateMatches.WithLabelValues(id).Inc()
	}
}

// Handler provides the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NewMetrics creates metrics registered in their own registry so
// multiple instances (e.g. in tests) do not collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		SentencesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "slotmatch_sentences_total",
				Help: "Total number of evaluated sentences",
			},
		),
		TemplateMatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotmatch_template_matches_total",
				Help: "Total number of sentences matched by a template",
			},
			[]string{"template"},
		),
		SentenceDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "slotmatch_match_duration_seconds",
				Help:    "Duration of matching a single sentence in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
	}
}
