// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinesTotal counts filterlog lines consumed, by input source.
	LinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfwatch_lines_total",
			Help: "Total number of filterlog lines consumed",
		},
		[]string{"source"},
	)

	// RecordsTotal counts successfully parsed records.
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfwatch_records_total",
			Help: "Total number of successfully parsed records",
		},
		[]string{"action", "proto"},
	)

	// ParseErrorsTotal counts lines rejected by the parser, by the
	// stage that failed.
	ParseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfwatch_parse_errors_total",
			Help: "Total number of lines rejected by the parser",
		},
		[]string{"stage"},
	)
)
