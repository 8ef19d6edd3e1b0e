package main

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	courseMetrics sync.Once

	coursesAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursedb",
			Subsystem: "table",
			Name:      "courses_added_total",
			Help:      "Number of courses added to the table, by whether an existing course was replaced",
		},
		[]string{"outcome"})
	courseLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursedb",
			Subsystem: "table",
			Name:      "course_lookups_total",
			Help:      "Number of course lookups by CRN, by outcome",
		},
		[]string{"outcome"})
	linesLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursedb",
			Subsystem: "loader",
			Name:      "lines_loaded_total",
			Help:      "Number of bulk load lines processed, by outcome",
		},
		[]string{"outcome"})

	coursesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "coursedb",
			Subsystem: "table",
			Name:      "courses",
			Help:      "Number of courses currently stored",
		})
	longestChain = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "coursedb",
			Subsystem: "table",
			Name:      "longest_chain_length",
			Help:      "Number of courses in the fullest bucket",
		})
)

func registerCourseMetrics() {
	courseMetrics.Do(func() {
		prometheus.MustRegister(coursesAdded)
		prometheus.MustRegister(courseLookups)
		prometheus.MustRegister(linesLoaded)
		prometheus.MustRegister(coursesStored)
		prometheus.MustRegister(longestChain)
	})
}
