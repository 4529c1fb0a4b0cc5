package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type ReportMetrics struct {
	GeneratedTotal *prometheus.CounterVec
	BuildDuration  prometheus.Histogram
	RenderDuration *prometheus.HistogramVec
	CreditScore    prometheus.Histogram
	SweptFiles     prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_report_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Report = ReportMetrics{
		GeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_report_engine_reports_generated_total",
				Help: "Total number of credit reports served, by format and outcome.",
			},
			[]string{"format", "status"},
		),
		BuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credit_report_engine_report_build_duration_seconds",
				Help:    "Histogram of credit report aggregation latencies.",
				Buckets: prometheus.DefBuckets,
			},
		),
		RenderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_report_engine_report_render_duration_seconds",
				Help:    "Histogram of credit report rendering latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		CreditScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credit_report_engine_credit_score",
				Help:    "Distribution of computed credit scores.",
				Buckets: prometheus.LinearBuckets(300, 50, 12),
			},
		),
		SweptFiles: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_report_engine_swept_report_files_total",
				Help: "Total number of stale transient report files removed by the sweeper.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordReportBuilt(score int, duration time.Duration) {
	Report.BuildDuration.Observe(duration.Seconds())
	Report.CreditScore.Observe(float64(score))
}

func RecordReportServed(format, status string) {
	Report.GeneratedTotal.WithLabelValues(format, status).Inc()
}

func RecordRender(format string, duration time.Duration) {
	Report.RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

func RecordSweptFiles(n int) {
	Report.SweptFiles.Add(float64(n))
}
