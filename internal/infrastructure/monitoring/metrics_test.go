package monitoring

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReportServed(t *testing.T) {
	Report.GeneratedTotal.Reset()

	RecordReportServed("pdf", "success")
	RecordReportServed("pdf", "success")
	RecordReportServed("csv", "failure")

	expected := `
		# HELP credit_report_engine_reports_generated_total Total number of credit reports served, by format and outcome.
		# TYPE credit_report_engine_reports_generated_total counter
		credit_report_engine_reports_generated_total{format="csv",status="failure"} 1
		credit_report_engine_reports_generated_total{format="pdf",status="success"} 2
	`
	if err := testutil.CollectAndCompare(Report.GeneratedTotal, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics for reports_generated_total: %v", err)
	}
}

func TestRecordDBQuery(t *testing.T) {
	DB.QueryDuration.Reset()

	RecordDBQuery("FindBorrowerByID", "success", 3*time.Millisecond)
	RecordDBQuery("FindBorrowerByID", "error", time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(DB.QueryDuration))
}

func TestRecordSweptFiles(t *testing.T) {
	before := testutil.ToFloat64(Report.SweptFiles)
	RecordSweptFiles(3)
	assert.Equal(t, before+3, testutil.ToFloat64(Report.SweptFiles))
}
