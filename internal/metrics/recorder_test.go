package metrics

import (
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopRecorder(t *testing.T) {
	// Must be safe to call without setup.
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("clone", time.Second)
	r.ObservePublishDuration(time.Second)
	r.IncStageResult("clone", ResultSuccess)
	r.IncPublishOutcome("success")
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveStageDuration("clone", 250*time.Millisecond)
	r.ObservePublishDuration(time.Second)
	r.IncStageResult("clone", ResultSuccess)
	r.IncStageResult("push", ResultFailure)
	r.IncPublishOutcome("failure")

	if got := testutil.ToFloat64(r.stageResults.WithLabelValues("clone", "success")); got != 1 {
		t.Errorf("stage_results_total{clone,success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.publishOutcome.WithLabelValues("failure")); got != 1 {
		t.Errorf("publish_outcomes_total{failure} = %v, want 1", got)
	}

	expected := strings.NewReader(`
# HELP docpublish_stage_results_total Stage result counts by outcome
# TYPE docpublish_stage_results_total counter
docpublish_stage_results_total{result="failure",stage="push"} 1
docpublish_stage_results_total{result="success",stage="clone"} 1
`)
	if err := testutil.GatherAndCompare(reg, expected, "docpublish_stage_results_total"); err != nil {
		t.Errorf("unexpected metric output: %v", err)
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveStageDuration("clone", time.Second)
	r.ObservePublishDuration(time.Second)
	r.IncStageResult("clone", ResultSuccess)
	r.IncPublishOutcome("success")
}
