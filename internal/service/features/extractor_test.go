package features

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

func constantSeries(v float64) []float64 {
	s := make([]float64, domain.SeriesLength)
	for i := range s {
		s[i] = v
	}
	return s
}

func rampSeries() []float64 {
	s := make([]float64, domain.SeriesLength)
	for i := range s {
		s[i] = float64(i)
	}
	return s
}

func fullSeries() map[domain.VitalKind][]float64 {
	return map[domain.VitalKind][]float64{
		domain.VitalHR: rampSeries(),
		domain.VitalRR: constantSeries(0.5),
		domain.VitalOS: constantSeries(97),
	}
}

func TestColumnName(t *testing.T) {
	if got := ColumnName(domain.VitalHR, 60, FeatureMean); got != "HR__0_60__mean" {
		t.Errorf("ColumnName() = %q", got)
	}
	if got := ColumnName(domain.VitalOS, 480, FeatureTrendSlope); got != `OS__0_480__linear_trend__attr_"slope"` {
		t.Errorf("ColumnName() = %q", got)
	}
}

func TestMinimumSamples(t *testing.T) {
	tests := map[int]int{60: 12, 120: 24, 240: 48, 480: 96}
	for window, want := range tests {
		if got := MinimumSamples(window, domain.MinimumCoverage); got != want {
			t.Errorf("MinimumSamples(%d) = %d, want %d", window, got, want)
		}
	}
}

func TestExtractor_WindowSampleCounts(t *testing.T) {
	e := NewExtractor()

	windows, err := e.ExtractWindows(context.Background(), fullSeries())
	if err != nil {
		t.Fatalf("ExtractWindows() error = %v", err)
	}

	want := map[int]int{60: 24, 120: 48, 240: 96, 480: 192}
	for _, w := range windows {
		for _, kind := range domain.VitalKinds {
			if got := w.Lengths[kind]; got != want[w.Window] {
				t.Errorf("window %d %s length = %d, want %d", w.Window, kind, got, want[w.Window])
			}
		}
	}
}

func TestExtractor_UsesNewestSamples(t *testing.T) {
	e := NewExtractor()

	frame, err := e.Extract(context.Background(), fullSeries())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// the 60s window covers the newest 24 samples: 168..191
	if v, _ := frame.Value(0, "HR__0_60__minimum"); v != 168 {
		t.Errorf("HR__0_60__minimum = %v, want 168", v)
	}
	if v, _ := frame.Value(0, "HR__0_60__maximum"); v != 191 {
		t.Errorf("HR__0_60__maximum = %v, want 191", v)
	}
	if v, _ := frame.Value(0, `HR__0_60__linear_trend__attr_"intercept"`); !almostEqual(v, 168, 1e-9) {
		t.Errorf("intercept = %v, want 168", v)
	}
	if v, _ := frame.Value(0, "RR__0_480__mean"); v != 0.5 {
		t.Errorf("RR__0_480__mean = %v, want 0.5", v)
	}
}

func TestExtractor_DropsDerivedColumns(t *testing.T) {
	frame, err := NewExtractor().Extract(context.Background(), fullSeries())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	for _, c := range frame.Columns() {
		if IsDerived(c) {
			t.Errorf("derived column %s still present", c)
		}
	}
	if frame.Len() != 1 {
		t.Errorf("Len() = %d, want 1", frame.Len())
	}
}

func TestExtractor_SkipsMissingSamples(t *testing.T) {
	series := fullSeries()
	hr := series[domain.VitalHR]
	for i := len(hr) - 4; i < len(hr); i++ {
		hr[i] = math.NaN()
	}

	windows, err := NewExtractor().ExtractWindows(context.Background(), series)
	if err != nil {
		t.Fatalf("ExtractWindows() error = %v", err)
	}

	if got := windows[0].Lengths[domain.VitalHR]; got != 20 {
		t.Errorf("HR 60s length = %d, want 20", got)
	}
	if got := windows[0].Values["HR__0_60__maximum"]; got != 187 {
		t.Errorf("HR 60s maximum = %v, want 187", got)
	}
}

func TestExtractor_UnderCoveredWindowIsMissing(t *testing.T) {
	series := fullSeries()
	rr := series[domain.VitalRR]
	// newest 20 samples missing leaves 4 in the 60s window
	for i := len(rr) - 20; i < len(rr); i++ {
		rr[i] = math.NaN()
	}

	frame, err := NewExtractor().Extract(context.Background(), series)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if v, _ := frame.Value(0, "HR__0_60__mean"); !math.IsNaN(v) {
		t.Errorf("HR__0_60__mean = %v, want NaN for under-covered window", v)
	}
	if v, _ := frame.Value(0, "HR__0_120__mean"); math.IsNaN(v) {
		t.Error("HR__0_120__mean should be present")
	}
}

func TestExtractor_NoCoverageYieldsMissingRow(t *testing.T) {
	series := fullSeries()
	for i := range series[domain.VitalOS] {
		series[domain.VitalOS][i] = math.NaN()
	}

	frame, err := NewExtractor().Extract(context.Background(), series)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if frame.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", frame.Len())
	}
	for i, v := range frame.Row(0) {
		if !math.IsNaN(v) {
			t.Errorf("column %s = %v, want NaN", frame.Columns()[i], v)
		}
	}
}

func TestExtractor_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()

	seq, err := NewExtractor().Extract(ctx, fullSeries())
	if err != nil {
		t.Fatalf("sequential Extract() error = %v", err)
	}
	par, err := NewExtractor(WithParallel(true)).Extract(ctx, fullSeries())
	if err != nil {
		t.Fatalf("parallel Extract() error = %v", err)
	}

	if diff := cmp.Diff(seq.Columns(), par.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-seq +par):\n%s", diff)
	}
	if diff := cmp.Diff(seq.Row(0), par.Row(0), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("Row(0) mismatch (-seq +par):\n%s", diff)
	}
}

func TestExtractor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewExtractor().Extract(ctx, fullSeries()); err == nil {
		t.Error("Extract() expected error on canceled context")
	}
	if _, err := NewExtractor(WithParallel(true)).Extract(ctx, fullSeries()); err == nil {
		t.Error("parallel Extract() expected error on canceled context")
	}
}

func TestExtractor_Reindex(t *testing.T) {
	frame, err := NewExtractor().Extract(context.Background(), fullSeries())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	xcol := []string{"RR__0_480__mean", "HR__0_60__length", "HR__0_60__unknown"}
	out := frame.Reindex(xcol)

	row := out.Row(0)
	if row[0] != 0.5 || row[1] != 24 || !math.IsNaN(row[2]) {
		t.Errorf("Reindex row = %v", row)
	}
}
