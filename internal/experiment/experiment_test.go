package experiment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/freefall/internal/config"
	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/logging"
	"github.com/san-kum/freefall/internal/storage"
)

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(filepath.Join(dir, "runs"))

	cfg := config.DefaultConfig()
	cfg.Height = 10
	cfg.OutputDir = dir
	opts := FromConfig(cfg)
	opts.Store = st

	var buf bytes.Buffer
	out, err := New(opts, &buf, logging.Discard()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.Series.Len() != dynamo.DefaultSamples {
		t.Errorf("samples = %d", out.Series.Len())
	}
	if math.Abs(out.Series.ImpactTime-1.4286) > 1e-4 {
		t.Errorf("impact time = %v", out.Series.ImpactTime)
	}
	if !out.Diagnostics.Conserved {
		t.Error("energy should be conserved")
	}

	want := filepath.Join(dir, "energia_h10.0m_m1.0kg.png")
	if out.FigurePath != want {
		t.Errorf("figure = %q, want %q", out.FigurePath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("figure not written: %v", err)
	}

	if out.RunID == "" {
		t.Fatal("run not archived")
	}
	if _, err := st.Load(out.RunID); err != nil {
		t.Errorf("archived run unreadable: %v", err)
	}

	text := buf.String()
	if n := strings.Count(text, "FREE-FALL ENERGY CONSERVATION"); n != 1 {
		t.Errorf("title printed %d times", n)
	}
	for _, s := range []string{"ENERGY CONSERVATION ANALYSIS", "energy (J)", "Figure saved as", "ADDITIONAL INFORMATION"} {
		if !strings.Contains(text, s) {
			t.Errorf("output missing %q", s)
		}
	}
}

func TestRunSkipsOptionalStages(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Scenario:  dynamo.Scenario{Height: 2, Mass: 3},
		OutputDir: dir,
	}

	var buf bytes.Buffer
	out, err := New(opts, &buf, logging.Discard()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.FigurePath != "" || out.RunID != "" {
		t.Errorf("unexpected artifacts: %+v", out)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir not empty: %d entries", len(entries))
	}
	if strings.Contains(buf.String(), "Figure saved as") {
		t.Error("figure line printed without a figure")
	}
	if strings.Contains(buf.String(), "FREE-FALL ENERGY CONSERVATION") {
		t.Error("title printed with Title off")
	}
}

func TestRunFigureErrorKeepsContext(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := Options{Scenario: dynamo.Scenario{Height: 2, Mass: 1}, SaveFigure: true, OutputDir: blocker}
	out, err := New(opts, io.Discard, logging.Discard()).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "save figure: ") {
		t.Errorf("error %q lacks context", err)
	}
	if out == nil || out.Series == nil {
		t.Error("sampled series should be returned with the error")
	}
}

func TestRunRejectsInvalidInputBeforeOutput(t *testing.T) {
	tests := []dynamo.Scenario{
		{Height: -5, Mass: 1},
		{Height: 0, Mass: 1},
		{Height: 5, Mass: 0},
		{Height: 1e308, Mass: 1},
		{Height: 10, Mass: 1e308},
	}

	for _, sc := range tests {
		var buf bytes.Buffer
		dir := t.TempDir()
		opts := Options{Scenario: sc, SaveFigure: true, ShowChart: true, OutputDir: dir}
		_, err := New(opts, &buf, logging.Discard()).Run(context.Background())
		if !errors.Is(err, dynamo.ErrRange) {
			t.Errorf("%v: error = %v, want ErrRange", sc, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%v: printed output before failing", sc)
		}
		if entries, _ := os.ReadDir(dir); len(entries) != 0 {
			t.Errorf("%v: wrote %d files", sc, len(entries))
		}
	}
}

func TestCompare(t *testing.T) {
	sc := dynamo.Scenario{Height: 10, Mass: 1}
	results, err := Compare(context.Background(), sc, nil, 0.001)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	analytic := math.Sqrt(2 * 10 / dynamo.Gravity)
	for _, r := range results {
		if r.ImpactTimeError > 0.01 {
			t.Errorf("%s: impact error %v", r.Integrator, r.ImpactTimeError)
		}
		if math.Abs(math.Abs(r.ImpactTime-analytic)-r.ImpactTimeError) > 1e-12 {
			t.Errorf("%s: impact error inconsistent with impact time", r.Integrator)
		}
		if r.Steps == 0 {
			t.Errorf("%s: no steps taken", r.Integrator)
		}
	}

	// rk4 and verlet are exact for constant acceleration; only the landing
	// interpolation moves the energy.
	for _, r := range results {
		if r.Integrator == "euler" {
			continue
		}
		if r.MaxEnergyDrift > 1e-3 {
			t.Errorf("%s: energy drift %v %%", r.Integrator, r.MaxEnergyDrift)
		}
	}
}

func TestCompareUnknownIntegrator(t *testing.T) {
	_, err := Compare(context.Background(), dynamo.Scenario{Height: 1, Mass: 1}, []string{"leapfrog"}, 0.01)
	if !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("error = %v, want ErrUnknownIntegrator", err)
	}
}
