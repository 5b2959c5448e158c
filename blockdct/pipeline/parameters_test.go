package pipeline

import (
	"errors"
	"testing"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
)

func TestParametersDefaults(t *testing.T) {
	p := NewParameters()
	if err := p.Validate(); err != nil {
		t.Fatalf("default parameters invalid: %v", err)
	}
	if !p.Precision.IsReference() {
		t.Errorf("default precision = %v, want reference", p.Precision)
	}
	if p.Quality != 50 {
		t.Errorf("default quality = %d, want 50", p.Quality)
	}
	if want := common.CoefficientTable(common.DefaultLuminanceQuantTable); p.QuantTable != want {
		t.Errorf("default table = %v, want luminance table in coefficient units", p.QuantTable)
	}
	if p.Schedule != ScheduleSequential || p.QueueDepth != 2 || p.Workers < 1 {
		t.Errorf("default scheduling = %v/%d workers/depth %d", p.Schedule, p.Workers, p.QueueDepth)
	}
}

func TestParametersGetSet(t *testing.T) {
	p := NewParameters()

	p.SetParameter("precision", "fixed24x6")
	if got := p.GetParameter("precision"); got != "fixed24x6" {
		t.Errorf("precision = %v, want fixed24x6", got)
	}
	p.SetParameter("fracBits", 16)
	if got := p.GetParameter("fracBits"); got != 16 {
		t.Errorf("fracBits = %v, want 16", got)
	}
	p.SetParameter("quality", 75)
	if got := p.GetParameter("quality"); got != 75 {
		t.Errorf("quality = %v, want 75", got)
	}
	p.SetParameter("schedule", "streaming")
	if p.Schedule != ScheduleStreaming {
		t.Errorf("schedule = %v, want streaming", p.Schedule)
	}
	p.SetParameter("workers", 6)
	p.SetParameter("queueDepth", 8)
	p.SetParameter("isVerbose", true)
	if p.Workers != 6 || p.QueueDepth != 8 || !p.IsVerbose {
		t.Errorf("workers/depth/verbose = %d/%d/%v", p.Workers, p.QueueDepth, p.IsVerbose)
	}

	p.SetParameter("custom", "value")
	if got := p.GetParameter("custom"); got != "value" {
		t.Errorf("custom = %v, want value", got)
	}

	// Wrong types and unknown names are ignored
	p.SetParameter("quality", "high")
	p.SetParameter("schedule", "round-robin")
	if p.Quality != 75 || p.Schedule != ScheduleStreaming {
		t.Errorf("invalid values changed parameters: quality %d, schedule %v", p.Quality, p.Schedule)
	}

	table := common.UniformQuantTable(4)
	p.SetParameter("quantTable", table)
	if p.QuantTable != table || p.Quality != 0 {
		t.Errorf("quantTable not applied: quality %d", p.Quality)
	}
}

func TestParametersValidate(t *testing.T) {
	p := NewParameters().WithWorkers(0).WithQueueDepth(1)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if p.Workers < 1 || p.QueueDepth != 2 {
		t.Errorf("Validate did not normalize: workers %d, depth %d", p.Workers, p.QueueDepth)
	}

	bad := NewParameters().WithPrecision(common.Precision{FracBits: 4})
	if err := bad.Validate(); !errors.Is(err, common.ErrInvalidPrecision) {
		t.Errorf("bad precision: err = %v, want ErrInvalidPrecision", err)
	}

	var zero common.QuantTable
	if err := NewParameters().WithQuantTable(zero).Validate(); !errors.Is(err, common.ErrInvalidQuantTable) {
		t.Errorf("zero table: err = %v, want ErrInvalidQuantTable", err)
	}

	if err := NewParameters().WithSchedule(Schedule(7)).Validate(); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("bad schedule: err = %v, want ErrInvalidSchedule", err)
	}
	if _, err := New(NewParameters().WithSchedule(Schedule(-1))); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("New with bad schedule: err = %v, want ErrInvalidSchedule", err)
	}
}

func TestPipelineCopiesParameters(t *testing.T) {
	params := NewParameters()
	p := mustNew(t, params)
	params.WithQuality(10).WithSchedule(ScheduleParallel)

	got := p.Parameters()
	if got.Quality != 50 || got.Schedule != ScheduleSequential {
		t.Errorf("pipeline saw later changes: quality %d, schedule %v", got.Quality, got.Schedule)
	}
}

func TestParseSchedule(t *testing.T) {
	for _, s := range Schedules() {
		got, err := ParseSchedule(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSchedule(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSchedule("batch"); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("ParseSchedule(batch) err = %v, want ErrInvalidSchedule", err)
	}
}
