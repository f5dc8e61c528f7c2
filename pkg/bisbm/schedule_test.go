package bisbm

import (
	"math"
	"testing"
)

func TestExponentialSchedule(t *testing.T) {
	schedule, err := NewSchedule(ScheduleExponential, []float64{2, 0.5}, 100, 10)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	if got := schedule(0); got != 2 {
		t.Errorf("T(0) = %v, want 2", got)
	}
	if got := schedule(3); !almostEqual(got, 0.25, 1e-12) {
		t.Errorf("T(3) = %v, want 0.25", got)
	}
}

func TestLinearSchedule(t *testing.T) {
	schedule, err := NewSchedule(ScheduleLinear, []float64{10, 1}, 10, 10)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	if got := schedule(4); got != 6 {
		t.Errorf("T(4) = %v, want 6", got)
	}
	if got := schedule(10); got <= 0 {
		t.Errorf("T(10) = %v, want positive floor", got)
	}
}

func TestLogarithmicSchedule(t *testing.T) {
	schedule, err := NewSchedule(ScheduleLogarithmic, []float64{3, 2}, 100, 10)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	want := 3 / math.Log(7)
	if got := schedule(5); !almostEqual(got, want, 1e-12) {
		t.Errorf("T(5) = %v, want %v", got, want)
	}
}

func TestConstantSchedule(t *testing.T) {
	schedule, err := NewSchedule(ScheduleConstant, []float64{1.5}, 100, 10)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	for _, sweep := range []int{0, 17, 9999} {
		if got := schedule(sweep); got != 1.5 {
			t.Errorf("T(%d) = %v, want 1.5", sweep, got)
		}
	}
}

func TestAbruptCoolSchedule(t *testing.T) {
	schedule, err := NewSchedule(ScheduleAbruptCool, []float64{5}, 100, 10)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	if got := schedule(0); !math.IsInf(got, 1) {
		t.Errorf("T(0) = %v, want +Inf", got)
	}
	if got := schedule(4); !math.IsInf(got, 1) {
		t.Errorf("T(4) = %v, want +Inf", got)
	}
	if got := schedule(5); got != 0 {
		t.Errorf("T(5) = %v, want 0", got)
	}
}

func TestScheduleDefaults(t *testing.T) {
	for _, name := range []string{
		ScheduleExponential, ScheduleLinear, ScheduleLogarithmic, ScheduleConstant, ScheduleAbruptCool,
	} {
		if _, err := NewSchedule(name, nil, 100, 10); err != nil {
			t.Errorf("default kwargs rejected for %s: %v", name, err)
		}
	}
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		kwargs   []float64
	}{
		{"unknown name", "quench", nil},
		{"exponential T_0 <= 0", ScheduleExponential, []float64{0, 0.5}},
		{"exponential alpha = 1", ScheduleExponential, []float64{1, 1}},
		{"exponential alpha <= 0", ScheduleExponential, []float64{1, 0}},
		{"linear T_0 <= 0", ScheduleLinear, []float64{0, 1}},
		{"linear eta > T_0", ScheduleLinear, []float64{1, 2}},
		{"linear eta*duration > T_0", ScheduleLinear, []float64{5, 1}},
		{"logarithmic c <= 0", ScheduleLogarithmic, []float64{0, 2}},
		{"logarithmic d <= 0", ScheduleLogarithmic, []float64{1, 0}},
		{"logarithmic d = 1", ScheduleLogarithmic, []float64{1, 1}},
		{"logarithmic d in (0,1]", ScheduleLogarithmic, []float64{1, 0.5}},
		{"constant T <= 0", ScheduleConstant, []float64{0}},
		{"abrupt_cool tau <= 0", ScheduleAbruptCool, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchedule(tt.schedule, tt.kwargs, 100, 10); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}
