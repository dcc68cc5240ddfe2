package features

import (
	"math"
	"testing"
)

func TestCalibrationNormalize(t *testing.T) {
	c := NewCalibration()

	tests := []struct {
		name    string
		feature string
		value   float64
		want    float64
		tol     float64
	}{
		{"at_mean", FeatPitch, 150, 0.5, 1e-9},
		{"one_sigma_above", FeatPitch, 210, 0.5 + 1.0/6, 1e-9},
		{"one_sigma_below", FeatPitch, 90, 0.5 - 1.0/6, 1e-9},
		{"clamped_high", FeatPitch, 10000, 1.0, 1e-9},
		{"clamped_low", FeatPitch, -10000, 0.0, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Normalize(tt.feature, tt.value)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Normalize(%s, %v) = %v, want %v", tt.feature, tt.value, got, tt.want)
			}
		})
	}

	t.Run("unknown_feature_is_centre", func(t *testing.T) {
		if got := c.Normalize("no_such_feature", 42); got != 0.5 {
			t.Errorf("Normalize(unknown) = %v, want 0.5", got)
		}
	})
}

func TestCalibrationObserveShiftsMean(t *testing.T) {
	c := NewCalibration()
	prior, _ := c.Stat(FeatPitch)

	// Repeated high-pitch observations should pull the mean upward
	for i := 0; i < 50; i++ {
		c.Observe(FeatPitch, 300)
	}

	after, _ := c.Stat(FeatPitch)
	if after.Mean <= prior.Mean {
		t.Errorf("mean after high observations = %v, want > prior %v", after.Mean, prior.Mean)
	}
	if after.Mean > 300 {
		t.Errorf("mean overshot observations: %v", after.Mean)
	}
	if after.StdDev < epsilon {
		t.Errorf("stddev collapsed to %v", after.StdDev)
	}
}

func TestCalibrationReset(t *testing.T) {
	c := NewCalibration()
	for i := 0; i < 50; i++ {
		c.Observe(FeatEnergy, 1e8)
	}
	c.Reset()

	prior := NewCalibration()
	got, _ := c.Stat(FeatEnergy)
	want, _ := prior.Stat(FeatEnergy)
	if got != want {
		t.Errorf("after reset stat = %+v, want prior %+v", got, want)
	}
}

func TestObserveAnalysisSkipsUnvoicedPitch(t *testing.T) {
	c := NewCalibration()
	prior, _ := c.Stat(FeatPitch)

	// Unvoiced windows (pitch 0) must not drag the pitch mean to zero
	c.ObserveAnalysis(Analysis{Pitch: 0, Energy: 1e6})

	after, _ := c.Stat(FeatPitch)
	if after.Mean != prior.Mean {
		t.Errorf("pitch mean moved on unvoiced window: %v -> %v", prior.Mean, after.Mean)
	}
}
