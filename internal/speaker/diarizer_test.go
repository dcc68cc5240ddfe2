package speaker

import (
	"math"
	"testing"

	"github.com/voicelens/voicelens/internal/features"
)

const testSampleRate = 16000

func newTestDiarizer() *Diarizer {
	return NewDiarizer(DefaultConfig(), features.NewExtractor(testSampleRate, nil))
}

// makeVoiced synthesizes a harmonic tone with a slow amplitude envelope,
// roughly the shape of a sustained vowel.
func makeVoiced(t *testing.T, f0 float64, amplitude float64, n int) []float64 {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		ts := float64(i) / testSampleRate
		env := 0.8 + 0.2*math.Sin(2*math.Pi*3*ts)
		s := math.Sin(2*math.Pi*f0*ts)
		s += 0.5 * math.Sin(2*math.Pi*2*f0*ts)
		s += 0.25 * math.Sin(2*math.Pi*3*f0*ts)
		samples[i] = amplitude * env * s
	}
	return samples
}

// axisVector returns a fast-tier feature vector concentrated on the given
// dimensions. Distinct axis sets have pairwise cosine similarity at most
// 1/sqrt(2), well under the default threshold.
func axisVector(value float64, dims ...int) []float64 {
	v := make([]float64, features.FastSpeakerLen)
	for _, d := range dims {
		v[d] = value
	}
	return v
}

func TestIdentifySameWindowSameSpeaker(t *testing.T) {
	d := newTestDiarizer()
	window := makeVoiced(t, 150, 6000, 1600)

	first := d.Identify(window, features.TierFast)
	second := d.Identify(window, features.TierFast)

	if first.SpeakerID != 1 {
		t.Fatalf("first window: got speaker %d, want 1", first.SpeakerID)
	}
	if second.SpeakerID != first.SpeakerID {
		t.Errorf("identical windows split: %d then %d", first.SpeakerID, second.SpeakerID)
	}
	if second.Confidence <= DefaultSimilarityThreshold {
		t.Errorf("identical window confidence = %f, want > %f", second.Confidence, DefaultSimilarityThreshold)
	}
	if d.Count() != 1 {
		t.Errorf("profile count = %d, want 1", d.Count())
	}
}

func TestAssignFoundsProfilesUpToCapacity(t *testing.T) {
	d := newTestDiarizer()

	vectors := [][]float64{
		axisVector(0.9, 0),
		axisVector(0.9, 1),
		axisVector(0.9, 2),
		axisVector(0.9, 3),
		axisVector(0.9, 4),
		axisVector(0.9, 5),
		axisVector(0.6, 0, 1),
		axisVector(0.6, 2, 3),
	}
	for i, v := range vectors {
		res := d.assign(v, features.TierFast)
		if res.SpeakerID != i+1 {
			t.Fatalf("vector %d: got speaker %d, want %d", i, res.SpeakerID, i+1)
		}
		if res.Confidence != 1.0 {
			t.Errorf("new profile %d confidence = %f, want 1.0", i+1, res.Confidence)
		}
	}
	if d.Count() != DefaultMaxSpeakers {
		t.Fatalf("profile count = %d, want %d", d.Count(), DefaultMaxSpeakers)
	}

	// A ninth distinct voice must be absorbed, not grow the set.
	ninth := d.assign(axisVector(0.6, 4, 5), features.TierFast)
	if d.Count() != DefaultMaxSpeakers {
		t.Errorf("after forced assignment count = %d, want %d", d.Count(), DefaultMaxSpeakers)
	}
	if ninth.SpeakerID < 1 || ninth.SpeakerID > DefaultMaxSpeakers {
		t.Errorf("forced assignment speaker = %d, want within 1..%d", ninth.SpeakerID, DefaultMaxSpeakers)
	}
	if ninth.Confidence < 0 || ninth.Confidence > 1 {
		t.Errorf("forced assignment confidence = %f, out of range", ninth.Confidence)
	}
}

func TestResetRestartsNumbering(t *testing.T) {
	d := newTestDiarizer()
	d.assign(axisVector(0.9, 0), features.TierFast)
	d.assign(axisVector(0.9, 1), features.TierFast)

	d.Reset()
	if d.Count() != 0 {
		t.Fatalf("count after reset = %d, want 0", d.Count())
	}

	res := d.assign(axisVector(0.9, 2), features.TierFast)
	if res.SpeakerID != 1 {
		t.Errorf("first speaker after reset = %d, want 1", res.SpeakerID)
	}
}

func TestSilentWindowPlaceholder(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		d := newTestDiarizer()
		res := d.Identify(make([]float64, 1600), features.TierFast)
		if res.SpeakerID != 1 {
			t.Errorf("speaker = %d, want placeholder profile 1", res.SpeakerID)
		}
		if res.Confidence != placeholderConfidence {
			t.Errorf("confidence = %f, want %f", res.Confidence, placeholderConfidence)
		}
	})

	t.Run("existing profiles", func(t *testing.T) {
		d := newTestDiarizer()
		d.assign(axisVector(0.9, 0), features.TierFast)
		d.assign(axisVector(0.9, 1), features.TierFast)

		res := d.Identify(nil, features.TierFast)
		if res.SpeakerID != 1 {
			t.Errorf("silent window speaker = %d, want first profile", res.SpeakerID)
		}
		if res.Confidence != placeholderConfidence {
			t.Errorf("confidence = %f, want %f", res.Confidence, placeholderConfidence)
		}
		if d.Count() != 2 {
			t.Errorf("silence grew profile set to %d", d.Count())
		}
	})
}

func TestProfileAttributesDeterministic(t *testing.T) {
	d := newTestDiarizer()
	for i := 0; i < 3; i++ {
		d.assign(axisVector(0.9, i), features.TierFast)
	}

	wantLabels := []string{"Speaker 1", "Speaker 2", "Speaker 3"}
	for i, p := range d.Profiles() {
		if p.Label != wantLabels[i] {
			t.Errorf("profile %d label = %q, want %q", i, p.Label, wantLabels[i])
		}
		if p.Color != palette[i] {
			t.Errorf("profile %d color = %q, want %q", i, p.Color, palette[i])
		}
	}
}

func TestFastCentroidDecay(t *testing.T) {
	d := newTestDiarizer()
	base := []float64{0.8, 0.2, 0.5, 0.4, 0.1, 0.0}
	next := []float64{0.8, 0.2, 0.5, 0.4, 0.1, 0.5}

	d.assign(base, features.TierFast)
	d.assign(next, features.TierFast)

	if d.Count() != 1 {
		t.Fatalf("similar vectors split into %d profiles", d.Count())
	}
	centroid := d.Profiles()[0].Centroid
	for i := range base {
		want := (1-fastCentroidDecay)*base[i] + fastCentroidDecay*next[i]
		if math.Abs(centroid[i]-want) > 1e-12 {
			t.Errorf("centroid[%d] = %f, want %f", i, centroid[i], want)
		}
	}
}

func TestAdvancedCentroidIsHistoryMean(t *testing.T) {
	d := newTestDiarizer()
	first := make([]float64, features.AdvancedSpeakerLen)
	second := make([]float64, features.AdvancedSpeakerLen)
	for i := range first {
		first[i] = 0.4
		second[i] = 0.6
	}

	d.assign(first, features.TierAdvanced)
	d.assign(second, features.TierAdvanced)

	if d.Count() != 1 {
		t.Fatalf("similar vectors split into %d profiles", d.Count())
	}
	centroid := d.Profiles()[0].Centroid
	for i := range centroid {
		if math.Abs(centroid[i]-0.5) > 1e-12 {
			t.Errorf("centroid[%d] = %f, want 0.5", i, centroid[i])
		}
	}
}

func TestAdvancedHistoryBounded(t *testing.T) {
	d := newTestDiarizer()
	v := make([]float64, features.AdvancedSpeakerLen)
	for i := range v {
		v[i] = 0.5
	}
	for i := 0; i < DefaultAdvancedHistory+5; i++ {
		d.assign(v, features.TierAdvanced)
	}

	if got := len(d.Profiles()[0].history); got != DefaultAdvancedHistory {
		t.Errorf("history length = %d, want %d", got, DefaultAdvancedHistory)
	}
}

func TestNewDiarizerZeroConfigDefaults(t *testing.T) {
	d := NewDiarizer(Config{}, features.NewExtractor(testSampleRate, nil))
	want := DefaultConfig()
	if d.cfg != want {
		t.Errorf("zero config resolved to %+v, want %+v", d.cfg, want)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1, 0, 9}, []float64{1, 0}, 1},
		{"empty", nil, []float64{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("cosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}
