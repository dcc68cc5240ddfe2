package logging

import (
	"math"
	"testing"

	"github.com/voicelens/voicelens/internal/pipeline"
)

// summarize runs chunks through a fresh analyzer and returns the session
// summary, the only way summaries are built in production too.
func summarize(t *testing.T, chunks ...[]float64) pipeline.Summary {
	t.Helper()
	a := pipeline.NewAnalyzer(pipeline.DefaultConfig())
	for _, chunk := range chunks {
		a.AnalyzeChunk(chunk)
	}
	return a.Summary()
}

// toneChunk produces one chunk of a sine at the given amplitude.
func toneChunk(t *testing.T, amplitude float64) []float64 {
	t.Helper()
	samples := make([]float64, pipeline.DefaultChunkSize)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*200*float64(i)/16000)
	}
	return samples
}

// noiseChunk produces one chunk of deterministic noise.
func noiseChunk(t *testing.T, amplitude float64) []float64 {
	t.Helper()
	state := uint32(99)
	samples := make([]float64, pipeline.DefaultChunkSize)
	for i := range samples {
		state = state*1664525 + 1013904223
		samples[i] = amplitude * ((float64(state)/float64(0xFFFFFFFF))*2 - 1)
	}
	return samples
}

func ruleIDs(tips []RecordingTip) map[string]bool {
	ids := make(map[string]bool, len(tips))
	for _, tip := range tips {
		ids[tip.RuleID] = true
	}
	return ids
}

func TestGenerateRecordingTipsEmptySession(t *testing.T) {
	var s pipeline.Summary
	if tips := GenerateRecordingTips(s); tips != nil {
		t.Errorf("empty session produced %d tips", len(tips))
	}
}

func TestTipClipping(t *testing.T) {
	s := summarize(t, toneChunk(t, 32000), toneChunk(t, 32000))

	ids := ruleIDs(GenerateRecordingTips(s))
	if !ids["level_clipping"] {
		t.Error("full-scale audio did not fire level_clipping")
	}
	if ids["level_quiet"] || ids["level_too_quiet"] {
		t.Error("quiet-level tips fired on loud audio")
	}
}

func TestTipVeryQuiet(t *testing.T) {
	s := summarize(t, noiseChunk(t, 50), noiseChunk(t, 50), noiseChunk(t, 50))

	ids := ruleIDs(GenerateRecordingTips(s))
	if !ids["level_too_quiet"] {
		t.Error("near-silent audio did not fire level_too_quiet")
	}
	if ids["level_quiet"] {
		t.Error("level_quiet not excluded by level_too_quiet")
	}
	if ids["level_clipping"] {
		t.Error("level_clipping fired on near-silent audio")
	}
}

func TestTipModeratelyQuiet(t *testing.T) {
	// RMS around -33 dBFS, inside the moderate band.
	s := summarize(t, toneChunk(t, 1000), toneChunk(t, 1000))

	ids := ruleIDs(GenerateRecordingTips(s))
	if !ids["level_quiet"] {
		t.Error("moderately quiet audio did not fire level_quiet")
	}
	if ids["level_too_quiet"] {
		t.Error("level_too_quiet fired above its threshold")
	}
}

func TestTipNoNoiseProfile(t *testing.T) {
	// Loud from the first chunk, so no capture happens.
	s := summarize(t, toneChunk(t, 20000), toneChunk(t, 20000))

	ids := ruleIDs(GenerateRecordingTips(s))
	if !ids["no_noise_profile"] {
		t.Error("session without capture did not fire no_noise_profile")
	}
}

func TestTipMainsHum(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.MainsHz = 50
	a := pipeline.NewAnalyzer(cfg)

	hum := make([]float64, pipeline.DefaultChunkSize)
	for i := range hum {
		hum[i] = 40 * math.Sin(2*math.Pi*50*float64(i)/16000)
	}
	a.AnalyzeChunk(hum)

	ids := ruleIDs(GenerateRecordingTips(a.Summary()))
	if !ids["mains_hum"] {
		t.Error("humming noise profile did not fire mains_hum")
	}
}

func TestTipsSortedByPriority(t *testing.T) {
	s := summarize(t, toneChunk(t, 20000))

	tips := GenerateRecordingTips(s)
	for i := 1; i < len(tips); i++ {
		if tips[i].Priority > tips[i-1].Priority {
			t.Errorf("tips out of priority order: %+v", tips)
		}
	}
	if len(tips) > MaxRecordingTips {
		t.Errorf("tip count = %d exceeds cap %d", len(tips), MaxRecordingTips)
	}
}
