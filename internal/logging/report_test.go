package logging

import (
	"strings"
	"testing"

	"github.com/voicelens/voicelens/internal/audio"
	"github.com/voicelens/voicelens/internal/pipeline"
)

func TestWriteSessionReport(t *testing.T) {
	s := summarize(t, noiseChunk(t, 50), toneChunk(t, 6000), toneChunk(t, 6000))
	result := &pipeline.FileResult{
		Path: "/tmp/interview.wav",
		Metadata: audio.Metadata{
			Duration:   0.3,
			SampleRate: 16000,
			Channels:   1,
		},
		Summary: s,
	}

	var b strings.Builder
	WriteSessionReport(&b, result)
	out := b.String()

	for _, want := range []string{
		"ANALYSIS: interview.wav",
		"Sample Rate: 16000 Hz",
		"Channels:    Mono",
		"LEVELS",
		"SPEAKERS",
		"Speaker 1",
		"EMOTIONS",
		"NOISE CANCELLATION",
		"Profile captured",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSessionReportNil(t *testing.T) {
	var b strings.Builder
	WriteSessionReport(&b, nil)
	if b.Len() != 0 {
		t.Errorf("nil result produced output: %q", b.String())
	}
}

func TestChannelName(t *testing.T) {
	tests := []struct {
		channels int
		want     string
	}{
		{1, "Mono"},
		{2, "Stereo"},
		{6, "6 channels"},
	}
	for _, tt := range tests {
		if got := channelName(tt.channels); got != tt.want {
			t.Errorf("channelName(%d) = %q, want %q", tt.channels, got, tt.want)
		}
	}
}
