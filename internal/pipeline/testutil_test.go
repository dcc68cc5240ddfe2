package pipeline

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const testSampleRate = 16000

// makeVoiced synthesizes a harmonic tone with a slow amplitude envelope.
func makeVoiced(t *testing.T, f0, amplitude float64, n int) []float64 {
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

// makeNoise produces deterministic white noise from a small LCG.
func makeNoise(t *testing.T, amplitude float64, n int) []float64 {
	t.Helper()
	state := uint32(12345)
	samples := make([]float64, n)
	for i := range samples {
		state = state*1664525 + 1013904223
		samples[i] = amplitude * ((float64(state)/float64(0xFFFFFFFF))*2 - 1)
	}
	return samples
}

// writeTestWAV writes mono 16-bit PCM samples as a WAV file and returns
// its path.
func writeTestWAV(t *testing.T, samples []float64, sampleRate int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer f.Close()

	write := func(v any) {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatalf("failed to write WAV field: %v", err)
		}
	}

	dataSize := len(samples) * 2
	f.WriteString("RIFF")
	write(uint32(36 + dataSize))
	f.WriteString("WAVE")
	f.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1))
	write(uint16(1))
	write(uint32(sampleRate))
	write(uint32(sampleRate * 2))
	write(uint16(2))
	write(uint16(16))
	f.WriteString("data")
	write(uint32(dataSize))
	for _, s := range samples {
		if s > math.MaxInt16 {
			s = math.MaxInt16
		} else if s < math.MinInt16 {
			s = math.MinInt16
		}
		write(int16(s))
	}
	return path
}
