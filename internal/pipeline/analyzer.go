// Package pipeline orchestrates the per-chunk analysis flow: optional
// noise cancellation, then emotion classification and speaker
// identification on the cleaned samples. It owns one instance of each
// component and the session-level state between chunks.
package pipeline

import (
	"math"

	"github.com/voicelens/voicelens/internal/denoise"
	"github.com/voicelens/voicelens/internal/emotion"
	"github.com/voicelens/voicelens/internal/features"
	"github.com/voicelens/voicelens/internal/mains"
	"github.com/voicelens/voicelens/internal/speaker"
)

const (
	// DefaultSampleRate is the assumed input rate in Hz.
	DefaultSampleRate = 16000

	// DefaultChunkSize is the analysis window length in samples, 100ms at
	// the default rate.
	DefaultChunkSize = 1600

	// DefaultNoiseCaptureChunks is how many leading chunks of a session
	// are considered for automatic noise-profile capture.
	DefaultNoiseCaptureChunks = 5

	// DefaultNoiseEnergyCeiling is the maximum mean-square amplitude (in
	// 16-bit PCM units) for a chunk to count as noise-only. Speech runs
	// two to three orders of magnitude above this.
	DefaultNoiseEnergyCeiling = 10000.0

	// silenceLevelDB is the meter floor reported for silent chunks.
	silenceLevelDB = -60.0

	// fullScale is the RMS reference for dBFS conversion, the largest
	// 16-bit PCM magnitude.
	fullScale = 32768.0
)

// Config collects the pipeline tunables plus the per-component ones, so a
// caller adjusts everything through a single value.
type Config struct {
	SampleRate int
	Tier       features.Tier
	ChunkSize  int

	// Automatic noise capture: the first chunk within the leading
	// NoiseCaptureChunks whose energy stays under NoiseEnergyCeiling
	// becomes the session noise profile.
	NoiseCaptureChunks int
	NoiseEnergyCeiling float64

	// OnlineCalibration updates the feature calibration statistics from
	// each advanced-tier chunk.
	OnlineCalibration bool

	// MainsHz is the local electrical mains frequency used for hum
	// detection on the captured noise chunk. Zero means detect it from
	// the system timezone.
	MainsHz int

	Denoise denoise.Config
	Speaker speaker.Config
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		SampleRate:         DefaultSampleRate,
		Tier:               features.TierFast,
		ChunkSize:          DefaultChunkSize,
		NoiseCaptureChunks: DefaultNoiseCaptureChunks,
		NoiseEnergyCeiling: DefaultNoiseEnergyCeiling,
		OnlineCalibration:  true,
		Denoise:            denoise.DefaultConfig(),
		Speaker:            speaker.DefaultConfig(),
	}
}

// ChunkResult is the analysis outcome for one audio chunk.
type ChunkResult struct {
	// Samples is the denoised audio, padded to the transform size when a
	// noise profile is active, otherwise the input unchanged.
	Samples []float64

	Emotion emotion.Result
	Speaker speaker.Result

	// LevelDB is the chunk RMS level in dBFS, floored at -60.
	LevelDB float64

	// NoiseCaptured reports that this chunk became the session noise
	// profile instead of being analyzed as speech.
	NoiseCaptured bool

	// HumDetected reports mains hum in the captured noise chunk. Only
	// ever set alongside NoiseCaptured.
	HumDetected bool
}

// Analyzer runs the synchronous per-chunk pipeline. Not safe for
// concurrent use: chunks are discrete events processed to completion one
// at a time.
type Analyzer struct {
	cfg        Config
	extractor  *features.Extractor
	classifier *emotion.Classifier
	diarizer   *speaker.Diarizer
	canceller  *denoise.Canceller

	chunksSeen int
	summary    Summary
}

// NewAnalyzer wires up one instance of every component. Zero-valued config
// fields fall back to the documented defaults.
func NewAnalyzer(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.NoiseCaptureChunks <= 0 {
		cfg.NoiseCaptureChunks = def.NoiseCaptureChunks
	}
	if cfg.NoiseEnergyCeiling <= 0 {
		cfg.NoiseEnergyCeiling = def.NoiseEnergyCeiling
	}
	if cfg.MainsHz <= 0 {
		cfg.MainsHz = mains.Frequency()
	}

	extractor := features.NewExtractor(cfg.SampleRate, nil)
	return &Analyzer{
		cfg:        cfg,
		extractor:  extractor,
		classifier: emotion.NewClassifier(emotion.NewModel(), extractor),
		diarizer:   speaker.NewDiarizer(cfg.Speaker, extractor),
		canceller:  denoise.NewCanceller(cfg.Denoise),
	}
}

// Config returns the resolved configuration in effect.
func (a *Analyzer) Config() Config { return a.cfg }

// AnalyzeChunk processes one chunk synchronously: auto noise capture,
// cancellation, then emotion and speaker analysis on the cleaned samples.
func (a *Analyzer) AnalyzeChunk(samples []float64) ChunkResult {
	a.chunksSeen++

	if a.maybeCapture(samples) {
		res := ChunkResult{
			Samples:       samples,
			Emotion:       a.classifier.Classify(samples, a.cfg.Tier),
			Speaker:       a.diarizer.Identify(samples, a.cfg.Tier),
			LevelDB:       levelDB(samples),
			NoiseCaptured: true,
			HumDetected:   detectHum(samples, a.cfg.SampleRate, a.cfg.MainsHz),
		}
		a.summary.observe(res)
		return res
	}

	cleaned := a.canceller.Apply(samples)

	res := ChunkResult{
		Samples: cleaned,
		LevelDB: levelDB(cleaned),
	}
	if a.cfg.Tier == features.TierAdvanced {
		analysis := a.extractor.Analyze(cleaned)
		if a.cfg.OnlineCalibration {
			a.extractor.Calibration().ObserveAnalysis(analysis)
		}
		res.Emotion = a.classifier.ClassifyFeatures(analysis)
	} else {
		res.Emotion = a.classifier.Classify(cleaned, a.cfg.Tier)
	}
	res.Speaker = a.diarizer.Identify(cleaned, a.cfg.Tier)

	a.summary.observe(res)
	return res
}

// maybeCapture claims an early quiet chunk as the session noise profile.
// Capture happens at most once per session.
func (a *Analyzer) maybeCapture(samples []float64) bool {
	if a.canceller.Ready() || a.chunksSeen > a.cfg.NoiseCaptureChunks {
		return false
	}
	if len(samples) < denoise.ProfileSampleCount {
		return false
	}
	if chunkEnergy(samples) > a.cfg.NoiseEnergyCeiling {
		return false
	}
	a.canceller.SetNoiseProfile(samples)
	return a.canceller.Ready()
}

// NoiseProfileReady reports whether the session noise profile is set.
func (a *Analyzer) NoiseProfileReady() bool { return a.canceller.Ready() }

// SpeakerCount returns the number of live speaker profiles.
func (a *Analyzer) SpeakerCount() int { return a.diarizer.Count() }

// Summary returns the session aggregates so far.
func (a *Analyzer) Summary() Summary { return a.summary }

// ResetSession clears all cross-chunk state: noise profile, speaker
// profiles, calibration statistics, flux history and aggregates.
func (a *Analyzer) ResetSession() {
	a.canceller.Reset()
	a.diarizer.Reset()
	a.extractor.Calibration().Reset()
	a.extractor.ResetFlux()
	a.chunksSeen = 0
	a.summary = Summary{}
}

func chunkEnergy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return sum / float64(len(samples))
}

// levelDB converts chunk RMS to dBFS for meter display, clamped to
// [-60, 0].
func levelDB(samples []float64) float64 {
	rms := math.Sqrt(chunkEnergy(samples))
	if rms < 1e-5 {
		return silenceLevelDB
	}
	db := 20 * math.Log10(rms/fullScale)
	if db < silenceLevelDB {
		return silenceLevelDB
	}
	if db > 0 {
		return 0
	}
	return db
}
