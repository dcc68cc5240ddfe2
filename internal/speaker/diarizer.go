// Package speaker identifies which of a bounded set of recurring speakers
// produced a sample window. Profiles are learned online: each window's
// feature vector is matched against per-speaker centroids by cosine
// similarity, updating the winner or founding a new profile up to the
// configured capacity.
package speaker

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/voicelens/voicelens/internal/features"
)

// Tuning defaults. Exposed through Config because adjusting them is an
// expected operation, not an internal detail.
const (
	// DefaultSimilarityThreshold is the minimum cosine similarity for a
	// window to join an existing profile rather than found a new one.
	DefaultSimilarityThreshold = 0.75
	// DefaultMaxSpeakers bounds the live profile set. Once reached, every
	// window is force-assigned to its nearest profile.
	DefaultMaxSpeakers = 8
	// DefaultFastHistory and DefaultAdvancedHistory bound the per-profile
	// retained vector history for each tier.
	DefaultFastHistory     = 5
	DefaultAdvancedHistory = 10

	// fastCentroidDecay is the exponential centroid update for the fast
	// path: new = (1-decay)*old + decay*incoming.
	fastCentroidDecay = 0.2

	// placeholderConfidence is reported for silent/zero windows, which
	// carry no speaker evidence either way.
	placeholderConfidence = 0.5

	epsilon = 1e-10
)

// palette assigns display colors to profiles by creation order, cycling
// when capacity exceeds the palette length.
var palette = []string{
	"#E06C75", "#61AFEF", "#98C379", "#E5C07B",
	"#C678DD", "#56B6C2", "#D19A66", "#ABB2BF",
}

// Config holds the diarizer tunables.
type Config struct {
	SimilarityThreshold float64
	MaxSpeakers         int
	FastHistory         int
	AdvancedHistory     int
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxSpeakers:         DefaultMaxSpeakers,
		FastHistory:         DefaultFastHistory,
		AdvancedHistory:     DefaultAdvancedHistory,
	}
}

// Profile is one learned speaker: a stable integer identity, the centroid
// summarizing recent feature vectors, a bounded most-recent history, and
// deterministic display attributes.
type Profile struct {
	ID       int
	Label    string
	Color    string
	Centroid []float64

	history [][]float64
}

// Result is one identification outcome.
type Result struct {
	SpeakerID  int
	Confidence float64 // [0,1]
	Color      string
	Label      string
}

// Diarizer owns the profile set. Identities increase monotonically and are
// never reused; Reset is the only destruction path. Not safe for concurrent
// use: the pipeline serializes windows.
type Diarizer struct {
	cfg       Config
	extractor *features.Extractor

	profiles []*Profile
	nextID   int
}

// NewDiarizer returns an empty diarizer. Zero-valued config fields fall
// back to the documented defaults.
func NewDiarizer(cfg Config, extractor *features.Extractor) *Diarizer {
	def := DefaultConfig()
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = def.SimilarityThreshold
	}
	if cfg.MaxSpeakers <= 0 {
		cfg.MaxSpeakers = def.MaxSpeakers
	}
	if cfg.FastHistory <= 0 {
		cfg.FastHistory = def.FastHistory
	}
	if cfg.AdvancedHistory <= 0 {
		cfg.AdvancedHistory = def.AdvancedHistory
	}
	return &Diarizer{cfg: cfg, extractor: extractor, nextID: 1}
}

// Identify assigns one sample window to a speaker profile, creating or
// updating profiles as needed. Always returns a valid result, including for
// empty and silent windows.
func (d *Diarizer) Identify(samples []float64, tier features.Tier) Result {
	return d.assign(d.extractor.SpeakerVector(samples, tier), tier)
}

// assign runs the per-window state machine over an already-extracted
// feature vector.
func (d *Diarizer) assign(vector []float64, tier features.Tier) Result {
	// Silent windows carry no evidence: report the first known profile, or
	// found a placeholder when the session has none yet.
	if allZero(vector) {
		if len(d.profiles) == 0 {
			p := d.newProfile(vector)
			return d.resultFor(p, placeholderConfidence)
		}
		return d.resultFor(d.profiles[0], placeholderConfidence)
	}

	if len(d.profiles) == 0 {
		p := d.newProfile(vector)
		return d.resultFor(p, 1.0)
	}

	best, bestSim := d.mostSimilar(vector)
	if bestSim > d.cfg.SimilarityThreshold {
		d.update(best, vector, tier)
		return d.resultFor(best, clamp01(bestSim))
	}

	if len(d.profiles) < d.cfg.MaxSpeakers {
		p := d.newProfile(vector)
		return d.resultFor(p, 1.0)
	}

	// At capacity: force-assign to the nearest profile regardless of the
	// threshold so the set never exceeds MaxSpeakers.
	d.update(best, vector, tier)
	return d.resultFor(best, clamp01(bestSim))
}

// Count returns the number of live profiles.
func (d *Diarizer) Count() int { return len(d.profiles) }

// Profiles returns the live profiles in creation order.
func (d *Diarizer) Profiles() []*Profile { return d.profiles }

// Reset clears all profiles and restarts identity numbering at 1.
func (d *Diarizer) Reset() {
	d.profiles = nil
	d.nextID = 1
}

// mostSimilar scans every profile centroid and returns the best cosine
// match. Callers guarantee at least one profile exists.
func (d *Diarizer) mostSimilar(vector []float64) (*Profile, float64) {
	var best *Profile
	bestSim := -1.0
	for _, p := range d.profiles {
		if sim := cosineSimilarity(vector, p.Centroid); sim > bestSim {
			bestSim = sim
			best = p
		}
	}
	return best, bestSim
}

// newProfile founds a profile from the window's vector with deterministic
// label and color from creation order.
func (d *Diarizer) newProfile(vector []float64) *Profile {
	centroid := make([]float64, len(vector))
	copy(centroid, vector)

	p := &Profile{
		ID:       d.nextID,
		Label:    fmt.Sprintf("Speaker %d", d.nextID),
		Color:    palette[(d.nextID-1)%len(palette)],
		Centroid: centroid,
	}
	p.history = append(p.history, centroid)
	d.nextID++
	d.profiles = append(d.profiles, p)
	return p
}

// update appends the vector to the profile's bounded history and refreshes
// the centroid: exponential decay on the fast path, full-history arithmetic
// mean on the advanced path.
func (d *Diarizer) update(p *Profile, vector []float64, tier features.Tier) {
	limit := d.cfg.FastHistory
	if tier == features.TierAdvanced {
		limit = d.cfg.AdvancedHistory
	}
	p.history = append(p.history, vector)
	if len(p.history) > limit {
		p.history = p.history[len(p.history)-limit:]
	}

	if tier == features.TierAdvanced {
		p.Centroid = historyMean(p.history, len(vector))
		return
	}
	if len(p.Centroid) != len(vector) {
		// Tier switch mid-session: restart the centroid at the new length
		p.Centroid = append([]float64(nil), vector...)
		return
	}
	for i := range p.Centroid {
		p.Centroid[i] = (1-fastCentroidDecay)*p.Centroid[i] + fastCentroidDecay*vector[i]
	}
}

// historyMean recomputes the arithmetic mean of all retained vectors.
// Vectors of a different length (from a tier switch) are skipped.
func historyMean(history [][]float64, dim int) []float64 {
	mean := make([]float64, dim)
	count := 0
	for _, v := range history {
		if len(v) != dim {
			continue
		}
		floats.Add(mean, v)
		count++
	}
	if count > 0 {
		floats.Scale(1/float64(count), mean)
	}
	return mean
}

func (d *Diarizer) resultFor(p *Profile, confidence float64) Result {
	return Result{SpeakerID: p.ID, Confidence: confidence, Color: p.Color, Label: p.Label}
}

// cosineSimilarity is the normalized dot product of two vectors, compared
// index-aligned up to the shorter length. Zero-norm vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	a, b = a[:n], b[:n]

	dot := floats.Dot(a, b)
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA < epsilon || normB < epsilon {
		return 0
	}
	return dot / (normA * normB)
}

func allZero(vector []float64) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
