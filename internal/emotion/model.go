// Package emotion maps acoustic feature vectors to one of five affect
// labels with a confidence score. The fast path applies ordered threshold
// rules over energy and zero-crossing rate; the advanced path scores each
// label with a weighted model over calibration-normalized features.
package emotion

import "github.com/voicelens/voicelens/internal/features"

// Label is one of the five affect classes.
type Label string

const (
	Neutral Label = "neutral"
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Urgent  Label = "urgent"
)

// labelOrder is the definition order. Score ties resolve to the earliest
// label in this order, which keeps classification deterministic.
var labelOrder = []Label{Neutral, Happy, Sad, Angry, Urgent}

// Result is one classification outcome.
type Result struct {
	Label      Label
	Confidence float64 // [0,1]
	Glyph      string  // display glyph, empty for neutral
}

// Interval is a closed value range used by the per-feature threshold bonus.
type Interval struct {
	Lo, Hi float64
}

// Contains reports whether x falls inside the interval.
func (iv Interval) Contains(x float64) bool { return x >= iv.Lo && x <= iv.Hi }

// LabelModel scores one label: a weight per feature name, a bias, and a
// threshold interval per feature name that contributes a fixed bonus when
// the normalized value falls inside it.
type LabelModel struct {
	Bias       float64
	Weights    map[string]float64
	Thresholds map[string]Interval
}

// Model holds the per-label scoring tables and glyph mapping. Built once at
// process start and passed by reference into the classifier; never mutated
// afterwards.
type Model struct {
	byLabel map[Label]LabelModel
	glyphs  map[Label]string
}

// Glyph returns the display glyph for a label.
func (m *Model) Glyph(l Label) string { return m.glyphs[l] }

// NewModel builds the emotion scoring tables. Weights and threshold
// intervals operate on calibration-normalized [0,1] features; they encode
// the usual prosodic correlates (arousal raises energy and pitch, sadness
// lowers both, anger adds roughness via jitter/shimmer and depressed HNR).
func NewModel() *Model {
	return &Model{
		glyphs: map[Label]string{
			Angry:   "😠",
			Urgent:  "⚠️",
			Sad:     "😢",
			Happy:   "😊",
			Neutral: "",
		},
		byLabel: map[Label]LabelModel{
			Neutral: {
				Bias: 0.25,
				Weights: map[string]float64{
					features.FeatEnergy: -0.1,
					features.FeatJitter: -0.3,
					features.FeatHNR:    0.3,
				},
				Thresholds: map[string]Interval{
					features.FeatEnergy: {0.30, 0.60},
					features.FeatPitch:  {0.35, 0.60},
					features.FeatZCR:    {0.20, 0.55},
				},
			},
			Happy: {
				Bias: 0.0,
				Weights: map[string]float64{
					features.FeatEnergy:  0.7,
					features.FeatPitch:   0.9,
					features.FeatHNR:     0.4,
					features.FeatShimmer: 0.2,
				},
				Thresholds: map[string]Interval{
					features.FeatEnergy: {0.55, 0.90},
					features.FeatPitch:  {0.60, 1.00},
					features.FeatHNR:    {0.55, 1.00},
				},
			},
			Sad: {
				Bias: 0.1,
				Weights: map[string]float64{
					features.FeatEnergy:          -0.9,
					features.FeatPitch:           -0.6,
					features.FeatZCR:             -0.3,
					features.FeatSpectralEntropy: 0.2,
				},
				Thresholds: map[string]Interval{
					features.FeatEnergy: {0.00, 0.35},
					features.FeatPitch:  {0.00, 0.40},
					features.FeatHNR:    {0.00, 0.45},
				},
			},
			Angry: {
				Bias: -0.1,
				Weights: map[string]float64{
					features.FeatEnergy:          1.0,
					features.FeatZCR:             0.5,
					features.FeatJitter:          0.4,
					features.FeatShimmer:         0.5,
					features.FeatSpectralEntropy: 0.3,
					features.FeatHNR:             -0.4,
				},
				Thresholds: map[string]Interval{
					features.FeatEnergy:  {0.70, 1.00},
					features.FeatZCR:     {0.55, 1.00},
					features.FeatShimmer: {0.60, 1.00},
				},
			},
			Urgent: {
				Bias: -0.15,
				Weights: map[string]float64{
					features.FeatEnergy: 0.9,
					features.FeatPitch:  0.6,
					features.FeatJitter: 0.3,
					features.FeatZCR:    -0.2,
				},
				Thresholds: map[string]Interval{
					features.FeatEnergy: {0.75, 1.00},
					features.FeatPitch:  {0.60, 1.00},
					features.FeatZCR:    {0.00, 0.45},
				},
			},
		},
	}
}
