package emotion

import (
	"math"

	"github.com/voicelens/voicelens/internal/features"
)

// Fast-path rule constants. The energy scale divides raw mean-square
// amplitude (PCM units) into a [0,1] loudness estimate; the rule thresholds
// below are checked top to bottom and the first match wins.
const (
	fastEnergyScale = 5000.0

	angryEnergyMin  = 0.85
	angryZCRMin     = 0.025
	happyEnergyMin  = 0.60
	happyZCRMin     = 0.018
	urgentEnergyMin = 0.90
	urgentZCRMax    = 0.02
	sadEnergyMax    = 0.25

	silenceEnergy = 1e-10 // below this, the window is genuine silence

	angryConfidence   = 0.70
	happyConfidence   = 0.65
	urgentConfidence  = 0.75
	sadConfidence     = 0.60
	neutralConfidence = 0.70
)

// Advanced-path scoring constants.
const (
	thresholdBonus = 0.2  // added per feature inside a label's interval
	confidenceCap  = 0.95 // maximum reported confidence
	confidenceMin  = 0.10 // floor when the top two scores are close
)

// Classifier maps sample windows to emotion labels. It holds no mutable
// state of its own: the model tables are immutable and the extractor owns
// the calibration statistics.
type Classifier struct {
	model     *Model
	extractor *features.Extractor
}

// NewClassifier returns a classifier over the given model tables and
// feature extractor.
func NewClassifier(model *Model, extractor *features.Extractor) *Classifier {
	return &Classifier{model: model, extractor: extractor}
}

// Classify derives the emotion of one sample window at the requested tier.
// Always returns a label: degenerate windows fall through to neutral on the
// fast path and to the bias-dominated scores on the advanced path.
func (c *Classifier) Classify(samples []float64, tier features.Tier) Result {
	if tier == features.TierAdvanced {
		a := c.extractor.Analyze(samples)
		return c.classifyAdvanced(c.extractor.EmotionNormalized(a))
	}
	f := c.extractor.Fast(samples)
	return c.classifyFast(f.Energy, f.ZeroCrossingRate)
}

// ClassifyFeatures scores an already-extracted advanced analysis, letting a
// caller that needs the raw features for its own purposes avoid a second
// extraction pass.
func (c *Classifier) ClassifyFeatures(a features.Analysis) Result {
	return c.classifyAdvanced(c.extractor.EmotionNormalized(a))
}

// classifyFast applies the ordered threshold rules. rawEnergy is mean
// squared amplitude; zcr is the sign-change fraction. Rule order matters:
// the urgent rule is shadowed for high-zcr loud windows by the angry rule
// above it, which is the intended precedence.
func (c *Classifier) classifyFast(rawEnergy, zcr float64) Result {
	// True silence is no evidence of affect at all; without this guard the
	// low-energy rule would report a silent room as sad.
	if rawEnergy < silenceEnergy && zcr == 0 {
		return c.result(Neutral, neutralConfidence)
	}

	energy := rawEnergy / fastEnergyScale
	if energy > 1 {
		energy = 1
	}
	if energy < 0 {
		energy = 0
	}

	switch {
	case energy > angryEnergyMin && zcr > angryZCRMin:
		return c.result(Angry, angryConfidence)
	case energy > happyEnergyMin && zcr > happyZCRMin:
		return c.result(Happy, happyConfidence)
	case energy > urgentEnergyMin && zcr < urgentZCRMax:
		return c.result(Urgent, urgentConfidence)
	case energy < sadEnergyMax:
		return c.result(Sad, sadConfidence)
	default:
		return c.result(Neutral, neutralConfidence)
	}
}

// classifyAdvanced scores every label over the normalized feature map:
// bias + weighted sum + a fixed bonus per feature inside the label's
// threshold interval, squashed through a logistic. The winner is the
// highest score; confidence is the squashed margin over the runner-up,
// capped and floored. Ties go to the earliest label in definition order.
func (c *Classifier) classifyAdvanced(normalized map[string]float64) Result {
	best, second := math.Inf(-1), math.Inf(-1)
	winner := Neutral
	for _, label := range labelOrder {
		score := c.scoreLabel(label, normalized)
		if score > best {
			second = best
			best = score
			winner = label
		} else if score > second {
			second = score
		}
	}

	confidence := best - second
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	if confidence < confidenceMin {
		confidence = confidenceMin
	}
	return c.result(winner, confidence)
}

// scoreLabel computes one label's squashed score.
func (c *Classifier) scoreLabel(label Label, normalized map[string]float64) float64 {
	lm := c.model.byLabel[label]
	score := lm.Bias
	for feature, weight := range lm.Weights {
		score += weight * normalized[feature]
	}
	for feature, interval := range lm.Thresholds {
		if interval.Contains(normalized[feature]) {
			score += thresholdBonus
		}
	}
	return sigmoid(score)
}

func (c *Classifier) result(label Label, confidence float64) Result {
	return Result{Label: label, Confidence: confidence, Glyph: c.model.Glyph(label)}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
