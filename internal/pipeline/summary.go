package pipeline

import (
	"sort"

	"github.com/voicelens/voicelens/internal/emotion"
)

// Summary accumulates per-session aggregates for the end-of-run report:
// how the chunks split across emotions and speakers, and the level range
// observed. The zero value is an empty session.
type Summary struct {
	Chunks        int
	NoiseCaptured bool
	HumDetected   bool

	emotionChunks map[emotion.Label]int
	speakerChunks map[int]int
	speakerLabels map[int]string

	levelSum   float64
	levelPeak  float64
	levelValid bool
}

// observe folds one chunk result into the aggregates.
func (s *Summary) observe(res ChunkResult) {
	s.Chunks++
	if res.NoiseCaptured {
		s.NoiseCaptured = true
	}
	if res.HumDetected {
		s.HumDetected = true
	}

	if s.emotionChunks == nil {
		s.emotionChunks = make(map[emotion.Label]int)
		s.speakerChunks = make(map[int]int)
		s.speakerLabels = make(map[int]string)
	}
	s.emotionChunks[res.Emotion.Label]++
	s.speakerChunks[res.Speaker.SpeakerID]++
	s.speakerLabels[res.Speaker.SpeakerID] = res.Speaker.Label

	s.levelSum += res.LevelDB
	if !s.levelValid || res.LevelDB > s.levelPeak {
		s.levelPeak = res.LevelDB
	}
	s.levelValid = true
}

// EmotionShare is one emotion's slice of the session.
type EmotionShare struct {
	Label    emotion.Label
	Chunks   int
	Fraction float64
}

// SpeakerShare is one speaker's slice of the session.
type SpeakerShare struct {
	SpeakerID int
	Label     string
	Chunks    int
	Fraction  float64
}

// EmotionShares returns the per-emotion distribution, most frequent first,
// ties broken by label for deterministic output.
func (s Summary) EmotionShares() []EmotionShare {
	shares := make([]EmotionShare, 0, len(s.emotionChunks))
	for label, n := range s.emotionChunks {
		shares = append(shares, EmotionShare{
			Label:    label,
			Chunks:   n,
			Fraction: float64(n) / float64(s.Chunks),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Chunks != shares[j].Chunks {
			return shares[i].Chunks > shares[j].Chunks
		}
		return shares[i].Label < shares[j].Label
	})
	return shares
}

// SpeakerShares returns the per-speaker talk distribution in identity
// order.
func (s Summary) SpeakerShares() []SpeakerShare {
	shares := make([]SpeakerShare, 0, len(s.speakerChunks))
	for id, n := range s.speakerChunks {
		shares = append(shares, SpeakerShare{
			SpeakerID: id,
			Label:     s.speakerLabels[id],
			Chunks:    n,
			Fraction:  float64(n) / float64(s.Chunks),
		})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].SpeakerID < shares[j].SpeakerID })
	return shares
}

// MeanLevelDB returns the average chunk level, or the silence floor for an
// empty session.
func (s Summary) MeanLevelDB() float64 {
	if s.Chunks == 0 {
		return silenceLevelDB
	}
	return s.levelSum / float64(s.Chunks)
}

// PeakLevelDB returns the loudest chunk level, or the silence floor for an
// empty session.
func (s Summary) PeakLevelDB() float64 {
	if !s.levelValid {
		return silenceLevelDB
	}
	return s.levelPeak
}
