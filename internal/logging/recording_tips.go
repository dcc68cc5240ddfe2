package logging

import (
	"sort"
	"strings"

	"github.com/voicelens/voicelens/internal/pipeline"
)

// RecordingTip represents a single piece of actionable recording advice
// derived from session analysis.
type RecordingTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "level_too_quiet")
}

// MaxRecordingTips is the maximum number of tips to return.
const MaxRecordingTips = 5

// Level thresholds for the tip rules, in dBFS.
// Chunk levels are RMS, so a sustained level above -6 dBFS RMS implies
// waveform peaks at or beyond full scale for any realistic crest factor.
const (
	clippingPeakDB  = -6.0
	veryQuietMeanDB = -40.0
	quietMeanDB     = -30.0
)

// GenerateRecordingTips analyses the session summary and returns
// prioritised recording improvement suggestions.
func GenerateRecordingTips(s pipeline.Summary) []RecordingTip {
	if s.Chunks == 0 {
		return nil
	}

	var tips []RecordingTip
	firedRules := make(map[string]bool)

	rules := []func(pipeline.Summary) *RecordingTip{
		tipLevelTooHot,
		tipLevelTooQuiet,
		tipLevelQuiet,
		tipNoNoiseProfile,
		tipMainsHum,
		tipSpeakerCapacity,
	}

	for _, rule := range rules {
		if tip := rule(s); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, firedRules)

	// Sort by priority (descending)
	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	if len(tips) > MaxRecordingTips {
		tips = tips[:MaxRecordingTips]
	}

	return tips
}

// applyExclusions removes tips that are redundant when a more specific tip
// has already fired.
func applyExclusions(tips []RecordingTip, fired map[string]bool) []RecordingTip {
	var result []RecordingTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "level_quiet":
			if fired["level_too_quiet"] || fired["level_clipping"] {
				continue
			}
		case "no_noise_profile":
			if fired["level_too_quiet"] {
				// The whole recording reads as quiet; a noise-profile tip
				// would be misleading.
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// tipLevelTooHot fires when the peak level approaches full scale.
func tipLevelTooHot(s pipeline.Summary) *RecordingTip {
	if s.PeakLevelDB() < clippingPeakDB {
		return nil
	}
	return &RecordingTip{
		Priority: 9,
		RuleID:   "level_clipping",
		Message:  "Peaks are hitting full scale and may be clipping. Lower your input gain until peaks stay under -3 dBFS.",
	}
}

// tipLevelTooQuiet fires when the mean level is very low.
func tipLevelTooQuiet(s pipeline.Summary) *RecordingTip {
	if s.MeanLevelDB() >= veryQuietMeanDB {
		return nil
	}
	return &RecordingTip{
		Priority: 8,
		RuleID:   "level_too_quiet",
		Message:  "The recording is very quiet, which hurts pitch and emotion analysis. Raise your input gain or move closer to the microphone.",
	}
}

// tipLevelQuiet fires for moderately low mean levels.
func tipLevelQuiet(s pipeline.Summary) *RecordingTip {
	mean := s.MeanLevelDB()
	if mean < veryQuietMeanDB || mean >= quietMeanDB {
		return nil
	}
	return &RecordingTip{
		Priority: 5,
		RuleID:   "level_quiet",
		Message:  "The recording is on the quiet side. A little more input gain gives the analysis more signal to work with.",
	}
}

// tipNoNoiseProfile fires when no noise profile was captured, so no
// cancellation happened.
func tipNoNoiseProfile(s pipeline.Summary) *RecordingTip {
	if s.NoiseCaptured {
		return nil
	}
	return &RecordingTip{
		Priority: 4,
		RuleID:   "no_noise_profile",
		Message:  "No noise profile was captured. Start recordings with a second of room tone so background noise can be subtracted.",
	}
}

// tipMainsHum fires when the captured noise profile carried electrical
// hum at the local mains frequency.
func tipMainsHum(s pipeline.Summary) *RecordingTip {
	if !s.HumDetected {
		return nil
	}
	return &RecordingTip{
		Priority: 7,
		RuleID:   "mains_hum",
		Message:  "Electrical hum was detected in the room tone. Move audio cables away from power cables, or try a different outlet or a balanced connection.",
	}
}

// tipSpeakerCapacity fires when the speaker profile set saturated, which
// usually means varied acoustics rather than genuinely many voices.
func tipSpeakerCapacity(s pipeline.Summary) *RecordingTip {
	if len(s.SpeakerShares()) < 8 {
		return nil
	}
	return &RecordingTip{
		Priority: 6,
		RuleID:   "speaker_capacity",
		Message:  "All eight speaker slots filled, so further voices were merged into existing ones. Consistent microphone placement keeps each voice's profile stable.",
	}
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}
