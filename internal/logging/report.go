// Package logging handles generation of session reports for analyzed
// audio files. This file provides the console report writer.

package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/voicelens/voicelens/internal/pipeline"
)

// WriteSessionReport outputs the full analysis report for one file:
// metadata, level statistics, speaker and emotion distributions, noise
// cancellation state and recording tips.
func WriteSessionReport(w io.Writer, result *pipeline.FileResult) {
	if result == nil {
		return
	}
	s := result.Summary

	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "ANALYSIS: %s\n", filepath.Base(result.Path))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	// File info
	fmt.Fprintf(w, "Duration:    %s\n", formatDurationHMS(result.Metadata.Duration))
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", result.Metadata.SampleRate)
	fmt.Fprintf(w, "Channels:    %s\n", channelName(result.Metadata.Channels))
	fmt.Fprintf(w, "Chunks:      %d\n", s.Chunks)
	fmt.Fprintln(w)

	// Levels section
	writeSection(w, "LEVELS")
	fmt.Fprintf(w, "  Mean Level:  %s dBFS\n", formatMetric(s.MeanLevelDB(), 1))
	fmt.Fprintf(w, "  Peak Level:  %s dBFS\n", formatMetric(s.PeakLevelDB(), 1))
	fmt.Fprintln(w)

	// Speakers section
	writeSection(w, "SPEAKERS")
	speakers := s.SpeakerShares()
	if len(speakers) == 0 {
		fmt.Fprintln(w, "  No speakers identified")
	} else {
		table := NewMetricTable("Chunks", "Share")
		for _, share := range speakers {
			table.AddRow("  "+share.Label,
				[]string{fmt.Sprintf("%d", share.Chunks), formatPercent(share.Fraction)},
				"", "")
		}
		fmt.Fprint(w, table.String())
	}
	fmt.Fprintln(w)

	// Emotions section
	writeSection(w, "EMOTIONS")
	emotions := s.EmotionShares()
	if len(emotions) == 0 {
		fmt.Fprintln(w, "  No chunks classified")
	} else {
		table := NewMetricTable("Chunks", "Share")
		for _, share := range emotions {
			table.AddRow("  "+string(share.Label),
				[]string{fmt.Sprintf("%d", share.Chunks), formatPercent(share.Fraction)},
				"", "")
		}
		fmt.Fprint(w, table.String())
	}
	fmt.Fprintln(w)

	// Noise cancellation section
	writeSection(w, "NOISE CANCELLATION")
	if s.NoiseCaptured {
		fmt.Fprintln(w, "  Profile captured from early quiet audio; spectral subtraction active")
		if s.HumDetected {
			fmt.Fprintln(w, "  Mains hum present in the captured profile")
		}
	} else {
		fmt.Fprintln(w, "  No noise profile captured (no quiet audio in the opening chunks)")
	}
	fmt.Fprintln(w)

	// Tips section
	tips := GenerateRecordingTips(s)
	if len(tips) > 0 {
		writeSection(w, "RECORDING TIPS")
		for _, tip := range tips {
			fmt.Fprintf(w, "  • %s\n", wrapText(tip.Message, 64, "    "))
		}
		fmt.Fprintln(w)
	}
}

// writeSection writes a section header for report output.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}

// channelName maps a channel count to a display name.
func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}

// formatDurationHMS formats duration as "Xh Ym Zs" or "Ym Zs" or "Z.Xs".
func formatDurationHMS(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
