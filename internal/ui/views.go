package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spinner frames for the active file indicator
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderAnalysisView renders the main live view
func renderAnalysisView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderFileQueue(m))
	b.WriteString("\n\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#61AFEF")).
		Render("VoiceLens 🎙 - Speech Emotion & Speaker Analysis")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Analyzing %d file(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status
func renderFileQueue(m Model) string {
	var b strings.Builder

	for i, file := range m.Files {
		b.WriteString(renderFileEntry(file, i, m))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFileEntry renders a single file entry in the queue
func renderFileEntry(file FileProgress, index int, m Model) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379")).Render("✓")
		summary := ""
		if file.Result != nil {
			s := file.Result.Summary
			summary = fmt.Sprintf("%d chunks | %d speaker(s) | peak %.1f dB",
				s.Chunks, len(s.SpeakerShares()), s.PeakLevelDB())
		}
		return fmt.Sprintf(" %s %s\n   %s", icon, fileName, summary)

	case StatusAnalyzing:
		spinner := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#61AFEF")).
			Render(spinnerFrames[m.spinnerIndex])
		return fmt.Sprintf(" %s %s\n%s", spinner, fileName, renderFileDetails(file))

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Error)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderFileDetails renders the live analysis box for the active file
func renderFileDetails(file FileProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#61AFEF")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	content.WriteString(renderProgressBar(file.Progress, 40))
	content.WriteString("\n\n")

	elapsed := file.ElapsedTime.Seconds()
	var remaining float64
	if file.Progress > 0 {
		remaining = (elapsed / file.Progress) - elapsed
	}
	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs | Remaining: ~%.1fs\n", elapsed, remaining))

	content.WriteString(renderLevelMeter(file.CurrentLevel, file.PeakLevel))
	content.WriteString("\n")

	speakerStyle := lipgloss.NewStyle().Bold(true)
	if file.Speaker.Color != "" {
		speakerStyle = speakerStyle.Foreground(lipgloss.Color(file.Speaker.Color))
	}
	speakerLabel := file.Speaker.Label
	if speakerLabel == "" {
		speakerLabel = "-"
	}
	content.WriteString(fmt.Sprintf("🗣  %s", speakerStyle.Render(speakerLabel)))

	emotionText := string(file.Emotion.Label)
	if file.Emotion.Glyph != "" {
		emotionText = file.Emotion.Glyph + " " + emotionText
	}
	if emotionText != "" {
		content.WriteString(fmt.Sprintf(" | %s (%.0f%%)", emotionText, file.Emotion.Confidence*100))
	}
	content.WriteString("\n")

	if file.NoiseReady {
		content.WriteString("🔇 Noise profile active")
	} else {
		content.WriteString("   Listening for noise profile...")
	}

	return box.Render(content.String())
}

// renderLevelMeter renders the current level as a horizontal meter over
// the -60..0 dBFS range.
func renderLevelMeter(levelDB, peakDB float64) string {
	const width = 30
	filled := int((levelDB + 60) / 60 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	meter := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return fmt.Sprintf("📊 %s %.1f dB (peak %.1f)", meter, levelDB, peakDB)
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
		currentFile := m.CurrentIndex + 1 // 1-indexed for display
		content = fmt.Sprintf("Analyzing file %d of %d (%d complete)",
			currentFile, m.TotalFiles, m.CompletedFiles)
	} else {
		content = fmt.Sprintf("Overall Progress: %d/%d complete", m.CompletedFiles, m.TotalFiles)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#98C379")).
		Render("✨ Analysis Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, file := range m.Files {
		if file.Status == StatusComplete {
			b.WriteString(renderCompletedFile(file))
			b.WriteString("\n")
		}
	}

	if m.FailedFiles > 0 {
		b.WriteString(fmt.Sprintf("\n%d file(s) failed\n", m.FailedFiles))
	}

	return b.String()
}

// renderCompletedFile renders a summary for a completed file
func renderCompletedFile(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379")).Render("✓")

	if file.Result == nil {
		return fmt.Sprintf(" %s %s", icon, fileName)
	}

	s := file.Result.Summary
	var parts []string
	for _, share := range s.EmotionShares() {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", share.Label, share.Fraction*100))
	}
	emotions := strings.Join(parts, ", ")

	return fmt.Sprintf(" %s %s (%.1fs)\n"+
		"   %d speaker(s) | %s\n"+
		"   Mean level %.1f dB | Peak %.1f dB",
		icon, fileName, file.Result.Metadata.Duration,
		len(s.SpeakerShares()), emotions,
		s.MeanLevelDB(), s.PeakLevelDB())
}
