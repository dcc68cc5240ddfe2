// Package ui provides the Bubbletea terminal user interface for voicelens
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicelens/voicelens/internal/emotion"
	"github.com/voicelens/voicelens/internal/pipeline"
	"github.com/voicelens/voicelens/internal/speaker"
)

// FileStatus represents the analysis state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusAnalyzing
	StatusComplete
	StatusError
)

// FileProgress tracks progress for a single audio file
type FileProgress struct {
	InputPath string
	Status    FileStatus

	// Progress tracking (percentage-based)
	Progress    float64 // 0.0 to 1.0
	StartTime   time.Time
	ElapsedTime time.Duration

	// Live analysis state from the most recent chunk
	CurrentLevel float64 // dBFS
	PeakLevel    float64
	Emotion      emotion.Result
	Speaker      speaker.Result
	Voice        bool
	NoiseReady   bool

	// Completion results
	Result *pipeline.FileResult

	// Error tracking
	Error error
}

// Model is the Bubbletea model for the analysis UI
type Model struct {
	// File queue
	Files          []FileProgress
	CurrentIndex   int
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	// Global state
	StartTime time.Time
	Done      bool

	// Channel for receiving progress updates from the pipeline
	ProgressChan chan tea.Msg

	// Spinner state
	spinnerIndex int

	// Terminal dimensions
	Width  int
	Height int
}

// tickMsg drives the spinner animation
type tickMsg time.Time

// NewModel creates a new UI model with the given input files
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath:    path,
			Status:       StatusQueued,
			CurrentLevel: -60.0,
			PeakLevel:    -60.0,
		}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1, // No file analyzing yet
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100), // Buffered channel
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.ProgressChan), tickCmd())
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case ChunkMsg:
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
			m.Files[m.CurrentIndex] = updateFileProgress(m.Files[m.CurrentIndex], msg)
		}
		return m, waitForProgress(m.ProgressChan)

	case FileStartMsg:
		m.CurrentIndex = msg.FileIndex
		m.Files[m.CurrentIndex].Status = StatusAnalyzing
		m.Files[m.CurrentIndex].StartTime = time.Now()
		return m, waitForProgress(m.ProgressChan)

	case FileCompleteMsg:
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
			m.Files[m.CurrentIndex].Status = StatusComplete
			m.Files[m.CurrentIndex].Result = msg.Result
			m.Files[m.CurrentIndex].Error = msg.Error

			if msg.Error != nil {
				m.Files[m.CurrentIndex].Status = StatusError
				m.FailedFiles++
			} else {
				m.CompletedFiles++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nFiles: %d\nCurrent: %d\n", len(m.Files), m.CurrentIndex)
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderAnalysisView(m)
}

// updateFileProgress updates a FileProgress based on a ChunkMsg
func updateFileProgress(fp FileProgress, msg ChunkMsg) FileProgress {
	fp.Progress = msg.Progress
	fp.ElapsedTime = time.Since(fp.StartTime)

	fp.CurrentLevel = msg.LevelDB
	if msg.LevelDB > fp.PeakLevel {
		fp.PeakLevel = msg.LevelDB
	}

	fp.Emotion = msg.Emotion
	fp.Speaker = msg.Speaker
	fp.Voice = msg.Voice
	if msg.NoiseCaptured {
		fp.NoiseReady = true
	}

	return fp
}

// waitForProgress creates a command that waits for progress messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
