package ui

import (
	"github.com/voicelens/voicelens/internal/emotion"
	"github.com/voicelens/voicelens/internal/pipeline"
	"github.com/voicelens/voicelens/internal/speaker"
)

// ChunkMsg carries one chunk's analysis outcome to the UI.
type ChunkMsg struct {
	Progress      float64 // 0.0 to 1.0 through the file
	LevelDB       float64
	Emotion       emotion.Result
	Speaker       speaker.Result
	Voice         bool
	NoiseCaptured bool
}

// FileStartMsg indicates a new file has started analysis.
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished analysis.
type FileCompleteMsg struct {
	FileIndex int
	Result    *pipeline.FileResult
	Error     error
}

// AllCompleteMsg indicates all files have been analyzed.
type AllCompleteMsg struct{}
