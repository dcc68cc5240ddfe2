package pipeline

import (
	"fmt"
	"io"

	"github.com/voicelens/voicelens/internal/audio"
)

// ProgressFunc receives per-chunk updates during file processing. progress
// runs 0..1 over the file; chunk is the position's analysis outcome.
type ProgressFunc func(progress float64, chunk audio.Chunk, res ChunkResult)

// FileResult is the outcome of analyzing one audio file.
type FileResult struct {
	Path     string
	Metadata audio.Metadata
	Summary  Summary
}

// ProcessFile runs the full pipeline over a WAV file, chunk by chunk. The
// file's own sample rate overrides the configured one so pitch and band
// frequencies stay correct. If progress is not nil it is called after
// every chunk.
func ProcessFile(path string, cfg Config, progress ProgressFunc) (*FileResult, error) {
	reader, meta, err := audio.OpenAudioFile(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	cfg.SampleRate = meta.SampleRate
	analyzer := NewAnalyzer(cfg)
	chunkSize := analyzer.Config().ChunkSize

	totalSamples := int(meta.Duration * float64(meta.SampleRate))
	totalChunks := (totalSamples + chunkSize - 1) / chunkSize
	if totalChunks < 1 {
		totalChunks = 1
	}

	chunker := audio.NewChunker(reader, chunkSize, 0)
	for {
		chunk, err := chunker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d: %w", chunk.Index, err)
		}

		res := analyzer.AnalyzeChunk(chunk.Samples)
		if progress != nil {
			frac := float64(chunk.Index+1) / float64(totalChunks)
			if frac > 1 {
				frac = 1
			}
			progress(frac, chunk, res)
		}
	}

	return &FileResult{
		Path:     path,
		Metadata: *meta,
		Summary:  analyzer.Summary(),
	}, nil
}
