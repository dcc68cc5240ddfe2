package audio

import (
	"time"
)

// DefaultVoiceEnergy is the mean-square amplitude (16-bit PCM units) above
// which a chunk is flagged as likely speech. A best-effort hint, not a
// full voice-activity detector.
const DefaultVoiceEnergy = 50000.0

// Chunk is one bounded block of mono samples with its position in the
// stream and a coarse voice-activity flag.
type Chunk struct {
	Index   int
	Offset  time.Duration
	Samples []float64
	Voice   bool
}

// Chunker slices a Reader's stream into fixed-size chunks.
type Chunker struct {
	r           *Reader
	size        int
	voiceEnergy float64

	index     int
	delivered int
}

// NewChunker wraps the reader. voiceEnergy at or below zero falls back to
// DefaultVoiceEnergy.
func NewChunker(r *Reader, size int, voiceEnergy float64) *Chunker {
	if voiceEnergy <= 0 {
		voiceEnergy = DefaultVoiceEnergy
	}
	return &Chunker{r: r, size: size, voiceEnergy: voiceEnergy}
}

// Next returns the next chunk, or io.EOF after the last one. The final
// chunk may be shorter than the configured size.
func (c *Chunker) Next() (Chunk, error) {
	samples, err := c.r.ReadChunk(c.size)
	if err != nil {
		return Chunk{}, err
	}

	offset := time.Duration(c.delivered) * time.Second / time.Duration(c.r.meta.SampleRate)
	chunk := Chunk{
		Index:   c.index,
		Offset:  offset,
		Samples: samples,
		Voice:   meanSquare(samples) >= c.voiceEnergy,
	}
	c.index++
	c.delivered += len(samples)
	return chunk, nil
}

func meanSquare(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return sum / float64(len(samples))
}
