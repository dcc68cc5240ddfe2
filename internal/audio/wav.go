// Package audio provides PCM WAV file ingestion: header parsing, 16-bit
// sample conversion, stereo downmix and fixed-size chunking.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	formatPCM = 1

	// maxChannels bounds how many interleaved channels the downmix
	// accepts. Anything beyond stereo is almost certainly not speech.
	maxChannels = 8
)

// Metadata describes the opened audio file.
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	BitDepth   int
}

// Reader streams mono sample windows from a 16-bit PCM WAV file.
// Multi-channel input is downmixed by averaging. Sample values keep their
// raw 16-bit PCM scale.
type Reader struct {
	f    *os.File
	meta Metadata

	// remaining counts undelivered per-channel sample frames in the data
	// chunk.
	remaining int
	buf       []byte
}

// OpenAudioFile opens a WAV file for reading and returns its metadata.
func OpenAudioFile(path string) (*Reader, *Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}

	r := &Reader{f: f}
	if err := r.readHeader(); err != nil {
		f.Close()
		return nil, nil, err
	}

	meta := r.meta
	return r, &meta, nil
}

// readHeader parses the RIFF container up to the start of the data chunk,
// skipping subchunks it does not understand.
func (r *Reader) readHeader() error {
	var riff [12]byte
	if _, err := io.ReadFull(r.f, riff[:]); err != nil {
		return fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return fmt.Errorf("not a WAV file")
	}

	var haveFormat bool
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r.f, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return fmt.Errorf("no data chunk found")
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if err := r.readFormat(int64(size)); err != nil {
				return err
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return fmt.Errorf("data chunk before fmt chunk")
			}
			frameSize := r.meta.Channels * 2
			r.remaining = int(size) / frameSize
			r.meta.Duration = float64(r.remaining) / float64(r.meta.SampleRate)
			return nil
		default:
			// Unknown subchunk (LIST, fact, ...). Sizes are padded to an
			// even byte count.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := r.f.Seek(skip, io.SeekCurrent); err != nil {
				return fmt.Errorf("failed to skip %q chunk: %w", id, err)
			}
		}
	}
}

func (r *Reader) readFormat(size int64) error {
	if size < 16 {
		return fmt.Errorf("fmt chunk too short: %d bytes", size)
	}
	var fields [16]byte
	if _, err := io.ReadFull(r.f, fields[:]); err != nil {
		return fmt.Errorf("failed to read fmt chunk: %w", err)
	}
	if rest := size - 16; rest > 0 {
		if _, err := r.f.Seek(rest, io.SeekCurrent); err != nil {
			return fmt.Errorf("failed to skip fmt extension: %w", err)
		}
	}

	format := binary.LittleEndian.Uint16(fields[0:2])
	channels := int(binary.LittleEndian.Uint16(fields[2:4]))
	sampleRate := int(binary.LittleEndian.Uint32(fields[4:8]))
	bitDepth := int(binary.LittleEndian.Uint16(fields[14:16]))

	if format != formatPCM {
		return fmt.Errorf("unsupported WAV format %d, want PCM", format)
	}
	if bitDepth != 16 {
		return fmt.Errorf("unsupported bit depth %d, want 16", bitDepth)
	}
	if channels < 1 || channels > maxChannels {
		return fmt.Errorf("unsupported channel count %d", channels)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	r.meta.SampleRate = sampleRate
	r.meta.Channels = channels
	r.meta.BitDepth = bitDepth
	return nil
}

// ReadChunk returns up to n mono samples. The final chunk may be shorter;
// io.EOF follows once the data chunk is exhausted.
func (r *Reader) ReadChunk(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", n)
	}
	if r.remaining == 0 {
		return nil, io.EOF
	}
	if n > r.remaining {
		n = r.remaining
	}

	frameSize := r.meta.Channels * 2
	need := n * frameSize
	if cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	buf := r.buf[:need]
	if _, err := io.ReadFull(r.f, buf); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	r.remaining -= n

	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for ch := 0; ch < r.meta.Channels; ch++ {
			off := i*frameSize + ch*2
			sum += float64(int16(binary.LittleEndian.Uint16(buf[off : off+2])))
		}
		samples[i] = sum / float64(r.meta.Channels)
	}
	return samples, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
