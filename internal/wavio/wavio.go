// Package wavio converts between WAV files and [acoustic.Signal] values.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-acoustics/measure/acoustic"
)

// WAVE format tags. Extensible files carry the real format in the first
// two bytes of the sub-format GUID.
const (
	pcmFormat        = 1
	extensibleFormat = 0xFFFE
)

var (
	// ErrInvalidWAV is returned for input that is not a RIFF/WAVE stream.
	ErrInvalidWAV = errors.New("wavio: invalid WAV file")

	// ErrUnsupportedFormat is returned for non-PCM encodings and bit depths
	// other than 8, 16, 24 or 32.
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
)

// Load decodes the WAV file at path.
func Load(path string) (acoustic.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return acoustic.Signal{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	sig, err := Decode(f)
	if err != nil {
		return acoustic.Signal{}, fmt.Errorf("%s: %w", path, err)
	}

	return sig, nil
}

// Decode reads integer PCM from r and returns it deinterleaved and
// normalized to [-1, 1] by the bit depth.
func Decode(r io.ReadSeeker) (acoustic.Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return acoustic.Signal{}, ErrInvalidWAV
	}

	switch dec.WavAudioFormat {
	case pcmFormat:
	case extensibleFormat:
		sub, err := subFormat(r)
		if err != nil {
			return acoustic.Signal{}, err
		}
		if sub != pcmFormat {
			return acoustic.Signal{}, fmt.Errorf("%w: extensible sub-format %d", ErrUnsupportedFormat, sub)
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return acoustic.Signal{}, fmt.Errorf("wavio: rewind: %w", err)
		}
		dec = wav.NewDecoder(r)
		if !dec.IsValidFile() {
			return acoustic.Signal{}, ErrInvalidWAV
		}
	default:
		return acoustic.Signal{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return acoustic.Signal{}, fmt.Errorf("%w: %d-bit", ErrUnsupportedFormat, depth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return acoustic.Signal{}, fmt.Errorf("wavio: read PCM: %w", err)
	}

	channels := int(dec.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}

	scale := math.Ldexp(1, depth-1)
	// 8-bit WAV samples are unsigned with a midpoint of 128.
	offset := 0.0
	if depth == 8 {
		offset = 128
	}

	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = (float64(v) - offset) / scale
	}

	return acoustic.FromInterleaved(int(dec.SampleRate), channels, data)
}

// subFormat reads the format code of a WAVE_FORMAT_EXTENSIBLE fmt chunk
// from the start of r.
func subFormat(r io.ReadSeeker) (uint16, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("wavio: rewind: %w", err)
	}

	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		// 16 bytes of basic format, then cbSize, valid bits and channel mask.
		var ext struct {
			Basic       [16]byte
			Size        uint16
			ValidBits   uint16
			ChannelMask uint32
			SubFormat   uint16
		}
		if ch.Size < 26 {
			return 0, fmt.Errorf("%w: short extensible fmt chunk", ErrInvalidWAV)
		}
		if err := ch.ReadLE(&ext); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}

		return ext.SubFormat, nil
	}
}

// Save writes sig to path as integer PCM of the given bit depth.
func Save(path string, sig acoustic.Signal, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("wavio: close %s: %w", path, cerr)
		}
	}()

	return Encode(f, sig, bitDepth)
}

// Encode writes sig to w as 16, 24 or 32-bit integer PCM. Samples outside
// [-1, 1] are clipped.
func Encode(w io.WriteSeeker, sig acoustic.Signal, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: cannot encode %d-bit", ErrUnsupportedFormat, bitDepth)
	}
	if err := sig.Validate(); err != nil {
		return err
	}

	scale := math.Ldexp(1, bitDepth-1)
	n := sig.Len()
	data := make([]int, n*sig.Channels)
	for ch, samples := range sig.Samples {
		for i := range n {
			v := math.Round(samples[i] * scale)
			data[i*sig.Channels+ch] = int(min(max(v, -scale), scale-1))
		}
	}

	enc := wav.NewEncoder(w, sig.SampleRate, bitDepth, sig.Channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: sig.Channels, SampleRate: sig.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: write PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}

	return nil
}
