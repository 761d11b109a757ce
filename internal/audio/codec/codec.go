// Package codec writes rendered sounds as WAV or MP3 files.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/alkime/pomodoro/internal/synth"
	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
)

// EncodeWAV writes buf as a mono 16-bit PCM WAV file. The encoder patches
// the header sizes on close, hence the io.WriteSeeker.
func EncodeWAV(w io.WriteSeeker, buf *synth.Buffer) error {
	enc := wav.NewEncoder(w, buf.SampleRate, wavBitDepth, 1, wavPCMFormat)

	samples := buf.Samples()
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	if err := enc.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: buf.SampleRate, NumChannels: 1},
		SourceBitDepth: wavBitDepth,
	}); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return nil
}

// EncodeWAVBytes is EncodeWAV into memory.
func EncodeWAVBytes(buf *synth.Buffer) ([]byte, error) {
	ws := &writerseeker.WriterSeeker{}
	if err := EncodeWAV(ws, buf); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(ws.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded WAV: %w", err)
	}

	return data, nil
}

// EncodeMP3 writes buf as MP3 frames.
func EncodeMP3(w io.Writer, buf *synth.Buffer) error {
	if buf.Len() == 0 {
		return errors.New("cannot encode an empty buffer")
	}

	mono := buf.Samples()

	// shine-mp3 mis-advances its input for mono, so encode L=R stereo
	stereo := make([]int16, len(mono)*2)
	for i, sample := range mono {
		stereo[i*2] = sample
		stereo[i*2+1] = sample
	}

	enc := mp3encoder.NewEncoder(buf.SampleRate, 2)
	if err := enc.Write(w, stereo); err != nil {
		return fmt.Errorf("failed to encode audio to MP3: %w", err)
	}

	return nil
}
