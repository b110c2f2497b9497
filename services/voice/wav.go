package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const (
	// SampleRate is what the recognizer is configured for.
	SampleRate         = 16000
	MaxDurationSeconds = 60
	MaxFileSize        = 5 * 1024 * 1024
)

var ErrInvalidWAV = errors.New("invalid WAV data")

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

// parseWaveHeader reads the RIFF header, then walks the chunks for "fmt " and
// "data" so that LIST or fact chunks in between are skipped.
func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: header too short", ErrInvalidWAV)
	}
	var header waveHeader
	copy(header.RiffTag[:], data[0:4])
	header.FileSize = binary.LittleEndian.Uint32(data[4:8])
	copy(header.WaveTag[:], data[8:12])
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE tags", ErrInvalidWAV)
	}

	haveFmt := false
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return nil, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidWAV)
			}
			copy(header.FmtTag[:], id)
			header.FmtSize = size
			header.AudioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			header.NumChannels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			header.SampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			header.ByteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			header.BlockAlign = binary.LittleEndian.Uint16(data[body+12 : body+14])
			header.BitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			copy(header.DataTag[:], id)
			header.DataSize = size
			return &header, nil
		}

		// Chunks are padded to an even length.
		next := int64(body) + int64(size) + int64(size&1)
		if next > int64(len(data)) {
			break
		}
		off = int(next)
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}

// isRecognizerReady reports whether audio can go to the recognizer without conversion.
func (h *waveHeader) isRecognizerReady() bool {
	return h.AudioFormat == 1 && h.NumChannels == 1 && h.SampleRate == SampleRate && h.BitsPerSample == 16
}

func (h *waveHeader) durationSeconds() float64 {
	if h.ByteRate == 0 {
		return 0
	}
	return float64(h.DataSize) / float64(h.ByteRate)
}

// PrepareAudio validates a WAV recording and converts it to 16kHz mono LINEAR16 when needed.
func PrepareAudio(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", ErrInvalidWAV, MaxFileSize)
	}
	header, err := parseWaveHeader(data)
	if err != nil {
		return nil, err
	}
	if d := header.durationSeconds(); d > MaxDurationSeconds {
		return nil, fmt.Errorf("%w: %.0fs exceeds %ds", ErrInvalidWAV, d, MaxDurationSeconds)
	}
	if header.isRecognizerReady() {
		return data, nil
	}

	in, err := os.CreateTemp("", "audio-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(in.Name())
	defer in.Close()
	if _, err := in.Write(data); err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	out, err := os.CreateTemp("", "converted-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(out.Name())
	out.Close()

	if err := convertAudio(ctx, in.Name(), out.Name()); err != nil {
		return nil, err
	}
	return os.ReadFile(out.Name())
}

func convertAudio(ctx context.Context, inputPath, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in system PATH: %v", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %s", stderr.String())
	}
	return nil
}
