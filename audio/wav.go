package audio

import (
	"encoding/binary"
	"fmt"
)

// wavInfo is the subset of a RIFF/WAVE header the validator needs.
type wavInfo struct {
	AudioFormat   uint16
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataOffset    int
	DataSize      int
}

func (w *wavInfo) Duration() float64 {
	bytesPerSample := w.BitsPerSample / 8
	if bytesPerSample == 0 || w.Channels == 0 || w.SampleRate == 0 {
		return 0
	}
	samples := w.DataSize / (bytesPerSample * w.Channels)
	return float64(samples) / float64(w.SampleRate)
}

// parseWAV walks the RIFF chunk list far enough to find the fmt and data
// chunks. Truncated or malformed headers are rejected.
func parseWAV(data []byte) (*wavInfo, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("wav header truncated (%d bytes)", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	info := &wavInfo{}
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return nil, fmt.Errorf("fmt chunk truncated")
			}
			info.AudioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			info.DataOffset = body
			if body+chunkSize > len(data) {
				chunkSize = len(data) - body
			}
			info.DataSize = chunkSize
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
		if info.SampleRate != 0 && info.DataSize != 0 {
			break
		}
	}

	if info.SampleRate == 0 || info.Channels == 0 {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if info.DataSize == 0 {
		return nil, fmt.Errorf("missing data chunk")
	}
	return info, nil
}

// silentFraction reports the share of 16-bit PCM samples whose amplitude is
// below threshold (a fraction of full scale).
func silentFraction(pcm []byte, threshold float64) float64 {
	if len(pcm) < 2 {
		return 1.0
	}
	limit := int(threshold * 32767)
	total := len(pcm) / 2
	silent := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		// Widen before negating; -math.MinInt16 overflows int16.
		s := int(int16(binary.LittleEndian.Uint16(pcm[i : i+2])))
		if s < 0 {
			s = -s
		}
		if s <= limit {
			silent++
		}
	}
	return float64(silent) / float64(total)
}
