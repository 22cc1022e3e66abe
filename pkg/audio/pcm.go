// ABOUTME: PCM stream format and sample conversion helpers
// ABOUTME: Byte/sample/second arithmetic shared by decoders, buffers and backends
package audio

import "encoding/binary"

// PCM describes a decoded PCM stream.
type PCM struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// FrameSize returns the size of one frame (one sample per channel) in bytes.
func (p PCM) FrameSize() int {
	return p.Channels * p.BitsPerSample / 8
}

// BytesPerSecond returns the PCM data rate in bytes.
func (p PCM) BytesPerSecond() int {
	return p.SampleRate * p.FrameSize()
}

// BytesToSamples converts a byte count to a per-channel sample count.
func (p PCM) BytesToSamples(n int) int {
	size := p.FrameSize()
	if size == 0 {
		return 0
	}
	return n / size
}

// BytesToSeconds converts a byte count to a duration in seconds.
func (p PCM) BytesToSeconds(n int) float64 {
	rate := p.BytesPerSecond()
	if rate == 0 {
		return 0
	}
	return float64(n) / float64(rate)
}

// SecondsToBytes converts a duration in seconds to a frame-aligned byte count.
func (p PCM) SecondsToBytes(seconds float64) int {
	size := p.FrameSize()
	if size == 0 {
		return 0
	}
	return int(seconds*float64(p.SampleRate)) * size
}

// SampleFromFloat32 converts a [-1, 1] float sample to int16, clamping
// out-of-range values.
func SampleFromFloat32(sample float32) int16 {
	scaled := sample * 32767
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// AppendInt16LE appends an int16 sample to dst in little-endian byte order.
func AppendInt16LE(dst []byte, sample int16) []byte {
	return append(dst, byte(sample), byte(uint16(sample)>>8))
}

// Int16LE reads the little-endian int16 sample at the start of b.
func Int16LE(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}
