// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Operates on interleaved little-endian 16-bit PCM byte streams
package resample

import chimeaudio "github.com/Chime-Audio/chime-go/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
}

// New creates a resampler for interleaved 16-bit PCM.
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Convert resamples a complete PCM byte stream to the output rate. The input
// is returned unchanged when the rates already match or the stream is empty.
func (r *Resampler) Convert(input []byte) []byte {
	if r.inputRate == r.outputRate || len(input) == 0 {
		return input
	}
	frameSize := r.channels * 2
	inFrames := len(input) / frameSize
	if inFrames == 0 {
		return input
	}
	outFrames := int(float64(inFrames) * float64(r.outputRate) / float64(r.inputRate))
	output := make([]byte, 0, outFrames*frameSize)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * r.ratio
		idx := int(pos)
		frac := pos - float64(idx)
		next := idx + 1
		if next >= inFrames {
			next = inFrames - 1
		}
		for ch := 0; ch < r.channels; ch++ {
			a := chimeaudio.Int16LE(input[(idx*r.channels+ch)*2:])
			b := chimeaudio.Int16LE(input[(next*r.channels+ch)*2:])
			sample := int16(float64(a) + (float64(b)-float64(a))*frac)
			output = chimeaudio.AppendInt16LE(output, sample)
		}
	}
	return output
}
