// ABOUTME: Stream conversion hook helpers
// ABOUTME: Optional resampling of decoded PCM to the engine rate
package chime

import (
	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/Chime-Audio/chime-go/pkg/audio/resample"
)

// ResampleTo returns a ConvertFunc that resamples fully decoded 16-bit
// streams to the given rate. Streamed sounds bypass the hook; their chunks
// are delivered at the source rate.
func ResampleTo(sampleRate int) ConvertFunc {
	return func(pcm audio.PCM, name string, data []byte) ([]byte, audio.PCM) {
		if pcm.SampleRate == sampleRate || pcm.SampleRate == 0 || pcm.BitsPerSample != 16 {
			return data, pcm
		}
		converted := resample.New(pcm.SampleRate, sampleRate, pcm.Channels).Convert(data)
		pcm.SampleRate = sampleRate
		return converted, pcm
	}
}
