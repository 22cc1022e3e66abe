// ABOUTME: WAV source
// ABOUTME: Decodes RIFF/WAVE files via go-audio/wav
package decode

import (
	"fmt"
	"io"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/go-audio/wav"
)

// wavSource decodes RIFF/WAVE files. The data chunk already holds
// little-endian PCM, so reads pass through the chunk untouched.
type wavSource struct {
	stream byteStream
	dec    *wav.Decoder
	data   io.Reader
	pcm    audio.PCM
	size   int
}

func newWAV(filename string, mode Mode) *wavSource {
	return &wavSource{stream: byteStream{filename: filename, mode: mode}}
}

func (s *wavSource) Open() error {
	if err := s.stream.open(); err != nil {
		return err
	}
	if err := s.openDecoder(); err != nil {
		s.stream.close()
		return err
	}
	return nil
}

func (s *wavSource) openDecoder() error {
	s.dec = wav.NewDecoder(s.stream.r)
	if !s.dec.IsValidFile() {
		return fmt.Errorf("%s: not a valid WAV file", s.stream.filename)
	}
	if err := s.dec.FwdToPCM(); err != nil {
		return fmt.Errorf("%s: locating PCM chunk: %w", s.stream.filename, err)
	}
	s.pcm = audio.PCM{
		Channels:      int(s.dec.NumChans),
		SampleRate:    int(s.dec.SampleRate),
		BitsPerSample: int(s.dec.BitDepth),
	}
	s.size = int(s.dec.PCMLen())
	s.data = s.dec.PCMChunk
	return nil
}

func (s *wavSource) Read(p []byte) (int, error) {
	if s.data == nil {
		return 0, fmt.Errorf("%s: source not open", s.stream.filename)
	}
	return s.data.Read(p)
}

func (s *wavSource) Rewind() error {
	if err := s.stream.rewind(); err != nil {
		return err
	}
	return s.openDecoder()
}

func (s *wavSource) Close() error {
	s.dec = nil
	s.data = nil
	return s.stream.close()
}

func (s *wavSource) Filename() string     { return s.stream.filename }
func (s *wavSource) PCMFormat() audio.PCM { return s.pcm }
func (s *wavSource) Size() int            { return s.size }
func (s *wavSource) Duration() float64    { return s.pcm.BytesToSeconds(s.size) }
