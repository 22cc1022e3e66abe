// ABOUTME: Ogg Opus source
// ABOUTME: Decodes .opus files via hraban/opus
package decode

import (
	"fmt"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	opus "gopkg.in/hraban/opus.v2"
)

// opusSource decodes Ogg Opus files. Opus always decodes at 48 kHz; the
// stream API interleaves to the link's channel count, stereo in practice.
// Total length is not available without walking the container, so Size and
// Duration report unknown.
type opusSource struct {
	stream  byteStream
	dec     *opus.Stream
	pcm     audio.PCM
	frame   []int16
	pending []byte
}

func newOpus(filename string, mode Mode) *opusSource {
	return &opusSource{stream: byteStream{filename: filename, mode: mode}}
}

func (s *opusSource) Open() error {
	if err := s.stream.open(); err != nil {
		return err
	}
	dec, err := opus.NewStream(s.stream.r)
	if err != nil {
		s.stream.close()
		return fmt.Errorf("%s: opening Opus stream: %w", s.stream.filename, err)
	}
	s.dec = dec
	s.pcm = audio.PCM{Channels: 2, SampleRate: 48000, BitsPerSample: 16}
	s.frame = make([]int16, 5760*s.pcm.Channels)
	s.pending = s.pending[:0]
	return nil
}

func (s *opusSource) Read(p []byte) (int, error) {
	if s.dec == nil {
		return 0, fmt.Errorf("%s: source not open", s.stream.filename)
	}
	for len(s.pending) == 0 {
		n, err := s.dec.Read(s.frame)
		for _, sample := range s.frame[:n*s.pcm.Channels] {
			s.pending = audio.AppendInt16LE(s.pending, sample)
		}
		if err != nil {
			if len(s.pending) > 0 {
				break
			}
			return 0, err
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
	return n, nil
}

func (s *opusSource) Rewind() error {
	if s.dec == nil {
		return fmt.Errorf("%s: source not open", s.stream.filename)
	}
	if err := s.stream.rewind(); err != nil {
		return err
	}
	dec, err := opus.NewStream(s.stream.r)
	if err != nil {
		return fmt.Errorf("%s: reopening Opus stream: %w", s.stream.filename, err)
	}
	s.dec = dec
	s.pending = s.pending[:0]
	return nil
}

func (s *opusSource) Close() error {
	s.dec = nil
	s.pending = nil
	return s.stream.close()
}

func (s *opusSource) Filename() string     { return s.stream.filename }
func (s *opusSource) PCMFormat() audio.PCM { return s.pcm }
func (s *opusSource) Size() int            { return 0 }
func (s *opusSource) Duration() float64    { return 0 }
