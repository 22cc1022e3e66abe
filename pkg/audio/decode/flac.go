// ABOUTME: FLAC source
// ABOUTME: Decodes FLAC files frame-by-frame via mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// flacSource decodes FLAC files. Output is normalized to 16-bit samples
// regardless of the encoded bit depth.
type flacSource struct {
	stream  byteStream
	dec     *flac.Stream
	pcm     audio.PCM
	size    int
	shift   int
	pending []byte
}

func newFLAC(filename string, mode Mode) *flacSource {
	return &flacSource{stream: byteStream{filename: filename, mode: mode}}
}

func (s *flacSource) Open() error {
	if err := s.stream.open(); err != nil {
		return err
	}
	if err := s.openDecoder(); err != nil {
		s.stream.close()
		return err
	}
	return nil
}

func (s *flacSource) openDecoder() error {
	dec, err := flac.New(s.stream.r)
	if err != nil {
		return fmt.Errorf("%s: opening FLAC stream: %w", s.stream.filename, err)
	}
	s.dec = dec
	info := dec.Info
	s.pcm = audio.PCM{
		Channels:      int(info.NChannels),
		SampleRate:    int(info.SampleRate),
		BitsPerSample: 16,
	}
	s.shift = int(info.BitsPerSample) - 16
	s.size = int(info.NSamples) * s.pcm.FrameSize()
	s.pending = s.pending[:0]
	return nil
}

func (s *flacSource) Read(p []byte) (int, error) {
	if s.dec == nil {
		return 0, fmt.Errorf("%s: source not open", s.stream.filename)
	}
	for len(s.pending) == 0 {
		frame, err := s.dec.ParseNext()
		if err != nil {
			return 0, err
		}
		samples := len(frame.Subframes[0].Samples)
		for i := 0; i < samples; i++ {
			for _, sub := range frame.Subframes {
				s.pending = audio.AppendInt16LE(s.pending, s.scale(sub.Samples[i]))
			}
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
	return n, nil
}

// scale converts an encoded sample to 16-bit range.
func (s *flacSource) scale(sample int32) int16 {
	if s.shift > 0 {
		return int16(sample >> s.shift)
	}
	if s.shift < 0 {
		return int16(sample << -s.shift)
	}
	return int16(sample)
}

func (s *flacSource) Rewind() error {
	if err := s.stream.rewind(); err != nil {
		return err
	}
	return s.openDecoder()
}

func (s *flacSource) Close() error {
	s.dec = nil
	s.pending = nil
	return s.stream.close()
}

func (s *flacSource) Filename() string     { return s.stream.filename }
func (s *flacSource) PCMFormat() audio.PCM { return s.pcm }
func (s *flacSource) Size() int            { return s.size }
func (s *flacSource) Duration() float64    { return s.pcm.BytesToSeconds(s.size) }

var _ io.Reader = (*flacSource)(nil)
