// ABOUTME: OGG Vorbis source
// ABOUTME: Decodes Ogg Vorbis files via jfreymuth/oggvorbis
package decode

import (
	"fmt"
	"io"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// vorbisSource decodes Ogg-contained Vorbis payloads. The container label
// distinguishes .ogg from .spx in error messages.
type vorbisSource struct {
	stream    byteStream
	container string
	dec       *oggvorbis.Reader
	pcm       audio.PCM
	size      int
	frame     []float32
	pending   []byte
}

func newVorbis(filename string, mode Mode) *vorbisSource {
	return &vorbisSource{stream: byteStream{filename: filename, mode: mode}, container: "ogg"}
}

func (s *vorbisSource) Open() error {
	if err := s.stream.open(); err != nil {
		return err
	}
	dec, err := oggvorbis.NewReader(s.stream.r)
	if err != nil {
		s.stream.close()
		return fmt.Errorf("%s: opening %s stream: %w", s.stream.filename, s.container, err)
	}
	s.dec = dec
	s.pcm = audio.PCM{
		Channels:      dec.Channels(),
		SampleRate:    dec.SampleRate(),
		BitsPerSample: 16,
	}
	// Length reports total frames per channel for seekable streams.
	s.size = int(dec.Length()) * s.pcm.FrameSize()
	s.frame = make([]float32, 4096*s.pcm.Channels)
	s.pending = s.pending[:0]
	return nil
}

func (s *vorbisSource) Read(p []byte) (int, error) {
	if s.dec == nil {
		return 0, fmt.Errorf("%s: source not open", s.stream.filename)
	}
	for len(s.pending) == 0 {
		n, err := s.dec.Read(s.frame)
		for _, sample := range s.frame[:n] {
			s.pending = audio.AppendInt16LE(s.pending, audio.SampleFromFloat32(sample))
		}
		if err != nil {
			if err == io.EOF && len(s.pending) > 0 {
				break
			}
			return 0, err
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
	return n, nil
}

func (s *vorbisSource) Rewind() error {
	if s.dec == nil {
		return fmt.Errorf("%s: source not open", s.stream.filename)
	}
	s.pending = s.pending[:0]
	return s.dec.SetPosition(0)
}

func (s *vorbisSource) Close() error {
	s.dec = nil
	s.pending = nil
	return s.stream.close()
}

func (s *vorbisSource) Filename() string     { return s.stream.filename }
func (s *vorbisSource) PCMFormat() audio.PCM { return s.pcm }
func (s *vorbisSource) Size() int            { return s.size }
func (s *vorbisSource) Duration() float64    { return s.pcm.BytesToSeconds(s.size) }
