// ABOUTME: MP3 source
// ABOUTME: Decodes MP3 files via hajimehoshi/go-mp3
package decode

import (
	"fmt"
	"io"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// mp3Source decodes MP3 files. go-mp3 always outputs 16-bit stereo at the
// file's sample rate, so reads pass through.
type mp3Source struct {
	stream byteStream
	dec    *mp3.Decoder
	pcm    audio.PCM
	size   int
}

func newMP3(filename string, mode Mode) *mp3Source {
	return &mp3Source{stream: byteStream{filename: filename, mode: mode}}
}

func (s *mp3Source) Open() error {
	if err := s.stream.open(); err != nil {
		return err
	}
	dec, err := mp3.NewDecoder(s.stream.r)
	if err != nil {
		s.stream.close()
		return fmt.Errorf("%s: opening MP3 stream: %w", s.stream.filename, err)
	}
	s.dec = dec
	s.pcm = audio.PCM{Channels: 2, SampleRate: dec.SampleRate(), BitsPerSample: 16}
	if length := dec.Length(); length > 0 {
		s.size = int(length)
	}
	return nil
}

func (s *mp3Source) Read(p []byte) (int, error) {
	if s.dec == nil {
		return 0, fmt.Errorf("%s: source not open", s.stream.filename)
	}
	return s.dec.Read(p)
}

func (s *mp3Source) Rewind() error {
	if s.dec == nil {
		return fmt.Errorf("%s: source not open", s.stream.filename)
	}
	_, err := s.dec.Seek(0, io.SeekStart)
	return err
}

func (s *mp3Source) Close() error {
	s.dec = nil
	return s.stream.close()
}

func (s *mp3Source) Filename() string     { return s.stream.filename }
func (s *mp3Source) PCMFormat() audio.PCM { return s.pcm }
func (s *mp3Source) Size() int            { return s.size }
func (s *mp3Source) Duration() float64    { return s.pcm.BytesToSeconds(s.size) }
