// ABOUTME: Portable audio driver using the oto library
// ABOUTME: One oto context per system, one oto player per voice
package backend

import (
	"fmt"
	"io"
	"sync"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// OtoSystem drives the platform's default audio device through oto.
type OtoSystem struct {
	ctx *oto.Context
	pcm audio.PCM
}

// NewOto opens the platform audio device for the given engine PCM format.
func NewOto(pcm audio.PCM) (*OtoSystem, error) {
	op := &oto.NewContextOptions{
		SampleRate:   pcm.SampleRate,
		ChannelCount: pcm.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan
	return &OtoSystem{ctx: ctx, pcm: pcm}, nil
}

func (s *OtoSystem) Kind() string { return "oto" }

func (s *OtoSystem) NewVoice(feed Feed) Voice {
	return &otoVoice{sys: s, feed: feed}
}

func (s *OtoSystem) Suspend() {
	if s.ctx != nil {
		_ = s.ctx.Suspend()
	}
}

func (s *OtoSystem) Resume() {
	if s.ctx != nil {
		_ = s.ctx.Resume()
	}
}

func (s *OtoSystem) Update() {}

func (s *OtoSystem) Close() error {
	// oto contexts cannot be torn down; suspend so the device goes quiet.
	if s.ctx != nil {
		_ = s.ctx.Suspend()
	}
	return nil
}

// otoVoice is one oto player. oto consumes the PCM on its own goroutine, so
// all shared state lives behind the voiceStream mutex; the tick only hands
// over copies.
type otoVoice struct {
	sys     *OtoSystem
	feed    Feed
	src     *voiceStream
	player  *oto.Player
	gain    float64
	looping bool
}

func (v *otoVoice) PreparePlay() error {
	if v.sys.ctx == nil {
		return fmt.Errorf("oto context not available")
	}
	return nil
}

func (v *otoVoice) PrepareBuffer(paused bool) {
	if paused && v.player != nil {
		if v.feed.Streamed() {
			v.replenish()
		}
		return
	}
	v.looping = v.feed.Looping()
	v.src = newVoiceStream(v.feed.Streamed(), v.looping)
	if v.feed.Streamed() {
		v.replenish()
	} else {
		v.src.setPCM(v.feed.Stream())
	}
	v.player = v.sys.ctx.NewPlayer(v.src)
	v.player.SetVolume(v.gain)
}

func (v *otoVoice) UpdateGain(gain float64) {
	v.gain = gain
	if v.player != nil {
		v.player.SetVolume(gain)
	}
}

func (v *otoVoice) UpdatePitch(float64) {
	// oto has no playback-rate control.
}

func (v *otoVoice) Play() error {
	if v.player == nil {
		return fmt.Errorf("voice has no prepared buffer")
	}
	v.player.Play()
	return nil
}

func (v *otoVoice) Stop(paused bool) int {
	pos := 0
	if v.src != nil {
		pos = v.src.position()
	}
	if v.player != nil {
		if paused {
			v.player.Pause()
		} else {
			_ = v.player.Close()
			v.player = nil
			v.src = nil
		}
	}
	return pos
}

func (v *otoVoice) UpdateNormal(float64) {
	// Looping of non-streamed payloads wraps inside the voice stream.
}

func (v *otoVoice) UpdateStream(float64) int {
	if v.src == nil {
		return 0
	}
	return v.replenish()
}

func (v *otoVoice) replenish() int {
	queued := 0
	for v.src.queuedChunks() < StreamBufferCount {
		n := v.feed.LoadChunk(StreamBufferSize)
		if n == 0 {
			if !v.looping {
				v.src.finish()
			}
			break
		}
		v.src.enqueue(v.feed.Stream()[:n])
		queued += n
	}
	return queued
}

func (v *otoVoice) IsPlaying() bool {
	return v.player != nil && v.player.IsPlaying()
}

func (v *otoVoice) BufferPosition() int {
	if v.src == nil {
		return 0
	}
	return v.src.position()
}

func (v *otoVoice) NeedsStreamPositionCorrection() bool {
	// Position is tracked on the consumed stream itself.
	return false
}

// voiceStream is the io.Reader handed to oto. Reads happen on oto's
// goroutine; the engine enqueues chunk copies from the tick.
type voiceStream struct {
	mu       sync.Mutex
	streamed bool
	looping  bool
	pcm      []byte
	off      int
	chunks   [][]byte
	done     bool
	pos      int
}

func newVoiceStream(streamed, looping bool) *voiceStream {
	return &voiceStream{streamed: streamed, looping: looping}
}

func (s *voiceStream) setPCM(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pcm = pcm
	s.off = 0
}

func (s *voiceStream) enqueue(chunk []byte) {
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, buf)
}

func (s *voiceStream) queuedChunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

func (s *voiceStream) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
}

func (s *voiceStream) position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *voiceStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.streamed {
		if len(s.pcm) == 0 {
			return 0, io.EOF
		}
		if s.off >= len(s.pcm) {
			if !s.looping {
				return 0, io.EOF
			}
			s.off = 0
		}
		n := copy(p, s.pcm[s.off:])
		s.off += n
		s.pos += n
		return n, nil
	}
	if len(s.chunks) == 0 {
		if s.done {
			return 0, io.EOF
		}
		// Underrun: feed silence until the next tick enqueues more data.
		n := len(p)
		if n > 512 {
			n = 512
		}
		for i := 0; i < n; i++ {
			p[i] = 0
		}
		return n, nil
	}
	head := s.chunks[0]
	n := copy(p, head)
	if n == len(head) {
		s.chunks = s.chunks[1:]
	} else {
		s.chunks[0] = head[n:]
	}
	s.pos += n
	return n, nil
}
