// ABOUTME: Deterministic in-test backend
// ABOUTME: Simulates voice playback by advancing a byte position per tick
package chime

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Chime-Audio/chime-go/internal/backend"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// mockSystem is a backend whose voices advance by simulated time, so the
// scenario tests can step the engine tick by tick.
type mockSystem struct {
	suspends    int
	resumes     int
	failPrepare bool
	voices      []*mockVoice
}

func (s *mockSystem) Kind() string { return "mock" }

func (s *mockSystem) NewVoice(feed backend.Feed) backend.Voice {
	v := &mockVoice{sys: s, feed: feed}
	s.voices = append(s.voices, v)
	return v
}

func (s *mockSystem) Suspend()     { s.suspends++ }
func (s *mockSystem) Resume()      { s.resumes++ }
func (s *mockSystem) Update()      {}
func (s *mockSystem) Close() error { return nil }

func (s *mockSystem) lastVoice() *mockVoice {
	if len(s.voices) == 0 {
		return nil
	}
	return s.voices[len(s.voices)-1]
}

type mockVoice struct {
	sys      *mockSystem
	feed     backend.Feed
	playing  bool
	posBytes float64
	total    int
	avail    int
	gain     float64
}

func (v *mockVoice) PreparePlay() error {
	if v.sys.failPrepare {
		return fmt.Errorf("no free voice")
	}
	return nil
}

func (v *mockVoice) PrepareBuffer(paused bool) {
	if paused {
		if v.feed.Streamed() {
			v.replenish()
		}
		return
	}
	v.posBytes = 0
	if v.feed.Streamed() {
		v.avail = 0
		v.replenish()
	} else {
		v.total = len(v.feed.Stream())
	}
}

func (v *mockVoice) UpdateGain(gain float64) { v.gain = gain }
func (v *mockVoice) UpdatePitch(float64)     {}

func (v *mockVoice) Play() error {
	v.playing = true
	return nil
}

func (v *mockVoice) Stop(paused bool) int {
	v.playing = false
	pos := int(v.posBytes)
	if !paused {
		v.posBytes = 0
		v.avail = 0
	}
	return pos
}

func (v *mockVoice) UpdateNormal(dt float64) {
	if !v.playing {
		return
	}
	v.posBytes += dt * float64(v.feed.PCMFormat().BytesPerSecond())
	if !v.feed.Looping() && v.total > 0 && v.posBytes >= float64(v.total) {
		v.posBytes = float64(v.total)
		v.playing = false
	}
}

func (v *mockVoice) UpdateStream(dt float64) int {
	if !v.playing {
		return 0
	}
	v.posBytes += dt * float64(v.feed.PCMFormat().BytesPerSecond())
	queued := v.replenish()
	if v.posBytes >= float64(v.avail) {
		v.posBytes = float64(v.avail)
		if queued == 0 && !v.feed.Looping() {
			v.playing = false
		}
	}
	return queued
}

func (v *mockVoice) replenish() int {
	queued := 0
	target := int(v.posBytes) + backend.StreamBufferCount*backend.StreamBufferSize
	for v.avail < target {
		n := v.feed.LoadChunk(backend.StreamBufferSize)
		if n == 0 {
			break
		}
		v.avail += n
		queued += n
	}
	return queued
}

func (v *mockVoice) IsPlaying() bool                     { return v.playing }
func (v *mockVoice) BufferPosition() int                 { return int(v.posBytes) }
func (v *mockVoice) NeedsStreamPositionCorrection() bool { return false }

// newTestManager builds a host-driven manager on the mock backend.
func newTestManager(t *testing.T) (*Manager, *mockSystem) {
	t.Helper()
	sys := &mockSystem{}
	m := newWithSystem(Options{Backend: BackendDisabled}, sys)
	t.Cleanup(m.Close)
	return m, sys
}

// advance steps the engine by steps ticks of dt seconds.
func advance(m *Manager, dt float64, steps int) {
	for i := 0; i < steps; i++ {
		m.Update(dt)
	}
}

// writeWAV generates a mono 16-bit sine fixture.
func writeWAV(t *testing.T, dir, name string, sampleRate int, seconds float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	frames := int(float64(sampleRate) * seconds)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}
	return path
}
