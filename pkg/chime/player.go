// ABOUTME: Voice state machine
// ABOUTME: Drives one sound/buffer pairing through prepare/play/fade/stop
package chime

import (
	"fmt"
	"log"

	"github.com/Chime-Audio/chime-go/internal/backend"
	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/google/uuid"
)

// Player is a single active voice: one Sound, one playback cursor, one
// backend voice. Manual players are created and destroyed by the host;
// managed players are spawned by Manager.Play and reclaimed when silent.
//
// Fade direction follows the envelope speed: positive means fading in,
// negative fading out, zero not fading.
type Player struct {
	mgr    *Manager
	id     string
	sound  *Sound
	buffer *Buffer
	voice  backend.Voice

	gain    float64
	pitch   float64
	offset  int
	looping bool
	playing bool
	paused  bool

	fadeTime  float64
	fadeSpeed float64

	asyncQueued bool
	asyncFade   float64
	bound       bool
}

func newPlayer(mgr *Manager, sound *Sound) *Player {
	p := &Player{
		mgr:      mgr,
		id:       uuid.NewString(),
		sound:    sound,
		buffer:   sound.buffer,
		gain:     1.0,
		pitch:    1.0,
		fadeTime: 1.0,
	}
	p.voice = mgr.system.NewVoice(p)
	return p
}

// ID returns the player's unique identifier.
func (p *Player) ID() string { return p.id }

// Sound returns the sound this player voices.
func (p *Player) Sound() *Sound { return p.sound }

// Play starts or resumes playback, fading in over fadeTime seconds (0 plays
// at full envelope immediately). Looping is latched only when not resuming
// from pause.
func (p *Player) Play(fadeTime float64, looping bool) error {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.play(fadeTime, looping)
}

// PlayAsync behaves like Play but hands any pending decode to the
// background loader; playback starts on the tick after the decode lands.
func (p *Player) PlayAsync(fadeTime float64, looping bool) error {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.playAsync(fadeTime, looping)
}

// Stop halts playback, fading out over fadeTime seconds when positive.
func (p *Player) Stop(fadeTime float64) {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	p.stop(fadeTime, false)
}

// Pause halts playback like Stop but preserves the playback offset for the
// next Play.
func (p *Player) Pause(fadeTime float64) {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	p.stop(fadeTime, true)
}

// Gain returns the player gain.
func (p *Player) Gain() float64 {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.gain
}

// SetGain sets the player gain, clamped to [0, 1].
func (p *Player) SetGain(value float64) {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	p.setGain(value)
}

// Pitch returns the pitch multiplier.
func (p *Player) Pitch() float64 {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.pitch
}

// SetPitch sets the pitch multiplier. Backends without rate control no-op.
func (p *Player) SetPitch(value float64) {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	p.pitch = value
	p.voice.UpdatePitch(value)
}

// IsPlaying reports whether the backend voice is audible.
func (p *Player) IsPlaying() bool {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.isPlaying()
}

// IsPaused reports whether the player is paused and not mid-fade.
func (p *Player) IsPaused() bool {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.isPaused()
}

// IsFading reports whether a fade is in progress.
func (p *Player) IsFading() bool {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.isFading()
}

// IsFadingIn reports whether the player is fading in.
func (p *Player) IsFadingIn() bool {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.isFadingIn()
}

// IsFadingOut reports whether the player is fading out.
func (p *Player) IsFadingOut() bool {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.isFadingOut()
}

// IsLooping reports whether playback wraps at end of stream.
func (p *Player) IsLooping() bool {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.looping
}

// SampleOffset returns the playback position in per-channel samples,
// wrapped by the buffer duration while looping.
func (p *Player) SampleOffset() int {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	return p.sampleOffset()
}

func (p *Player) isPlaying() bool {
	return p.playing && !p.isPaused() && p.voice.IsPlaying()
}

func (p *Player) isPaused() bool    { return p.paused && !p.isFading() }
func (p *Player) isFading() bool    { return p.fadeSpeed != 0 }
func (p *Player) isFadingIn() bool  { return p.fadeSpeed > 0 }
func (p *Player) isFadingOut() bool { return p.fadeSpeed < 0 }

func (p *Player) setGain(value float64) {
	p.gain = clampGain(value)
	p.pushGain()
}

func (p *Player) play(fadeTime float64, looping bool) error {
	if !p.paused {
		p.looping = looping
		p.offset = 0
	}
	if p.buffer.decodeFailed {
		// decode failure downgrades play to a no-op; warned once at the buffer
		return nil
	}
	if err := p.voice.PreparePlay(); err != nil {
		log.Printf("player %s: could not acquire voice for '%s': %v", p.id, p.sound.name, err)
		return fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}
	if !p.bound {
		p.buffer.bind(p)
		p.bound = true
	}
	if p.buffer.isAsyncLoading() {
		p.asyncQueued = true
		p.asyncFade = fadeTime
		return nil
	}
	if err := p.buffer.prepare(); err != nil {
		p.buffer.warnDecode(err)
		p.buffer.unbind(p)
		p.bound = false
		return nil
	}
	p.voice.PrepareBuffer(p.paused)
	if fadeTime > 0 {
		p.fadeTime = 0
		p.fadeSpeed = 1.0 / fadeTime
	} else {
		p.fadeTime = 1.0
		p.fadeSpeed = 0
	}
	p.pushGain()
	if err := p.voice.Play(); err != nil {
		log.Printf("player %s: could not start '%s': %v", p.id, p.sound.name, err)
		p.playing = false
		p.fadeSpeed = 0
		p.buffer.unbind(p)
		p.bound = false
		return fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}
	p.playing = true
	p.paused = false
	return nil
}

func (p *Player) playAsync(fadeTime float64, looping bool) error {
	if !p.paused {
		p.looping = looping
		p.offset = 0
	}
	if p.buffer.decodeFailed {
		return nil
	}
	if err := p.voice.PreparePlay(); err != nil {
		log.Printf("player %s: could not acquire voice for '%s': %v", p.id, p.sound.name, err)
		return fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}
	if !p.bound {
		p.buffer.bind(p)
		p.bound = true
	}
	if !p.buffer.isLoaded() && !p.buffer.memory && !p.buffer.isStreamed() {
		if p.buffer.state == bufferEmpty {
			if err := p.mgr.queueAsyncLoad(p.buffer); err != nil {
				p.buffer.warnDecode(err)
				p.buffer.unbind(p)
				p.bound = false
				return nil
			}
		}
		p.asyncQueued = true
		p.asyncFade = fadeTime
		return nil
	}
	return p.play(fadeTime, looping)
}

// stop implements both Stop and Pause: a positive fade defers the real stop
// to the envelope hitting zero, 0 is immediate.
func (p *Player) stop(fadeTime float64, pause bool) {
	p.paused = pause
	if fadeTime > 0 {
		p.fadeSpeed = -1.0 / fadeTime
		return
	}
	p.fadeTime = 0
	p.fadeSpeed = 0
	p.asyncQueued = false
	if pause {
		p.offset = p.voice.BufferPosition()
	}
	p.voice.Stop(pause)
	p.playing = false
	if !pause {
		p.offset = 0
		p.buffer.rewind()
		if p.bound {
			p.buffer.unbind(p)
			p.bound = false
		}
		p.mgr.removeSuspended(p)
	}
}

// update advances the voice one tick. Runs under the manager lock.
func (p *Player) update(dt float64) {
	if p.playing && !p.paused && !p.looping && !p.voice.IsPlaying() {
		// voice drained on its own
		p.stop(0, false)
		return
	}
	if p.isFading() {
		p.fadeTime += p.fadeSpeed * dt
		if p.fadeTime >= 1.0 && p.fadeSpeed > 0 {
			p.fadeTime = 1.0
			p.fadeSpeed = 0
			p.pushGain()
		} else if p.fadeTime <= 0 && p.fadeSpeed < 0 {
			p.fadeTime = 0
			p.fadeSpeed = 0
			p.stop(0, p.paused)
			return
		} else {
			p.pushGain()
		}
	}
	if p.playing && !p.paused {
		if p.sound.isStreamed() {
			p.voice.UpdateStream(dt)
		} else {
			p.voice.UpdateNormal(dt)
		}
	}
}

func (p *Player) effectiveGain() float64 {
	gain := p.mgr.globalEffectiveGain() * p.sound.category.effectiveGain() * p.gain * p.fadeTime
	return clampGain(gain)
}

func (p *Player) pushGain() {
	p.voice.UpdateGain(p.effectiveGain())
}

func (p *Player) sampleOffset() int {
	pos := p.voice.BufferPosition()
	if p.sound.isStreamed() && p.voice.NeedsStreamPositionCorrection() {
		pos = p.buffer.streamedBytes
	}
	if p.looping && p.buffer.size > 0 {
		pos %= p.buffer.size
	}
	return p.buffer.pcm.BytesToSamples(pos)
}

// Feed implementation: backend voices pull PCM through these under the
// manager lock during the tick.

// PCMFormat describes the PCM the voice receives.
func (p *Player) PCMFormat() audio.PCM { return p.buffer.pcm }

// Streamed reports whether the voice reads fixed-size chunks.
func (p *Player) Streamed() bool { return p.sound.isStreamed() }

// Looping reports whether playback wraps at end of stream.
func (p *Player) Looping() bool { return p.looping }

// Stream returns the buffer's current PCM window.
func (p *Player) Stream() []byte { return p.buffer.stream }

// LoadChunk refills the stream window with up to max bytes.
func (p *Player) LoadChunk(max int) int { return p.buffer.load(p.looping, max) }

var _ backend.Feed = (*Player)(nil)
