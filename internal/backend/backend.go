// ABOUTME: Backend contract consumed by the engine core
// ABOUTME: Defines the System, Voice and Feed interfaces plus streaming constants
// Package backend defines the contract between the chime engine core and the
// host audio subsystems, and ships the built-in drivers.
//
// A System owns the host audio device; it creates one Voice per engine
// player. Voices pull PCM through a Feed the engine implements. All Voice
// methods are called under the engine's manager lock; drivers that consume
// audio on their own goroutines must copy data out during the tick.
package backend

import "github.com/Chime-Audio/chime-go/pkg/audio"

const (
	// StreamBufferSize is the size of one streaming chunk in bytes.
	StreamBufferSize = 32768
	// StreamBufferCount is the number of chunks kept queued per streamed voice.
	StreamBufferCount = 4
)

// Feed is the engine-side data supply a voice reads from.
type Feed interface {
	// PCMFormat describes the PCM the feed yields.
	PCMFormat() audio.PCM
	// Streamed reports whether the feed decodes in chunks.
	Streamed() bool
	// Looping reports whether playback wraps at end of stream.
	Looping() bool
	// Stream returns the currently decoded PCM window: the full payload for
	// non-streamed feeds, the bytes of the last LoadChunk for streamed ones.
	Stream() []byte
	// LoadChunk refills the stream window with up to max bytes and returns
	// the number of bytes now in the window. Streamed feeds only.
	LoadChunk(max int) int
}

// Voice is one playable output channel on a System.
type Voice interface {
	// PreparePlay acquires the output channel. It may fail when the host has
	// no free voice.
	PreparePlay() error
	// PrepareBuffer pushes the feed's PCM, or primes streaming chunks. When
	// resuming from pause only missing chunks are replenished.
	PrepareBuffer(paused bool)
	// UpdateGain pushes the effective gain, in [0, 1].
	UpdateGain(gain float64)
	// UpdatePitch pushes the pitch multiplier. Drivers may no-op.
	UpdatePitch(pitch float64)
	// Play starts the output channel.
	Play() error
	// Stop halts the output channel and returns the byte position reached.
	// With paused set, the channel keeps its queue for later resume.
	Stop(paused bool) int
	// UpdateNormal performs per-tick maintenance for non-streamed playback,
	// including loop restarts on drivers without a hardware loop.
	UpdateNormal(dt float64)
	// UpdateStream refills and re-enqueues streaming chunks; returns the
	// number of bytes queued this tick.
	UpdateStream(dt float64) int
	// IsPlaying reports whether the host channel is audible.
	IsPlaying() bool
	// BufferPosition returns the playback position in PCM bytes.
	BufferPosition() int
	// NeedsStreamPositionCorrection reports whether BufferPosition must be
	// corrected with the feed's cumulative stream counter.
	NeedsStreamPositionCorrection() bool
}

// System is one host audio subsystem.
type System interface {
	// Kind returns the driver name.
	Kind() string
	// NewVoice creates an output channel bound to a feed.
	NewVoice(feed Feed) Voice
	// Suspend halts the device, e.g. on focus loss.
	Suspend()
	// Resume restarts a suspended device.
	Resume()
	// Update performs per-tick system maintenance.
	Update()
	// Close releases the device.
	Close() error
}
