// ABOUTME: PCM buffer
// ABOUTME: Reconciles the category's load mode with the decoder lifecycle
package chime

import (
	"fmt"
	"io"
	"log"

	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/Chime-Audio/chime-go/pkg/audio/decode"
)

type bufferState int

const (
	bufferEmpty bufferState = iota
	bufferQueued
	bufferLoaded
	bufferReleased
)

// Buffer is the single unit of PCM ownership between a Sound's identity and
// the Players reading from it. File-backed buffers instantiate a decoder
// when their mode requires it; memory-backed buffers carry PCM directly.
type Buffer struct {
	mgr      *Manager
	sound    *Sound
	category *Category
	filename string
	format   audio.Format

	source decode.Source
	stream []byte
	window []byte

	pcm      audio.PCM
	size     int
	duration float64

	state         bufferState
	memory        bool
	idleTime      float64
	bound         int
	streamedBytes int
	decodeFailed  bool
	warned        bool
}

func newBuffer(mgr *Manager, sound *Sound) *Buffer {
	return &Buffer{
		mgr:      mgr,
		sound:    sound,
		category: sound.category,
		filename: sound.filename,
		format:   audio.FormatForFilename(sound.filename),
	}
}

func newMemoryBuffer(mgr *Manager, sound *Sound, data []byte, pcm audio.PCM) *Buffer {
	stream := make([]byte, len(data))
	copy(stream, data)
	stream, pcm = mgr.convert(pcm, "memory sound '"+sound.name+"'", stream)
	return &Buffer{
		mgr:      mgr,
		sound:    sound,
		category: sound.category,
		format:   audio.FormatMemory,
		stream:   stream,
		pcm:      pcm,
		size:     len(stream),
		duration: pcm.BytesToSeconds(len(stream)),
		state:    bufferLoaded,
		memory:   true,
	}
}

func (b *Buffer) isLoaded() bool       { return b.state == bufferLoaded }
func (b *Buffer) isAsyncLoading() bool { return b.state == bufferQueued }
func (b *Buffer) isStreamed() bool     { return b.category.isStreamed() }

// openSource instantiates and opens the decoder, publishing its metadata.
func (b *Buffer) openSource() error {
	if b.source != nil {
		return nil
	}
	src, err := decode.New(b.filename, b.format, b.category.sourceMode.readMode())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, b.filename)
	}
	if err := src.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	b.source = src
	b.pcm = src.PCMFormat()
	b.size = src.Size()
	b.duration = src.Duration()
	return nil
}

func (b *Buffer) closeSource() {
	if b.source != nil {
		_ = b.source.Close()
		b.source = nil
	}
}

// prepare makes the buffer playable: full synchronous decode for
// non-streamed modes, an open rewound decoder for streamed ones. Callers
// check isAsyncLoading first; a queued buffer rejects reads.
func (b *Buffer) prepare() error {
	switch b.state {
	case bufferReleased:
		return fmt.Errorf("%w: buffer for sound '%s' is released", ErrInvalidState, b.sound.name)
	case bufferQueued:
		return fmt.Errorf("%w: buffer for sound '%s' is still loading", ErrInvalidState, b.sound.name)
	}
	if b.memory || b.isLoaded() {
		return nil
	}
	if b.isStreamed() {
		return b.openSource()
	}
	return b.loadFull()
}

// loadFull synchronously decodes the entire asset. The decoder is dropped
// afterwards; lazily recoverable modes recreate it on the next load.
func (b *Buffer) loadFull() error {
	if err := b.openSource(); err != nil {
		b.decodeFailed = true
		return err
	}
	data, err := io.ReadAll(b.source)
	if err != nil {
		b.decodeFailed = true
		b.closeSource()
		return fmt.Errorf("%w: %s: %v", ErrDecodeFailure, b.filename, err)
	}
	b.stream, b.pcm = b.mgr.convert(b.pcm, b.filename, data)
	b.size = len(b.stream)
	b.duration = b.pcm.BytesToSeconds(b.size)
	b.state = bufferLoaded
	b.closeSource()
	return nil
}

// load refills the stream window with up to max bytes of decoded PCM,
// wrapping to the start when looping and the end of stream is reached.
// Returns the number of bytes now in the window.
func (b *Buffer) load(looping bool, max int) int {
	if !b.isStreamed() {
		return len(b.stream)
	}
	if b.source == nil {
		if err := b.openSource(); err != nil {
			b.warnDecode(err)
			return 0
		}
	}
	if cap(b.window) < max {
		b.window = make([]byte, max)
	}
	b.window = b.window[:max]
	total := 0
	for total < max {
		n, err := b.source.Read(b.window[total:])
		total += n
		if err == io.EOF {
			if !looping {
				break
			}
			if rerr := b.source.Rewind(); rerr != nil {
				b.warnDecode(rerr)
				break
			}
			continue
		}
		if err != nil {
			b.warnDecode(err)
			break
		}
		if n == 0 {
			break
		}
	}
	b.stream = b.window[:total]
	b.streamedBytes += total
	return total
}

// rewind repositions the decoder and resets the cumulative stream counter.
// A queued buffer's decoder belongs to the async worker and is left alone.
func (b *Buffer) rewind() {
	if b.state == bufferQueued {
		return
	}
	if b.source != nil {
		if err := b.source.Rewind(); err != nil {
			b.warnDecode(err)
		}
	}
	if b.isStreamed() {
		b.stream = b.stream[:0]
	}
	b.streamedBytes = 0
}

func (b *Buffer) bind(*Player) {
	b.bound++
	b.idleTime = 0
}

func (b *Buffer) unbind(*Player) {
	if b.bound > 0 {
		b.bound--
	}
	if b.bound == 0 && b.category.bufferMode == BufferModeOnDemand {
		b.tryClearMemory()
	}
}

// update advances the idle timer while no players are bound. Only Managed
// buffers consult the unload timeout.
func (b *Buffer) update(dt float64) {
	if b.bound > 0 {
		b.idleTime = 0
		return
	}
	b.idleTime += dt
	if b.category.bufferMode == BufferModeManaged && b.idleTime >= b.mgr.idleUnloadTime {
		b.tryClearMemory()
	}
}

// tryClearMemory releases decoded PCM when the mode permits and no players
// hold the buffer. Lazily recoverable modes re-decode at the next bind.
func (b *Buffer) tryClearMemory() bool {
	if b.memory || b.bound > 0 || b.state == bufferReleased {
		return false
	}
	switch b.category.bufferMode {
	case BufferModeLazy, BufferModeManaged, BufferModeOnDemand:
		if b.state != bufferLoaded {
			return false
		}
		b.stream = nil
		b.state = bufferEmpty
		b.closeSource()
		return true
	case BufferModeStreamed:
		if b.source == nil && len(b.stream) == 0 {
			return false
		}
		b.stream = nil
		b.window = nil
		b.streamedBytes = 0
		b.closeSource()
		return true
	}
	return false
}

// readPCM returns the full decoded payload. When the buffer is not resident
// a throwaway decoder is used so the buffer's own state stays untouched.
func (b *Buffer) readPCM() ([]byte, error) {
	if b.isLoaded() {
		return b.stream, nil
	}
	if b.filename == "" {
		return nil, fmt.Errorf("%w: sound '%s' has no data", ErrInvalidState, b.sound.name)
	}
	src, err := decode.New(b.filename, b.format, b.category.sourceMode.readMode())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, b.filename)
	}
	if err := src.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, b.filename, err)
	}
	data, _ = b.mgr.convert(src.PCMFormat(), b.filename, data)
	return data, nil
}

// release marks the buffer destroyed. A queued buffer leaves decoder
// teardown to the async loader, which still holds it off-lock.
func (b *Buffer) release() {
	queued := b.state == bufferQueued
	b.state = bufferReleased
	b.stream = nil
	b.window = nil
	if !queued {
		b.closeSource()
	}
}

// completeAsync publishes a finished background decode. Called under the
// manager lock from the loader drain.
func (b *Buffer) completeAsync(data []byte, err error) {
	if b.state == bufferReleased {
		b.closeSource()
		return
	}
	b.closeSource()
	if err != nil {
		b.decodeFailed = true
		b.state = bufferEmpty
		b.warnDecode(err)
		return
	}
	b.stream, b.pcm = b.mgr.convert(b.pcm, b.filename, data)
	b.size = len(b.stream)
	b.duration = b.pcm.BytesToSeconds(b.size)
	b.state = bufferLoaded
}

// warnDecode logs a decode problem once per buffer.
func (b *Buffer) warnDecode(err error) {
	if b.warned {
		return
	}
	b.warned = true
	log.Printf("decode failed for sound '%s': %v", b.sound.name, err)
}
