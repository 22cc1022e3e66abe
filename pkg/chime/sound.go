// ABOUTME: Sound asset handle
// ABOUTME: Identity, category membership and buffer factory for one asset
package chime

import (
	"path"
	"strings"

	"github.com/Chime-Audio/chime-go/pkg/audio"
)

// Sound is a named sound asset: either file-backed, with the format inferred
// from the extension, or memory-backed raw PCM. A Sound owns exactly one
// Buffer.
type Sound struct {
	mgr      *Manager
	name     string
	filename string
	category *Category
	buffer   *Buffer
}

// soundName derives the registry name: prefix plus the basename without
// extension, with path separators normalized.
func soundName(filename, prefix string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return prefix + base
}

func newSound(mgr *Manager, filename string, category *Category, prefix string) *Sound {
	s := &Sound{
		mgr:      mgr,
		name:     soundName(filename, prefix),
		filename: filename,
		category: category,
	}
	s.buffer = mgr.createBuffer(s)
	return s
}

func newSoundFromData(mgr *Manager, name string, category *Category, data []byte, pcm audio.PCM) *Sound {
	s := &Sound{
		mgr:      mgr,
		name:     name,
		category: category,
	}
	s.buffer = mgr.createMemoryBuffer(s, data, pcm)
	return s
}

// Name returns the globally unique registry name.
func (s *Sound) Name() string { return s.name }

// Filename returns the asset path, empty for memory-backed sounds.
func (s *Sound) Filename() string { return s.filename }

// Category returns the owning category.
func (s *Sound) Category() *Category { return s.category }

// Format returns the asset's container format.
func (s *Sound) Format() audio.Format { return s.buffer.format }

// IsStreamed reports whether the sound decodes in chunks.
func (s *Sound) IsStreamed() bool { return s.category.isStreamed() }

func (s *Sound) isStreamed() bool { return s.category.isStreamed() }

// Channels returns the decoded channel count.
func (s *Sound) Channels() int {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.pcm.Channels
}

// SampleRate returns the decoded sampling rate.
func (s *Sound) SampleRate() int {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.pcm.SampleRate
}

// BitsPerSample returns the decoded sample width.
func (s *Sound) BitsPerSample() int {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.pcm.BitsPerSample
}

// Size returns the decoded PCM size in bytes, 0 when unknown.
func (s *Sound) Size() int {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.size
}

// Duration returns the decoded duration in seconds, 0 when unknown.
func (s *Sound) Duration() float64 {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.duration
}

// IsLoaded reports whether the sound's PCM is resident.
func (s *Sound) IsLoaded() bool {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.isLoaded()
}

// BufferIdleTime returns how long the sound's buffer has had no bound
// players, in seconds.
func (s *Sound) BufferIdleTime() float64 {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.idleTime
}

// ReadPCM returns the sound's full PCM payload, decoding synchronously when
// it is not resident. The buffer's own state is left untouched.
func (s *Sound) ReadPCM() ([]byte, error) {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()
	return s.buffer.readPCM()
}
