// ABOUTME: Audio manager
// ABOUTME: Registry of categories/sounds/buffers/players, update scheduler, suspend/resume
package chime

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Chime-Audio/chime-go/internal/backend"
	"github.com/Chime-Audio/chime-go/pkg/audio"
	"github.com/google/uuid"
)

// ConvertFunc is an optional format-conversion hook applied to fully decoded
// PCM streams. It returns the converted payload and its format; the default
// is the identity.
type ConvertFunc func(pcm audio.PCM, name string, data []byte) ([]byte, audio.PCM)

// Options configures a Manager.
type Options struct {
	// Backend selects the host audio subsystem.
	Backend BackendKind
	// BackendID is an opaque platform token some hosts require (window
	// handle on Windows, VM pointer on Android). Unused by the shipped
	// drivers.
	BackendID uintptr
	// DeviceName selects an output device where the driver supports it.
	DeviceName string
	// Threaded runs the update tick on the manager's own goroutine every
	// UpdateTime seconds; otherwise the host calls Update.
	Threaded bool
	// UpdateTime is the tick interval in seconds. Default 0.01.
	UpdateTime float64
	// SuspendResumeFadeTime is the crossfade applied around suspend/resume,
	// in seconds. Default 0.5. Only honored when threaded.
	SuspendResumeFadeTime float64
	// IdleUnloadTime is how long a Managed buffer may sit without bound
	// players before its PCM is released, in seconds. Default 60.
	IdleUnloadTime float64

	// Engine PCM format. Defaults 44100 Hz, 2 channels, 16 bits.
	SampleRate    int
	Channels      int
	BitsPerSample int

	// ConvertStream is the optional format-conversion hook.
	ConvertStream ConvertFunc
}

func (o *Options) applyDefaults() {
	if o.UpdateTime <= 0 {
		o.UpdateTime = 0.01
	}
	if o.SuspendResumeFadeTime == 0 {
		o.SuspendResumeFadeTime = 0.5
	}
	if o.IdleUnloadTime <= 0 {
		o.IdleUnloadTime = 60
	}
	if o.SampleRate <= 0 {
		o.SampleRate = 44100
	}
	if o.Channels <= 0 {
		o.Channels = 2
	}
	if o.BitsPerSample <= 0 {
		o.BitsPerSample = 16
	}
}

// Manager is the engine root: it owns every category, sound, buffer and
// player, schedules the update tick, and coordinates the backend.
//
// One mutex guards the manager and everything reachable from it. Exported
// methods acquire it; unexported variants assume it is held.
type Manager struct {
	mu sync.Mutex
	id string

	system      backend.System
	backendKind BackendKind
	deviceName  string

	threaded   bool
	updateTime float64
	stopCh     chan struct{}
	wg         sync.WaitGroup

	suspended             bool
	suspendResumeFadeTime float64
	idleUnloadTime        float64

	globalGain       float64
	globalFadeTarget float64
	globalFadeSpeed  float64
	globalFadeTime   float64

	pcm           audio.PCM
	convertStream ConvertFunc

	categories       map[string]*Category
	sounds           map[string]*Sound
	buffers          []*Buffer
	players          []*Player
	managed          []*Player
	suspendedPlayers []*Player

	loader *asyncLoader
}

// New creates a manager on the requested backend. Unavailable backend kinds
// fail with ErrBackendFailure.
func New(opts Options) (*Manager, error) {
	opts.applyDefaults()
	pcm := audio.PCM{
		Channels:      opts.Channels,
		SampleRate:    opts.SampleRate,
		BitsPerSample: opts.BitsPerSample,
	}
	var system backend.System
	switch opts.Backend {
	case BackendDisabled:
		system = backend.NewDisabled()
	case BackendDefault:
		sys, err := backend.NewOto(pcm)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendFailure, err)
		}
		system = sys
	default:
		return nil, fmt.Errorf("%w: backend %s is not available in this build", ErrBackendFailure, opts.Backend)
	}
	return newWithSystem(opts, system), nil
}

// newWithSystem wires a manager to an already-constructed backend system.
func newWithSystem(opts Options, system backend.System) *Manager {
	opts.applyDefaults()
	m := &Manager{
		id:                    uuid.NewString(),
		system:                system,
		backendKind:           opts.Backend,
		deviceName:            opts.DeviceName,
		threaded:              opts.Threaded,
		updateTime:            opts.UpdateTime,
		suspendResumeFadeTime: opts.SuspendResumeFadeTime,
		idleUnloadTime:        opts.IdleUnloadTime,
		globalGain:            1.0,
		globalFadeTarget:      -1.0,
		pcm: audio.PCM{
			Channels:      opts.Channels,
			SampleRate:    opts.SampleRate,
			BitsPerSample: opts.BitsPerSample,
		},
		convertStream: opts.ConvertStream,
		categories:    make(map[string]*Category),
		sounds:        make(map[string]*Sound),
		loader:        newAsyncLoader(),
	}
	if m.threaded {
		log.Printf("starting audio update thread (manager %s, backend %s)", m.id, system.Kind())
		m.stopCh = make(chan struct{})
		m.wg.Add(1)
		go m.runUpdates()
	}
	return m
}

// Backend returns the active backend kind.
func (m *Manager) Backend() BackendKind { return m.backendKind }

// DeviceName returns the configured output device name.
func (m *Manager) DeviceName() string { return m.deviceName }

// IsThreaded reports whether the manager drives its own update tick.
func (m *Manager) IsThreaded() bool { return m.threaded }

// PCMFormat returns the engine's output PCM format.
func (m *Manager) PCMFormat() audio.PCM { return m.pcm }

// runUpdates is the internal update loop: tick under the lock, sleep
// without it.
func (m *Manager) runUpdates() {
	defer m.wg.Done()
	ticker := time.NewTicker(time.Duration(m.updateTime * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.update(m.updateTime)
			m.mu.Unlock()
		}
	}
}

// Close stops the update thread and the async loader, tears down every
// player, sound and category, and releases the backend.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.stopCh != nil {
		log.Printf("stopping audio update thread (manager %s)", m.id)
		close(m.stopCh)
		m.stopCh = nil
		m.mu.Unlock()
		m.wg.Wait()
		m.mu.Lock()
	}
	m.update(0)
	for _, p := range m.players {
		p.stop(0, false)
	}
	m.players = nil
	m.managed = nil
	m.suspendedPlayers = nil
	for _, s := range m.sounds {
		m.destroyBuffer(s.buffer)
	}
	m.sounds = make(map[string]*Sound)
	m.categories = make(map[string]*Category)
	_ = m.system.Close()
	m.mu.Unlock()
	m.loader.close()
}

// Update advances the engine by dt seconds. Hosts call this when the
// manager is not threaded; a threaded manager ignores it.
func (m *Manager) Update(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.threaded {
		m.update(dt)
	}
}

// update is one tick. Order: async drain, global fade, category fades,
// player updates, managed reclaim, buffer idle accounting.
func (m *Manager) update(dt float64) {
	if m.suspended {
		// only the suspend crossfade advances while suspended
		if m.suspendResumeFadeTime > 0 && m.threaded {
			for _, p := range m.players {
				p.pushGain()
				p.update(dt)
			}
		}
		return
	}
	m.loader.drain()
	gainFading := false
	if dt > 0 {
		if m.isGlobalGainFading() {
			gainFading = true
			m.globalFadeTime += m.globalFadeSpeed * dt
			if m.globalFadeTime >= 1.0 {
				m.globalGain = m.globalFadeTarget
				m.globalFadeTarget = -1.0
				m.globalFadeSpeed = 0
				m.globalFadeTime = 0
			}
		}
		for _, c := range m.categories {
			if c.isFading() {
				gainFading = true
				c.update(dt)
			}
		}
	}
	for _, p := range m.players {
		if gainFading && !p.isFading() {
			// a fading player pushes its own gain in update
			p.pushGain()
		}
		p.update(dt)
		if p.asyncQueued {
			if p.buffer.isLoaded() {
				p.asyncQueued = false
				_ = p.play(p.asyncFade, p.looping)
			} else if p.buffer.decodeFailed {
				p.asyncQueued = false
			}
		}
	}
	// copy: reclaim mutates the managed list
	managed := append([]*Player(nil), m.managed...)
	for _, p := range managed {
		if !p.asyncQueued && !p.isPlaying() && !p.isFadingOut() {
			m.destroyManagedPlayer(p)
		}
	}
	for _, b := range m.buffers {
		b.update(dt)
	}
	m.system.Update()
}

// --- global gain ---

// GlobalGain returns the effective global gain, accounting for a fade in
// progress.
func (m *Manager) GlobalGain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globalEffectiveGain()
}

// SetGlobalGain sets the global gain, clamped to [0, 1], cancelling any
// fade, and pushes it to every player.
func (m *Manager) SetGlobalGain(value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setGlobalGain(value)
}

func (m *Manager) setGlobalGain(value float64) {
	m.globalGain = clampGain(value)
	m.globalFadeTarget = -1.0
	m.globalFadeSpeed = 0
	m.globalFadeTime = 0
	for _, p := range m.players {
		p.pushGain()
	}
}

// FadeGlobalGain fades the global gain to target over the given seconds.
// A non-positive duration sets the gain immediately.
func (m *Manager) FadeGlobalGain(target float64, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds <= 0 {
		m.setGlobalGain(target)
		return
	}
	m.globalFadeTarget = clampGain(target)
	m.globalFadeTime = 0
	m.globalFadeSpeed = 1.0 / seconds
}

// IsGlobalGainFading reports whether a global gain fade is in progress.
func (m *Manager) IsGlobalGainFading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isGlobalGainFading()
}

func (m *Manager) isGlobalGainFading() bool {
	return m.globalFadeTarget >= 0 && m.globalFadeSpeed > 0
}

func (m *Manager) globalEffectiveGain() float64 {
	result := m.globalGain
	if m.isGlobalGainFading() {
		result += (m.globalFadeTarget - m.globalGain) * m.globalFadeTime
	}
	return result
}

// --- categories ---

// CreateCategory creates a named category, or returns the existing one.
func (m *Manager) CreateCategory(name string, bufferMode BufferMode, sourceMode SourceMode) *Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCategory(name, bufferMode, sourceMode)
}

func (m *Manager) createCategory(name string, bufferMode BufferMode, sourceMode SourceMode) *Category {
	if c, ok := m.categories[name]; ok {
		return c
	}
	c := newCategory(m, name, bufferMode, sourceMode)
	m.categories[name] = c
	return c
}

// Category returns a category by name.
func (m *Manager) Category(name string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.category(name)
}

func (m *Manager) category(name string) (*Category, error) {
	c, ok := m.categories[name]
	if !ok {
		return nil, fmt.Errorf("%w: category '%s'", ErrNotFound, name)
	}
	return c, nil
}

// HasCategory reports whether a category exists.
func (m *Manager) HasCategory(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.categories[name]
	return ok
}

// --- sounds ---

// CreateSound registers a file-backed sound. The registry name is the
// prefix plus the basename without extension. Fails with ErrUnknownFormat
// when no decoder matches the extension and ErrExists on a name collision.
// The file need not exist yet: lazy modes open it at first play, and in
// eager modes a missing or undecodable file is logged, the sound is still
// registered, and its plays are silent no-ops.
func (m *Manager) CreateSound(filename, categoryName, prefix string) (*Sound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createSound(filename, categoryName, prefix)
}

func (m *Manager) createSound(filename, categoryName, prefix string) (*Sound, error) {
	category, err := m.category(categoryName)
	if err != nil {
		return nil, err
	}
	resolved := m.findAudioFile(filename)
	if resolved == "" {
		resolved = normalizePath(filename)
	}
	if audio.FormatForFilename(resolved) == audio.FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
	}
	name := soundName(resolved, prefix)
	if _, ok := m.sounds[name]; ok {
		return nil, fmt.Errorf("%w: sound '%s'", ErrExists, name)
	}
	sound := newSound(m, resolved, category, prefix)
	m.sounds[name] = sound
	m.initializeBuffer(sound.buffer)
	return sound, nil
}

// CreateSoundFromData registers a memory-backed sound carrying raw PCM.
func (m *Manager) CreateSoundFromData(name, categoryName string, data []byte, channels, sampleRate, bitsPerSample int) (*Sound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, err := m.category(categoryName)
	if err != nil {
		return nil, err
	}
	if _, ok := m.sounds[name]; ok {
		return nil, fmt.Errorf("%w: sound '%s'", ErrExists, name)
	}
	pcm := audio.PCM{Channels: channels, SampleRate: sampleRate, BitsPerSample: bitsPerSample}
	sound := newSoundFromData(m, name, category, data, pcm)
	m.sounds[name] = sound
	return sound, nil
}

// initializeBuffer triggers the eager part of the category's load policy.
func (m *Manager) initializeBuffer(b *Buffer) {
	switch b.category.bufferMode {
	case BufferModeFull:
		if err := b.loadFull(); err != nil {
			b.warnDecode(err)
		}
	case BufferModeAsync:
		if err := m.queueAsyncLoad(b); err != nil {
			b.warnDecode(err)
		}
	}
}

func (m *Manager) queueAsyncLoad(b *Buffer) error {
	if err := b.openSource(); err != nil {
		b.decodeFailed = true
		return err
	}
	b.state = bufferQueued
	m.loader.queueBuffer(b)
	return nil
}

// CreateSoundsFromPath scans a directory recursively and registers every
// resolvable file, returning the new sound names. With a category name the
// category is created (Full/Disk) if missing; without one, each immediate
// subdirectory is scanned with its base name as the category.
func (m *Manager) CreateSoundsFromPath(path, categoryName, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if categoryName != "" {
		return m.createSoundsFromDirectory(path, categoryName, prefix)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	var result []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		names, err := m.createSoundsFromDirectory(filepath.Join(path, entry.Name()), entry.Name(), prefix)
		if err != nil {
			return result, err
		}
		result = append(result, names...)
	}
	return result, nil
}

func (m *Manager) createSoundsFromDirectory(path, categoryName, prefix string) ([]string, error) {
	m.createCategory(categoryName, BufferModeFull, SourceModeDisk)
	var result []string
	err := filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		sound, err := m.createSound(file, categoryName, prefix)
		if err != nil {
			// unresolvable files are skipped, not fatal
			return nil
		}
		result = append(result, sound.name)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", path, err)
	}
	sort.Strings(result)
	return result, nil
}

// Sound returns a sound by name.
func (m *Manager) Sound(name string) (*Sound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sound(name)
}

func (m *Manager) sound(name string) (*Sound, error) {
	s, ok := m.sounds[name]
	if !ok {
		return nil, fmt.Errorf("%w: sound '%s'", ErrNotFound, name)
	}
	return s, nil
}

// HasSound reports whether a sound is registered.
func (m *Manager) HasSound(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sounds[name]
	return ok
}

// SoundNames returns every registered sound name, sorted.
func (m *Manager) SoundNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sounds))
	for name := range m.sounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DestroySound tears down the sound's managed players, then frees it.
// Fails with ErrBusy while manual players still reference the sound.
func (m *Manager) DestroySound(sound *Sound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroySound(sound)
}

func (m *Manager) destroySound(sound *Sound) error {
	managed := append([]*Player(nil), m.managed...)
	for _, p := range managed {
		if p.sound == sound {
			m.destroyManagedPlayer(p)
		}
	}
	for _, p := range m.players {
		if p.sound == sound {
			return fmt.Errorf("sound '%s' cannot be destroyed: %w", sound.name, ErrBusy)
		}
	}
	log.Printf("destroying sound: %s", sound.name)
	delete(m.sounds, sound.name)
	m.destroyBuffer(sound.buffer)
	return nil
}

// DestroySoundsWithPrefix destroys every destroyable sound whose name
// starts with prefix, then reports one ErrBusy naming every blocked sound.
func (m *Manager) DestroySoundsWithPrefix(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.Printf("destroying sounds with prefix: %s", prefix)
	var destroy []*Sound
	for name, sound := range m.sounds {
		if strings.HasPrefix(name, prefix) {
			destroy = append(destroy, sound)
		}
	}
	var blocked []string
	for _, sound := range destroy {
		managed := append([]*Player(nil), m.managed...)
		for _, p := range managed {
			if p.sound == sound {
				m.destroyManagedPlayer(p)
			}
		}
		manual := false
		for _, p := range m.players {
			if p.sound == sound {
				blocked = append(blocked, sound.name)
				manual = true
				break
			}
		}
		if !manual {
			delete(m.sounds, sound.name)
			m.destroyBuffer(sound.buffer)
		}
	}
	if len(blocked) > 0 {
		sort.Strings(blocked)
		return fmt.Errorf("sounds cannot be destroyed: %s: %w", strings.Join(blocked, ", "), ErrBusy)
	}
	return nil
}

// --- buffers ---

func (m *Manager) createBuffer(sound *Sound) *Buffer {
	b := newBuffer(m, sound)
	m.buffers = append(m.buffers, b)
	return b
}

func (m *Manager) createMemoryBuffer(sound *Sound, data []byte, pcm audio.PCM) *Buffer {
	b := newMemoryBuffer(m, sound, data, pcm)
	m.buffers = append(m.buffers, b)
	return b
}

func (m *Manager) destroyBuffer(buffer *Buffer) {
	buffer.release()
	for i, b := range m.buffers {
		if b == buffer {
			m.buffers = append(m.buffers[:i], m.buffers[i+1:]...)
			break
		}
	}
}

// convert applies the optional stream-conversion hook.
func (m *Manager) convert(pcm audio.PCM, name string, data []byte) ([]byte, audio.PCM) {
	if m.convertStream == nil {
		return data, pcm
	}
	return m.convertStream(pcm, name, data)
}

// --- players ---

// CreatePlayer creates a manual player for a registered sound. The caller
// owns it and must destroy it with DestroyPlayer.
func (m *Manager) CreatePlayer(soundName string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createPlayer(soundName)
}

func (m *Manager) createPlayer(soundName string) (*Player, error) {
	sound, err := m.sound(soundName)
	if err != nil {
		return nil, err
	}
	p := newPlayer(m, sound)
	m.players = append(m.players, p)
	return p, nil
}

// DestroyPlayer stops and frees a player.
func (m *Manager) DestroyPlayer(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyPlayer(p)
}

func (m *Manager) destroyPlayer(p *Player) {
	p.stop(0, false)
	for i, player := range m.players {
		if player == p {
			m.players = append(m.players[:i], m.players[i+1:]...)
			break
		}
	}
}

func (m *Manager) createManagedPlayer(soundName string) (*Player, error) {
	p, err := m.createPlayer(soundName)
	if err != nil {
		return nil, err
	}
	m.managed = append(m.managed, p)
	return p, nil
}

func (m *Manager) destroyManagedPlayer(p *Player) {
	for i, player := range m.managed {
		if player == p {
			m.managed = append(m.managed[:i], m.managed[i+1:]...)
			break
		}
	}
	m.destroyPlayer(p)
}

func (m *Manager) removeSuspended(p *Player) {
	for i, player := range m.suspendedPlayers {
		if player == p {
			m.suspendedPlayers = append(m.suspendedPlayers[:i], m.suspendedPlayers[i+1:]...)
			break
		}
	}
}

// Players returns the manual players (managed players are internal).
func (m *Manager) Players() []*Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Player
	for _, p := range m.players {
		if !m.isManaged(p) {
			result = append(result, p)
		}
	}
	return result
}

func (m *Manager) isManaged(p *Player) bool {
	for _, mp := range m.managed {
		if mp == p {
			return true
		}
	}
	return false
}

// --- play control ---

// Play spawns a managed player for the named sound and starts it, fading in
// over fadeTime seconds. Managed players are reclaimed automatically once
// silent. No-op while suspended.
func (m *Manager) Play(soundName string, fadeTime float64, looping bool, gain float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.suspended {
		return nil
	}
	p, err := m.createManagedPlayer(soundName)
	if err != nil {
		return err
	}
	p.setGain(gain)
	return p.play(fadeTime, looping)
}

// PlayAsync behaves like Play but defers any pending decode to the
// background loader.
func (m *Manager) PlayAsync(soundName string, fadeTime float64, looping bool, gain float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.suspended {
		return nil
	}
	p, err := m.createManagedPlayer(soundName)
	if err != nil {
		return err
	}
	p.setGain(gain)
	return p.playAsync(fadeTime, looping)
}

// StopSound stops every managed player of the named sound, destroying them
// immediately when fadeTime is 0.
func (m *Manager) StopSound(soundName string, fadeTime float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fadeTime <= 0 {
		managed := append([]*Player(nil), m.managed...)
		for _, p := range managed {
			if p.sound.name == soundName {
				m.destroyManagedPlayer(p)
			}
		}
		return
	}
	for _, p := range m.managed {
		if p.sound.name == soundName {
			p.stop(fadeTime, false)
		}
	}
}

// StopFirst stops the first managed player of the named sound.
func (m *Manager) StopFirst(soundName string, fadeTime float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.managed {
		if p.sound.name == soundName {
			if fadeTime <= 0 {
				m.destroyManagedPlayer(p)
			} else {
				p.stop(fadeTime, false)
			}
			return
		}
	}
}

// StopAll stops every player, manual ones included. With fadeTime 0 all
// managed players are destroyed immediately.
func (m *Manager) StopAll(fadeTime float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fadeTime <= 0 {
		managed := append([]*Player(nil), m.managed...)
		for _, p := range managed {
			m.destroyManagedPlayer(p)
		}
	}
	for _, p := range m.players {
		p.stop(fadeTime, false)
	}
}

// StopCategory stops every player of the named category.
func (m *Manager) StopCategory(categoryName string, fadeTime float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, err := m.category(categoryName)
	if err != nil {
		return err
	}
	if fadeTime < 0 {
		fadeTime = 0
	}
	if fadeTime == 0 {
		managed := append([]*Player(nil), m.managed...)
		for _, p := range managed {
			if p.sound.category == category {
				m.destroyManagedPlayer(p)
			}
		}
	}
	for _, p := range m.players {
		if p.sound.category == category {
			p.stop(fadeTime, false)
		}
	}
	return nil
}

// --- counts (managed players only) ---

// PlayingCount returns how many managed players of the named sound are
// audible.
func (m *Manager) PlayingCount(soundName string) int {
	return m.countManaged(soundName, (*Player).isPlaying)
}

// FadingCount returns how many managed players of the named sound are
// fading either way.
func (m *Manager) FadingCount(soundName string) int {
	return m.countManaged(soundName, (*Player).isFading)
}

// FadingInCount returns how many managed players of the named sound are
// fading in.
func (m *Manager) FadingInCount(soundName string) int {
	return m.countManaged(soundName, (*Player).isFadingIn)
}

// FadingOutCount returns how many managed players of the named sound are
// fading out.
func (m *Manager) FadingOutCount(soundName string) int {
	return m.countManaged(soundName, (*Player).isFadingOut)
}

func (m *Manager) countManaged(soundName string, matches func(*Player) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.managed {
		if p.sound.name == soundName && matches(p) {
			count++
		}
	}
	return count
}

// --- suspend / resume ---

// SuspendAudio pauses every playing voice with the suspend crossfade and
// halts the backend, e.g. on focus loss.
func (m *Manager) SuspendAudio() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspendAudio()
}

func (m *Manager) suspendAudio() {
	if m.suspended {
		return
	}
	log.Printf("suspending audio (manager %s)", m.id)
	// the crossfade needs the internal thread; a host-driven loop cannot
	// advance it while suspended
	fadeTime := 0.0
	if m.threaded {
		fadeTime = m.suspendResumeFadeTime
	}
	for _, p := range m.players {
		if p.isFadingOut() {
			p.stop(fadeTime, p.paused)
		} else if p.isPlaying() {
			p.stop(fadeTime, true)
			m.suspendedPlayers = append(m.suspendedPlayers, p)
		}
	}
	m.system.Suspend()
	m.suspended = true
}

// ResumeAudio restarts the backend and resumes every player suspended by
// SuspendAudio, fading back in.
func (m *Manager) ResumeAudio() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeAudio()
}

func (m *Manager) resumeAudio() {
	if !m.suspended {
		return
	}
	log.Printf("resuming audio (manager %s)", m.id)
	m.suspended = false
	m.system.Resume()
	fadeTime := 0.0
	if m.threaded {
		fadeTime = m.suspendResumeFadeTime
	}
	for _, p := range m.suspendedPlayers {
		_ = p.play(fadeTime, p.looping)
	}
	m.suspendedPlayers = nil
}

// IsSuspended reports whether the engine is suspended.
func (m *Manager) IsSuspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspended
}

// ClearMemory releases every buffer whose mode permits it right now.
func (m *Manager) ClearMemory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, b := range m.buffers {
		if b.tryClearMemory() {
			count++
		}
	}
	log.Printf("cleared %d buffers", count)
}

// --- file resolution ---

// findAudioFile resolves a sound filename: the name as given, then with
// every known extension appended, then again with the existing extension
// stripped first.
func (m *Manager) findAudioFile(filename string) string {
	filename = normalizePath(filename)
	if fileExists(filename) {
		return filename
	}
	for _, ext := range audio.Extensions() {
		if candidate := filename + ext; fileExists(candidate) {
			return candidate
		}
	}
	if ext := filepath.Ext(filename); ext != "" {
		stripped := strings.TrimSuffix(filename, ext)
		for _, e := range audio.Extensions() {
			if candidate := stripped + e; fileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func normalizePath(filename string) string {
	return filepath.FromSlash(strings.ReplaceAll(filename, "\\", "/"))
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}
