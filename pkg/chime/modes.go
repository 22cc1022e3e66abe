// ABOUTME: Engine enumerations
// ABOUTME: Buffer load modes, source modes and backend kinds
package chime

import "github.com/Chime-Audio/chime-go/pkg/audio/decode"

// BufferMode controls when a category's sounds decode and release PCM.
type BufferMode int

const (
	// BufferModeFull decodes at sound creation, frees on destroy.
	BufferModeFull BufferMode = iota
	// BufferModeAsync hands decoding to the background loader at creation.
	BufferModeAsync
	// BufferModeLazy decodes at the first player bind.
	BufferModeLazy
	// BufferModeManaged decodes at first bind and releases after sitting
	// idle with no bound players.
	BufferModeManaged
	// BufferModeOnDemand decodes at first bind and releases when the last
	// player unbinds.
	BufferModeOnDemand
	// BufferModeStreamed keeps the decoder open and yields fixed-size chunks.
	BufferModeStreamed
)

// String returns the mode name.
func (m BufferMode) String() string {
	switch m {
	case BufferModeFull:
		return "Full"
	case BufferModeAsync:
		return "Async"
	case BufferModeLazy:
		return "Lazy"
	case BufferModeManaged:
		return "Managed"
	case BufferModeOnDemand:
		return "OnDemand"
	case BufferModeStreamed:
		return "Streamed"
	}
	return "Unknown"
}

// SourceMode controls how decoders access the encoded file.
type SourceMode int

const (
	// SourceModeDisk reads the encoded file from disk on demand.
	SourceModeDisk SourceMode = iota
	// SourceModeRAM holds the entire encoded file in memory once opened.
	SourceModeRAM
)

// String returns the mode name.
func (m SourceMode) String() string {
	if m == SourceModeRAM {
		return "RAM"
	}
	return "Disk"
}

func (m SourceMode) readMode() decode.Mode {
	if m == SourceModeRAM {
		return decode.ModeRAM
	}
	return decode.ModeDisk
}

// BackendKind selects a host audio subsystem. The platform-specific kinds
// are fronted by the portable default driver and report unavailable.
type BackendKind int

const (
	// BackendDefault is the OS-default audio driver.
	BackendDefault BackendKind = iota
	// BackendDisabled is the no-op driver.
	BackendDisabled
	BackendDirectSound
	BackendOpenAL
	BackendOpenSLES
	BackendSDL
	BackendXAudio2
)

// String returns the backend name.
func (k BackendKind) String() string {
	switch k {
	case BackendDefault:
		return "Default"
	case BackendDisabled:
		return "Disabled"
	case BackendDirectSound:
		return "DirectSound"
	case BackendOpenAL:
		return "OpenAL"
	case BackendOpenSLES:
		return "OpenSLES"
	case BackendSDL:
		return "SDL"
	case BackendXAudio2:
		return "XAudio2"
	}
	return "Unknown"
}

// Available reports whether a backend kind can be initialized in this build.
func Available(kind BackendKind) bool {
	return kind == BackendDefault || kind == BackendDisabled
}
