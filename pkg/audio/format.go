// ABOUTME: Container format identification
// ABOUTME: Maps file extensions to decodable formats
package audio

import (
	"path/filepath"
	"strings"
)

// Format identifies the container format of a sound asset.
type Format int

const (
	FormatUnknown Format = iota
	FormatFLAC
	FormatMP3
	FormatOGG
	FormatOpus
	FormatSPX
	FormatWAV
	// FormatMemory marks sounds constructed from raw in-memory PCM.
	FormatMemory
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatFLAC:
		return "FLAC"
	case FormatMP3:
		return "MP3"
	case FormatOGG:
		return "OGG"
	case FormatOpus:
		return "Opus"
	case FormatSPX:
		return "SPX"
	case FormatWAV:
		return "WAV"
	case FormatMemory:
		return "Memory"
	}
	return "Unknown"
}

// Extensions lists the file extensions with a registered decoder, in the
// order used during file resolution.
func Extensions() []string {
	return []string{".flac", ".mp3", ".ogg", ".opus", ".spx", ".wav"}
}

// FormatForExtension returns the format registered for a file extension
// (with or without the leading dot), or FormatUnknown.
func FormatForExtension(ext string) Format {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "flac":
		return FormatFLAC
	case "mp3":
		return FormatMP3
	case "ogg":
		return FormatOGG
	case "opus":
		return FormatOpus
	case "spx":
		return FormatSPX
	case "wav":
		return FormatWAV
	}
	return FormatUnknown
}

// FormatForFilename returns the format inferred from a filename's extension.
func FormatForFilename(filename string) Format {
	return FormatForExtension(filepath.Ext(filename))
}
