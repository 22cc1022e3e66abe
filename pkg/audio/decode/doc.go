// ABOUTME: Audio decoder package for multiple container formats
// ABOUTME: Provides the Source interface and per-format implementations
// Package decode provides format decoders for the chime engine.
//
// Supports: OGG Vorbis, WAV, FLAC, MP3, Ogg Opus, and SPX containers.
//
// Every decoder implements the Source interface: a file-bound stream that is
// opened, optionally rewound, and read as interleaved little-endian PCM.
// Sources operate in one of two modes: ModeDisk reads the encoded file from
// disk on demand, ModeRAM holds the entire encoded file in memory once opened.
//
// Example:
//
//	src, err := decode.New("sfx/beep.ogg", audio.FormatOGG, decode.ModeDisk)
//	if err := src.Open(); err != nil { ... }
//	pcm, err := io.ReadAll(src)
package decode
