// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines container Format, PCM format and sample conversion functions
// Package audio provides fundamental audio types and utilities for the chime engine.
//
// This package defines core types used throughout the library:
//   - Format: Identifies the container format of a sound asset (OGG, WAV, FLAC, ...)
//   - PCM: Describes a decoded PCM stream (channels, sample rate, bit depth)
//
// It also provides utilities for converting between sample representations:
//   - float32 → int16 conversion
//   - int16 ↔ little-endian byte conversions
//
// Example:
//
//	format := audio.FormatForFilename("sfx/beep.ogg") // audio.FormatOGG
//	pcm := audio.PCM{Channels: 2, SampleRate: 44100, BitsPerSample: 16}
//	bytes := pcm.SecondsToBytes(0.5)
package audio
