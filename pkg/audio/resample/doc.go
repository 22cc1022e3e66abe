// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts 16-bit PCM between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling of interleaved 16-bit PCM.
//
// Example:
//
//	r := resample.New(22050, 44100, 2)
//	converted := r.Convert(pcmBytes)
package resample
