// ABOUTME: Tests for the linear resampler
// ABOUTME: Covers identity, upsampling and downsampling ratios
package resample

import (
	"testing"

	chimeaudio "github.com/Chime-Audio/chime-go/pkg/audio"
)

func pcmBytes(samples []int16) []byte {
	var out []byte
	for _, s := range samples {
		out = chimeaudio.AppendInt16LE(out, s)
	}
	return out
}

func TestConvertIdentity(t *testing.T) {
	r := New(44100, 44100, 1)
	in := pcmBytes([]int16{1, 2, 3, 4})
	out := r.Convert(in)
	if len(out) != len(in) {
		t.Fatalf("identity conversion changed size: %d -> %d", len(in), len(out))
	}
}

func TestConvertUpsampleDoublesFrames(t *testing.T) {
	r := New(4000, 8000, 1)
	in := pcmBytes([]int16{0, 100, 200, 300})
	out := r.Convert(in)
	if len(out) != len(in)*2 {
		t.Fatalf("expected %d bytes, got %d", len(in)*2, len(out))
	}
	// interpolated midpoint between 0 and 100
	if got := chimeaudio.Int16LE(out[2:]); got != 50 {
		t.Errorf("interpolated sample = %d, want 50", got)
	}
}

func TestConvertDownsampleHalvesFrames(t *testing.T) {
	r := New(8000, 4000, 2)
	in := pcmBytes([]int16{0, 0, 100, 100, 200, 200, 300, 300})
	out := r.Convert(in)
	if len(out) != len(in)/2 {
		t.Fatalf("expected %d bytes, got %d", len(in)/2, len(out))
	}
}

func TestConvertEmpty(t *testing.T) {
	r := New(8000, 4000, 2)
	if out := r.Convert(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(out))
	}
}
