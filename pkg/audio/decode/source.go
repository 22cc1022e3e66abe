// ABOUTME: Source interface and the encoded byte stream shared by decoders
// ABOUTME: Handles disk versus RAM access to the encoded file
package decode

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Chime-Audio/chime-go/pkg/audio"
)

// Mode selects how a source accesses its encoded file.
type Mode int

const (
	// ModeDisk reads the encoded file from disk on demand.
	ModeDisk Mode = iota
	// ModeRAM holds the entire encoded file in memory once opened.
	ModeRAM
)

// Source is a format decoder bound to one encoded file. PCM is read through
// the io.Reader side as interleaved little-endian samples; metadata is valid
// after Open.
type Source interface {
	io.Reader

	// Open opens the encoded stream and parses the format header.
	Open() error
	// Close releases the decoder and the underlying byte stream.
	Close() error
	// Rewind repositions the decoder at the first PCM frame.
	Rewind() error

	// Filename returns the bound file's path.
	Filename() string
	// PCMFormat returns the decoded stream format. Valid after Open.
	PCMFormat() audio.PCM
	// Size returns the total decoded PCM size in bytes, 0 when unknown.
	Size() int
	// Duration returns the decoded duration in seconds, 0 when unknown.
	Duration() float64
}

// byteStream provides the encoded bytes behind a source, honoring Mode.
type byteStream struct {
	filename string
	mode     Mode
	file     *os.File
	ram      []byte
	r        io.ReadSeeker
}

func (b *byteStream) open() error {
	if b.r != nil {
		return nil
	}
	if b.mode == ModeRAM {
		data, err := os.ReadFile(b.filename)
		if err != nil {
			return fmt.Errorf("reading %s: %w", b.filename, err)
		}
		b.ram = data
		b.r = bytes.NewReader(data)
		return nil
	}
	f, err := os.Open(b.filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", b.filename, err)
	}
	b.file = f
	b.r = f
	return nil
}

func (b *byteStream) rewind() error {
	if b.r == nil {
		return fmt.Errorf("%s: stream not open", b.filename)
	}
	_, err := b.r.Seek(0, io.SeekStart)
	return err
}

func (b *byteStream) close() error {
	b.r = nil
	b.ram = nil
	if b.file != nil {
		err := b.file.Close()
		b.file = nil
		return err
	}
	return nil
}
