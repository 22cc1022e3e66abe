// ABOUTME: Decoder dispatch
// ABOUTME: Selects a Source implementation per container format
package decode

import (
	"fmt"

	"github.com/Chime-Audio/chime-go/pkg/audio"
)

// New creates an unopened source for the given file and container format.
func New(filename string, format audio.Format, mode Mode) (Source, error) {
	switch format {
	case audio.FormatFLAC:
		return newFLAC(filename, mode), nil
	case audio.FormatMP3:
		return newMP3(filename, mode), nil
	case audio.FormatOGG:
		return newVorbis(filename, mode), nil
	case audio.FormatOpus:
		return newOpus(filename, mode), nil
	case audio.FormatSPX:
		return newSPX(filename, mode), nil
	case audio.FormatWAV:
		return newWAV(filename, mode), nil
	}
	return nil, fmt.Errorf("no decoder for format %s", format)
}
