// ABOUTME: SPX source
// ABOUTME: Reads .spx Ogg containers, decoding Vorbis payloads
package decode

// The Go ecosystem has no Speex decoder. SPX assets are read through the Ogg
// container path: Vorbis payloads (common in re-encoding pipelines that keep
// the .spx name) decode normally, genuine Speex payloads fail at Open and the
// engine downgrades the sound to a logged no-op.
func newSPX(filename string, mode Mode) *vorbisSource {
	s := newVorbis(filename, mode)
	s.container = "spx"
	return s
}
