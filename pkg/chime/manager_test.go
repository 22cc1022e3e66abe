// ABOUTME: End-to-end manager scenarios
// ABOUTME: Fade lifecycles, counts, destroy guards, suspend/resume, registry behavior
package chime

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"
)

const tick = 0.01

func TestFadeInAndAutoReclaim(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "beep.wav", 44100, 0.5)
	if _, err := m.CreateSound(path, "sfx", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}
	if err := m.Play("beep", 0.2, false, 1.0); err != nil {
		t.Fatalf("playing: %v", err)
	}

	advance(m, tick, 5) // t = 0.05
	if got := m.FadingInCount("beep"); got != 1 {
		t.Errorf("at 0.05s: FadingInCount = %d, want 1", got)
	}

	advance(m, tick, 20) // t = 0.25
	if got := m.PlayingCount("beep"); got != 1 {
		t.Errorf("at 0.25s: PlayingCount = %d, want 1", got)
	}
	if got := m.FadingInCount("beep"); got != 0 {
		t.Errorf("at 0.25s: FadingInCount = %d, want 0", got)
	}

	advance(m, tick, 30) // t = 0.55, past the 0.5s duration
	if got := m.PlayingCount("beep"); got != 0 {
		t.Errorf("at 0.55s: PlayingCount = %d, want 0", got)
	}
	if got := m.FadingCount("beep"); got != 0 {
		t.Errorf("at 0.55s: FadingCount = %d, want 0", got)
	}
	if len(m.managed) != 0 {
		t.Errorf("managed player not reclaimed: %d left", len(m.managed))
	}
	if len(m.players) != 0 {
		t.Errorf("player list not empty: %d left", len(m.players))
	}
}

func TestStopWithFade(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "beep.wav", 44100, 0.5)
	if _, err := m.CreateSound(path, "sfx", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}
	if err := m.Play("beep", 0, true, 1.0); err != nil {
		t.Fatalf("playing: %v", err)
	}

	advance(m, tick, 10) // t = 0.1
	if got := m.PlayingCount("beep"); got != 1 {
		t.Fatalf("at 0.1s: PlayingCount = %d, want 1", got)
	}

	m.StopSound("beep", 0.2)
	advance(m, tick, 10) // 0.1s into the fade
	if got := m.FadingOutCount("beep"); got != 1 {
		t.Errorf("mid-fade: FadingOutCount = %d, want 1", got)
	}

	advance(m, tick, 25) // fade has completed
	if got := m.PlayingCount("beep") + m.FadingCount("beep"); got != 0 {
		t.Errorf("after fade-out: counts sum = %d, want 0", got)
	}
	if len(m.managed) != 0 {
		t.Errorf("managed player not reclaimed")
	}
}

func TestManualPlayerDestroyGuard(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "m.wav", 8000, 0.1)
	sound, err := m.CreateSound(path, "sfx", "")
	if err != nil {
		t.Fatalf("creating sound: %v", err)
	}

	p, err := m.CreatePlayer("m")
	if err != nil {
		t.Fatalf("creating player: %v", err)
	}

	err = m.DestroySound(sound)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if !strings.Contains(err.Error(), "m") {
		t.Errorf("error does not name the sound: %v", err)
	}

	m.DestroyPlayer(p)
	if err := m.DestroySound(sound); err != nil {
		t.Fatalf("destroy after player removal failed: %v", err)
	}
	if _, err := m.Sound("m"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after destroy, got %v", err)
	}
}

func TestGlobalFadeComposes(t *testing.T) {
	m, sys := newTestManager(t)
	cat := m.CreateCategory("music", BufferModeFull, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "pad.wav", 44100, 2.0)
	if _, err := m.CreateSound(path, "music", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}

	cat.SetGain(0.5)
	p, err := m.CreatePlayer("pad")
	if err != nil {
		t.Fatalf("creating player: %v", err)
	}
	p.SetGain(0.5)
	if err := p.Play(0, true); err != nil {
		t.Fatalf("playing: %v", err)
	}

	voice := sys.lastVoice()
	if math.Abs(voice.gain-0.25) > 1e-9 {
		t.Fatalf("effective gain = %f, want 0.25", voice.gain)
	}

	m.FadeGlobalGain(0, 1.0)
	advance(m, tick, 50) // t = 0.5 into the fade
	if got := m.GlobalGain(); math.Abs(got-0.5) > 0.02 {
		t.Errorf("global effective gain = %f, want 0.5", got)
	}
	if math.Abs(voice.gain-0.125) > 0.005 {
		t.Errorf("player effective gain = %f, want 0.125", voice.gain)
	}
}

func TestStreamingWrap(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("stream", BufferModeStreamed, SourceModeDisk)
	path := writeWAV(t, t.TempDir(), "loop.wav", 44100, 1.0)
	if _, err := m.CreateSound(path, "stream", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}
	if err := m.Play("loop", 0, true, 1.0); err != nil {
		t.Fatalf("playing: %v", err)
	}
	if len(m.managed) != 1 {
		t.Fatalf("expected one managed player")
	}
	p := m.managed[0]

	advance(m, tick, 50) // t = 0.5
	want := 22050
	if got := p.SampleOffset(); int(math.Abs(float64(got-want))) > 1500 {
		t.Errorf("at 0.5s: SampleOffset = %d, want ≈ %d", got, want)
	}

	advance(m, tick, 70) // t = 1.2, wrapped past the 1.0s duration
	want = 8820
	if got := p.SampleOffset(); int(math.Abs(float64(got-want))) > 1500 {
		t.Errorf("at 1.2s: SampleOffset = %d, want ≈ %d", got, want)
	}
}

func TestSuspendResume(t *testing.T) {
	m, sys := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	dir := t.TempDir()
	p1path := writeWAV(t, dir, "one.wav", 44100, 2.0)
	p2path := writeWAV(t, dir, "two.wav", 44100, 2.0)
	if _, err := m.CreateSound(p1path, "sfx", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}
	if _, err := m.CreateSound(p2path, "sfx", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}
	if err := m.Play("one", 0, true, 1.0); err != nil {
		t.Fatalf("playing: %v", err)
	}
	if err := m.Play("two", 0, true, 1.0); err != nil {
		t.Fatalf("playing: %v", err)
	}

	advance(m, tick, 20)
	if m.PlayingCount("one") != 1 || m.PlayingCount("two") != 1 {
		t.Fatal("both sounds should be playing before suspend")
	}
	one, two := m.managed[0], m.managed[1]
	offsetOne := one.SampleOffset()
	offsetTwo := two.SampleOffset()

	m.SuspendAudio()
	if sys.suspends != 1 {
		t.Errorf("backend suspend not called")
	}
	if one.IsPlaying() || two.IsPlaying() {
		t.Error("players must report not-playing while suspended")
	}
	// plays are no-ops while suspended
	if err := m.Play("one", 0, false, 1.0); err != nil {
		t.Errorf("play while suspended errored: %v", err)
	}
	if len(m.managed) != 2 {
		t.Errorf("play while suspended spawned a player")
	}

	m.ResumeAudio()
	if sys.resumes != 1 {
		t.Errorf("backend resume not called")
	}
	advance(m, tick, 5)
	if !one.IsPlaying() || !two.IsPlaying() {
		t.Error("players must resume after ResumeAudio")
	}
	if got := one.SampleOffset(); got < offsetOne {
		t.Errorf("sound one resumed at %d, before suspend offset %d", got, offsetOne)
	}
	if got := two.SampleOffset(); got < offsetTwo {
		t.Errorf("sound two resumed at %d, before suspend offset %d", got, offsetTwo)
	}
}

func TestCreateSoundErrors(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.CreateSound("x.wav", "nope", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing category: got %v, want ErrNotFound", err)
	}

	m.CreateCategory("sfx", BufferModeLazy, SourceModeDisk)
	if _, err := m.CreateSound("x.xyz", "sfx", ""); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown extension: got %v, want ErrUnknownFormat", err)
	}

	path := writeWAV(t, t.TempDir(), "dup.wav", 8000, 0.1)
	if _, err := m.CreateSound(path, "sfx", ""); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := m.CreateSound(path, "sfx", ""); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate name: got %v, want ErrExists", err)
	}
}

func TestCreateSoundLazyFileNeedNotExist(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeLazy, SourceModeDisk)
	sound, err := m.CreateSound("ghost.wav", "sfx", "")
	if err != nil {
		t.Fatalf("lazy sound on a missing file failed: %v", err)
	}
	if sound.Name() != "ghost" {
		t.Errorf("name = %q", sound.Name())
	}
}

func TestSoundRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "rt.wav", 44100, 0.25)

	first, err := m.CreateSound(path, "sfx", "ui_")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	name, size, duration := first.Name(), first.Size(), first.Duration()
	if err := m.DestroySound(first); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	second, err := m.CreateSound(path, "sfx", "ui_")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.Name() != name || second.Size() != size || second.Duration() != duration {
		t.Errorf("round trip mismatch: %q/%d/%f vs %q/%d/%f",
			second.Name(), second.Size(), second.Duration(), name, size, duration)
	}
}

func TestFileResolutionWithoutExtension(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	dir := t.TempDir()
	writeWAV(t, dir, "ping.wav", 8000, 0.1)

	sound, err := m.CreateSound(dir+"/ping", "sfx", "")
	if err != nil {
		t.Fatalf("extensionless create failed: %v", err)
	}
	if sound.Name() != "ping" {
		t.Errorf("name = %q, want ping", sound.Name())
	}
	if !sound.IsLoaded() {
		t.Error("Full-mode sound should be loaded at creation")
	}
}

func TestFileResolutionWrongExtension(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	dir := t.TempDir()
	writeWAV(t, dir, "ping.wav", 8000, 0.1)

	// .ogg is asked for, only the .wav exists: stripping the extension finds it
	sound, err := m.CreateSound(dir+"/ping.ogg", "sfx", "")
	if err != nil {
		t.Fatalf("resolution with wrong extension failed: %v", err)
	}
	if !sound.IsLoaded() {
		t.Error("resolved sound should be loaded")
	}
}

func TestCreateSoundsFromPathPerSubdirectory(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	sub1 := dir + "/music"
	sub2 := dir + "/effects"
	for _, d := range []string{sub1, sub2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeWAV(t, sub1, "theme.wav", 8000, 0.1)
	writeWAV(t, sub2, "hit.wav", 8000, 0.1)

	names, err := m.CreateSoundsFromPath(dir, "", "")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("registered %d sounds, want 2: %v", len(names), names)
	}
	if !m.HasCategory("music") || !m.HasCategory("effects") {
		t.Error("subdirectory categories missing")
	}
	if !m.HasSound("theme") || !m.HasSound("hit") {
		t.Error("scanned sounds missing")
	}
}

func TestDestroySoundsWithPrefix(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	dir := t.TempDir()
	a := writeWAV(t, dir, "a.wav", 8000, 0.1)
	b := writeWAV(t, dir, "b.wav", 8000, 0.1)
	if _, err := m.CreateSound(a, "sfx", "ui_"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateSound(b, "sfx", "ui_"); err != nil {
		t.Fatal(err)
	}

	p, err := m.CreatePlayer("ui_a")
	if err != nil {
		t.Fatal(err)
	}
	err = m.DestroySoundsWithPrefix("ui_")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if !strings.Contains(err.Error(), "ui_a") {
		t.Errorf("error does not name the blocked sound: %v", err)
	}
	// the unblocked sound is gone, the blocked one stays
	if m.HasSound("ui_b") {
		t.Error("ui_b should have been destroyed")
	}
	if !m.HasSound("ui_a") {
		t.Error("ui_a should have survived")
	}

	m.DestroyPlayer(p)
	if err := m.DestroySoundsWithPrefix("ui_"); err != nil {
		t.Fatalf("second destroy failed: %v", err)
	}
}

func TestPlayUnknownSound(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.Play("nope", 0, false, 1.0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStopAllIncludesManualPlayers(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "s.wav", 44100, 2.0)
	if _, err := m.CreateSound(path, "sfx", ""); err != nil {
		t.Fatal(err)
	}
	manual, err := m.CreatePlayer("s")
	if err != nil {
		t.Fatal(err)
	}
	if err := manual.Play(0, true); err != nil {
		t.Fatal(err)
	}
	if err := m.Play("s", 0, true, 1.0); err != nil {
		t.Fatal(err)
	}

	m.StopAll(0)
	if manual.IsPlaying() {
		t.Error("manual player still playing after StopAll")
	}
	if len(m.managed) != 0 {
		t.Error("managed players not destroyed by StopAll(0)")
	}
	// the manual player survives StopAll; only playback stops
	if len(m.players) != 1 {
		t.Errorf("manual player destroyed by StopAll: %d players", len(m.players))
	}
}

func TestStopCategory(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("music", BufferModeFull, SourceModeRAM)
	m.CreateCategory("sfx", BufferModeFull, SourceModeRAM)
	dir := t.TempDir()
	mp := writeWAV(t, dir, "song.wav", 44100, 2.0)
	sp := writeWAV(t, dir, "blip.wav", 44100, 2.0)
	if _, err := m.CreateSound(mp, "music", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateSound(sp, "sfx", ""); err != nil {
		t.Fatal(err)
	}
	if err := m.Play("song", 0, true, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := m.Play("blip", 0, true, 1.0); err != nil {
		t.Fatal(err)
	}

	if err := m.StopCategory("music", 0); err != nil {
		t.Fatal(err)
	}
	if m.PlayingCount("song") != 0 {
		t.Error("music category still playing")
	}
	if m.PlayingCount("blip") != 1 {
		t.Error("sfx category should be untouched")
	}
	if err := m.StopCategory("ghost", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAsyncBufferLoadsInBackground(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("bg", BufferModeAsync, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "async.wav", 44100, 0.5)
	sound, err := m.CreateSound(path, "bg", "")
	if err != nil {
		t.Fatalf("creating sound: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !sound.IsLoaded() && time.Now().Before(deadline) {
		m.Update(tick)
		time.Sleep(time.Millisecond)
	}
	if !sound.IsLoaded() {
		t.Fatal("async buffer never loaded")
	}
	if sound.Size() != 44100 {
		t.Errorf("Size = %d, want 44100", sound.Size())
	}
}

func TestPlayAsyncStartsAfterLoad(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateCategory("bg", BufferModeLazy, SourceModeRAM)
	path := writeWAV(t, t.TempDir(), "later.wav", 44100, 0.5)
	if _, err := m.CreateSound(path, "bg", ""); err != nil {
		t.Fatalf("creating sound: %v", err)
	}
	if err := m.PlayAsync("later", 0, false, 1.0); err != nil {
		t.Fatalf("PlayAsync: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.PlayingCount("later") == 0 && time.Now().Before(deadline) {
		m.Update(tick)
		time.Sleep(time.Millisecond)
	}
	if m.PlayingCount("later") != 1 {
		t.Fatal("async play never started")
	}
}

func TestGainClamping(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetGlobalGain(2.5)
	if got := m.GlobalGain(); got != 1.0 {
		t.Errorf("global gain = %f, want clamp to 1", got)
	}
	m.SetGlobalGain(-1)
	if got := m.GlobalGain(); got != 0.0 {
		t.Errorf("global gain = %f, want clamp to 0", got)
	}
}
