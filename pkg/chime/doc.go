// ABOUTME: Engine core package
// ABOUTME: Manager, Category, Sound, Buffer, Player and the async loader
// Package chime is a cross-backend audio playback engine.
//
// A Manager owns named sound assets grouped into gain categories, decodes
// them from several container formats, and plays them through a host audio
// driver. Per-sound, per-category, and global gain, looping, pausing,
// fading, and suspend/resume are driven by a periodic update tick, either on
// the manager's own goroutine or by the host.
//
// Example:
//
//	mgr, err := chime.New(chime.Options{Backend: chime.BackendDefault, Threaded: true})
//	if err != nil { ... }
//	defer mgr.Close()
//
//	mgr.CreateCategory("sfx", chime.BufferModeFull, chime.SourceModeRAM)
//	if _, err := mgr.CreateSound("assets/beep.ogg", "sfx", ""); err != nil { ... }
//	mgr.Play("beep", 0.2, false, 1.0)
package chime
