// ABOUTME: No-op backend
// ABOUTME: Accepts every call and reports silence, so host code keeps working
package backend

// DisabledSystem is the no-op driver: every operation succeeds, playback
// reports stopped, queries return zero.
type DisabledSystem struct{}

// NewDisabled creates the no-op driver.
func NewDisabled() *DisabledSystem {
	return &DisabledSystem{}
}

func (s *DisabledSystem) Kind() string        { return "disabled" }
func (s *DisabledSystem) NewVoice(Feed) Voice { return disabledVoice{} }
func (s *DisabledSystem) Suspend()            {}
func (s *DisabledSystem) Resume()             {}
func (s *DisabledSystem) Update()             {}
func (s *DisabledSystem) Close() error        { return nil }

type disabledVoice struct{}

func (disabledVoice) PreparePlay() error                  { return nil }
func (disabledVoice) PrepareBuffer(bool)                  {}
func (disabledVoice) UpdateGain(float64)                  {}
func (disabledVoice) UpdatePitch(float64)                 {}
func (disabledVoice) Play() error                         { return nil }
func (disabledVoice) Stop(bool) int                       { return 0 }
func (disabledVoice) UpdateNormal(float64)                {}
func (disabledVoice) UpdateStream(float64) int            { return 0 }
func (disabledVoice) IsPlaying() bool                     { return false }
func (disabledVoice) BufferPosition() int                 { return 0 }
func (disabledVoice) NeedsStreamPositionCorrection() bool { return false }
