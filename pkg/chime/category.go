// ABOUTME: Sound category
// ABOUTME: Named group carrying a shared gain with fade and the buffer policy
package chime

// Category is a named group of sounds sharing a gain and a buffer policy.
// Categories live as long as their manager.
type Category struct {
	mgr        *Manager
	name       string
	bufferMode BufferMode
	sourceMode SourceMode

	gain       float64
	fadeTarget float64 // negative when no fade is pending
	fadeSpeed  float64
	fadeTime   float64
}

func newCategory(mgr *Manager, name string, bufferMode BufferMode, sourceMode SourceMode) *Category {
	return &Category{
		mgr:        mgr,
		name:       name,
		bufferMode: bufferMode,
		sourceMode: sourceMode,
		gain:       1.0,
		fadeTarget: -1.0,
	}
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// BufferMode returns the load policy for the category's sounds.
func (c *Category) BufferMode() BufferMode { return c.bufferMode }

// SourceMode returns the decoder access mode for the category's sounds.
func (c *Category) SourceMode() SourceMode { return c.sourceMode }

func (c *Category) isStreamed() bool { return c.bufferMode == BufferModeStreamed }

// Gain returns the category gain.
func (c *Category) Gain() float64 {
	c.mgr.mu.Lock()
	defer c.mgr.mu.Unlock()
	return c.gain
}

// SetGain sets the category gain, clamped to [0, 1], cancelling any fade.
func (c *Category) SetGain(value float64) {
	c.mgr.mu.Lock()
	defer c.mgr.mu.Unlock()
	c.gain = clampGain(value)
	c.fadeTarget = -1.0
	c.fadeSpeed = 0
	c.fadeTime = 0
	for _, p := range c.mgr.players {
		if p.sound.category == c {
			p.pushGain()
		}
	}
}

// FadeGain fades the category gain to target over the given seconds.
// A non-positive duration sets the gain immediately.
func (c *Category) FadeGain(target float64, seconds float64) {
	c.mgr.mu.Lock()
	defer c.mgr.mu.Unlock()
	if seconds <= 0 {
		c.gain = clampGain(target)
		c.fadeTarget = -1.0
		c.fadeSpeed = 0
		c.fadeTime = 0
		return
	}
	c.fadeTarget = clampGain(target)
	c.fadeTime = 0
	c.fadeSpeed = 1.0 / seconds
}

// IsFading reports whether a gain fade is in progress.
func (c *Category) IsFading() bool {
	c.mgr.mu.Lock()
	defer c.mgr.mu.Unlock()
	return c.isFading()
}

func (c *Category) isFading() bool {
	return c.fadeTarget >= 0 && c.fadeSpeed > 0
}

// effectiveGain interpolates toward the fade target while fading.
func (c *Category) effectiveGain() float64 {
	result := c.gain
	if c.isFading() {
		result += (c.fadeTarget - c.gain) * c.fadeTime
	}
	return result
}

func (c *Category) update(dt float64) {
	if !c.isFading() {
		return
	}
	c.fadeTime += c.fadeSpeed * dt
	if c.fadeTime >= 1.0 {
		c.gain = c.fadeTarget
		c.fadeTarget = -1.0
		c.fadeSpeed = 0
		c.fadeTime = 0
	}
}

func clampGain(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
