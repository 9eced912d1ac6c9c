// Package display provides scene output with hardware abstraction.
// Callers describe what to show as a Scene; implementations decide how to
// draw it. The real implementation drives an SSD1306 OLED over I2C.
package display

import "strings"

// Panel geometry of the 128x64 OLED. Scene coordinates use this space.
const (
	Width  = 128
	Height = 64
)

// Text is a line of text whose top-left corner is at (X, Y).
// Scale 2 doubles the glyph size.
type Text struct {
	X, Y  int
	Scale int
	Value string
}

// Rule is a horizontal line.
type Rule struct {
	X, Y, W int
}

// Bar is a progress bar: an outline W x H with Fill pixels filled from the left.
type Bar struct {
	X, Y, W, H int
	Fill       int
}

// Scene is the complete content of one frame.
type Scene struct {
	// Name identifies the scene for logs and tests, e.g. "measurements".
	Name  string
	Texts []Text
	Rules []Rule
	Bars  []Bar
}

// Lines returns the scene's text values in order.
func (s Scene) Lines() []string {
	out := make([]string, 0, len(s.Texts))
	for _, t := range s.Texts {
		out = append(out, t.Value)
	}
	return out
}

// String joins the scene's text with " | ".
func (s Scene) String() string {
	return strings.Join(s.Lines(), " | ")
}

// Display renders scenes and controls panel power.
type Display interface {
	// Render replaces the frame with the scene.
	Render(scene Scene) error

	// Power switches the panel on or off. The frame is kept while off.
	Power(on bool) error

	// Close blanks the panel and releases resources.
	Close() error
}
