package display

// Fake records rendered scenes and power changes for test assertions.
type Fake struct {
	// Scenes contains every rendered scene, in order.
	Scenes []Scene

	// PowerCalls contains the argument of every Power call, in order.
	PowerCalls []bool

	// On is the current panel power state.
	On bool

	// RenderError, if set, will be returned by Render.
	RenderError error

	// PowerError, if set, will be returned by Power.
	PowerError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFake creates a Fake with the panel on.
func NewFake() *Fake {
	return &Fake{On: true}
}

// Render records the scene.
func (f *Fake) Render(scene Scene) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	f.Scenes = append(f.Scenes, scene)
	return nil
}

// Power records the power change.
func (f *Fake) Power(on bool) error {
	if f.PowerError != nil {
		return f.PowerError
	}
	f.PowerCalls = append(f.PowerCalls, on)
	f.On = on
	return nil
}

// Close marks the display as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently rendered scene, or a zero Scene.
func (f *Fake) Last() Scene {
	if len(f.Scenes) == 0 {
		return Scene{}
	}
	return f.Scenes[len(f.Scenes)-1]
}

// Names returns the names of all rendered scenes.
func (f *Fake) Names() []string {
	out := make([]string, len(f.Scenes))
	for i, s := range f.Scenes {
		out[i] = s.Name
	}
	return out
}

// Reset clears recorded scenes and power calls.
func (f *Fake) Reset() {
	f.Scenes = nil
	f.PowerCalls = nil
	f.RenderError = nil
	f.PowerError = nil
	f.Closed = false
}
