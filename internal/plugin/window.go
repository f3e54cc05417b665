package plugin

// Window is something the WindowSystem draws while it is open.
type Window interface {
	Title() string
	IsOpen() bool
	Draw(w Widgets)
}

// WindowSystem draws its open windows once per host frame.
type WindowSystem struct {
	name    string
	windows []Window
}

// NewWindowSystem creates an empty WindowSystem.
func NewWindowSystem(name string) *WindowSystem {
	return &WindowSystem{name: name}
}

// Name returns the window system name.
func (s *WindowSystem) Name() string { return s.name }

// AddWindow registers a window.
func (s *WindowSystem) AddWindow(w Window) {
	s.windows = append(s.windows, w)
}

// RemoveAllWindows unregisters every window.
func (s *WindowSystem) RemoveAllWindows() {
	s.windows = nil
}

// Windows returns the registered windows.
func (s *WindowSystem) Windows() []Window {
	return s.windows
}

// Draw draws every open window.
func (s *WindowSystem) Draw(w Widgets) {
	for _, win := range s.windows {
		if win.IsOpen() {
			w.Text(win.Title())
			win.Draw(w)
		}
	}
}
