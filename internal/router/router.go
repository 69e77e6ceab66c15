package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/screen"
)

// NavigateMsg asks the router to show the screen for Location. Replace
// swaps the active screen instead of pushing; Reset clears the stack first.
type NavigateMsg struct {
	Location string
	Replace  bool
	Reset    bool
}

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
type PopScreenMsg struct{}

// ReplaceScreenMsg requests the router to swap the active screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Navigate returns a command that pushes the screen for location.
func Navigate(location string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Location: location} }
}

// Redirect returns a command that replaces the active screen with the
// screen for location.
func Redirect(location string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Location: location, Replace: true} }
}

// Reset returns a command that clears the stack and shows location.
func Reset(location string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Location: location, Reset: true} }
}

// Resolver builds the screen for a location. It must return a screen for
// every location, including unmatched ones.
type Resolver func(location string) screen.Screen

type entry struct {
	location string
	screen   screen.Screen
}

// Router manages a stack of screens and the location each was opened at.
type Router struct {
	resolve Resolver
	stack   []entry
}

// New creates a Router showing the screen for location.
func New(resolve Resolver, location string) *Router {
	return &Router{
		resolve: resolve,
		stack:   []entry{{location: location, screen: resolve(location)}},
	}
}

// Init runs the initial screen's Init.
func (r *Router) Init() tea.Cmd {
	if active := r.Active(); active != nil {
		return active.Init()
	}
	return nil
}

// Navigate shows the screen for location.
func (r *Router) Navigate(msg NavigateMsg) tea.Cmd {
	s := r.resolve(msg.Location)
	switch {
	case msg.Reset:
		r.stack = []entry{{location: msg.Location, screen: s}}
		return s.Init()
	case msg.Replace:
		return r.replace(msg.Location, s)
	default:
		return r.push(msg.Location, s)
	}
}

// Push adds a screen on top of the stack at the current location.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	return r.push(r.Location(), s)
}

func (r *Router) push(location string, s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, entry{location: location, screen: s})
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the active screen, keeping its location.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	return r.replace(r.Location(), s)
}

func (r *Router) replace(location string, s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.push(location, s)
	}
	r.stack[len(r.stack)-1] = entry{location: location, screen: s}
	return s.Init()
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1].screen
}

// Location returns the location of the active screen.
func (r *Router) Location() string {
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1].location
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NavigateMsg:
		return r.Navigate(msg)
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1].screen = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
