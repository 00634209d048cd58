package page

import "sync"

// ScrollThreshold is the scroll offset past which the navigation bar turns solid.
const ScrollThreshold = 50

// NavState is what the navigation bar renders from.
type NavState struct {
	Scrolled bool `json:"scrolled"`
	MenuOpen bool `json:"menu_open"`
}

// Nav tracks the navigation bar's scroll styling and mobile menu.
type Nav struct {
	mu    sync.Mutex
	state NavState
}

// Scroll records the page offset and reports whether the state changed.
func (n *Nav) Scroll(y float64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	scrolled := y > ScrollThreshold
	if scrolled == n.state.Scrolled {
		return false
	}
	n.state.Scrolled = scrolled
	return true
}

// SetMenu opens or closes the mobile menu and reports whether it changed.
func (n *Nav) SetMenu(open bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if open == n.state.MenuOpen {
		return false
	}
	n.state.MenuOpen = open
	return true
}

// State returns the current navigation state.
func (n *Nav) State() NavState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}
