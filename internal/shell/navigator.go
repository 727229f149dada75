// Package shell holds the navigation and refresh state of an interactive
// ledger client, independent of how it is drawn.
package shell

import "household-ledger/internal/session"

// Tab names a screen of the client.
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabHistory   Tab = "history"
	TabReports   Tab = "reports"
	TabMembers   Tab = "members"
)

// Gesture thresholds in pixels, or cells for terminal clients.
const (
	SwipeThreshold = 50
	PullThreshold  = 80
)

// Navigator tracks the active tab. The available tabs follow the session
// role: members only appears for admins.
type Navigator struct {
	tabs   []Tab
	active Tab
}

// NewNavigator starts on the dashboard with the tabs sess may use.
func NewNavigator(sess *session.Session) *Navigator {
	n := &Navigator{active: TabDashboard}
	n.SetSession(sess)
	return n
}

// AvailableTabs returns the tabs for sess in display order.
func AvailableTabs(sess *session.Session) []Tab {
	tabs := []Tab{TabDashboard, TabHistory, TabReports}
	if sess.IsAdmin() {
		tabs = append(tabs, TabMembers)
	}
	return tabs
}

// SetSession recomputes the tab set. If the active tab is no longer
// available the dashboard becomes active.
func (n *Navigator) SetSession(sess *session.Session) {
	n.tabs = AvailableTabs(sess)
	if n.index(n.active) < 0 {
		n.active = TabDashboard
	}
}

// Tabs returns a copy of the available tabs.
func (n *Navigator) Tabs() []Tab {
	out := make([]Tab, len(n.tabs))
	copy(out, n.tabs)
	return out
}

func (n *Navigator) Active() Tab {
	return n.active
}

// Select activates tab. It reports false and changes nothing when tab is
// not available.
func (n *Navigator) Select(tab Tab) bool {
	if n.index(tab) < 0 {
		return false
	}
	n.active = tab
	return true
}

// Next moves one tab right. It stops at the last tab.
func (n *Navigator) Next() bool {
	return n.move(1)
}

// Previous moves one tab left. It stops at the first tab.
func (n *Navigator) Previous() bool {
	return n.move(-1)
}

// Swipe handles a horizontal gesture of dx. Swiping left (negative dx)
// past SwipeThreshold shows the next tab, swiping right the previous one.
// It reports whether the active tab changed.
func (n *Navigator) Swipe(dx float64) bool {
	switch {
	case dx <= -SwipeThreshold:
		return n.Next()
	case dx >= SwipeThreshold:
		return n.Previous()
	default:
		return false
	}
}

// Pull reports whether a downward gesture of dy should trigger a refresh.
// Only pulls that start with the view scrolled to the top count.
func (n *Navigator) Pull(dy float64, atTop bool) bool {
	return atTop && dy >= PullThreshold
}

func (n *Navigator) move(step int) bool {
	i := n.index(n.active) + step
	if i < 0 || i >= len(n.tabs) {
		return false
	}
	n.active = n.tabs[i]
	return true
}

func (n *Navigator) index(tab Tab) int {
	for i, t := range n.tabs {
		if t == tab {
			return i
		}
	}
	return -1
}
