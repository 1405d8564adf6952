// Package workflow holds the shared transition-table helper driving every
// status field in the system. A status only ever advances along a declared
// edge; anything else is rejected before a write happens.
package workflow

// Transitions maps a status to the set of statuses it may move to. A status
// absent from the map (or with an empty set) is terminal.
type Transitions map[string][]string

// Can reports whether from -> to is a declared transition.
func (t Transitions) Can(from, to string) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status has no outgoing transitions.
func (t Transitions) Terminal(status string) bool {
	return len(t[status]) == 0
}
